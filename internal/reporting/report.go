// Package reporting renders assembled parameters for human and machine
// consumption.
package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/kinemetric/pommel/internal/models"
)

// RenderJSON writes the parameters as indented JSON. The encoding is stable:
// identical parameters produce identical bytes.
func RenderJSON(w io.Writer, params *models.AssembledParameters) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(params)
}

// RenderText writes a human-readable summary with aligned columns.
func RenderText(w io.Writer, params *models.AssembledParameters) {
	fmt.Fprintf(w, "Routine: %s\n\n", params.Routine)

	if len(params.Classifications) > 0 {
		fmt.Fprintln(w, "Classifications")
		rows := [][]string{{"ELEMENT", "AXIS", "CONCEPT", "CONF", "RULE"}}
		for _, cl := range params.Classifications {
			rows = append(rows, []string{
				cl.ElementID, string(cl.Axis), cl.ConceptID,
				fmt.Sprintf("%.2f", cl.Confidence), cl.RuleID,
			})
		}
		writeTable(w, rows)
		fmt.Fprintln(w)
	}

	if len(params.Facts) > 0 {
		fmt.Fprintln(w, "Facts")
		rows := [][]string{{"SCOPE", "NAME", "VALUE", "CONCEPT"}}
		for _, f := range params.Facts {
			scope := "routine"
			if f.ElementID != "" {
				scope = f.ElementID
			} else if f.Span != nil {
				scope = f.Span.FirstID + ".." + f.Span.LastID
			}
			value := fmt.Sprintf("%.4f", f.Value)
			if f.Null {
				value = "null"
			}
			rows = append(rows, []string{scope, f.Name, value, f.ConceptID})
		}
		writeTable(w, rows)
		fmt.Fprintln(w)
	}

	if len(params.Notes) > 0 {
		fmt.Fprintln(w, "Bridge notes")
		for _, n := range params.Notes {
			fmt.Fprintf(w, "  %s [%s]: kept %s (%s), dropped %s (%s)\n",
				n.ElementID, n.Axis, n.Kept.ConceptID, n.Kept.Source, n.Dropped.ConceptID, n.Dropped.Source)
		}
		fmt.Fprintln(w)
	}

	if len(params.Gaps) > 0 {
		fmt.Fprintf(w, "Unclassified: %d element/axis pairs\n", len(params.Gaps))
	}
}

// writeTable prints rows with columns padded to the widest cell, measured in
// display cells rather than bytes.
func writeTable(w io.Writer, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}
	for _, row := range rows {
		var b strings.Builder
		b.WriteString("  ")
		for i, cell := range row {
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			if i < len(row)-1 {
				b.WriteString("  ")
			}
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}
