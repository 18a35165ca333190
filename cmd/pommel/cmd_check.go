package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kinemetric/pommel/internal/models"
	"github.com/kinemetric/pommel/internal/taxonomy"
	"github.com/kinemetric/pommel/internal/validation"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Check routine and taxonomy files before classification",
		Long: `Check routine and taxonomy files against their schemas.

Files named taxonomy*.yaml are checked as taxonomy files; everything else
is checked as a routine file. Taxonomy files
are additionally compiled so rule and relation errors surface before a
classification run.`,
		Args:          cobra.MinimumNArgs(1),
		RunE:          runFileCheck,
		SilenceErrors: true,
	}
	cmd.Flags().String("format", "text", "Output format: text | json")
	return cmd
}

type fileCheckResult struct {
	Path   string   `json:"path"`
	Kind   string   `json:"kind"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

type fileCheckReport struct {
	Timestamp string            `json:"timestamp"`
	Files     []fileCheckResult `json:"files"`
}

func runFileCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: expected text or json", format)
	}

	var results []fileCheckResult
	failed := 0
	for _, path := range args {
		result := checkFile(path)
		if !result.Valid {
			failed++
		}
		results = append(results, result)
	}

	w := cmd.OutOrStdout()
	if format == "json" {
		report := fileCheckReport{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Files:     results,
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
	} else {
		for _, r := range results {
			status := "ok"
			if !r.Valid {
				status = "FAIL"
			}
			fmt.Fprintf(w, "%-4s  %s (%s)\n", status, r.Path, r.Kind) //nolint:errcheck
			for _, e := range r.Errors {
				fmt.Fprintf(w, "      %s\n", e) //nolint:errcheck
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", failed, len(results))
	}
	return nil
}

func checkFile(path string) fileCheckResult {
	kind := "routine"
	if looksLikeTaxonomy(path) {
		kind = "taxonomy"
	}
	result := fileCheckResult{Path: path, Kind: kind}

	var schemaErrs []string
	var err error
	if kind == "taxonomy" {
		schemaErrs, err = validation.ValidateTaxonomyFile(path)
	} else {
		schemaErrs, err = validation.ValidateRoutineFile(path)
	}
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	result.Errors = append(result.Errors, schemaErrs...)
	if len(result.Errors) > 0 {
		return result
	}

	// Schema-valid files still need semantic checks.
	if kind == "taxonomy" {
		if _, err := taxonomy.Load(path); err != nil {
			result.Errors = append(result.Errors, err.Error())
			return result
		}
	} else {
		routine, err := models.LoadRoutine(path)
		if err == nil {
			err = routine.Validate()
		}
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			return result
		}
	}

	result.Valid = true
	return result
}

// looksLikeTaxonomy decides the file kind from its name. Routine files are
// the common case, so only an explicit taxonomy prefix switches kinds.
func looksLikeTaxonomy(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return strings.HasPrefix(base, "taxonomy")
}
