package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/kinemetric/pommel/internal/models"
)

func newTaxonomyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Inspect the aesthetic concept taxonomy",
	}

	cmd.AddCommand(newTaxonomyListCommand())
	cmd.AddCommand(newTaxonomyShowCommand())

	return cmd
}

func newTaxonomyListCommand() *cobra.Command {
	var (
		taxonomyPath string
		axisFilter   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List concepts by axis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := resolveTaxonomy(taxonomyPath)
			if err != nil {
				return err
			}

			axes := models.AllAxes
			if axisFilter != "" {
				axis, err := models.ParseAxis(axisFilter)
				if err != nil {
					return err
				}
				axes = []models.Axis{axis}
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Taxonomy: %s\n\n", reg.Name()) //nolint:errcheck
			for _, axis := range axes {
				concepts := reg.Lookup(axis)
				if len(concepts) == 0 {
					continue
				}
				fmt.Fprintf(w, "%s\n", axis) //nolint:errcheck
				idWidth := 0
				for _, c := range concepts {
					if cw := runewidth.StringWidth(c.ID); cw > idWidth {
						idWidth = cw
					}
				}
				for _, c := range concepts {
					fmt.Fprintf(w, "  %s  %s (%d rules)\n", //nolint:errcheck
						runewidth.FillRight(c.ID, idWidth), c.Label, len(c.Rules))
				}
				fmt.Fprintln(w) //nolint:errcheck
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&taxonomyPath, "taxonomy", "t", "", "Taxonomy file (defaults to the built-in FIG taxonomy)")
	cmd.Flags().StringVar(&axisFilter, "axis", "", "Limit to one axis: element_group | zone | temporal_quality | form_descriptor")

	return cmd
}

func newTaxonomyShowCommand() *cobra.Command {
	var taxonomyPath string

	cmd := &cobra.Command{
		Use:   "show <concept-id>",
		Short: "Show a concept with its rules and relations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := resolveTaxonomy(taxonomyPath)
			if err != nil {
				return err
			}

			concept, ok := reg.Concept(args[0])
			if !ok {
				return fmt.Errorf("unknown concept %q", args[0])
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n", concept.ID)            //nolint:errcheck
			fmt.Fprintf(w, "  axis:  %s\n", concept.Axis) //nolint:errcheck
			fmt.Fprintf(w, "  label: %s\n", concept.Label) //nolint:errcheck

			if len(concept.Rules) > 0 {
				fmt.Fprintf(w, "  rules:\n") //nolint:errcheck
				for _, r := range concept.Rules {
					fmt.Fprintf(w, "    %s (%s, weight %.2f)\n", r.ID, r.Kind, r.Weight) //nolint:errcheck
				}
			}

			relations := reg.RelationsOf(concept.ID)
			if len(relations) > 0 {
				fmt.Fprintf(w, "  relations:\n") //nolint:errcheck
				for _, rel := range relations {
					other := rel.To
					if other == concept.ID {
						other = rel.From
					}
					fmt.Fprintf(w, "    %s %s\n", strings.ReplaceAll(string(rel.Kind), "-", " "), other) //nolint:errcheck
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&taxonomyPath, "taxonomy", "t", "", "Taxonomy file (defaults to the built-in FIG taxonomy)")

	return cmd
}
