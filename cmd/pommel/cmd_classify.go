package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kinemetric/pommel/internal/classify"
	"github.com/kinemetric/pommel/internal/engine"
	"github.com/kinemetric/pommel/internal/models"
	"github.com/kinemetric/pommel/internal/reporting"
	"github.com/kinemetric/pommel/internal/synthesis"
	"github.com/kinemetric/pommel/internal/taxonomy"
	"github.com/kinemetric/pommel/internal/validation"
)

func newClassifyCommand() *cobra.Command {
	var (
		taxonomyPath        string
		format              string
		style               string
		similarityThreshold float64
		idleThreshold       float64
		tempoWindow         float64
		showPrompt          bool
	)

	cmd := &cobra.Command{
		Use:   "classify <routine.yaml>",
		Short: "Classify a routine into aesthetic parameters",
		Long: `Classify a routine file into a full aesthetic parameter set.

The routine is classified against the taxonomy, analyzed for spatial,
temporal, and form qualities, and the results are assembled into one
consistent parameter set. Elements that cannot be classified on some axis
are reported but do not abort the run; the command exits 1 when any
element has missing data for an axis.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, args[0], classifyOptions{
				taxonomyPath:        taxonomyPath,
				format:              format,
				style:               style,
				similarityThreshold: similarityThreshold,
				idleThreshold:       idleThreshold,
				tempoWindow:         tempoWindow,
				showPrompt:          showPrompt,
			})
		},
	}

	cmd.Flags().StringVarP(&taxonomyPath, "taxonomy", "t", "", "Taxonomy file (defaults to the built-in FIG taxonomy)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text | json")
	cmd.Flags().StringVar(&style, "style", "technical", "Synthesis style for --prompt: technical | artistic | competitive")
	cmd.Flags().Float64Var(&similarityThreshold, "similarity-threshold", 0, "Trajectory pattern similarity threshold (0 = default)")
	cmd.Flags().Float64Var(&idleThreshold, "idle-threshold", 0, "Idle gap threshold in seconds (0 = default)")
	cmd.Flags().Float64Var(&tempoWindow, "tempo-window", 0, "Tempo window length in seconds (0 = default)")
	cmd.Flags().BoolVar(&showPrompt, "prompt", false, "Print the synthesis handoff prompt instead of the report")

	return cmd
}

type classifyOptions struct {
	taxonomyPath        string
	format              string
	style               string
	similarityThreshold float64
	idleThreshold       float64
	tempoWindow         float64
	showPrompt          bool
}

func runClassify(cmd *cobra.Command, routinePath string, opts classifyOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("invalid format %q: expected text or json", opts.format)
	}
	synthStyle, err := synthesis.ParseStyle(opts.style)
	if err != nil {
		return err
	}

	reg, err := resolveTaxonomy(opts.taxonomyPath)
	if err != nil {
		return err
	}

	if schemaErrs, err := validation.ValidateRoutineFile(routinePath); err != nil {
		return err
	} else if len(schemaErrs) > 0 {
		for _, e := range schemaErrs {
			fmt.Fprintf(cmd.ErrOrStderr(), "schema: %s\n", e) //nolint:errcheck
		}
		return fmt.Errorf("routine file %s failed schema validation", routinePath)
	}

	routine, err := models.LoadRoutine(routinePath)
	if err != nil {
		return err
	}

	var engineOpts []engine.Option
	if opts.similarityThreshold > 0 {
		engineOpts = append(engineOpts, engine.WithSimilarityThreshold(opts.similarityThreshold))
	}
	if opts.idleThreshold > 0 {
		engineOpts = append(engineOpts, engine.WithIdleThreshold(opts.idleThreshold))
	}
	if opts.tempoWindow > 0 {
		engineOpts = append(engineOpts, engine.WithTempoWindow(opts.tempoWindow))
	}

	eng := engine.New(reg, engineOpts...)
	params, evalErr := eng.Evaluate(cmd.Context(), routine)
	if params == nil {
		return evalErr
	}

	w := cmd.OutOrStdout()
	switch {
	case opts.showPrompt:
		req := synthesis.NewRequest(params, synthStyle, nil)
		fmt.Fprintln(w, req.Prompt()) //nolint:errcheck
	case opts.format == "json":
		if err := reporting.RenderJSON(w, params); err != nil {
			return err
		}
	default:
		reporting.RenderText(w, params)
	}

	var elemErrs classify.ElementErrors
	if errors.As(evalErr, &elemErrs) {
		return &IncompleteError{
			Message: fmt.Sprintf("%d element(s) had missing data: %s", len(elemErrs), elemErrs.Error()),
		}
	}
	return evalErr
}

// resolveTaxonomy loads a taxonomy file when given, otherwise returns the
// built-in FIG taxonomy.
func resolveTaxonomy(path string) (*taxonomy.Registry, error) {
	if path == "" {
		return taxonomy.Default(), nil
	}
	if schemaErrs, err := validation.ValidateTaxonomyFile(path); err != nil {
		return nil, err
	} else if len(schemaErrs) > 0 {
		return nil, fmt.Errorf("taxonomy file %s failed schema validation: %s", path, schemaErrs[0])
	}
	return taxonomy.Load(path)
}
