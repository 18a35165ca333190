// Package engine wires the classifier, the three analyzers, and the bridge
// assembler into a single classification pass.
package engine

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/kinemetric/pommel/internal/analysis"
	"github.com/kinemetric/pommel/internal/assemble"
	"github.com/kinemetric/pommel/internal/classify"
	"github.com/kinemetric/pommel/internal/models"
	"github.com/kinemetric/pommel/internal/taxonomy"
)

// Engine runs one full classification pass per routine. It holds only
// read-only state and is safe for concurrent use.
type Engine struct {
	reg        *taxonomy.Registry
	classifier *classify.Classifier
	spatial    *analysis.SpatialAnalyzer
	temporal   *analysis.TemporalAnalyzer
	form       *analysis.FormScorer
	assembler  *assemble.Assembler
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithSimilarityThreshold overrides the trajectory-pattern similarity
// threshold.
func WithSimilarityThreshold(t float64) Option {
	return func(e *Engine) { e.spatial.SimilarityThreshold = t }
}

// WithIdleThreshold overrides the continuity idle-gap threshold in seconds.
func WithIdleThreshold(t float64) Option {
	return func(e *Engine) { e.temporal.IdleThreshold = t }
}

// WithTempoWindow overrides the windowed-tempo window length in seconds.
func WithTempoWindow(t float64) Option {
	return func(e *Engine) { e.temporal.TempoWindow = t }
}

// New creates an engine backed by the given registry. The registry is
// injected rather than looked up ambiently so a process can only serve
// requests once a valid registry exists.
func New(reg *taxonomy.Registry, opts ...Option) *Engine {
	e := &Engine{
		reg:        reg,
		classifier: classify.New(reg),
		spatial:    analysis.NewSpatial(),
		temporal:   analysis.NewTemporal(),
		form:       analysis.NewForm(),
		assembler:  assemble.New(reg),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs one atomic classification pass: classify every element,
// run the three analyzers over the shared read-only data, and assemble the
// result. There is no partial output; a caller wanting cancellation simply
// discards the result.
//
// Per-element classification errors do not abort the pass: when some axes
// could not be evaluated the assembled parameters are still returned,
// together with a classify.ElementErrors identifying the affected elements.
func (e *Engine) Evaluate(ctx context.Context, r *models.Routine) (*models.AssembledParameters, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	classifications, elemErrs := e.classifier.ClassifyRoutine(r)
	slog.Debug("classified routine",
		"routine", r.Name,
		"elements", len(r.Elements),
		"classifications", len(classifications),
		"element_errors", len(elemErrs))

	// The analyzers share only read-only element and classification data, so
	// they fan out without any locking.
	var spatialFacts, temporalFacts, formFacts []models.AnalysisFact
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		spatialFacts = e.spatial.Analyze(r, classifications)
		return ctx.Err()
	})
	g.Go(func() error {
		temporalFacts = e.temporal.Analyze(r)
		return ctx.Err()
	})
	g.Go(func() error {
		formFacts = e.form.Analyze(r, classifications)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	params, err := e.assembler.Assemble(r, classifications, spatialFacts, temporalFacts, formFacts)
	if err != nil {
		return nil, err
	}
	if len(elemErrs) > 0 {
		return params, elemErrs
	}
	return params, nil
}
