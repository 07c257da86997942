// Package pipeline orchestrates the document intelligence stages: per-field
// scoring, per-document inference, filing-level aggregation, and estimation.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/claritytax/docintel/internal/aggregate"
	"github.com/claritytax/docintel/internal/estimate"
	"github.com/claritytax/docintel/internal/inference"
	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/scorer"
	"github.com/claritytax/docintel/internal/store"
	"github.com/claritytax/docintel/internal/taxyear"
)

// Request is one filing to analyze.
type Request struct {
	TaxYear      int                `json:"tax_year"`
	Documents    []model.Document   `json:"documents"`
	FilingStatus model.FilingStatus `json:"filing_status"`
	Dependents   int                `json:"dependents"`
}

// Pipeline wires the pipeline stages together. Stages themselves are pure;
// the pipeline adds concurrency, logging, and optional run persistence.
type Pipeline struct {
	registry      *taxyear.Registry
	weights       scorer.Weights
	store         store.Store // nil disables persistence
	maxConcurrent int
}

// New creates a Pipeline. st may be nil to disable run persistence.
func New(registry *taxyear.Registry, weights scorer.Weights, st store.Store, maxConcurrent int) (*Pipeline, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Pipeline{
		registry:      registry,
		weights:       weights,
		store:         st,
		maxConcurrent: maxConcurrent,
	}, nil
}

// docOutcome collects the per-document map results before reduction.
type docOutcome struct {
	score     model.DocumentScore
	inference model.InferenceResult
}

// Analyze runs the full pipeline over one filing. Per-document scoring and
// inference fan out in parallel; aggregation and estimation reduce the
// results, which is safe because every reduction is commutative.
func (p *Pipeline) Analyze(ctx context.Context, req Request) (*model.AnalysisResult, error) {
	tc, err := p.registry.Year(req.TaxYear)
	if err != nil {
		return nil, err
	}
	if req.FilingStatus == "" {
		req.FilingStatus = model.StatusSingle
	}

	log := zap.L().With(zap.Int("tax_year", req.TaxYear), zap.Int("documents", len(req.Documents)))
	start := time.Now()

	var run *model.Run
	if p.store != nil {
		run, err = p.store.CreateRun(ctx, req.TaxYear, len(req.Documents))
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
		if err := p.store.UpdateRunStatus(ctx, run.ID, model.RunStatusScoring); err != nil {
			log.Warn("pipeline: failed to update run status", zap.Error(err))
		}
	}

	fieldScorer := scorer.NewFieldScorer(p.weights, tc)
	engine := inference.NewEngine(tc)

	outcomes := make([]docOutcome, len(req.Documents))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrent)
	for i, doc := range req.Documents {
		g.Go(func() error {
			fieldResults := fieldScorer.ScoreDocument(doc)
			outcomes[i] = docOutcome{
				score:     scorer.AggregateDocument(fieldResults, inference.CriticalFields(doc.Kind)),
				inference: engine.InferDocument(doc),
			}
			return nil
		})
	}
	// The stages never fail; the group exists for bounded parallelism.
	_ = g.Wait()

	result := &model.AnalysisResult{
		DocumentScores: make([]model.DocumentScore, len(outcomes)),
		Inference:      make([]model.InferenceResult, len(outcomes)),
	}
	for i, o := range outcomes {
		result.DocumentScores[i] = o.score
		result.Inference[i] = o.inference
	}

	if len(req.Documents) > 0 {
		summary := aggregate.Filing(req.Documents, tc)
		result.Summary = &summary

		est := estimate.NewEstimator(tc).Estimate(summary, req.FilingStatus, req.Dependents)
		result.Estimate = &est
	}

	result.DurationMS = time.Since(start).Milliseconds()

	if p.store != nil && run != nil {
		if err := p.store.UpdateRunResult(ctx, run.ID, result); err != nil {
			log.Warn("pipeline: failed to persist run result", zap.Error(err))
		}
	}

	log.Info("pipeline: analysis complete",
		zap.Int64("duration_ms", result.DurationMS),
		zap.Bool("estimated", result.Estimate != nil),
	)

	return result, nil
}
