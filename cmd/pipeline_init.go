package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/claritytax/docintel/internal/pipeline"
	"github.com/claritytax/docintel/internal/scorer"
	"github.com/claritytax/docintel/internal/store"
	"github.com/claritytax/docintel/internal/taxyear"
)

// money formats dollar amounts with thousands separators for CLI output.
var money = message.NewPrinter(language.English)

// pipelineEnv holds the store, tax-year registry, and pipeline needed by the
// analyze/import/serve commands.
type pipelineEnv struct {
	Store    store.Store // nil when store.driver is "none"
	Registry *taxyear.Registry
	Weights  scorer.Weights
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.SQLitePath
		if path == "" {
			path = "docintel.db"
		}
		return store.NewSQLite(path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "none":
		return nil, nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initRegistry loads the tax-year constant registry: the compiled-in 2025
// set plus any YAML override files from config. Override files registered
// for 2025 replace the compiled-in set.
func initRegistry() (*taxyear.Registry, error) {
	sets := []*taxyear.Constants{taxyear.Year2025()}
	for _, path := range cfg.TaxYear.OverrideFiles {
		tc, err := taxyear.LoadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "load tax year overrides from %s", path)
		}
		sets = append(sets, tc)
		zap.L().Info("tax year overrides loaded", zap.Int("year", tc.Year), zap.String("path", path))
	}
	return taxyear.NewRegistry(sets...)
}

// initWeights returns the scoring weights: configured values when present,
// calibrated defaults otherwise.
func initWeights() scorer.Weights {
	if cfg.Scoring.IsZero() {
		return scorer.DefaultWeights()
	}
	return scorer.Weights{
		OCRQuality:            cfg.Scoring.OCRQuality,
		FormatMatch:           cfg.Scoring.FormatMatch,
		PatternStrength:       cfg.Scoring.PatternStrength,
		CrossFieldConsistency: cfg.Scoring.CrossFieldConsistency,
		PositionalAccuracy:    cfg.Scoring.PositionalAccuracy,
		ValuePlausibility:     cfg.Scoring.ValuePlausibility,
	}
}

// initPipeline sets up the store and registry and builds the Pipeline.
// Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if st != nil {
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
	}

	reg, err := initRegistry()
	if err != nil {
		if st != nil {
			_ = st.Close()
		}
		return nil, err
	}

	weights := initWeights()
	p, err := pipeline.New(reg, weights, st, cfg.Pipeline.MaxConcurrentDocuments)
	if err != nil {
		if st != nil {
			_ = st.Close()
		}
		return nil, err
	}

	return &pipelineEnv{
		Store:    st,
		Registry: reg,
		Weights:  weights,
		Pipeline: p,
	}, nil
}
