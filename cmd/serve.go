package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sort"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/claritytax/docintel/internal/inference"
	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/pipeline"
	"github.com/claritytax/docintel/internal/scorer"
	"github.com/claritytax/docintel/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the document intelligence HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		router := newRouter(env)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the API router. Split from the command so handler tests
// can exercise it directly.
func newRouter(env *pipelineEnv) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(rateLimit(rate.Limit(cfg.Server.RatePerSecond), cfg.Server.RateBurst))

	r.Get("/health", handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/score", handleScore(env))
		r.Post("/analyze", handleAnalyze(env))
		r.Post("/estimate", handleEstimate(env))
		r.Get("/runs", handleListRuns(env))
		r.Get("/runs/{id}", handleGetRun(env))
	})
	return r
}

// rateLimit applies a process-wide token bucket to every request.
func rateLimit(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeRequest decodes the shared request body and resolves the tax year.
func decodeRequest(r *http.Request) (*pipeline.Request, error) {
	var in requestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return nil, eris.Wrap(err, "decode request body")
	}
	req := &pipeline.Request{
		TaxYear:      in.TaxYear,
		FilingStatus: model.FilingStatus(in.FilingStatus),
		Dependents:   in.Dependents,
	}
	if req.TaxYear == 0 {
		req.TaxYear = cfg.TaxYear.DefaultYear
	}
	for _, d := range in.Documents {
		req.Documents = append(req.Documents, d.toDocument())
	}
	return req, nil
}

func handleScore(env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Documents) == 0 {
			writeError(w, http.StatusBadRequest, "documents are required")
			return
		}

		tc, err := env.Registry.Year(req.TaxYear)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		fieldScorer := scorer.NewFieldScorer(env.Weights, tc)
		verdicts := make([]documentVerdict, 0, len(req.Documents))
		for _, doc := range req.Documents {
			fields := fieldScorer.ScoreDocument(doc)
			sort.Slice(fields, func(i, j int) bool { return fields[i].FieldName < fields[j].FieldName })
			verdicts = append(verdicts, documentVerdict{
				Kind:     doc.Kind,
				Fields:   fields,
				Document: scorer.AggregateDocument(fields, inference.CriticalFields(doc.Kind)),
			})
		}

		writeJSON(w, http.StatusOK, verdicts)
	}
}

func handleAnalyze(env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Documents) == 0 {
			writeError(w, http.StatusBadRequest, "documents are required")
			return
		}

		result, err := env.Pipeline.Analyze(r.Context(), *req)
		if err != nil {
			zap.L().Error("analyze request failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// estimateRequest is the POST /v1/estimate body.
type estimateRequest struct {
	TaxYear      int                `json:"tax_year"`
	FilingStatus string             `json:"filing_status"`
	Dependents   int                `json:"dependents"`
	Totals       map[string]float64 `json:"totals"`
	// Confirmed lists fields the user has verified; each narrows the band.
	Confirmed []string `json:"confirmed,omitempty"`
}

func handleEstimate(env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in estimateRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(in.Totals) == 0 {
			writeError(w, http.StatusBadRequest, "totals are required")
			return
		}
		if in.TaxYear == 0 {
			in.TaxYear = cfg.TaxYear.DefaultYear
		}

		tc, err := env.Registry.Year(in.TaxYear)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		summary := model.FilingSummary{
			Totals:         in.Totals,
			DocumentCounts: map[model.DocumentKind]int{model.DocGeneric: 1},
		}
		est := estimateFor(tc, summary, model.FilingStatus(in.FilingStatus), in.Dependents, in.Confirmed)

		writeJSON(w, http.StatusOK, est)
	}
}

func handleListRuns(env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if env.Store == nil {
			writeError(w, http.StatusNotImplemented, "no store configured")
			return
		}

		filter := store.RunFilter{
			Status: model.RunStatus(r.URL.Query().Get("status")),
			Limit:  50,
		}

		runs, err := env.Store.ListRuns(r.Context(), filter)
		if err != nil {
			zap.L().Error("list runs failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, runs)
	}
}

func handleGetRun(env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if env.Store == nil {
			writeError(w, http.StatusNotImplemented, "no store configured")
			return
		}

		run, err := env.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}

		writeJSON(w, http.StatusOK, run)
	}
}
