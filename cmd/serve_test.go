package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claritytax/docintel/internal/config"
	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/pipeline"
	"github.com/claritytax/docintel/internal/scorer"
	"github.com/claritytax/docintel/internal/taxyear"
)

func newTestEnv(t *testing.T) *pipelineEnv {
	t.Helper()

	cfg = &config.Config{
		Server: config.ServerConfig{
			RatePerSecond:  1000,
			RateBurst:      1000,
			AllowedOrigins: []string{"*"},
		},
		TaxYear: config.TaxYearConfig{DefaultYear: 2025},
	}

	reg, err := taxyear.NewRegistry(taxyear.Year2025())
	require.NoError(t, err)

	weights := scorer.DefaultWeights()
	p, err := pipeline.New(reg, weights, nil, 4)
	require.NoError(t, err)

	return &pipelineEnv{Registry: reg, Weights: weights, Pipeline: p}
}

const w2RequestBody = `{
	"tax_year": 2025,
	"filing_status": "single",
	"documents": [{
		"kind": "w2",
		"fields": [
			{"name": "wages", "raw_value": "$50,000.00", "kind": "currency", "ocr_quality": 92},
			{"name": "federal_withholding", "raw_value": "$5,000.00", "kind": "currency", "ocr_quality": 90}
		]
	}]
}`

func TestServe_Health(t *testing.T) {
	router := newRouter(newTestEnv(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServe_Score(t *testing.T) {
	router := newRouter(newTestEnv(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/score", strings.NewReader(w2RequestBody)))

	require.Equal(t, http.StatusOK, rec.Code)

	var verdicts []documentVerdict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdicts))
	require.Len(t, verdicts, 1)
	assert.Equal(t, model.DocW2, verdicts[0].Kind)
	assert.Len(t, verdicts[0].Fields, 2)
	assert.True(t, verdicts[0].Document.DocumentUsable)
}

func TestServe_Score_EmptyDocuments(t *testing.T) {
	router := newRouter(newTestEnv(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/score", strings.NewReader(`{"tax_year":2025}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServe_Analyze(t *testing.T) {
	router := newRouter(newTestEnv(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/analyze", strings.NewReader(w2RequestBody)))

	require.Equal(t, http.StatusOK, rec.Code)

	var result model.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.DocumentScores, 1)
	require.NotNil(t, result.Estimate)
	assert.InDelta(t, 1038.50, result.Estimate.Likely, 0.01)
}

func TestServe_Analyze_BadBody(t *testing.T) {
	router := newRouter(newTestEnv(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/analyze", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServe_Estimate(t *testing.T) {
	router := newRouter(newTestEnv(t))

	body := `{
		"filing_status": "single",
		"totals": {"wages": 50000, "federal_withholding": 5000},
		"confirmed": ["wages"]
	}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/estimate", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var est model.TaxEstimate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &est))
	assert.InDelta(t, 1038.50, est.Likely, 0.01)
	// One confirmation applied on top of the base confidence.
	assert.Equal(t, 75.0, est.ConfidenceScore)
}

func TestServe_Estimate_MissingTotals(t *testing.T) {
	router := newRouter(newTestEnv(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/estimate", strings.NewReader(`{"tax_year":2025}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServe_RunsWithoutStore(t *testing.T) {
	router := newRouter(newTestEnv(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/runs", nil))

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestServe_RateLimit(t *testing.T) {
	env := newTestEnv(t)
	cfg.Server.RatePerSecond = 1
	cfg.Server.RateBurst = 2
	router := newRouter(env)

	codes := map[int]int{}
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
		codes[rec.Code]++
	}

	assert.Equal(t, 2, codes[http.StatusOK])
	assert.Equal(t, 3, codes[http.StatusTooManyRequests])
}
