package model

import "time"

// RunStatus tracks an analysis run through the pipeline.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusScoring  RunStatus = "scoring"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// AnalysisResult is the full output of one pipeline run over a filing.
type AnalysisResult struct {
	DocumentScores []DocumentScore   `json:"document_scores"`
	Inference      []InferenceResult `json:"inference"`
	Summary        *FilingSummary    `json:"summary,omitempty"`
	Estimate       *TaxEstimate      `json:"estimate,omitempty"`
	DurationMS     int64             `json:"duration_ms"`
}

// Run is a persisted record of one analysis run.
type Run struct {
	ID        string          `json:"id"`
	TaxYear   int             `json:"tax_year"`
	Status    RunStatus       `json:"status"`
	Documents int             `json:"documents"`
	Result    *AnalysisResult `json:"result,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
