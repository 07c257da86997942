package model

// ConfidenceLevel buckets an overall confidence score.
type ConfidenceLevel string

const (
	LevelHigh    ConfidenceLevel = "HIGH"
	LevelMedium  ConfidenceLevel = "MEDIUM"
	LevelLow     ConfidenceLevel = "LOW"
	LevelVeryLow ConfidenceLevel = "VERY_LOW"
)

// Fixed level thresholds. LevelForScore is the only way a level is ever
// derived from a score.
const (
	HighThreshold   = 85.0
	MediumThreshold = 65.0
	LowThreshold    = 40.0
)

// LevelForScore maps a 0-100 score onto a ConfidenceLevel.
func LevelForScore(score float64) ConfidenceLevel {
	switch {
	case score >= HighThreshold:
		return LevelHigh
	case score >= MediumThreshold:
		return LevelMedium
	case score >= LowThreshold:
		return LevelLow
	default:
		return LevelVeryLow
	}
}

// ConfidenceFactors holds the six 0-100 sub-scores of the weighted model.
type ConfidenceFactors struct {
	OCRQuality            float64 `json:"ocr_quality"`
	FormatMatch           float64 `json:"format_match"`
	PatternStrength       float64 `json:"pattern_strength"`
	CrossFieldConsistency float64 `json:"cross_field_consistency"`
	PositionalAccuracy    float64 `json:"positional_accuracy"`
	ValuePlausibility     float64 `json:"value_plausibility"`
}

// ConfidenceResult is the immutable outcome of scoring one field.
type ConfidenceResult struct {
	FieldName          string            `json:"field_name"`
	OverallScore       float64           `json:"overall_score"`
	Level              ConfidenceLevel   `json:"level"`
	Factors            ConfidenceFactors `json:"factors"`
	NeedsVerification  bool              `json:"needs_verification"`
	VerificationReason string            `json:"verification_reason,omitempty"`
	Suggestions        []string          `json:"suggestions,omitempty"`
}

// FieldReview describes one field flagged for human review in a document
// verdict.
type FieldReview struct {
	FieldName   string   `json:"field_name"`
	Score       float64  `json:"score"`
	Reason      string   `json:"reason"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// DocumentScore is the document-level confidence verdict.
type DocumentScore struct {
	OverallScore        float64                 `json:"overall_score"`
	Level               ConfidenceLevel         `json:"level"`
	LevelCounts         map[ConfidenceLevel]int `json:"level_counts"`
	FieldsNeedingReview []FieldReview           `json:"fields_needing_review,omitempty"`
	DocumentUsable      bool                    `json:"document_usable"`
}
