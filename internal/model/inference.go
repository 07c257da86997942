package model

// InferenceType labels how an inferred field value was produced.
type InferenceType string

const (
	InferenceCalculated InferenceType = "CALCULATED" // exact formula over present fields
	InferenceEstimated  InferenceType = "ESTIMATED"  // statistical or capped ratio
	InferenceAssumed    InferenceType = "ASSUMED"    // default in the absence of signal
	InferenceValidated  InferenceType = "VALIDATED"  // present value confirmed by arithmetic
)

// Severity grades a ValidationIssue.
type Severity string

const (
	SeverityError   Severity = "error"   // blocks can_proceed
	SeverityWarning Severity = "warning" // surfaced, non-blocking
	SeverityInfo    Severity = "info"    // advisory
)

// InferredField is a value derived for a field absent from the document.
type InferredField struct {
	Name                 string        `json:"name"`
	Value                float64       `json:"value"`
	Type                 InferenceType `json:"inference_type"`
	Confidence           float64       `json:"confidence"`
	Explanation          string        `json:"explanation"`
	SourceFields         []string      `json:"source_fields"`
	RequiresConfirmation bool          `json:"requires_confirmation"`
}

// ValidationIssue is one finding from consistency validation.
type ValidationIssue struct {
	Severity   Severity `json:"severity"`
	Field      string   `json:"field"`
	Message    string   `json:"message"`
	Expected   *float64 `json:"expected,omitempty"`
	Actual     *float64 `json:"actual,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// InferenceResult is the outcome of running inference over one document.
type InferenceResult struct {
	InferredFields       []InferredField   `json:"inferred_fields"`
	Issues               []ValidationIssue `json:"issues"`
	MissingRequired      []string          `json:"missing_required"`
	CompletionPercentage float64           `json:"completion_percentage"`
	CanProceed           bool              `json:"can_proceed"`
}

// HasErrors reports whether any issue carries error severity.
func (r InferenceResult) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// FilingStatusInference is the result of deriving a filing status from
// contextual signals.
type FilingStatusInference struct {
	Status      FilingStatus `json:"status"`
	Confidence  float64      `json:"confidence"`
	Explanation string       `json:"explanation"`
}

// DeductionRecommendation compares itemizable deductions to the standard
// deduction for a filing status.
type DeductionRecommendation struct {
	RecommendItemizing bool    `json:"recommend_itemizing"`
	ItemizedTotal      float64 `json:"itemized_total"`
	StandardDeduction  float64 `json:"standard_deduction"`
	Difference         float64 `json:"difference"` // dollar gap in favor of the recommendation
	Explanation        string  `json:"explanation"`
}
