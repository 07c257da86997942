package model

// FilingSummary is the multi-document aggregation result for one filing.
type FilingSummary struct {
	Totals         map[string]float64   `json:"totals"`
	DocumentCounts map[DocumentKind]int `json:"document_counts"`
	Issues         []ValidationIssue    `json:"issues,omitempty"`
}

// TotalIncome sums the income components of the filing.
func (s FilingSummary) TotalIncome() float64 {
	return s.Totals[FieldWages] +
		s.Totals[FieldInterestIncome] +
		s.Totals[FieldOrdinaryDividends] +
		s.Totals[FieldNonemployeeComp]
}

// TaxEstimate is a bounded tax liability/refund estimate. Fresh per call;
// Low <= Likely <= High always holds.
type TaxEstimate struct {
	Likely float64 `json:"likely"` // refund (positive) or balance due (negative)
	Low    float64 `json:"low"`
	High   float64 `json:"high"`

	ConfidenceScore float64         `json:"confidence_score"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`

	TotalIncome       float64 `json:"total_income"`
	TaxableIncome     float64 `json:"taxable_income"`
	EstimatedTax      float64 `json:"estimated_tax"`
	SelfEmploymentTax float64 `json:"self_employment_tax,omitempty"`
	TotalWithholding  float64 `json:"total_withholding"`
	TotalCredits      float64 `json:"total_credits"`

	DataCompleteness float64  `json:"data_completeness"`
	Assumptions      []string `json:"assumptions,omitempty"`
	Opportunities    []string `json:"opportunities,omitempty"`
	Disclaimer       string   `json:"disclaimer"`
}
