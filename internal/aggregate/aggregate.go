// Package aggregate merges and cross-validates the documents of one filing.
package aggregate

import (
	"fmt"

	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/taxyear"
)

const (
	// Withholding ratio bands over total income.
	overWithheldWarnRatio = 0.50
	overWithheldInfoRatio = 0.40
	underWithheldRatio    = 0.05
	// Income below this is too small for the under-withholding check to
	// mean anything.
	materialityIncome = 15_000
)

// Filing merges a filing's documents into totals and cross-validates them.
// All reductions are commutative, so document order never matters.
func Filing(docs []model.Document, tc *taxyear.Constants) model.FilingSummary {
	summary := model.FilingSummary{
		Totals:         map[string]float64{},
		DocumentCounts: map[model.DocumentKind]int{},
	}

	// payers tracks payer ids seen per document kind for duplicate
	// detection.
	payers := map[model.DocumentKind]map[string]int{}
	var ssWagesAcrossW2 float64

	for _, doc := range docs {
		summary.DocumentCounts[doc.Kind]++

		for name, amt := range doc.Amounts() {
			summary.Totals[name] += amt
		}

		if doc.Kind == model.DocW2 {
			if amt, ok := doc.Amounts()[model.FieldSSWages]; ok {
				ssWagesAcrossW2 += amt
			}
		}

		if id := doc.PayerID(); id != "" {
			if payers[doc.Kind] == nil {
				payers[doc.Kind] = map[string]int{}
			}
			payers[doc.Kind][id]++
		}
	}

	for kind, ids := range payers {
		for id, count := range ids {
			if count > 1 {
				summary.Issues = append(summary.Issues, model.ValidationIssue{
					Severity:   model.SeverityWarning,
					Field:      string(kind),
					Message:    fmt.Sprintf("%d %s documents share payer identifier ending %s; possible duplicate upload", count, kind, lastFour(id)),
					Suggestion: "Remove the duplicate document if both copies are the same form",
				})
			}
		}
	}

	// Aggregate SS wages over the wage base across multiple employers is
	// legitimate and signals an excess-SS-tax credit, not an error.
	if ssWagesAcrossW2 > tc.SSWageBase && summary.DocumentCounts[model.DocW2] > 1 {
		excess := (ssWagesAcrossW2 - tc.SSWageBase) * tc.SSRate
		summary.Issues = append(summary.Issues, model.ValidationIssue{
			Severity:   model.SeverityInfo,
			Field:      model.FieldSSWages,
			Message:    fmt.Sprintf("combined Social Security wages exceed the $%.0f wage base across employers", tc.SSWageBase),
			Suggestion: fmt.Sprintf("Approximately $%.2f of excess Social Security tax may be claimable as a credit", excess),
		})
	}

	summary.Issues = append(summary.Issues, withholdingBandIssues(summary)...)

	return summary
}

// withholdingBandIssues flags an overall withholding/income ratio outside
// the plausible band.
func withholdingBandIssues(summary model.FilingSummary) []model.ValidationIssue {
	income := summary.TotalIncome()
	withheld := summary.Totals[model.FieldFederalWithholding]
	if income <= 0 {
		return nil
	}

	ratio := withheld / income
	switch {
	case ratio > overWithheldWarnRatio:
		return []model.ValidationIssue{{
			Severity:   model.SeverityWarning,
			Field:      model.FieldFederalWithholding,
			Message:    fmt.Sprintf("total withholding is %.0f%% of income, which is implausibly high", ratio*100),
			Suggestion: "Verify the withholding boxes on each document",
		}}
	case ratio > overWithheldInfoRatio:
		return []model.ValidationIssue{{
			Severity:   model.SeverityInfo,
			Field:      model.FieldFederalWithholding,
			Message:    fmt.Sprintf("total withholding is %.0f%% of income; a large refund is likely", ratio*100),
		}}
	case ratio < underWithheldRatio && income > materialityIncome:
		return []model.ValidationIssue{{
			Severity:   model.SeverityWarning,
			Field:      model.FieldFederalWithholding,
			Message:    fmt.Sprintf("total withholding is only %.1f%% of income; a balance due is likely", ratio*100),
			Suggestion: "Confirm withholding was extracted from every document",
		}}
	}
	return nil
}

func lastFour(id string) string {
	if len(id) <= 4 {
		return id
	}
	return id[len(id)-4:]
}
