// Package estimate produces bounded real-time tax liability/refund
// estimates from aggregated, scored document data.
package estimate

import (
	"fmt"
	"math"

	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/taxyear"
)

// Estimator computes tax estimates for one tax year. It is a pure
// function over its inputs and safe for concurrent use.
type Estimator struct {
	tc *taxyear.Constants
}

// NewEstimator creates an Estimator bound to one tax year's constants.
func NewEstimator(tc *taxyear.Constants) *Estimator {
	return &Estimator{tc: tc}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Estimate produces a bounded estimate from a filing summary, filing
// status, and dependent count. Low <= Likely <= High always holds.
func (e *Estimator) Estimate(summary model.FilingSummary, status model.FilingStatus, dependents int) model.TaxEstimate {
	tc := e.tc
	var assumptions []string

	wages := summary.Totals[model.FieldWages]
	interest := summary.Totals[model.FieldInterestIncome]
	dividends := summary.Totals[model.FieldOrdinaryDividends]
	seIncome := summary.Totals[model.FieldNonemployeeComp]
	withholding := summary.Totals[model.FieldFederalWithholding]

	totalIncome := wages + interest + dividends + seIncome

	// Self-employment tax applies above a minimal net-earnings threshold;
	// half of it is deducted before the standard deduction.
	var seTax float64
	if seIncome >= tc.SEMinimumNet {
		seTax = roundCents(seIncome * tc.SENetFactor * tc.SETaxRate)
		assumptions = append(assumptions, "Self-employment income assumed fully subject to SE tax with no business expenses")
	}

	agi := totalIncome - seTax/2
	standard := tc.StandardDeductionFor(status)
	taxable := math.Max(0, agi-standard)
	assumptions = append(assumptions, fmt.Sprintf("Standard deduction of $%.0f assumed for %s", standard, status))

	incomeTax := roundCents(tc.TaxFor(status, taxable))
	totalTax := incomeTax + seTax

	ctc := childTaxCredit(tc, status, dependents, agi, totalTax)
	investmentIncome := interest + dividends
	eitc := earnedIncomeCredit(tc, dependents, wages+seIncome, investmentIncome)
	if eitc > 0 {
		assumptions = append(assumptions, "Earned income credit is a rough estimate from a simplified table")
	}
	credits := ctc + eitc

	likely := roundCents(withholding - math.Max(0, totalTax-credits))

	confidence := confidenceScore(summary)
	low, high := band(likely, confidence)

	return model.TaxEstimate{
		Likely:            likely,
		Low:               low,
		High:              high,
		ConfidenceScore:   confidence,
		ConfidenceLevel:   model.LevelForScore(confidence),
		TotalIncome:       roundCents(totalIncome),
		TaxableIncome:     roundCents(taxable),
		EstimatedTax:      roundCents(totalTax),
		SelfEmploymentTax: seTax,
		TotalWithholding:  roundCents(withholding),
		TotalCredits:      roundCents(credits),
		DataCompleteness:  completeness(summary),
		Assumptions:       assumptions,
		Opportunities:     opportunities(tc, status, dependents, totalIncome, withholding, totalTax),
		Disclaimer:        disclaimerFor(confidence),
	}
}

// completeness reports the fraction (0-100) of the monetary fields the
// estimator can use that were actually present.
func completeness(summary model.FilingSummary) float64 {
	known := len(coreFields) + len(supplementaryFields)
	present := 0
	for _, name := range coreFields {
		if _, ok := summary.Totals[name]; ok {
			present++
		}
	}
	for _, name := range supplementaryFields {
		if _, ok := summary.Totals[name]; ok {
			present++
		}
	}
	return math.Round(float64(present) / float64(known) * 100)
}
