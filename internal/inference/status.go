package inference

import (
	"fmt"
	"math"

	"github.com/claritytax/docintel/internal/model"
)

// StatusSignals carries the contextual hints available for filing-status
// inference.
type StatusSignals struct {
	HasSpouse       bool
	Dependents      int
	PriorYearStatus model.FilingStatus // "" when unknown
}

// InferFilingStatus derives a filing status from contextual signals.
// Spouse information dominates; dependents without a spouse suggest head
// of household; otherwise the prior-year status or single is assumed.
func (e *Engine) InferFilingStatus(sig StatusSignals) model.FilingStatusInference {
	switch {
	case sig.HasSpouse:
		return model.FilingStatusInference{
			Status:      model.StatusMarriedJoint,
			Confidence:  90,
			Explanation: "Spouse information present; married filing jointly assumed",
		}
	case sig.Dependents > 0:
		return model.FilingStatusInference{
			Status:      model.StatusHeadOfHousehold,
			Confidence:  70,
			Explanation: "Dependents without spouse information suggest head of household",
		}
	case sig.PriorYearStatus != "":
		return model.FilingStatusInference{
			Status:      sig.PriorYearStatus,
			Confidence:  60,
			Explanation: fmt.Sprintf("Carried forward prior-year status %s", sig.PriorYearStatus),
		}
	default:
		return model.FilingStatusInference{
			Status:      model.StatusSingle,
			Confidence:  40,
			Explanation: "No status signals available; single assumed",
		}
	}
}

// ItemizableAmounts collects the deduction categories considered by
// InferDeductionType.
type ItemizableAmounts struct {
	StateLocalTaxes         float64
	MortgageInterest        float64
	CharitableContributions float64
	MedicalExpenses         float64
}

// InferDeductionType sums itemizable deductions (SALT capped, medical
// above the AGI floor) and recommends itemizing when they beat the
// standard deduction for the filing status.
func (e *Engine) InferDeductionType(status model.FilingStatus, agi float64, amounts ItemizableAmounts) model.DeductionRecommendation {
	salt := math.Min(amounts.StateLocalTaxes, e.tc.SALTCap)
	medical := math.Max(0, amounts.MedicalExpenses-agi*e.tc.MedicalFloorPct)
	itemized := salt + amounts.MortgageInterest + amounts.CharitableContributions + medical

	standard := e.tc.StandardDeductionFor(status)
	rec := model.DeductionRecommendation{
		ItemizedTotal:     roundCents(itemized),
		StandardDeduction: standard,
	}

	if itemized > standard {
		rec.RecommendItemizing = true
		rec.Difference = roundCents(itemized - standard)
		rec.Explanation = fmt.Sprintf("Itemized deductions exceed the standard deduction by $%.2f", rec.Difference)
	} else {
		rec.Difference = roundCents(standard - itemized)
		rec.Explanation = fmt.Sprintf("Standard deduction exceeds itemized deductions by $%.2f", rec.Difference)
	}
	return rec
}
