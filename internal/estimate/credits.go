package estimate

import (
	"math"

	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/taxyear"
)

// childTaxCredit computes the child tax credit after phase-out, capping
// the portion usable beyond tax liability at the refundable limit.
func childTaxCredit(tc *taxyear.Constants, status model.FilingStatus, dependents int, agi, tax float64) float64 {
	if dependents <= 0 {
		return 0
	}

	credit := tc.CTCPerChild * float64(dependents)

	threshold, ok := tc.CTCPhaseOutThreshold[status]
	if !ok {
		threshold = tc.CTCPhaseOutThreshold[model.StatusSingle]
	}
	if agi > threshold {
		steps := math.Ceil((agi - threshold) / 1000)
		credit = math.Max(0, credit-steps*tc.CTCPhaseOutPer1000)
	}

	// Only the refundable portion counts beyond tax liability.
	nonrefundable := math.Min(credit, tax)
	excess := credit - nonrefundable
	refundable := math.Min(excess, tc.CTCRefundableCap*float64(dependents))
	return nonrefundable + refundable
}

// earnedIncomeCredit applies the simplified EITC table. The figures are
// rough approximations; callers record that caveat as an assumption. The
// credit is skipped entirely when investment income exceeds the cutoff.
func earnedIncomeCredit(tc *taxyear.Constants, dependents int, earnedIncome, investmentIncome float64) float64 {
	if investmentIncome >= tc.EITCInvestmentLimit {
		return 0
	}
	row := tc.EITCFor(dependents)
	if row.IncomeCeiling <= 0 || earnedIncome >= row.IncomeCeiling {
		return 0
	}
	// Linear taper toward the ceiling; a rough stand-in for the published
	// phase-in/phase-out schedule.
	return roundCents(row.MaxCredit * (1 - earnedIncome/row.IncomeCeiling))
}
