package estimate

import (
	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/taxyear"
)

// Opportunity heuristics are independent and order-insensitive; each one
// fires on its own condition.
const (
	oppAdjustWithholding = "Withholding is well above the estimated tax; adjusting your W-4 could raise take-home pay"
	oppRetirementSavings = "Income level suggests room for tax-deferred retirement contributions"
	oppEITCCandidate     = "Income and dependents may qualify for the earned income tax credit"
	oppHeadOfHousehold   = "Filing single with dependents; head of household status may lower your tax"
)

const (
	overWithholdingFactor = 1.2
	retirementIncomeMin   = 25_000
	retirementIncomeMax   = 120_000
)

// opportunities evaluates the planning heuristics for an estimate.
func opportunities(tc *taxyear.Constants, status model.FilingStatus, dependents int,
	totalIncome, withholding, tax float64) []string {

	var out []string

	if tax > 0 && withholding > tax*overWithholdingFactor {
		out = append(out, oppAdjustWithholding)
	}
	if totalIncome >= retirementIncomeMin && totalIncome <= retirementIncomeMax {
		out = append(out, oppRetirementSavings)
	}
	if dependents > 0 && totalIncome < tc.EITCFor(dependents).IncomeCeiling {
		out = append(out, oppEITCCandidate)
	}
	if status == model.StatusSingle && dependents > 0 {
		out = append(out, oppHeadOfHousehold)
	}

	return out
}
