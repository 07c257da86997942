package taxyear

import "github.com/claritytax/docintel/internal/model"

// Year2025 returns the compiled-in constant set for tax year 2025.
// The EITC figures are simplified approximations of the published tables;
// estimates derived from them carry an explicit caveat.
func Year2025() *Constants {
	return &Constants{
		Year: 2025,

		StandardDeduction: map[model.FilingStatus]float64{
			model.StatusSingle:          15_000,
			model.StatusMarriedJoint:    30_000,
			model.StatusMarriedSeparate: 15_000,
			model.StatusHeadOfHousehold: 22_500,
		},

		Brackets: map[model.FilingStatus][]Bracket{
			model.StatusSingle: {
				{Threshold: 0, Rate: 0.10},
				{Threshold: 11_925, Rate: 0.12},
				{Threshold: 48_475, Rate: 0.22},
				{Threshold: 103_350, Rate: 0.24},
				{Threshold: 197_300, Rate: 0.32},
				{Threshold: 250_525, Rate: 0.35},
				{Threshold: 626_350, Rate: 0.37},
			},
			model.StatusMarriedJoint: {
				{Threshold: 0, Rate: 0.10},
				{Threshold: 23_850, Rate: 0.12},
				{Threshold: 96_950, Rate: 0.22},
				{Threshold: 206_700, Rate: 0.24},
				{Threshold: 394_600, Rate: 0.32},
				{Threshold: 501_050, Rate: 0.35},
				{Threshold: 751_600, Rate: 0.37},
			},
			model.StatusMarriedSeparate: {
				{Threshold: 0, Rate: 0.10},
				{Threshold: 11_925, Rate: 0.12},
				{Threshold: 48_475, Rate: 0.22},
				{Threshold: 103_350, Rate: 0.24},
				{Threshold: 197_300, Rate: 0.32},
				{Threshold: 250_525, Rate: 0.35},
				{Threshold: 375_800, Rate: 0.37},
			},
			model.StatusHeadOfHousehold: {
				{Threshold: 0, Rate: 0.10},
				{Threshold: 17_000, Rate: 0.12},
				{Threshold: 64_850, Rate: 0.22},
				{Threshold: 103_350, Rate: 0.24},
				{Threshold: 197_300, Rate: 0.32},
				{Threshold: 250_500, Rate: 0.35},
				{Threshold: 626_350, Rate: 0.37},
			},
		},

		SSWageBase:   176_100,
		SSRate:       0.062,
		MedicareRate: 0.0145,

		SETaxRate:    0.153,
		SENetFactor:  0.9235,
		SEMinimumNet: 400,

		CTCPerChild:      2_000,
		CTCRefundableCap: 1_700,
		CTCPhaseOutThreshold: map[model.FilingStatus]float64{
			model.StatusSingle:          200_000,
			model.StatusMarriedJoint:    400_000,
			model.StatusMarriedSeparate: 200_000,
			model.StatusHeadOfHousehold: 200_000,
		},
		CTCPhaseOutPer1000: 50,

		// Rounded from the published tables; intentionally approximate.
		EITC: []EITCRow{
			{MaxCredit: 650, IncomeCeiling: 19_100},
			{MaxCredit: 4_330, IncomeCeiling: 49_100},
			{MaxCredit: 7_150, IncomeCeiling: 55_800},
			{MaxCredit: 8_050, IncomeCeiling: 59_900},
		},
		EITCInvestmentLimit: 11_950,

		SALTCap:         10_000,
		MedicalFloorPct: 0.075,

		QualifiedDividendRatio: 0.80,
	}
}
