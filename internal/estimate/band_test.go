package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/taxyear"
)

func TestBandMultiplier_Tiers(t *testing.T) {
	tests := []struct {
		confidence float64
		want       float64
	}{
		{95, 0.05},
		{85, 0.05},
		{84.9, 0.10},
		{70, 0.10},
		{69.9, 0.20},
		{55, 0.20},
		{54.9, 0.35},
		{10, 0.35},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bandMultiplier(tt.confidence), "confidence %.1f", tt.confidence)
	}
}

func TestBandMultiplier_NonIncreasingInConfidence(t *testing.T) {
	prev := 1.0
	for c := 0.0; c <= 100; c++ {
		m := bandMultiplier(c)
		assert.LessOrEqual(t, m, prev, "multiplier grew at confidence %.0f", c)
		prev = m
	}
}

func TestBand_FloorsAtMinimumHalfWidth(t *testing.T) {
	low, high := band(50, 90)
	// 5% of 50 is 2.50; the floor takes over.
	assert.Equal(t, -50.0, low)
	assert.Equal(t, 150.0, high)
}

func TestBand_ScalesWithLikely(t *testing.T) {
	low, high := band(10000, 90)
	assert.Equal(t, 9500.0, low)
	assert.Equal(t, 10500.0, high)
}

func TestDisclaimerFor_PureFunctionOfTier(t *testing.T) {
	assert.Equal(t, disclaimers[85], disclaimerFor(92))
	assert.Equal(t, disclaimers[70], disclaimerFor(70))
	assert.Equal(t, disclaimers[55], disclaimerFor(60))
	assert.Equal(t, disclaimers[0], disclaimerFor(30))
}

func TestRefine_RaisesConfidenceAndNarrows(t *testing.T) {
	prev := model.TaxEstimate{
		Likely:          1000,
		Low:             0,
		High:            2000,
		ConfidenceScore: 70,
		ConfidenceLevel: model.LevelMedium,
		Assumptions:     []string{"first", "second"},
		Disclaimer:      disclaimerFor(70),
	}

	next := Refine(prev, "wages")

	assert.Equal(t, 75.0, next.ConfidenceScore)
	assert.Equal(t, 300.0, next.Low)
	assert.Equal(t, 1700.0, next.High)
	assert.Equal(t, []string{"second"}, next.Assumptions)

	// Input is untouched.
	assert.Equal(t, 70.0, prev.ConfidenceScore)
	assert.Equal(t, []string{"first", "second"}, prev.Assumptions)
}

func TestRefine_ConfidenceCapped(t *testing.T) {
	est := model.TaxEstimate{Likely: 1000, Low: 900, High: 1100, ConfidenceScore: 70}
	for i := 0; i < 20; i++ {
		est = Refine(est, "again")
	}
	assert.Equal(t, 95.0, est.ConfidenceScore)
}

func TestRefine_NeverWidens(t *testing.T) {
	est := model.TaxEstimate{Likely: 1000, Low: 0, High: 2000, ConfidenceScore: 55}
	width := est.High - est.Low
	for i := 0; i < 20; i++ {
		est = Refine(est, "signal")
		newWidth := est.High - est.Low
		assert.LessOrEqual(t, newWidth, width, "band widened on refinement %d", i)
		assert.LessOrEqual(t, est.Low, est.Likely)
		assert.LessOrEqual(t, est.Likely, est.High)
		width = newWidth
	}
}

func TestRefine_UpdatesDisclaimerTier(t *testing.T) {
	est := model.TaxEstimate{
		Likely: 1000, Low: 500, High: 1500,
		ConfidenceScore: 82,
		Disclaimer:      disclaimerFor(82),
	}

	next := Refine(est, "wages")
	assert.Equal(t, 87.0, next.ConfidenceScore)
	assert.Equal(t, disclaimers[85], next.Disclaimer)
	assert.Equal(t, model.LevelHigh, next.ConfidenceLevel)
}

func TestConfidenceScore_SingleDocCoverage(t *testing.T) {
	base := model.FilingSummary{
		Totals:         map[string]float64{},
		DocumentCounts: map[model.DocumentKind]int{model.DocW2: 1},
	}
	assert.Equal(t, 40.0, confidenceScore(base))

	base.Totals[model.FieldWages] = 50000
	assert.Equal(t, 55.0, confidenceScore(base))

	base.Totals[model.FieldFederalWithholding] = 5000
	assert.Equal(t, 70.0, confidenceScore(base))

	base.Totals[model.FieldSSWages] = 50000
	assert.Equal(t, 75.0, confidenceScore(base))

	// Capped for a single document no matter how many fields are present.
	base.Totals[model.FieldInterestIncome] = 100
	base.Totals[model.FieldOrdinaryDividends] = 100
	base.Totals[model.FieldNonemployeeComp] = 100
	assert.Equal(t, 75.0, confidenceScore(base))
}

func TestConfidenceScore_MultiDoc(t *testing.T) {
	summary := model.FilingSummary{
		Totals:         map[string]float64{},
		DocumentCounts: map[model.DocumentKind]int{model.DocW2: 2},
	}
	assert.Equal(t, 70.0, confidenceScore(summary))

	summary.DocumentCounts[model.Doc1099INT] = 4
	assert.Equal(t, 85.0, confidenceScore(summary))
}

// Estimate confidence must agree with the shared level thresholds so the
// band, level, and disclaimer always tell the same story.
func TestEstimate_LevelMatchesScore(t *testing.T) {
	e := NewEstimator(taxyear.Year2025())
	est := e.Estimate(model.FilingSummary{
		Totals:         map[string]float64{model.FieldWages: 50000, model.FieldFederalWithholding: 5000},
		DocumentCounts: map[model.DocumentKind]int{model.DocW2: 1},
	}, model.StatusSingle, 0)

	assert.Equal(t, model.LevelForScore(est.ConfidenceScore), est.ConfidenceLevel)
}
