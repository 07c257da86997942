package estimate

import (
	"math"

	"github.com/claritytax/docintel/internal/model"
)

const (
	// Confidence score caps.
	singleDocBase = 40.0
	singleDocCap  = 75.0
	multiDocBase  = 50.0
	multiDocStep  = 10.0
	multiDocCap   = 85.0
	refineCap     = 95.0

	// Per-field confidence increments for single-document estimates.
	coreFieldBonus = 15.0
	suppFieldBonus = 5.0

	// Refinement behavior.
	refineIncrement  = 5.0
	refineBandFactor = 0.7

	// Band floors: a band never collapses below this half-width.
	minBandHalfWidth = 100.0
)

// Core fields carry income or withholding signal; supplementary fields
// only corroborate.
var (
	coreFields = []string{
		model.FieldWages,
		model.FieldFederalWithholding,
		model.FieldInterestIncome,
		model.FieldOrdinaryDividends,
		model.FieldNonemployeeComp,
	}
	supplementaryFields = []string{
		model.FieldSSWages,
		model.FieldSSTax,
		model.FieldMedicareWages,
		model.FieldMedicareTax,
		model.FieldQualifiedDividends,
	}
)

// confidenceScore calibrates estimate confidence from document count and
// field coverage.
func confidenceScore(summary model.FilingSummary) float64 {
	docCount := 0
	for _, n := range summary.DocumentCounts {
		docCount += n
	}

	if docCount > 1 {
		return math.Min(multiDocBase+multiDocStep*float64(docCount), multiDocCap)
	}

	score := singleDocBase
	for _, name := range coreFields {
		if _, ok := summary.Totals[name]; ok {
			score += coreFieldBonus
		}
	}
	for _, name := range supplementaryFields {
		if _, ok := summary.Totals[name]; ok {
			score += suppFieldBonus
		}
	}
	return math.Min(score, singleDocCap)
}

// bandMultiplier maps a confidence score onto a band width multiplier.
func bandMultiplier(confidence float64) float64 {
	switch {
	case confidence >= 85:
		return 0.05
	case confidence >= 70:
		return 0.10
	case confidence >= 55:
		return 0.20
	default:
		return 0.35
	}
}

// band computes the (low, high) bounds around a likely amount.
func band(likely, confidence float64) (float64, float64) {
	halfWidth := math.Max(math.Abs(likely)*bandMultiplier(confidence), minBandHalfWidth)
	return roundCents(likely - halfWidth), roundCents(likely + halfWidth)
}

// Canned disclaimer per confidence tier. The text is a pure function of
// the tier, never a combination.
var disclaimers = map[float64]string{
	85: "Estimate based on verified document data; minor variation possible when filing.",
	70: "Estimate based on extracted document data; review flagged fields before relying on it.",
	55: "Preliminary estimate; several values were inferred and should be confirmed.",
	0:  "Rough estimate only; significant data is missing or unverified.",
}

// disclaimerFor returns the canned disclaimer for a confidence score.
func disclaimerFor(confidence float64) string {
	switch {
	case confidence >= 85:
		return disclaimers[85]
	case confidence >= 70:
		return disclaimers[70]
	case confidence >= 55:
		return disclaimers[55]
	default:
		return disclaimers[0]
	}
}

// Refine incorporates one verification signal into an existing estimate:
// confidence rises by a fixed increment (capped), the band narrows and
// never widens, one assumption is retired, and the disclaimer is
// recomputed for the new tier. The input estimate is not mutated.
func Refine(prev model.TaxEstimate, signal string) model.TaxEstimate {
	next := prev

	next.ConfidenceScore = math.Min(prev.ConfidenceScore+refineIncrement, refineCap)
	next.ConfidenceLevel = model.LevelForScore(next.ConfidenceScore)

	halfWidth := (prev.High - prev.Low) / 2 * refineBandFactor
	if halfWidth < minBandHalfWidth {
		halfWidth = math.Min(minBandHalfWidth, (prev.High-prev.Low)/2)
	}
	next.Low = roundCents(prev.Likely - halfWidth)
	next.High = roundCents(prev.Likely + halfWidth)

	if len(prev.Assumptions) > 0 {
		next.Assumptions = append([]string(nil), prev.Assumptions[1:]...)
	}

	next.Disclaimer = disclaimerFor(next.ConfidenceScore)
	return next
}
