package scorer

import (
	"math"

	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/taxyear"
)

// factors collects the six sub-scores before weighting.
type factors struct {
	ocrQuality   float64
	formatMatch  float64
	pattern      float64
	crossField   float64
	positional   float64
	plausibility float64
}

// FieldScorer scores the trustworthiness of individual extracted fields.
// It is a pure function over its inputs: no I/O, no shared state, safe for
// concurrent use.
type FieldScorer struct {
	weights Weights
	tc      *taxyear.Constants
}

// NewFieldScorer creates a FieldScorer with the given weights and tax-year
// constants.
func NewFieldScorer(weights Weights, tc *taxyear.Constants) *FieldScorer {
	return &FieldScorer{weights: weights, tc: tc}
}

// ScoreInput carries one field plus its scoring context.
type ScoreInput struct {
	Field model.ExtractedField
	// Siblings maps other fields of the same document to their normalized
	// amounts, for cross-field arithmetic checks. May be nil.
	Siblings map[string]float64
	// Position is the template-vs-found layout position. Nil when the form
	// template carries no position for this field.
	Position *Position
}

// Score computes the confidence result for one field. It never fails;
// malformed input degrades individual factor scores instead.
func (s *FieldScorer) Score(in ScoreInput) model.ConfidenceResult {
	f := in.Field

	// Merge the field's own amount into the sibling view so ratio rules
	// see both sides regardless of which one is being scored.
	values := make(map[string]float64, len(in.Siblings)+1)
	for k, v := range in.Siblings {
		values[k] = v
	}
	if amt, ok := f.Amount(); ok {
		values[f.Name] = amt
	}

	fx := factors{
		ocrQuality:   scoreOCRQuality(f.OCRQuality),
		formatMatch:  scoreFormatMatch(f),
		pattern:      scorePatternStrength(f),
		crossField:   scoreCrossFieldConsistency(f.Name, values, s.tc),
		positional:   scorePositionalAccuracy(in.Position),
		plausibility: scoreValuePlausibility(f),
	}

	overall := fx.ocrQuality*s.weights.OCRQuality +
		fx.formatMatch*s.weights.FormatMatch +
		fx.pattern*s.weights.PatternStrength +
		fx.crossField*s.weights.CrossFieldConsistency +
		fx.positional*s.weights.PositionalAccuracy +
		fx.plausibility*s.weights.ValuePlausibility
	overall = math.Round(overall*100) / 100

	level := model.LevelForScore(overall)
	needsVerification := level == model.LevelLow || level == model.LevelVeryLow

	result := model.ConfidenceResult{
		FieldName:    f.Name,
		OverallScore: overall,
		Level:        level,
		Factors: model.ConfidenceFactors{
			OCRQuality:            fx.ocrQuality,
			FormatMatch:           fx.formatMatch,
			PatternStrength:       fx.pattern,
			CrossFieldConsistency: fx.crossField,
			PositionalAccuracy:    fx.positional,
			ValuePlausibility:     fx.plausibility,
		},
		NeedsVerification: needsVerification,
	}

	if needsVerification {
		reason := verificationReason(fx)
		result.VerificationReason = reason
		result.Suggestions = suggestionsFor(reason)
	}

	return result
}

// ScoreDocument scores every field of a document, wiring each field's
// siblings from the document's own normalized amounts.
func (s *FieldScorer) ScoreDocument(doc model.Document) []model.ConfidenceResult {
	amounts := doc.Amounts()

	results := make([]model.ConfidenceResult, 0, len(doc.Fields))
	for name, field := range doc.Fields {
		siblings := make(map[string]float64, len(amounts))
		for k, v := range amounts {
			if k != name {
				siblings[k] = v
			}
		}
		results = append(results, s.Score(ScoreInput{Field: field, Siblings: siblings}))
	}
	return results
}
