package scorer

import (
	"math"

	"github.com/claritytax/docintel/internal/model"
)

// Fraction of fields needing review above which a document is unusable
// even at MEDIUM confidence.
const maxReviewFraction = 0.30

// criticalWeight is the aggregation weight applied to critical fields.
const criticalWeight = 2.0

// AggregateDocument rolls per-field confidence results into a document
// verdict. critical names the fields whose scores count double; it may be
// nil. Empty input yields score 0, VERY_LOW, unusable.
func AggregateDocument(results []model.ConfidenceResult, critical map[string]bool) model.DocumentScore {
	score := model.DocumentScore{
		LevelCounts: map[model.ConfidenceLevel]int{},
	}
	if len(results) == 0 {
		score.Level = model.LevelVeryLow
		return score
	}

	var weightedSum, weightSum float64
	var needingReview int
	for _, r := range results {
		w := 1.0
		if critical[r.FieldName] {
			w = criticalWeight
		}
		weightedSum += r.OverallScore * w
		weightSum += w
		score.LevelCounts[r.Level]++

		if r.NeedsVerification {
			needingReview++
			score.FieldsNeedingReview = append(score.FieldsNeedingReview, model.FieldReview{
				FieldName:   r.FieldName,
				Score:       r.OverallScore,
				Reason:      r.VerificationReason,
				Suggestions: r.Suggestions,
			})
		}
	}

	score.OverallScore = math.Round(weightedSum/weightSum*100) / 100
	score.Level = model.LevelForScore(score.OverallScore)

	reviewFraction := float64(needingReview) / float64(len(results))
	score.DocumentUsable = (score.Level == model.LevelHigh || score.Level == model.LevelMedium) &&
		reviewFraction < maxReviewFraction

	return score
}
