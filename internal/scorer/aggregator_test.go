package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claritytax/docintel/internal/model"
)

func confResult(name string, score float64) model.ConfidenceResult {
	level := model.LevelForScore(score)
	r := model.ConfidenceResult{
		FieldName:    name,
		OverallScore: score,
		Level:        level,
	}
	if level == model.LevelLow || level == model.LevelVeryLow {
		r.NeedsVerification = true
		r.VerificationReason = ReasonMultipleFactors
		r.Suggestions = suggestionTable[ReasonMultipleFactors]
	}
	return r
}

func TestAggregateDocument_Empty(t *testing.T) {
	score := AggregateDocument(nil, nil)

	assert.Equal(t, 0.0, score.OverallScore)
	assert.Equal(t, model.LevelVeryLow, score.Level)
	assert.False(t, score.DocumentUsable)
}

func TestAggregateDocument_UnweightedMean(t *testing.T) {
	results := []model.ConfidenceResult{
		confResult("a", 90),
		confResult("b", 70),
	}

	score := AggregateDocument(results, nil)
	assert.Equal(t, 80.0, score.OverallScore)
	assert.Equal(t, model.LevelMedium, score.Level)
	assert.True(t, score.DocumentUsable)
}

func TestAggregateDocument_CriticalFieldsCountDouble(t *testing.T) {
	results := []model.ConfidenceResult{
		confResult(model.FieldWages, 90),
		confResult("other", 60),
	}

	plain := AggregateDocument(results, nil)
	weighted := AggregateDocument(results, map[string]bool{model.FieldWages: true})

	// (90*2 + 60) / 3 = 80 versus the plain mean of 75.
	assert.Equal(t, 75.0, plain.OverallScore)
	assert.Equal(t, 80.0, weighted.OverallScore)
}

func TestAggregateDocument_LevelCounts(t *testing.T) {
	results := []model.ConfidenceResult{
		confResult("a", 90),
		confResult("b", 88),
		confResult("c", 70),
		confResult("d", 50),
		confResult("e", 20),
	}

	score := AggregateDocument(results, nil)
	assert.Equal(t, 2, score.LevelCounts[model.LevelHigh])
	assert.Equal(t, 1, score.LevelCounts[model.LevelMedium])
	assert.Equal(t, 1, score.LevelCounts[model.LevelLow])
	assert.Equal(t, 1, score.LevelCounts[model.LevelVeryLow])
}

func TestAggregateDocument_ReviewFractionBlocksUsability(t *testing.T) {
	// Mean is MEDIUM but 2 of 5 fields (40%) need review.
	results := []model.ConfidenceResult{
		confResult("a", 95),
		confResult("b", 95),
		confResult("c", 95),
		confResult("d", 45),
		confResult("e", 45),
	}

	score := AggregateDocument(results, nil)
	require.Len(t, score.FieldsNeedingReview, 2)
	assert.Equal(t, model.LevelMedium, score.Level)
	assert.False(t, score.DocumentUsable)
}

func TestAggregateDocument_LowLevelNeverUsable(t *testing.T) {
	results := []model.ConfidenceResult{
		confResult("a", 50),
		confResult("b", 55),
	}

	score := AggregateDocument(results, nil)
	assert.Equal(t, model.LevelLow, score.Level)
	assert.False(t, score.DocumentUsable)
}

func TestAggregateDocument_ReviewEntriesCarrySuggestions(t *testing.T) {
	results := []model.ConfidenceResult{
		confResult("a", 95),
		confResult("b", 95),
		confResult("c", 95),
		confResult("shaky", 45),
	}

	score := AggregateDocument(results, nil)
	require.Len(t, score.FieldsNeedingReview, 1)
	review := score.FieldsNeedingReview[0]
	assert.Equal(t, "shaky", review.FieldName)
	assert.Equal(t, 45.0, review.Score)
	assert.Equal(t, ReasonMultipleFactors, review.Reason)
	assert.NotEmpty(t, review.Suggestions)
	assert.True(t, score.DocumentUsable) // 25% review fraction, MEDIUM overall
}
