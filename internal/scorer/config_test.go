package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeights_SumToOne(t *testing.T) {
	w := DefaultWeights()
	assert.InDelta(t, 1.0, w.Sum(), 1e-9)
	require.NoError(t, w.Validate())
}

func TestWeights_Validate(t *testing.T) {
	t.Run("bad sum rejected", func(t *testing.T) {
		w := DefaultWeights()
		w.OCRQuality = 0.50
		err := w.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sum to 1.0")
	})

	t.Run("negative weight rejected", func(t *testing.T) {
		w := Weights{
			OCRQuality:            -0.10,
			FormatMatch:           0.30,
			PatternStrength:       0.20,
			CrossFieldConsistency: 0.30,
			PositionalAccuracy:    0.15,
			ValuePlausibility:     0.15,
		}
		err := w.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ocr_quality")
	})

	t.Run("custom valid set accepted", func(t *testing.T) {
		w := Weights{
			OCRQuality:            0.30,
			FormatMatch:           0.20,
			PatternStrength:       0.10,
			CrossFieldConsistency: 0.20,
			PositionalAccuracy:    0.10,
			ValuePlausibility:     0.10,
		}
		assert.NoError(t, w.Validate())
	})
}
