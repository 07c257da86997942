// Package scorer implements per-field confidence scoring and document-level
// confidence aggregation for OCR-extracted tax documents.
package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// Weights holds the six factor weights of the confidence model.
// A valid weight set sums to 1.0.
type Weights struct {
	OCRQuality            float64 `yaml:"ocr_quality" mapstructure:"ocr_quality"`
	FormatMatch           float64 `yaml:"format_match" mapstructure:"format_match"`
	PatternStrength       float64 `yaml:"pattern_strength" mapstructure:"pattern_strength"`
	CrossFieldConsistency float64 `yaml:"cross_field_consistency" mapstructure:"cross_field_consistency"`
	PositionalAccuracy    float64 `yaml:"positional_accuracy" mapstructure:"positional_accuracy"`
	ValuePlausibility     float64 `yaml:"value_plausibility" mapstructure:"value_plausibility"`
}

// DefaultWeights returns the calibrated production weight set.
func DefaultWeights() Weights {
	return Weights{
		OCRQuality:            0.25,
		FormatMatch:           0.20,
		PatternStrength:       0.15,
		CrossFieldConsistency: 0.20,
		PositionalAccuracy:    0.10,
		ValuePlausibility:     0.10,
	}
}

// Sum returns the sum of all factor weights.
func (w Weights) Sum() float64 {
	return w.OCRQuality + w.FormatMatch + w.PatternStrength +
		w.CrossFieldConsistency + w.PositionalAccuracy + w.ValuePlausibility
}

// Validate checks that a weight set is internally consistent.
func (w Weights) Validate() error {
	var errs []string

	named := map[string]float64{
		"ocr_quality":             w.OCRQuality,
		"format_match":            w.FormatMatch,
		"pattern_strength":        w.PatternStrength,
		"cross_field_consistency": w.CrossFieldConsistency,
		"positional_accuracy":     w.PositionalAccuracy,
		"value_plausibility":      w.ValuePlausibility,
	}
	for name, v := range named {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	if sum := w.Sum(); math.Abs(sum-1.0) > 1e-9 {
		errs = append(errs, fmt.Sprintf("weights must sum to 1.0, got %.4f", sum))
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: weight validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
