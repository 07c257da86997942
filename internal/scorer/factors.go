package scorer

import (
	"math"
	"regexp"

	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/taxyear"
)

// Fixed raw-value patterns per field kind. A raw value matching its
// kind's pattern is considered cleanly formatted.
var (
	currencyPattern = regexp.MustCompile(`^\$?\d{1,3}(,\d{3})*(\.\d{2})?$|^\$?\d+(\.\d{2})?$`)
	// Hyphenated EIN (XX-XXXXXXX) or SSN (XXX-XX-XXXX).
	identifierPattern = regexp.MustCompile(`^\d{2}-\d{7}$|^\d{3}-\d{2}-\d{4}$`)
	digitsOnlyPattern = regexp.MustCompile(`^\d{9}$`)
)

// plausibleRange is the statistical range for a field's value.
type plausibleRange struct {
	min, max      float64
	allowNegative bool
}

// plausibleRanges holds per-field statistical ranges calibrated from the
// document corpus. Fields without an entry score neutral.
var plausibleRanges = map[string]plausibleRange{
	model.FieldWages:              {min: 0, max: 250_000},
	model.FieldFederalWithholding: {min: 0, max: 60_000},
	model.FieldSSWages:            {min: 0, max: 180_000},
	model.FieldSSTax:              {min: 0, max: 11_000},
	model.FieldMedicareWages:      {min: 0, max: 300_000},
	model.FieldMedicareTax:        {min: 0, max: 5_000},
	model.FieldInterestIncome:     {min: 0, max: 50_000},
	model.FieldOrdinaryDividends:  {min: 0, max: 100_000},
	model.FieldQualifiedDividends: {min: 0, max: 100_000},
	model.FieldNonemployeeComp:    {min: 0, max: 300_000},
}

// scoreOCRQuality clamps the OCR provider's base quality to 0-100.
func scoreOCRQuality(base float64) float64 {
	return math.Min(100, math.Max(0, base))
}

// scoreFormatMatch grades how well the raw and normalized forms of a field
// match the expected shape for its kind.
func scoreFormatMatch(f model.ExtractedField) float64 {
	if f.Kind == model.KindText {
		if f.Normalized != nil && f.Normalized.Text != "" {
			return 90
		}
		return 75
	}

	if f.Normalized == nil {
		return 30
	}

	switch f.Kind {
	case model.KindCurrency:
		if currencyPattern.MatchString(f.RawValue) {
			return 100
		}
		// Normalization succeeded, so the value was loosely parseable.
		return 85
	case model.KindIdentifier:
		if identifierPattern.MatchString(f.RawValue) {
			return 100
		}
		if digitsOnlyPattern.MatchString(f.Normalized.Text) {
			return 85
		}
		return 50
	default:
		return 75
	}
}

// scorePatternStrength grades the structural quality of the raw value.
func scorePatternStrength(f model.ExtractedField) float64 {
	switch f.Kind {
	case model.KindIdentifier:
		switch {
		case identifierPattern.MatchString(f.RawValue):
			return 100
		case f.Normalized != nil && digitsOnlyPattern.MatchString(f.Normalized.Text):
			return 80
		default:
			return 40
		}
	case model.KindCurrency:
		switch {
		case currencyPattern.MatchString(f.RawValue):
			return 95
		case f.Normalized != nil:
			return 80
		default:
			return 50
		}
	default:
		return 75
	}
}

// ratioRule ties a derived payroll-tax field to its wage base at a fixed
// rate.
type ratioRule struct {
	wageField string
	taxField  string
	rate      func(*taxyear.Constants) float64
}

var ratioRules = []ratioRule{
	{wageField: model.FieldSSWages, taxField: model.FieldSSTax, rate: func(c *taxyear.Constants) float64 { return c.SSRate }},
	{wageField: model.FieldMedicareWages, taxField: model.FieldMedicareTax, rate: func(c *taxyear.Constants) float64 { return c.MedicareRate }},
}

// scoreCrossFieldConsistency validates a field against its sibling fields
// from the same document using domain arithmetic. values contains the
// sibling amounts plus the scored field's own amount under its own name.
func scoreCrossFieldConsistency(name string, values map[string]float64, tc *taxyear.Constants) float64 {
	if len(values) <= 1 {
		return 85 // nothing to check against
	}

	// Payroll-tax ratio checks, applied whether the scored field is the
	// wage side or the tax side.
	for _, rule := range ratioRules {
		if name != rule.wageField && name != rule.taxField {
			continue
		}
		wages, haveWages := values[rule.wageField]
		tax, haveTax := values[rule.taxField]
		if !haveWages || !haveTax {
			continue
		}
		expected := wages * rule.rate(tc)
		diff := math.Abs(tax - expected)
		switch {
		case diff <= 1.00:
			return 100
		case expected > 0 && diff <= expected*0.05:
			return 80
		default:
			return 50
		}
	}

	// A qualified sub-amount must not exceed its ordinary parent.
	if name == model.FieldQualifiedDividends || name == model.FieldOrdinaryDividends {
		qualified, haveQ := values[model.FieldQualifiedDividends]
		ordinary, haveO := values[model.FieldOrdinaryDividends]
		if haveQ && haveO {
			if qualified > ordinary {
				return 30
			}
			return 100
		}
	}

	return 85 // siblings present, no applicable rule
}

// Position describes where a field was found on the page versus where the
// form template expects it.
type Position struct {
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// scorePositionalAccuracy grades layout position agreement. A nil position
// means the template position is unknown.
func scorePositionalAccuracy(pos *Position) float64 {
	if pos == nil || pos.Expected == "" {
		return 75
	}
	if pos.Expected == pos.Actual {
		return 100
	}
	return 60
}

// scoreValuePlausibility grades a currency amount against the statistical
// range for its field. Non-currency fields and fields without a range
// table score neutral.
func scoreValuePlausibility(f model.ExtractedField) float64 {
	amt, ok := f.Amount()
	if !ok {
		return 85
	}
	r, ok := plausibleRanges[f.Name]
	if !ok {
		return 85
	}

	switch {
	case amt < 0 && !r.allowNegative:
		return 30
	case amt >= r.min && amt <= r.max:
		return 95
	case amt > r.max*2:
		return 40
	default:
		return 65
	}
}
