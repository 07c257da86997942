package model

import (
	"strings"
)

// FieldKind classifies an extracted field's value type.
type FieldKind string

const (
	KindCurrency   FieldKind = "currency"
	KindIdentifier FieldKind = "identifier"
	KindText       FieldKind = "text"
)

// FieldValue is the normalized form of a raw OCR string. For currency
// fields Amount is set; for identifier and text fields Text is set.
type FieldValue struct {
	Amount float64 `json:"amount,omitempty"`
	Text   string  `json:"text,omitempty"`
}

// ExtractedField is one OCR-extracted field of a tax document. Produced
// upstream by the OCR service; read-only within the pipeline.
type ExtractedField struct {
	Name       string      `json:"name"`
	RawValue   string      `json:"raw_value"`
	Normalized *FieldValue `json:"normalized,omitempty"` // nil when normalization failed
	Kind       FieldKind   `json:"kind"`
	OCRQuality float64     `json:"ocr_quality"` // 0-100, from the OCR provider
}

// NewExtractedField builds an ExtractedField, normalizing the raw value
// according to its kind. Normalization failure leaves Normalized nil; it
// never errors.
func NewExtractedField(name, raw string, kind FieldKind, ocrQuality float64) ExtractedField {
	f := ExtractedField{
		Name:       name,
		RawValue:   raw,
		Kind:       kind,
		OCRQuality: ocrQuality,
	}
	switch kind {
	case KindCurrency:
		if amt, ok := ParseCurrency(raw); ok {
			f.Normalized = &FieldValue{Amount: amt}
		}
	case KindIdentifier:
		if digits := DigitsOnly(raw); len(digits) > 0 {
			f.Normalized = &FieldValue{Text: digits}
		}
	default:
		if t := strings.TrimSpace(raw); t != "" {
			f.Normalized = &FieldValue{Text: t}
		}
	}
	return f
}

// Amount returns the normalized currency amount, or 0 and false when the
// field is not a parseable currency value.
func (f ExtractedField) Amount() (float64, bool) {
	if f.Kind != KindCurrency || f.Normalized == nil {
		return 0, false
	}
	return f.Normalized.Amount, true
}

// ParseCurrency parses a currency string tolerant of OCR noise: leading
// dollar signs, thousands separators, surrounding whitespace, and
// accounting-style parentheses for negatives.
func ParseCurrency(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	s = strings.ReplaceAll(s, ",", "")
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}

	// Manual parse keeps rejection strict: one decimal point, digits only.
	var whole, frac float64
	var fracDigits int
	seenDot := false
	seenDigit := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
			if seenDot {
				frac = frac*10 + float64(c-'0')
				fracDigits++
			} else {
				whole = whole*10 + float64(c-'0')
			}
		case c == '.' && !seenDot:
			seenDot = true
		default:
			return 0, false
		}
	}
	if !seenDigit || fracDigits > 2 {
		return 0, false
	}

	v := whole
	for i := 0; i < fracDigits; i++ {
		frac /= 10
	}
	v += frac
	if negative {
		v = -v
	}
	return v, true
}

// DigitsOnly strips every non-digit character from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
