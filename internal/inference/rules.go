package inference

import (
	"fmt"
	"math"

	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/taxyear"
)

// derivationRule derives a value for target when it is absent and the
// rule's prerequisites are present. derive returns nil when prerequisites
// are missing.
type derivationRule struct {
	target string
	derive func(tc *taxyear.Constants, values map[string]float64) *model.InferredField
}

// validationRule checks present fields for internal consistency and
// returns zero or more issues. Validations only look at values actually
// extracted from the document, never at inferred ones.
type validationRule func(tc *taxyear.Constants, amounts map[string]float64) []model.ValidationIssue

// ruleSet is the immutable per-document-kind rule configuration. New
// document kinds are added by data, not code.
type ruleSet struct {
	required    []string
	critical    []string
	derivations []derivationRule
	validations []validationRule
}

// roundCents rounds to the nearest cent.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr(v float64) *float64 { return &v }

// wageStatementRules covers W-2 wage statements.
var wageStatementRules = ruleSet{
	required: []string{model.FieldWages, model.FieldFederalWithholding},
	critical: []string{model.FieldWages},
	derivations: []derivationRule{
		{
			target: model.FieldSSWages,
			derive: func(tc *taxyear.Constants, values map[string]float64) *model.InferredField {
				wages, ok := values[model.FieldWages]
				if !ok {
					return nil
				}
				capped := wages > tc.SSWageBase
				inf := &model.InferredField{
					Name:                 model.FieldSSWages,
					Value:                math.Min(wages, tc.SSWageBase),
					Type:                 model.InferenceCalculated,
					Confidence:           85,
					Explanation:          "Social Security wages typically equal box 1 wages",
					SourceFields:         []string{model.FieldWages},
					RequiresConfirmation: capped,
				}
				if capped {
					inf.Type = model.InferenceEstimated
					inf.Confidence = 75
					inf.Explanation = fmt.Sprintf("Wages exceed the $%.0f wage base; Social Security wages capped", tc.SSWageBase)
				}
				return inf
			},
		},
		{
			target: model.FieldSSTax,
			derive: func(tc *taxyear.Constants, values map[string]float64) *model.InferredField {
				ssWages, ok := values[model.FieldSSWages]
				if !ok {
					return nil
				}
				return &model.InferredField{
					Name:         model.FieldSSTax,
					Value:        roundCents(ssWages * tc.SSRate),
					Type:         model.InferenceCalculated,
					Confidence:   90,
					Explanation:  fmt.Sprintf("Social Security tax is %.1f%% of Social Security wages", tc.SSRate*100),
					SourceFields: []string{model.FieldSSWages},
				}
			},
		},
		{
			target: model.FieldMedicareWages,
			derive: func(tc *taxyear.Constants, values map[string]float64) *model.InferredField {
				wages, ok := values[model.FieldWages]
				if !ok {
					return nil
				}
				return &model.InferredField{
					Name:         model.FieldMedicareWages,
					Value:        wages,
					Type:         model.InferenceCalculated,
					Confidence:   90,
					Explanation:  "Medicare wages are uncapped and typically equal box 1 wages",
					SourceFields: []string{model.FieldWages},
				}
			},
		},
		{
			target: model.FieldMedicareTax,
			derive: func(tc *taxyear.Constants, values map[string]float64) *model.InferredField {
				medWages, ok := values[model.FieldMedicareWages]
				if !ok {
					return nil
				}
				return &model.InferredField{
					Name:         model.FieldMedicareTax,
					Value:        roundCents(medWages * tc.MedicareRate),
					Type:         model.InferenceCalculated,
					Confidence:   88,
					Explanation:  fmt.Sprintf("Medicare tax is %.2f%% of Medicare wages", tc.MedicareRate*100),
					SourceFields: []string{model.FieldMedicareWages},
				}
			},
		},
	},
	validations: []validationRule{
		payrollTaxTolerance(model.FieldSSWages, model.FieldSSTax, "Social Security",
			func(tc *taxyear.Constants) float64 { return tc.SSRate }),
		payrollTaxTolerance(model.FieldMedicareWages, model.FieldMedicareTax, "Medicare",
			func(tc *taxyear.Constants) float64 { return tc.MedicareRate }),
		withholdingRatio,
		ssWageBaseCheck,
	},
}

// payrollTaxTolerance warns when a payroll tax deviates from its flat rate
// by more than 50 cents.
func payrollTaxTolerance(wageField, taxField, label string, rate func(*taxyear.Constants) float64) validationRule {
	return func(tc *taxyear.Constants, amounts map[string]float64) []model.ValidationIssue {
		wages, haveWages := amounts[wageField]
		tax, haveTax := amounts[taxField]
		if !haveWages || !haveTax {
			return nil
		}
		expected := roundCents(wages * rate(tc))
		if math.Abs(tax-expected) <= 0.50 {
			return nil
		}
		return []model.ValidationIssue{{
			Severity:   model.SeverityWarning,
			Field:      taxField,
			Message:    fmt.Sprintf("%s tax does not match %.2f%% of %s wages", label, rate(tc)*100, label),
			Expected:   ptr(expected),
			Actual:     ptr(tax),
			Suggestion: "Verify both boxes against the original form",
		}}
	}
}

// withholdingRatio flags implausibly high federal withholding.
func withholdingRatio(_ *taxyear.Constants, amounts map[string]float64) []model.ValidationIssue {
	wages, haveWages := amounts[model.FieldWages]
	withheld, haveWithheld := amounts[model.FieldFederalWithholding]
	if !haveWages || !haveWithheld || wages <= 0 {
		return nil
	}
	ratio := withheld / wages
	switch {
	case ratio > 0.50:
		return []model.ValidationIssue{{
			Severity:   model.SeverityError,
			Field:      model.FieldFederalWithholding,
			Message:    "federal withholding exceeds 50% of wages",
			Actual:     ptr(withheld),
			Suggestion: "Check for a misread decimal point or transposed boxes",
		}}
	case ratio > 0.40:
		return []model.ValidationIssue{{
			Severity:   model.SeverityWarning,
			Field:      model.FieldFederalWithholding,
			Message:    "federal withholding exceeds 40% of wages, which is unusual",
			Actual:     ptr(withheld),
			Suggestion: "Confirm the withholding amount against box 2",
		}}
	}
	return nil
}

// ssWageBaseCheck errors when per-document Social Security wages exceed
// the annual wage base.
func ssWageBaseCheck(tc *taxyear.Constants, amounts map[string]float64) []model.ValidationIssue {
	ssWages, ok := amounts[model.FieldSSWages]
	if !ok || ssWages <= tc.SSWageBase {
		return nil
	}
	return []model.ValidationIssue{{
		Severity: model.SeverityError,
		Field:    model.FieldSSWages,
		Message:  fmt.Sprintf("Social Security wages exceed the $%.0f annual wage base", tc.SSWageBase),
		Expected: ptr(tc.SSWageBase),
		Actual:   ptr(ssWages),
	}}
}

// dividendStatementRules covers 1099-DIV dividend statements.
var dividendStatementRules = ruleSet{
	required: []string{model.FieldOrdinaryDividends},
	critical: []string{model.FieldOrdinaryDividends},
	derivations: []derivationRule{
		{
			target: model.FieldQualifiedDividends,
			derive: func(tc *taxyear.Constants, values map[string]float64) *model.InferredField {
				ordinary, ok := values[model.FieldOrdinaryDividends]
				if !ok {
					return nil
				}
				return &model.InferredField{
					Name:                 model.FieldQualifiedDividends,
					Value:                roundCents(ordinary * tc.QualifiedDividendRatio),
					Type:                 model.InferenceEstimated,
					Confidence:           50,
					Explanation:          fmt.Sprintf("Assumed %.0f%% of ordinary dividends are qualified; actual ratio varies by holding", tc.QualifiedDividendRatio*100),
					SourceFields:         []string{model.FieldOrdinaryDividends},
					RequiresConfirmation: true,
				}
			},
		},
	},
	validations: []validationRule{
		func(_ *taxyear.Constants, amounts map[string]float64) []model.ValidationIssue {
			qualified, haveQ := amounts[model.FieldQualifiedDividends]
			ordinary, haveO := amounts[model.FieldOrdinaryDividends]
			if !haveQ || !haveO || qualified <= ordinary {
				return nil
			}
			return []model.ValidationIssue{{
				Severity: model.SeverityError,
				Field:    model.FieldQualifiedDividends,
				Message:  "qualified dividends exceed ordinary dividends",
				Expected: ptr(ordinary),
				Actual:   ptr(qualified),
			}}
		},
	},
}

// interestStatementRules covers 1099-INT interest statements.
var interestStatementRules = ruleSet{
	required: []string{model.FieldInterestIncome},
	critical: []string{model.FieldInterestIncome},
}

// nonemployeeCompRules covers 1099-NEC self-employment income statements.
var nonemployeeCompRules = ruleSet{
	required: []string{model.FieldNonemployeeComp},
	critical: []string{model.FieldNonemployeeComp},
}

// genericRules applies to unrecognized document kinds: no requirements, no
// derivations, so unknown kinds degrade instead of failing.
var genericRules = ruleSet{}

// CriticalFields returns the critical field set for a document kind, for
// use as document-aggregation weights.
func CriticalFields(kind model.DocumentKind) map[string]bool {
	rules := rulesFor(kind)
	out := make(map[string]bool, len(rules.critical))
	for _, name := range rules.critical {
		out[name] = true
	}
	return out
}

// rulesFor returns the rule set for a document kind, falling back to
// generic rules for unknown kinds.
func rulesFor(kind model.DocumentKind) ruleSet {
	switch kind {
	case model.DocW2:
		return wageStatementRules
	case model.Doc1099DIV:
		return dividendStatementRules
	case model.Doc1099INT:
		return interestStatementRules
	case model.Doc1099NEC:
		return nonemployeeCompRules
	default:
		return genericRules
	}
}
