package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/taxyear"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(taxyear.Year2025())
}

func findInferred(t *testing.T, result model.InferenceResult, name string) model.InferredField {
	t.Helper()
	for _, f := range result.InferredFields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %s not inferred", name)
	return model.InferredField{}
}

func TestInfer_WageStatement_DerivesPayrollFields(t *testing.T) {
	e := newTestEngine(t)

	result := e.Infer(model.DocW2, map[string]float64{
		model.FieldWages:              75000,
		model.FieldFederalWithholding: 9000,
	})

	ssWages := findInferred(t, result, model.FieldSSWages)
	assert.Equal(t, 75000.0, ssWages.Value)
	assert.Equal(t, model.InferenceCalculated, ssWages.Type)
	assert.Equal(t, 85.0, ssWages.Confidence)
	assert.False(t, ssWages.RequiresConfirmation)
	assert.Equal(t, []string{model.FieldWages}, ssWages.SourceFields)

	ssTax := findInferred(t, result, model.FieldSSTax)
	assert.InDelta(t, 4650.0, ssTax.Value, 0.01) // 75000 * 6.2%
	assert.Equal(t, 90.0, ssTax.Confidence)

	medWages := findInferred(t, result, model.FieldMedicareWages)
	assert.Equal(t, 75000.0, medWages.Value)

	medTax := findInferred(t, result, model.FieldMedicareTax)
	assert.InDelta(t, 1087.50, medTax.Value, 0.01) // 75000 * 1.45%

	assert.Empty(t, result.MissingRequired)
	assert.Equal(t, 100.0, result.CompletionPercentage)
	assert.True(t, result.CanProceed)
}

func TestInfer_WageStatement_CapsSSWagesAtBase(t *testing.T) {
	e := newTestEngine(t)

	result := e.Infer(model.DocW2, map[string]float64{
		model.FieldWages:              250000,
		model.FieldFederalWithholding: 60000,
	})

	ssWages := findInferred(t, result, model.FieldSSWages)
	assert.Equal(t, 176100.0, ssWages.Value)
	assert.Equal(t, model.InferenceEstimated, ssWages.Type)
	assert.Equal(t, 75.0, ssWages.Confidence)
	assert.True(t, ssWages.RequiresConfirmation)

	// SS tax chains off the capped value; Medicare stays uncapped.
	ssTax := findInferred(t, result, model.FieldSSTax)
	assert.InDelta(t, 176100*0.062, ssTax.Value, 0.01)

	medWages := findInferred(t, result, model.FieldMedicareWages)
	assert.Equal(t, 250000.0, medWages.Value)
}

func TestInfer_WageStatement_PresentFieldsNotRederived(t *testing.T) {
	e := newTestEngine(t)

	result := e.Infer(model.DocW2, map[string]float64{
		model.FieldWages:              75000,
		model.FieldFederalWithholding: 9000,
		model.FieldSSWages:            75000,
		model.FieldSSTax:              4650,
		model.FieldMedicareWages:      75000,
		model.FieldMedicareTax:        1087.50,
	})

	assert.Empty(t, result.InferredFields)
	assert.Empty(t, result.Issues)
	assert.True(t, result.CanProceed)
}

func TestInfer_PayrollTaxToleranceWarning(t *testing.T) {
	e := newTestEngine(t)

	// 75000 * 6.2% = 4650; 4700 is $50 off, well past the 50-cent tolerance.
	result := e.Infer(model.DocW2, map[string]float64{
		model.FieldWages:              75000,
		model.FieldFederalWithholding: 9000,
		model.FieldSSWages:            75000,
		model.FieldSSTax:              4700,
	})

	require.Len(t, result.Issues, 1)
	issue := result.Issues[0]
	assert.Equal(t, model.SeverityWarning, issue.Severity)
	assert.Equal(t, model.FieldSSTax, issue.Field)
	require.NotNil(t, issue.Expected)
	assert.InDelta(t, 4650.0, *issue.Expected, 0.01)
	require.NotNil(t, issue.Actual)
	assert.InDelta(t, 4700.0, *issue.Actual, 0.01)

	// Warnings do not block.
	assert.True(t, result.CanProceed)
}

func TestInfer_PayrollTaxWithinTolerance(t *testing.T) {
	e := newTestEngine(t)

	result := e.Infer(model.DocW2, map[string]float64{
		model.FieldWages:              75000,
		model.FieldFederalWithholding: 9000,
		model.FieldSSWages:            75000,
		model.FieldSSTax:              4650.40,
	})

	assert.Empty(t, result.Issues)
}

func TestInfer_WithholdingRatio(t *testing.T) {
	e := newTestEngine(t)

	t.Run("over 50 percent is an error", func(t *testing.T) {
		result := e.Infer(model.DocW2, map[string]float64{
			model.FieldWages:              50000,
			model.FieldFederalWithholding: 25000.01,
		})

		require.True(t, result.HasErrors())
		assert.False(t, result.CanProceed)

		var found bool
		for _, issue := range result.Issues {
			if issue.Severity == model.SeverityError && issue.Field == model.FieldFederalWithholding {
				found = true
				assert.Contains(t, issue.Message, "50%")
			}
		}
		assert.True(t, found)
	})

	t.Run("over 40 percent is a warning", func(t *testing.T) {
		result := e.Infer(model.DocW2, map[string]float64{
			model.FieldWages:              50000,
			model.FieldFederalWithholding: 22000,
		})

		assert.False(t, result.HasErrors())
		assert.True(t, result.CanProceed)
		require.Len(t, result.Issues, 1)
		assert.Equal(t, model.SeverityWarning, result.Issues[0].Severity)
	})

	t.Run("normal ratio is silent", func(t *testing.T) {
		result := e.Infer(model.DocW2, map[string]float64{
			model.FieldWages:              50000,
			model.FieldFederalWithholding: 5000,
		})
		assert.Empty(t, result.Issues)
	})
}

func TestInfer_SSWageBaseError(t *testing.T) {
	e := newTestEngine(t)

	result := e.Infer(model.DocW2, map[string]float64{
		model.FieldWages:              200000,
		model.FieldFederalWithholding: 40000,
		model.FieldSSWages:            200000,
	})

	require.True(t, result.HasErrors())
	assert.False(t, result.CanProceed)
}

func TestInfer_DividendStatement_EstimatesQualified(t *testing.T) {
	e := newTestEngine(t)

	result := e.Infer(model.Doc1099DIV, map[string]float64{
		model.FieldOrdinaryDividends: 5000,
	})

	qualified := findInferred(t, result, model.FieldQualifiedDividends)
	assert.InDelta(t, 4000.0, qualified.Value, 0.01) // 80% assumption
	assert.Equal(t, model.InferenceEstimated, qualified.Type)
	assert.Equal(t, 50.0, qualified.Confidence)
	assert.True(t, qualified.RequiresConfirmation)
}

func TestInfer_DividendStatement_QualifiedExceedsOrdinary(t *testing.T) {
	e := newTestEngine(t)

	result := e.Infer(model.Doc1099DIV, map[string]float64{
		model.FieldOrdinaryDividends:  5000,
		model.FieldQualifiedDividends: 9000,
	})

	require.True(t, result.HasErrors())
	assert.False(t, result.CanProceed)
	assert.Empty(t, result.InferredFields)
}

func TestInfer_MissingRequired(t *testing.T) {
	e := newTestEngine(t)

	result := e.Infer(model.DocW2, map[string]float64{
		model.FieldFederalWithholding: 5000,
	})

	assert.Equal(t, []string{model.FieldWages}, result.MissingRequired)
	assert.Equal(t, 50.0, result.CompletionPercentage)
	// Wages are critical; nothing can be derived without them.
	assert.False(t, result.CanProceed)
	assert.Empty(t, result.InferredFields)
}

func TestInfer_InterestStatement(t *testing.T) {
	e := newTestEngine(t)

	result := e.Infer(model.Doc1099INT, map[string]float64{
		model.FieldInterestIncome: 320,
	})

	assert.Empty(t, result.InferredFields)
	assert.Equal(t, 100.0, result.CompletionPercentage)
	assert.True(t, result.CanProceed)
}

func TestInfer_UnknownKindDegrades(t *testing.T) {
	e := newTestEngine(t)

	result := e.Infer(model.DocumentKind("1098-t"), map[string]float64{"tuition": 12000})

	assert.Empty(t, result.InferredFields)
	assert.Empty(t, result.MissingRequired)
	assert.Equal(t, 100.0, result.CompletionPercentage)
	assert.True(t, result.CanProceed)
}

func TestInferDocument_UsesNormalizedAmounts(t *testing.T) {
	e := newTestEngine(t)

	doc := model.Document{
		Kind: model.DocW2,
		Fields: map[string]model.ExtractedField{
			model.FieldWages:              model.NewExtractedField(model.FieldWages, "$75,000.00", model.KindCurrency, 92),
			model.FieldFederalWithholding: model.NewExtractedField(model.FieldFederalWithholding, "$9,000.00", model.KindCurrency, 90),
		},
	}

	result := e.InferDocument(doc)
	assert.Len(t, result.InferredFields, 4)
	assert.True(t, result.CanProceed)
}

func TestCriticalFields(t *testing.T) {
	assert.Equal(t, map[string]bool{model.FieldWages: true}, CriticalFields(model.DocW2))
	assert.Equal(t, map[string]bool{model.FieldOrdinaryDividends: true}, CriticalFields(model.Doc1099DIV))
	assert.Empty(t, CriticalFields(model.DocGeneric))
}
