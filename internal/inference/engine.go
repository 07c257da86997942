// Package inference derives missing fields and validates internal
// consistency of a single tax document using per-kind rule tables.
package inference

import (
	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/taxyear"
)

// Engine runs the per-kind rule tables. It is a pure function over its
// inputs and safe for concurrent use.
type Engine struct {
	tc *taxyear.Constants
}

// NewEngine creates an Engine bound to one tax year's constants.
func NewEngine(tc *taxyear.Constants) *Engine {
	return &Engine{tc: tc}
}

// Infer fills absent fields and validates consistency for one document.
// amounts maps field names to normalized values; malformed fields should
// simply be absent. Never fails: missing data degrades into issues and
// lower completion.
func (e *Engine) Infer(kind model.DocumentKind, amounts map[string]float64) model.InferenceResult {
	rules := rulesFor(kind)

	// Effective view: extracted values plus anything inferred so far, so
	// later derivations can chain on earlier ones.
	effective := make(map[string]float64, len(amounts))
	for k, v := range amounts {
		effective[k] = v
	}

	var result model.InferenceResult
	for _, rule := range rules.derivations {
		if _, present := effective[rule.target]; present {
			continue
		}
		inf := rule.derive(e.tc, effective)
		if inf == nil {
			continue
		}
		result.InferredFields = append(result.InferredFields, *inf)
		effective[rule.target] = inf.Value
	}

	// Validations run over extracted values only; inferred values would
	// trivially satisfy the arithmetic they were derived from.
	for _, validate := range rules.validations {
		result.Issues = append(result.Issues, validate(e.tc, amounts)...)
	}

	for _, name := range rules.required {
		if _, ok := effective[name]; !ok {
			result.MissingRequired = append(result.MissingRequired, name)
		}
	}

	if len(rules.required) == 0 {
		result.CompletionPercentage = 100
	} else {
		present := len(rules.required) - len(result.MissingRequired)
		result.CompletionPercentage = float64(present) / float64(len(rules.required)) * 100
	}

	criticalMissing := false
	for _, name := range rules.critical {
		if _, ok := effective[name]; !ok {
			criticalMissing = true
			break
		}
	}
	result.CanProceed = !criticalMissing && !result.HasErrors()

	return result
}

// InferDocument runs Infer over a document's normalized amounts.
func (e *Engine) InferDocument(doc model.Document) model.InferenceResult {
	return e.Infer(doc.Kind, doc.Amounts())
}
