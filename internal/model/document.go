package model

// DocumentKind identifies the tax form a document was recognized as.
type DocumentKind string

const (
	DocW2      DocumentKind = "w2"
	Doc1099INT DocumentKind = "1099-int"
	Doc1099DIV DocumentKind = "1099-div"
	Doc1099NEC DocumentKind = "1099-nec"
	DocGeneric DocumentKind = "generic"
)

// FilingStatus is the taxpayer's filing status.
type FilingStatus string

const (
	StatusSingle          FilingStatus = "single"
	StatusMarriedJoint    FilingStatus = "married_joint"
	StatusMarriedSeparate FilingStatus = "married_separate"
	StatusHeadOfHousehold FilingStatus = "head_of_household"
)

// Canonical field names shared across the pipeline. These match the keys
// the OCR service emits for recognized form boxes.
const (
	FieldWages              = "wages"
	FieldFederalWithholding = "federal_withholding"
	FieldSSWages            = "social_security_wages"
	FieldSSTax              = "social_security_tax"
	FieldMedicareWages      = "medicare_wages"
	FieldMedicareTax        = "medicare_tax"
	FieldInterestIncome     = "interest_income"
	FieldOrdinaryDividends  = "ordinary_dividends"
	FieldQualifiedDividends = "qualified_dividends"
	FieldNonemployeeComp    = "nonemployee_compensation"
	FieldEmployerEIN        = "employer_ein"
	FieldPayerTIN           = "payer_tin"
	FieldEmployeeSSN        = "employee_ssn"
)

// Document is the per-document input to the pipeline: a recognized form
// kind plus its extracted fields keyed by canonical name.
type Document struct {
	Kind   DocumentKind              `json:"kind"`
	Fields map[string]ExtractedField `json:"fields"`
}

// Amounts returns the normalized currency fields as a name->amount map.
// Fields that failed normalization are absent.
func (d Document) Amounts() map[string]float64 {
	out := make(map[string]float64, len(d.Fields))
	for name, f := range d.Fields {
		if amt, ok := f.Amount(); ok {
			out[name] = amt
		}
	}
	return out
}

// Identifier returns the normalized (digits-only) value of an identifier
// field, or "" when absent or unparsed.
func (d Document) Identifier(name string) string {
	f, ok := d.Fields[name]
	if !ok || f.Kind != KindIdentifier || f.Normalized == nil {
		return ""
	}
	return f.Normalized.Text
}

// PayerID returns the document's payer identifier (employer EIN or payer
// TIN), used for cross-document duplicate detection.
func (d Document) PayerID() string {
	if id := d.Identifier(FieldEmployerEIN); id != "" {
		return id
	}
	return d.Identifier(FieldPayerTIN)
}
