package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claritytax/docintel/internal/model"
)

func TestParseRow(t *testing.T) {
	r, err := parseRow([]string{"doc-1", "w2", "wages", "$50,000.00", "currency", "92.5"}, 2)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", r.docID)
	assert.Equal(t, model.DocW2, r.kind)
	assert.Equal(t, "wages", r.fieldName)
	assert.Equal(t, "$50,000.00", r.rawValue)
	assert.Equal(t, model.KindCurrency, r.fieldKind)
	assert.Equal(t, 92.5, r.ocrQuality)
}

func TestParseRow_TrimsWhitespace(t *testing.T) {
	r, err := parseRow([]string{" doc-1 ", " w2 ", " wages ", " 50000 ", " currency ", " 92 "}, 2)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", r.docID)
	assert.Equal(t, "wages", r.fieldName)
}

func TestParseRow_Errors(t *testing.T) {
	_, err := parseRow([]string{"doc-1", "w2", "wages"}, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")

	_, err = parseRow([]string{"doc-1", "w2", "wages", "50000", "currency", "high"}, 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ocr_quality")
}

func TestAssemble_GroupsByDocumentID(t *testing.T) {
	rows := []row{
		{docID: "b", kind: model.Doc1099INT, fieldName: model.FieldInterestIncome, rawValue: "320", fieldKind: model.KindCurrency, ocrQuality: 88},
		{docID: "a", kind: model.DocW2, fieldName: model.FieldWages, rawValue: "50000", fieldKind: model.KindCurrency, ocrQuality: 92},
		{docID: "a", kind: model.DocW2, fieldName: model.FieldFederalWithholding, rawValue: "5000", fieldKind: model.KindCurrency, ocrQuality: 90},
	}

	docs := assemble(rows)
	require.Len(t, docs, 2)

	// Sorted by document id for deterministic output.
	assert.Equal(t, model.DocW2, docs[0].Kind)
	assert.Len(t, docs[0].Fields, 2)
	assert.Equal(t, model.Doc1099INT, docs[1].Kind)
	assert.Len(t, docs[1].Fields, 1)

	wages := docs[0].Fields[model.FieldWages]
	require.NotNil(t, wages.Normalized)
	assert.Equal(t, 50000.0, wages.Normalized.Amount)
}

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"document_id,document_kind,field_name,raw_value,field_kind,ocr_quality",
		`doc-1,w2,wages,"$50,000.00",currency,92`,
		"doc-1,w2,employer_ein,12-3456789,identifier,95",
		"",
		"doc-2,1099-int,interest_income,320.50,currency,88",
	}, "\n")

	docs, err := readCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, model.DocW2, docs[0].Kind)
	assert.Equal(t, "123456789", docs[0].Identifier(model.FieldEmployerEIN))
	assert.Equal(t, map[string]float64{model.FieldWages: 50000}, docs[0].Amounts())
	assert.Equal(t, map[string]float64{model.FieldInterestIncome: 320.50}, docs[1].Amounts())
}

func TestReadCSV_BadQualityFails(t *testing.T) {
	input := "document_id,document_kind,field_name,raw_value,field_kind,ocr_quality\n" +
		"doc-1,w2,wages,50000,currency,not-a-number\n"

	_, err := readCSV(strings.NewReader(input))
	assert.Error(t, err)
}

func TestReadCSV_EmptyAfterHeader(t *testing.T) {
	docs, err := readCSV(strings.NewReader("document_id,document_kind,field_name,raw_value,field_kind,ocr_quality\n"))
	require.NoError(t, err)
	assert.Empty(t, docs)
}
