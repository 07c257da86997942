package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/claritytax/docintel/internal/importer"
	"github.com/claritytax/docintel/internal/model"
	"github.com/claritytax/docintel/internal/pipeline"
)

// fieldInput is one extracted field as it appears in a JSON request file.
type fieldInput struct {
	Name       string  `json:"name"`
	RawValue   string  `json:"raw_value"`
	Kind       string  `json:"kind"`
	OCRQuality float64 `json:"ocr_quality"`
}

// documentInput is one document as it appears in a JSON request file.
type documentInput struct {
	Kind   string       `json:"kind"`
	Fields []fieldInput `json:"fields"`
}

// requestInput is the JSON request file schema.
type requestInput struct {
	TaxYear      int             `json:"tax_year"`
	FilingStatus string          `json:"filing_status"`
	Dependents   int             `json:"dependents"`
	Documents    []documentInput `json:"documents"`
}

func (d documentInput) toDocument() model.Document {
	doc := model.Document{
		Kind:   model.DocumentKind(d.Kind),
		Fields: make(map[string]model.ExtractedField, len(d.Fields)),
	}
	for _, f := range d.Fields {
		doc.Fields[f.Name] = model.NewExtractedField(f.Name, f.RawValue, model.FieldKind(f.Kind), f.OCRQuality)
	}
	return doc
}

// loadDocuments reads documents from a JSON, CSV, or XLSX file, dispatching
// on the file extension.
func loadDocuments(path string) ([]model.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		req, err := loadRequest(path)
		if err != nil {
			return nil, err
		}
		return req.Documents, nil
	case ".csv":
		return importer.ReadCSV(path)
	case ".xlsx":
		return importer.ReadXLSX(path, importer.XLSXOptions{})
	default:
		return nil, eris.Errorf("unsupported input format %q (want .json, .csv, or .xlsx)", filepath.Ext(path))
	}
}

// loadRequest reads a full analysis request from a JSON file.
func loadRequest(path string) (*pipeline.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read request file %s", path)
	}

	var in requestInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, eris.Wrapf(err, "parse request file %s", path)
	}

	req := &pipeline.Request{
		TaxYear:      in.TaxYear,
		FilingStatus: model.FilingStatus(in.FilingStatus),
		Dependents:   in.Dependents,
	}
	for _, d := range in.Documents {
		req.Documents = append(req.Documents, d.toDocument())
	}
	return req, nil
}
