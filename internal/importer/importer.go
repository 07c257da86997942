// Package importer reads OCR field exports (XLSX or CSV) into pipeline
// document inputs. Each row is one extracted field:
//
//	document_id, document_kind, field_name, raw_value, field_kind, ocr_quality
//
// Rows sharing a document_id form one document.
package importer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/claritytax/docintel/internal/model"
)

const expectedColumns = 6

// row is one parsed spreadsheet row.
type row struct {
	docID      string
	kind       model.DocumentKind
	fieldName  string
	rawValue   string
	fieldKind  model.FieldKind
	ocrQuality float64
}

// parseRow validates one record. header rows and blank lines are the
// caller's concern.
func parseRow(record []string, line int) (row, error) {
	if len(record) < expectedColumns {
		return row{}, eris.Errorf("importer: line %d has %d columns, want %d", line, len(record), expectedColumns)
	}

	quality, err := strconv.ParseFloat(strings.TrimSpace(record[5]), 64)
	if err != nil {
		return row{}, eris.Wrapf(err, "importer: line %d: bad ocr_quality %q", line, record[5])
	}

	return row{
		docID:      strings.TrimSpace(record[0]),
		kind:       model.DocumentKind(strings.TrimSpace(record[1])),
		fieldName:  strings.TrimSpace(record[2]),
		rawValue:   strings.TrimSpace(record[3]),
		fieldKind:  model.FieldKind(strings.TrimSpace(record[4])),
		ocrQuality: quality,
	}, nil
}

// assemble groups parsed rows into documents, ordered by document id for
// deterministic output.
func assemble(rows []row) []model.Document {
	byID := map[string]*model.Document{}
	var ids []string

	for _, r := range rows {
		doc, ok := byID[r.docID]
		if !ok {
			doc = &model.Document{Kind: r.kind, Fields: map[string]model.ExtractedField{}}
			byID[r.docID] = doc
			ids = append(ids, r.docID)
		}
		doc.Fields[r.fieldName] = model.NewExtractedField(r.fieldName, r.rawValue, r.fieldKind, r.ocrQuality)
	}

	sort.Strings(ids)
	docs := make([]model.Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, *byID[id])
	}
	return docs
}
