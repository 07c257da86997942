package importer

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/claritytax/docintel/internal/model"
)

// ReadCSV reads documents from a CSV export of the OCR service. The first
// row is assumed to be a header.
func ReadCSV(path string) ([]model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open csv")
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(r io.Reader) ([]model.Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // validated per row

	var rows []row
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "importer: read csv line %d", line+1)
		}
		line++
		if line == 1 {
			continue // header
		}
		if isBlank(record) {
			continue
		}
		parsed, err := parseRow(record, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, parsed)
	}

	return assemble(rows), nil
}
