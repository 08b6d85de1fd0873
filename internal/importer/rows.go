package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one candidate land record extracted from an import.
type Row struct {
	RaiyatName      string `json:"raiyatName"`
	JamabandiNumber string `json:"jamabandiNumber"`
	KhataNumber     string `json:"khataNumber"`
	KhesraNumber    string `json:"khesraNumber"`
	Rakwa           string `json:"rakwa"`
	Uttar           string `json:"uttar"`
	Dakshin         string `json:"dakshin"`
	Purab           string `json:"purab"`
	Paschim         string `json:"paschim"`
	Remarks         string `json:"remarks"`
}

// Normalize trims every field.
func (r Row) Normalize() Row {
	return Row{
		RaiyatName:      strings.TrimSpace(r.RaiyatName),
		JamabandiNumber: strings.TrimSpace(r.JamabandiNumber),
		KhataNumber:     strings.TrimSpace(r.KhataNumber),
		KhesraNumber:    strings.TrimSpace(r.KhesraNumber),
		Rakwa:           strings.TrimSpace(r.Rakwa),
		Uttar:           strings.TrimSpace(r.Uttar),
		Dakshin:         strings.TrimSpace(r.Dakshin),
		Purab:           strings.TrimSpace(r.Purab),
		Paschim:         strings.TrimSpace(r.Paschim),
		Remarks:         strings.TrimSpace(r.Remarks),
	}
}

// Complete reports whether the row carries both a raiyat name and a khesra number.
func (r Row) Complete() bool {
	return strings.TrimSpace(r.RaiyatName) != "" && strings.TrimSpace(r.KhesraNumber) != ""
}

func (r *Row) set(field Field, value string) {
	switch field {
	case FieldRaiyatName:
		r.RaiyatName = value
	case FieldJamabandiNumber:
		r.JamabandiNumber = value
	case FieldKhataNumber:
		r.KhataNumber = value
	case FieldKhesraNumber:
		r.KhesraNumber = value
	case FieldRakwa:
		r.Rakwa = value
	case FieldUttar:
		r.Uttar = value
	case FieldDakshin:
		r.Dakshin = value
	case FieldPurab:
		r.Purab = value
	case FieldPaschim:
		r.Paschim = value
	case FieldRemarks:
		r.Remarks = value
	}
}

// Get returns the value of a field.
func (r Row) Get(field Field) string {
	switch field {
	case FieldRaiyatName:
		return r.RaiyatName
	case FieldJamabandiNumber:
		return r.JamabandiNumber
	case FieldKhataNumber:
		return r.KhataNumber
	case FieldKhesraNumber:
		return r.KhesraNumber
	case FieldRakwa:
		return r.Rakwa
	case FieldUttar:
		return r.Uttar
	case FieldDakshin:
		return r.Dakshin
	case FieldPurab:
		return r.Purab
	case FieldPaschim:
		return r.Paschim
	case FieldRemarks:
		return r.Remarks
	default:
		return ""
	}
}

// MapRows extracts candidate rows from data rows using the header. Rows
// missing a raiyat name or khesra number are dropped and counted.
func MapRows(header []string, rows [][]string) ([]Row, int) {
	columns := MapHeader(header)
	candidates := make([]Row, 0, len(rows))
	dropped := 0
	for _, cells := range rows {
		var row Row
		for field, idx := range columns {
			if idx < len(cells) {
				row.set(field, strings.TrimSpace(cells[idx]))
			}
		}
		if !row.Complete() {
			dropped++
			continue
		}
		candidates = append(candidates, row)
	}
	return candidates, dropped
}

// ErrEmptyFile is returned when an upload has no header row.
var ErrEmptyFile = errors.New("importer: empty file")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads a CSV upload and returns its candidate rows and the number of
// dropped data rows. Blank lines are skipped.
func ReadCSV(r io.Reader) ([]Row, int, error) {
	data, errRead := io.ReadAll(r)
	if errRead != nil {
		return nil, 0, fmt.Errorf("importer: read: %w", errRead)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, errParse := reader.ReadAll()
	if errParse != nil {
		return nil, 0, fmt.Errorf("importer: parse csv: %w", errParse)
	}
	if len(records) == 0 {
		return nil, 0, ErrEmptyFile
	}
	rows, dropped := MapRows(records[0], records[1:])
	return rows, dropped, nil
}

// WriteCSV writes rows with the export header labels, which MapHeader maps
// back onto the same fields.
func WriteCSV(w io.Writer, rows []Row) error {
	if _, errBOM := w.Write(utf8BOM); errBOM != nil {
		return errBOM
	}
	writer := csv.NewWriter(w)
	header := make([]string, 0, len(Columns))
	for _, column := range Columns {
		header = append(header, column.Label)
	}
	if errHeader := writer.Write(header); errHeader != nil {
		return errHeader
	}
	for _, row := range rows {
		cells := make([]string, 0, len(Columns))
		for _, column := range Columns {
			cells = append(cells, row.Get(column.Field))
		}
		if errRow := writer.Write(cells); errRow != nil {
			return errRow
		}
	}
	writer.Flush()
	return writer.Error()
}
