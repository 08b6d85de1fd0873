// Package importer maps spreadsheet rows with Hindi or English headers onto
// land record fields.
package importer

import "strings"

// Field identifies a land record field an import column can feed.
type Field string

// Importable fields.
const (
	FieldRaiyatName      Field = "raiyatName"
	FieldJamabandiNumber Field = "jamabandiNumber"
	FieldKhataNumber     Field = "khataNumber"
	FieldKhesraNumber    Field = "khesraNumber"
	FieldRakwa           Field = "rakwa"
	FieldUttar           Field = "uttar"
	FieldDakshin         Field = "dakshin"
	FieldPurab           Field = "purab"
	FieldPaschim         Field = "paschim"
	FieldRemarks         Field = "remarks"
)

// Column pairs a field with the header keywords that select it.
type Column struct {
	Field    Field
	Keywords []string
	// Label is the header written on export.
	Label string
}

// Columns is the keyword table, checked in order. A header maps to the first
// column whose keyword it contains.
var Columns = []Column{
	{Field: FieldRaiyatName, Keywords: []string{"रैयत", "raiyat"}, Label: "रैयत का नाम"},
	{Field: FieldJamabandiNumber, Keywords: []string{"जमाबंदी", "jamabandi"}, Label: "जमाबंदी नंबर"},
	{Field: FieldKhataNumber, Keywords: []string{"खाता", "khata"}, Label: "खाता नंबर"},
	{Field: FieldKhesraNumber, Keywords: []string{"खेसरा", "khesra"}, Label: "खेसरा नंबर"},
	{Field: FieldRakwa, Keywords: []string{"रकवा", "rakwa"}, Label: "रकवा (डिसमिल)"},
	{Field: FieldUttar, Keywords: []string{"उत्तर", "uttar"}, Label: "उत्तर"},
	{Field: FieldDakshin, Keywords: []string{"दक्षिण", "dakshin"}, Label: "दक्षिण"},
	{Field: FieldPurab, Keywords: []string{"पूर्व", "purab"}, Label: "पूर्व"},
	{Field: FieldPaschim, Keywords: []string{"पश्चिम", "paschim"}, Label: "पश्चिम"},
	{Field: FieldRemarks, Keywords: []string{"रिमार्क", "remarks", "टिप्पणी"}, Label: "रिमार्क"},
}

// ColumnMap maps a field to its column index in the header row.
type ColumnMap map[Field]int

// MatchHeader returns the field a header cell selects, if any.
func MatchHeader(header string) (Field, bool) {
	normalized := strings.ToLower(strings.TrimSpace(header))
	if normalized == "" {
		return "", false
	}
	for _, column := range Columns {
		for _, keyword := range column.Keywords {
			if strings.Contains(normalized, strings.ToLower(keyword)) {
				return column.Field, true
			}
		}
	}
	return "", false
}

// MapHeader builds a column map from a header row. Unmatched headers are
// ignored; when two headers select the same field the first one wins.
func MapHeader(header []string) ColumnMap {
	out := make(ColumnMap)
	for idx, cell := range header {
		field, ok := MatchHeader(cell)
		if !ok {
			continue
		}
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = idx
	}
	return out
}
