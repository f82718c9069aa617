package importer

import (
	"strconv"
	"strings"
)

// Cell is a raw spreadsheet value. Spreadsheet readers that know a cell's
// type report numbers with IsNumber set; everything else is text.
type Cell struct {
	Text     string
	Number   float64
	IsNumber bool
}

func TextCell(value string) Cell {
	return Cell{Text: value}
}

func NumberCell(value float64) Cell {
	return Cell{Text: strconv.FormatFloat(value, 'f', -1, 64), Number: value, IsNumber: true}
}

// IsEmpty reports whether the cell carries no usable content. A numeric zero
// counts as empty.
func (c Cell) IsEmpty() bool {
	if c.IsNumber {
		return c.Number == 0
	}
	return strings.TrimSpace(c.Text) == ""
}

// IsUnset reports whether the cell holds no value at all. Whitespace text and
// numeric zero are values.
func (c Cell) IsUnset() bool {
	return !c.IsNumber && c.Text == ""
}

func (c Cell) String() string {
	return c.Text
}

// RawRow is one worksheet row keyed by the headers as authored. Headers keeps
// the column order of the sheet.
type RawRow struct {
	RowNumber int
	Headers   []string
	Values    map[string]Cell
}

func (r RawRow) Get(header string) Cell {
	return r.Values[header]
}

// newRawRow pairs header and cell slices. Duplicate headers keep the first
// column; blank headers are dropped. ok is false when every cell is empty.
func newRawRow(rowNumber int, headers []string, cells []Cell) (RawRow, bool) {
	row := RawRow{
		RowNumber: rowNumber,
		Headers:   make([]string, 0, len(headers)),
		Values:    make(map[string]Cell, len(headers)),
	}

	hasContent := false
	for i, header := range headers {
		if strings.TrimSpace(header) == "" {
			continue
		}
		if _, exists := row.Values[header]; exists {
			continue
		}
		cell := Cell{}
		if i < len(cells) {
			cell = cells[i]
		}
		if !cell.IsEmpty() {
			hasContent = true
		}
		row.Headers = append(row.Headers, header)
		row.Values[header] = cell
	}

	return row, hasContent
}

func cleanHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, header := range headers {
		out[i] = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	}
	return out
}

func normalizeFormat(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	trimmed = strings.TrimPrefix(trimmed, ".")
	return trimmed
}
