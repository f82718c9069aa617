package importer

import (
	"fmt"
	"io"
	"os"

	"github.com/extrame/xls"
)

const (
	xlsCharset = "utf-8"
	// BIFF8 sheets hold at most 256 columns.
	xlsMaxColumns = 256
)

// XLSReader reads the first worksheet of a legacy BIFF (.xls) workbook. The
// BIFF decoder only exposes formatted text, so every cell is text.
type XLSReader struct{}

func (r *XLSReader) Read(path string) ([]RawRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open xls file %s: %w", path, err)
	}
	defer file.Close()

	rows, err := r.ReadFrom(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func (r *XLSReader) ReadFrom(input io.ReadSeeker) (rows []RawRow, err error) {
	// The BIFF decoder panics on truncated or corrupt streams.
	defer func() {
		if recovered := recover(); recovered != nil {
			rows, err = nil, fmt.Errorf("decode xls workbook: %v", recovered)
		}
	}()

	workbook, err := xls.OpenReader(input, xlsCharset)
	if err != nil {
		return nil, fmt.Errorf("open xls workbook: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("xls file has no sheets")
	}

	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("xls file has no readable sheet")
	}

	headerRow, ok := xlsRow(sheet, 0)
	if !ok {
		return nil, fmt.Errorf("sheet %s is empty", sheet.Name)
	}
	headers := cleanHeaders(xlsHeaderValues(headerRow))
	if len(headers) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row", sheet.Name)
	}

	rows = make([]RawRow, 0, int(sheet.MaxRow))
	for index := 1; index <= int(sheet.MaxRow); index++ {
		row, ok := xlsRow(sheet, index)
		if !ok {
			continue
		}
		cells := make([]Cell, len(headers))
		for col := range headers {
			cells[col] = TextCell(row.Col(col))
		}
		if raw, ok := newRawRow(index+1, headers, cells); ok {
			rows = append(rows, raw)
		}
	}

	return rows, nil
}

// xlsRow guards against rows absent from the sheet: the decoder's Row
// accessor dereferences a nil row for gaps.
func xlsRow(sheet *xls.WorkSheet, index int) (row *xls.Row, ok bool) {
	defer func() {
		if recover() != nil {
			row, ok = nil, false
		}
	}()
	return sheet.Row(index), true
}

// xlsHeaderValues scans the header row up to its last non-empty column.
// Row.LastCol is not populated for rows built from cell records.
func xlsHeaderValues(row *xls.Row) []string {
	values := make([]string, xlsMaxColumns)
	width := 0
	for col := 0; col < xlsMaxColumns; col++ {
		values[col] = row.Col(col)
		if values[col] != "" {
			width = col + 1
		}
	}
	return values[:width]
}
