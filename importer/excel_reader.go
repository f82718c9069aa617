package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelReader reads the first worksheet of an xlsx/xlsm workbook. Values are
// read raw (no number formats applied) so that numeric cells, including
// date-formatted ones, reach the normalizers as numbers.
type ExcelReader struct{}

func (r *ExcelReader) Read(path string) ([]RawRow, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	rows, err := readWorkbook(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func (r *ExcelReader) ReadFrom(input io.Reader) ([]RawRow, error) {
	file, err := excelize.OpenReader(input)
	if err != nil {
		return nil, fmt.Errorf("open excel workbook: %w", err)
	}
	defer file.Close()

	return readWorkbook(file)
}

func readWorkbook(file *excelize.File) ([]RawRow, error) {
	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	values, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheetName)
	}

	headers := cleanHeaders(values[0])
	rows := make([]RawRow, 0, len(values)-1)
	for i, value := range values[1:] {
		rowNumber := i + 2
		cells := make([]Cell, len(value))
		for col, raw := range value {
			cells[col] = excelCell(file, sheetName, col+1, rowNumber, raw)
		}
		if row, ok := newRawRow(rowNumber, headers, cells); ok {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

func excelCell(file *excelize.File, sheet string, col, row int, raw string) Cell {
	if strings.TrimSpace(raw) == "" {
		return TextCell(raw)
	}

	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return TextCell(raw)
	}
	cellType, err := file.GetCellType(sheet, ref)
	if err != nil {
		return TextCell(raw)
	}

	switch cellType {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		number, parseErr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if parseErr != nil {
			return TextCell(raw)
		}
		return NumberCell(number)
	default:
		return TextCell(raw)
	}
}
