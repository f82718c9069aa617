package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, records []Record) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, record.values())
	}

	file, err := buildWorkbook(recordHeaders, rows)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}
	return nil
}

// buildWorkbook writes every value as a text cell so amounts and dates keep
// their Brazilian formatting.
func buildWorkbook(headers []string, rows [][]string) (*excelize.File, error) {
	file := excelize.NewFile()
	sheet := file.GetSheetName(0)

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellStr(sheet, cell, header); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, values := range rows {
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := file.SetCellStr(sheet, cell, value); err != nil {
				_ = file.Close()
				return nil, fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	return file, nil
}
