package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
)

// TemplateHeaders are the columns of the import template, in order.
var TemplateHeaders = []string{"Vencimento", "Descrição", "Valor", "Status"}

// TemplateExample is the sample row shipped with the template.
var TemplateExample = []string{"20/12/2024", "Cimento 50kg", "35,00", "Pendente"}

// WriteTemplate writes the import template as xlsx, or as csv when the path
// ends in .csv.
func WriteTemplate(path string) error {
	var (
		content []byte
		err     error
	)
	if FormatForPath(path) == "csv" {
		content, err = TemplateCSV()
	} else {
		content, err = TemplateXLSX()
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write template %s: %w", path, err)
	}
	return nil
}

func TemplateXLSX() ([]byte, error) {
	file, err := buildWorkbook(TemplateHeaders, [][]string{TemplateExample})
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buffer, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render template workbook: %w", err)
	}
	return buffer.Bytes(), nil
}

func TemplateCSV() ([]byte, error) {
	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	writer.Comma = ';'
	if err := writer.WriteAll([][]string{TemplateHeaders, TemplateExample}); err != nil {
		return nil, fmt.Errorf("render template csv: %w", err)
	}
	return buffer.Bytes(), nil
}
