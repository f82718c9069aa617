package output

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&records, file); err != nil {
		return fmt.Errorf("write csv output %s: %w", path, err)
	}
	return nil
}

// CSVBytes renders records as CSV in memory.
func CSVBytes(records []Record) ([]byte, error) {
	content, err := gocsv.MarshalBytes(&records)
	if err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}
	return content, nil
}
