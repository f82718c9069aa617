package output

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Writer interface {
	Write(path string, records []Record) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatForPath derives the output format from a file extension.
func FormatForPath(path string) string {
	return normalizeFormat(filepath.Ext(path))
}

func normalizeFormat(value string) string {
	return strings.TrimPrefix(strings.TrimSpace(strings.ToLower(value)), ".")
}
