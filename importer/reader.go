package importer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Reader decodes the first worksheet of a file into raw rows. The first row
// of the sheet is the header row.
type Reader interface {
	Read(path string) ([]RawRow, error)
}

func ReaderForFormat(format string) (Reader, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{}, nil
	case "xls":
		return &XLSReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// InferFormat returns the explicit format when set, otherwise derives it from
// the file extension.
func InferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return normalizeFormat(format), nil
	}

	extension := normalizeFormat(filepath.Ext(path))
	switch extension {
	case "csv", "txt":
		return "csv", nil
	case "xlsx", "xlsm":
		return "excel", nil
	case "xls":
		return "xls", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}
