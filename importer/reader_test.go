package importer

import "testing"

func TestInferFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		format string
		want   string
	}{
		{path: "gastos.csv", want: "csv"},
		{path: "gastos.TXT", want: "csv"},
		{path: "gastos.xlsx", want: "excel"},
		{path: "gastos.xlsm", want: "excel"},
		{path: "gastos.xls", want: "xls"},
		{path: "gastos.dat", format: " CSV ", want: "csv"},
	}

	for _, tt := range tests {
		got, err := InferFormat(tt.path, tt.format)
		if err != nil {
			t.Fatalf("InferFormat(%q) returned error: %v", tt.path, err)
		}
		if got != tt.want {
			t.Fatalf("InferFormat(%q, %q) = %q, want %q", tt.path, tt.format, got, tt.want)
		}
	}

	if _, err := InferFormat("gastos.pdf", ""); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

func TestReaderForFormat(t *testing.T) {
	t.Parallel()

	for format, want := range map[string]string{"csv": "*importer.CSVReader", "excel": "*importer.ExcelReader", "xls": "*importer.XLSReader"} {
		reader, err := ReaderForFormat(format)
		if err != nil {
			t.Fatalf("ReaderForFormat(%q) returned error: %v", format, err)
		}
		if got := typeName(reader); got != want {
			t.Fatalf("ReaderForFormat(%q) = %s, want %s", format, got, want)
		}
	}

	if _, err := ReaderForFormat("ods"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func typeName(reader Reader) string {
	switch reader.(type) {
	case *CSVReader:
		return "*importer.CSVReader"
	case *ExcelReader:
		return "*importer.ExcelReader"
	case *XLSReader:
		return "*importer.XLSReader"
	default:
		return "unknown"
	}
}
