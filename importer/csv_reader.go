package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVReader reads delimited text exports. UTF-8 and UTF-16 files with a BOM
// are decoded transparently; the delimiter is sniffed from the header line.
type CSVReader struct{}

func (r *CSVReader) Read(path string) ([]RawRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	rows, err := r.ReadFrom(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func (r *CSVReader) ReadFrom(input io.Reader) ([]RawRow, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	buffered := bufio.NewReader(transform.NewReader(input, decoder))

	firstLine, err := buffered.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek csv header: %w", err)
	}

	reader := csv.NewReader(buffered)
	reader.Comma = sniffDelimiter(firstLine)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv file is empty")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	headers = cleanHeaders(headers)

	rows := make([]RawRow, 0, 128)
	rowNumber := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", rowNumber+1, err)
		}
		rowNumber++

		cells := make([]Cell, len(record))
		for i, value := range record {
			cells[i] = TextCell(value)
		}
		if row, ok := newRawRow(rowNumber, headers, cells); ok {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// sniffDelimiter picks the most frequent of ';', tab and ',' on the first
// line. Ties fall back to comma.
func sniffDelimiter(sample []byte) rune {
	if idx := bytes.IndexByte(sample, '\n'); idx >= 0 {
		sample = sample[:idx]
	}

	best := ','
	bestCount := bytes.Count(sample, []byte{','})
	for _, candidate := range []rune{';', '\t'} {
		count := bytes.Count(sample, []byte(string(candidate)))
		if count > bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best
}
