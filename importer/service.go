package importer

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"obracusto/expense"
	"obracusto/internal/classify"
	"obracusto/internal/timeutil"
)

type Result struct {
	FilesProcessed int
	RowsRead       int
	Batch          expense.ImportBatch
	FieldMaps      map[string]FieldMap
}

type RunOptions struct {
	// Format forces a reader; empty infers it from each file extension.
	Format     string
	Candidates FieldCandidates
	Clock      timeutil.Clock
}

// Run reads every file, parses each row and classifies the rows into one
// batch. Unreadable files abort the run; bad rows only count as invalid.
func Run(paths []string, options RunOptions) (*Result, error) {
	candidates, now := options.resolve()

	result := newResult(len(paths))
	for _, path := range paths {
		rows, fieldMap, err := ReadFile(path, options.Format, candidates)
		if err != nil {
			return nil, err
		}
		result.add(path, rows, fieldMap, candidates, now)
	}

	return result, nil
}

// RunUpload is Run for a single file held in memory or in a multipart upload.
// name picks the reader when options.Format is empty and keys FieldMaps.
func RunUpload(name string, input io.ReadSeeker, options RunOptions) (*Result, error) {
	candidates, now := options.resolve()

	rows, fieldMap, err := ReadUpload(name, input, options.Format, candidates)
	if err != nil {
		return nil, err
	}

	result := newResult(1)
	result.add(name, rows, fieldMap, candidates, now)
	return result, nil
}

func newResult(files int) *Result {
	return &Result{
		Batch:     expense.ImportBatch{ValidRows: make([]expense.ParsedRow, 0, 256)},
		FieldMaps: make(map[string]FieldMap, files),
	}
}

func (r *Result) add(name string, rows []RawRow, fieldMap FieldMap, candidates FieldCandidates, now time.Time) {
	batch := classify.Rows(ParseRows(rows, candidates, now))
	log.Debug().
		Str("file", name).
		Int("rows", len(rows)).
		Int("valid", len(batch.ValidRows)).
		Int("invalid", batch.InvalidCount).
		Strs("unresolved", fieldMap.Unresolved).
		Msg("file parsed")

	r.FilesProcessed++
	r.RowsRead += len(rows)
	r.FieldMaps[name] = fieldMap
	classify.Merge(&r.Batch, batch)
}

func (o RunOptions) resolve() (FieldCandidates, time.Time) {
	candidates := o.Candidates
	if len(candidates.Description) == 0 && len(candidates.Amount) == 0 &&
		len(candidates.DueDate) == 0 && len(candidates.Status) == 0 {
		candidates = DefaultCandidates()
	}
	clock := o.Clock
	if clock == nil {
		clock = timeutil.SystemClock
	}
	return candidates, clock()
}

// ReadFile decodes one file and builds its field map from the header row.
func ReadFile(path, format string, candidates FieldCandidates) ([]RawRow, FieldMap, error) {
	sourceFormat, err := InferFormat(path, format)
	if err != nil {
		return nil, FieldMap{}, err
	}
	reader, err := ReaderForFormat(sourceFormat)
	if err != nil {
		return nil, FieldMap{}, err
	}

	rows, err := reader.Read(path)
	if err != nil {
		return nil, FieldMap{}, err
	}

	return rows, BuildFieldMap(headersOf(rows), candidates), nil
}

// ReadUpload is ReadFile for content that is not on disk.
func ReadUpload(name string, input io.ReadSeeker, format string, candidates FieldCandidates) ([]RawRow, FieldMap, error) {
	sourceFormat, err := InferFormat(name, format)
	if err != nil {
		return nil, FieldMap{}, err
	}

	var rows []RawRow
	switch sourceFormat {
	case "csv":
		rows, err = (&CSVReader{}).ReadFrom(input)
	case "excel", "xlsx", "xlsm":
		rows, err = (&ExcelReader{}).ReadFrom(input)
	case "xls":
		rows, err = (&XLSReader{}).ReadFrom(input)
	default:
		return nil, FieldMap{}, fmt.Errorf("unsupported input format: %s", sourceFormat)
	}
	if err != nil {
		return nil, FieldMap{}, fmt.Errorf("%s: %w", name, err)
	}

	return rows, BuildFieldMap(headersOf(rows), candidates), nil
}

func headersOf(rows []RawRow) []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0].Headers
}
