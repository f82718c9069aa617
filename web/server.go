// Package web serves the import pipeline over HTTP for a single trusted
// client; it has no auth/CSRF protection.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"obracusto/config"
	"obracusto/expense"
	"obracusto/importer"
	"obracusto/internal/timeutil"
	"obracusto/output"
	"obracusto/submitter"
)

const (
	maxUploadBytes = 32 << 20
	// Upload parts larger than this are spilled to temp files.
	uploadMemoryBytes = 8 << 20
)

// Backend is where imported expenses are created and listed.
type Backend interface {
	expense.Creator
	ListExpenses(ctx context.Context, projectID string) ([]expense.Expense, error)
}

type Server struct {
	backend Backend
	cfg     config.Config
	clock   timeutil.Clock
	metrics *metrics
	mux     *http.ServeMux
}

type importResponse struct {
	ValidRows    int    `json:"validRows"`
	InvalidCount int    `json:"invalidCount"`
	Created      int    `json:"created"`
	Success      bool   `json:"success"`
	DryRun       bool   `json:"dryRun"`
	Total        string `json:"total"`
	Error        string `json:"error,omitempty"`
}

type previewRow struct {
	RowNumber   int            `json:"rowNumber"`
	Description string         `json:"description"`
	Amount      string         `json:"amount"`
	Display     string         `json:"display"`
	DueDate     string         `json:"dueDate"`
	Status      expense.Status `json:"status"`
}

type previewResponse struct {
	FieldMap     importer.FieldMap `json:"fieldMap"`
	RowsRead     int               `json:"rowsRead"`
	ValidRows    []previewRow      `json:"validRows"`
	InvalidCount int               `json:"invalidCount"`
}

func NewServer(backend Backend, cfg config.Config) *Server {
	server := &Server{
		backend: backend,
		cfg:     cfg,
		clock:   timeutil.SystemClock,
		metrics: newMetrics(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/import", server.handleAPIImport)
	mux.HandleFunc("POST /api/preview", server.handleAPIPreview)
	mux.HandleFunc("GET /api/template", server.handleAPITemplate)
	mux.HandleFunc("GET /api/expenses", server.handleAPIExpenses)
	mux.Handle("GET /metrics", server.metrics.handler())
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleAPIImport(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	defer s.metrics.observeDuration(started)

	upload, err := receiveUpload(w, r, uploadMemoryBytes)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer upload.cleanup()

	dryRun, err := parseOptionalBool(r.FormValue("dry_run"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid dry_run value: %v", err), http.StatusBadRequest)
		return
	}

	result, err := s.runImport(upload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	batch := result.Batch
	s.metrics.observeBatch(len(batch.ValidRows), batch.InvalidCount)

	response := importResponse{
		ValidRows:    len(batch.ValidRows),
		InvalidCount: batch.InvalidCount,
		DryRun:       dryRun,
		Total:        output.FormatBRL(output.Summarize(batch.ValidRows).Total),
	}
	if dryRun {
		response.Success = true
		writeJSON(w, http.StatusOK, response)
		return
	}

	ctx := log.Logger.With().Str("upload", upload.filename).Logger().WithContext(r.Context())
	report, err := submitter.Submit(ctx, s.backend, batch.ValidRows, submitter.Options{
		Concurrency: s.cfg.Import.Concurrency,
		Draft:       s.cfg.DraftOptionsFor(upload.filename),
	})
	s.metrics.observeSubmissions(len(report.Created), report.Failed)
	response.Created = len(report.Created)
	if err != nil {
		response.Error = err.Error()
		writeJSON(w, submitErrorStatus(err), response)
		return
	}

	response.Success = true
	log.Info().
		Str("upload", upload.filename).
		Int("valid", response.ValidRows).
		Int("invalid", response.InvalidCount).
		Int("created", response.Created).
		Msg("upload imported")
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleAPIPreview(w http.ResponseWriter, r *http.Request) {
	upload, err := receiveUpload(w, r, uploadMemoryBytes)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer upload.cleanup()

	result, err := s.runImport(upload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows := make([]previewRow, 0, len(result.Batch.ValidRows))
	for _, row := range result.Batch.ValidRows {
		rows = append(rows, previewRow{
			RowNumber:   row.RowNumber,
			Description: row.Description,
			Amount:      row.Amount.StringFixed(2),
			Display:     output.FormatBRL(row.Amount),
			DueDate:     row.DueDate,
			Status:      row.Status,
		})
	}
	writeJSON(w, http.StatusOK, previewResponse{
		FieldMap:     result.FieldMaps[upload.filename],
		RowsRead:     result.RowsRead,
		ValidRows:    rows,
		InvalidCount: result.Batch.InvalidCount,
	})
}

func (s *Server) handleAPITemplate(w http.ResponseWriter, r *http.Request) {
	var (
		content     []byte
		err         error
		filename    = "modelo-importacao.xlsx"
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	)
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))) {
	case "", "xlsx", "excel":
		content, err = output.TemplateXLSX()
	case "csv":
		content, err = output.TemplateCSV()
		filename = "modelo-importacao.csv"
		contentType = "text/csv; charset=utf-8"
	default:
		http.Error(w, "unsupported template format", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("build template: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func (s *Server) handleAPIExpenses(w http.ResponseWriter, r *http.Request) {
	projectID := strings.TrimSpace(r.URL.Query().Get("project"))
	if projectID == "" {
		projectID = s.cfg.Project.ID
	}

	expenses, err := s.backend.ListExpenses(r.Context(), projectID)
	if err != nil {
		http.Error(w, fmt.Sprintf("list expenses: %v", err), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, BuildOverview(expenses, output.FormatBRL))
}

// runImport reads the upload in place; its file name selects the reader.
func (s *Server) runImport(upload uploadedFile) (*importer.Result, error) {
	return importer.RunUpload(upload.filename, upload.file, importer.RunOptions{
		Candidates: s.cfg.Candidates(),
		Clock:      s.clock,
	})
}

type uploadedFile struct {
	file     multipart.File
	filename string
	cleanup  func()
}

// receiveUpload opens the multipart "file" field. cleanup closes it and
// removes any temp files the form spilled to disk.
func receiveUpload(w http.ResponseWriter, r *http.Request, memoryBytes int64) (uploadedFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(memoryBytes); err != nil {
		return uploadedFile{}, fmt.Errorf("parse multipart form: %w", err)
	}
	form := r.MultipartForm
	removeForm := func() {
		if form != nil {
			_ = form.RemoveAll()
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		removeForm()
		return uploadedFile{}, errors.New("missing file upload")
	}

	return uploadedFile{
		file:     file,
		filename: uploadName(header.Filename),
		cleanup: func() {
			_ = file.Close()
			removeForm()
		},
	}, nil
}

func parseOptionalBool(value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func submitErrorStatus(err error) int {
	if errors.Is(err, submitter.ErrSubmissionFailed) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// uploadName keeps the base name of the client file so the extension picks
// the reader; paths sent by the client are dropped.
func uploadName(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "upload"
	}
	return base
}
