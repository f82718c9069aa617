package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"obracusto/config"
	"obracusto/expense"
	"obracusto/output"
	"obracusto/storage"
)

const sampleCSV = "Descrição;Valor;Vencimento;Status\n" +
	"Cimento 50kg;35,00;20/12/2024;Pendente\n" +
	"Areia;1.234,56;2024-12-21;Pago\n" +
	";10,00;20/12/2024;Pendente\n"

func TestServer_ImportCreatesValidRows(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ts := httptest.NewServer(NewServer(store, testConfig()))
	defer ts.Close()

	resp := postUpload(t, ts.URL+"/api/import", "planilha.csv", sampleCSV, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body importResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.ValidRows)
	assert.Equal(t, 1, body.InvalidCount)
	assert.Equal(t, 2, body.Created)
	assert.True(t, body.Success)
	assert.Equal(t, output.FormatBRL(decimal.RequireFromString("1269.56")), body.Total)

	stored, err := store.ListExpenses(context.Background(), "obra-001")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "2024-12-20", stored[0].DueDate)
	assert.Equal(t, "Cimento 50kg", stored[0].Description)
	assert.Equal(t, expense.StatusPaid, stored[1].Status)
}

func TestServer_ImportDryRunCreatesNothing(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ts := httptest.NewServer(NewServer(store, testConfig()))
	defer ts.Close()

	resp := postUpload(t, ts.URL+"/api/import", "planilha.csv", sampleCSV, map[string]string{"dry_run": "true"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body importResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.DryRun)
	assert.Equal(t, 2, body.ValidRows)
	assert.Equal(t, 0, body.Created)

	stored, err := store.ListExpenses(context.Background(), "obra-001")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestServer_ImportSubmissionFailureReturnsBadGateway(t *testing.T) {
	t.Parallel()

	backend := &failingBackend{}
	ts := httptest.NewServer(NewServer(backend, testConfig()))
	defer ts.Close()

	resp := postUpload(t, ts.URL+"/api/import", "planilha.csv", sampleCSV, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body importResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, 2, body.ValidRows)
	assert.Equal(t, 1, body.InvalidCount)
	assert.Equal(t, 0, body.Created)
	assert.NotEmpty(t, body.Error)
	assert.EqualValues(t, 2, backend.calls.Load())
}

func TestServer_ImportRejectsMissingFile(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(NewServer(openTestStore(t), testConfig()))
	defer ts.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("dry_run", "true"))
	require.NoError(t, writer.Close())

	resp, err := http.Post(ts.URL+"/api/import", writer.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ImportRejectsUnsupportedExtension(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(NewServer(openTestStore(t), testConfig()))
	defer ts.Close()

	resp := postUpload(t, ts.URL+"/api/import", "planilha.pdf", sampleCSV, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_PreviewReturnsFieldMapAndRows(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ts := httptest.NewServer(NewServer(store, testConfig()))
	defer ts.Close()

	content := "Item;Vlr;Data\nTijolo;0,50;01/02/2025\n"
	resp := postUpload(t, ts.URL+"/api/preview", "obra.csv", content, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body previewResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.RowsRead)
	assert.Equal(t, "Data", body.FieldMap.Resolved["dueDate"])
	assert.Contains(t, body.FieldMap.Unresolved, "description")
	assert.Empty(t, body.ValidRows)
	assert.Equal(t, 1, body.InvalidCount)

	stored, err := store.ListExpenses(context.Background(), "obra-001")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestServer_TemplateDownload(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(NewServer(openTestStore(t), testConfig()))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/template")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "modelo-importacao.xlsx")

	content, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	workbook, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows(workbook.GetSheetName(0))
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"Vencimento", "Descrição", "Valor", "Status"}, rows[0])
}

func TestServer_TemplateRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(NewServer(openTestStore(t), testConfig()))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/template?format=pdf")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ExpensesOverview(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ts := httptest.NewServer(NewServer(store, testConfig()))
	defer ts.Close()

	resp := postUpload(t, ts.URL+"/api/import", "planilha.csv", sampleCSV, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := http.Get(ts.URL + "/api/expenses")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var overview ExpenseOverview
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&overview))
	require.Len(t, overview.Days, 2)
	require.Len(t, overview.Months, 1)
	assert.Equal(t, "2024-12", overview.Months[0].Month)
	assert.True(t, overview.Total.Equal(decimal.RequireFromString("1269.56")))
}

func TestServer_MetricsCountImports(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(NewServer(openTestStore(t), testConfig()))
	defer ts.Close()

	resp := postUpload(t, ts.URL+"/api/import", "planilha.csv", sampleCSV, nil)
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	content, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, `obracusto_import_rows_total{result="valid"} 2`)
	assert.Contains(t, text, `obracusto_import_rows_total{result="invalid"} 1`)
	assert.Contains(t, text, `obracusto_import_submissions_total{result="created"} 2`)
	assert.Contains(t, text, "obracusto_import_duration_seconds_count 1")
}

func TestUploadName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"planilha.xlsx":      "planilha.xlsx",
		"../../etc/obra.csv": "obra.csv",
		" gastos.xls ":       "gastos.xls",
		"":                   "upload",
	}
	for input, want := range tests {
		if got := uploadName(input); got != want {
			t.Fatalf("uploadName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestReceiveUpload_CleanupRemovesSpilledFiles(t *testing.T) {
	t.Parallel()

	body, contentType := multipartBody(t, "planilha.csv", sampleCSV, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)

	upload, err := receiveUpload(httptest.NewRecorder(), req, 0)
	require.NoError(t, err)
	assert.Equal(t, "planilha.csv", upload.filename)

	header := req.MultipartForm.File["file"][0]
	spilled, err := header.Open()
	require.NoError(t, err)
	require.NoError(t, spilled.Close())

	upload.cleanup()

	_, err = header.Open()
	assert.Error(t, err)
}

func TestReceiveUpload_MissingFile(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("dry_run", "true"))
	require.NoError(t, writer.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	_, err := receiveUpload(httptest.NewRecorder(), req, 0)
	assert.EqualError(t, err, "missing file upload")
}

func testConfig() config.Config {
	return config.Config{
		Project: config.ProjectConfig{ID: "obra-001"},
		Import: config.ImportConfig{
			Target:          config.TargetSQLite,
			DefaultCategory: expense.DefaultCategory,
			AddedBy:         expense.DefaultAddedBy,
		},
	}
}

func postUpload(t *testing.T, url, filename, content string, fields map[string]string) *http.Response {
	t.Helper()

	body, contentType := multipartBody(t, filename, content, fields)
	resp, err := http.Post(url, contentType, body)
	require.NoError(t, err)
	return resp
}

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func openTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "obracusto_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

type failingBackend struct {
	calls atomic.Int32
}

func (f *failingBackend) CreateExpense(ctx context.Context, draft expense.Draft) (expense.Expense, error) {
	f.calls.Add(1)
	return expense.Expense{}, errors.New("backend unavailable")
}

func (f *failingBackend) ListExpenses(ctx context.Context, projectID string) ([]expense.Expense, error) {
	return nil, nil
}
