package importer

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func fixedClock() time.Time {
	return fixedNow
}

func TestRun_TenValidThreeInvalid(t *testing.T) {
	t.Parallel()

	var content strings.Builder
	content.WriteString("Vencimento;Descrição;Valor;Status\n")
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&content, "%02d/12/2024;Item %d;%d,00;Pendente\n", i, i, i*10)
	}
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&content, "%02d/11/2024;Sem valor %d;;Pago\n", i, i)
	}
	path := writeTempFile(t, "gastos.csv", content.String())

	result, err := Run([]string{path}, RunOptions{Clock: fixedClock})
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesProcessed)
	assert.Equal(t, 13, result.RowsRead)
	assert.Len(t, result.Batch.ValidRows, 10)
	assert.Equal(t, 3, result.Batch.InvalidCount)
	assert.Equal(t, "Item 1", result.Batch.ValidRows[0].Description)
	assert.Equal(t, "2024-12-01", result.Batch.ValidRows[0].DueDate)

	fieldMap := result.FieldMaps[path]
	assert.Equal(t, "Valor", fieldMap.Resolved[FieldAmount])
	assert.Empty(t, fieldMap.Unresolved)
}

func TestRun_AccumulatesAcrossFiles(t *testing.T) {
	t.Parallel()

	first := writeTempFile(t, "a.csv", "Descrição,Valor\nCimento,\"35,00\"\n,\"100,00\"\n")
	second := writeTempFile(t, "b.csv", "description,amount,date\nSand,200.00,2024-12-20\n")

	result, err := Run([]string{first, second}, RunOptions{Clock: fixedClock})
	require.NoError(t, err)

	assert.Equal(t, 2, result.FilesProcessed)
	assert.Equal(t, 3, result.RowsRead)
	require.Len(t, result.Batch.ValidRows, 2)
	assert.Equal(t, 1, result.Batch.InvalidCount)
	assert.Equal(t, "2026-10-17", result.Batch.ValidRows[0].DueDate)
	assert.Equal(t, "200", result.Batch.ValidRows[1].Amount.String())
}

func TestRun_ExtraCandidates(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "gastos.csv", "Item;Custo\nTijolo;150,00\n")

	result, err := Run([]string{path}, RunOptions{
		Clock:      fixedClock,
		Candidates: DefaultCandidates().WithExtra(FieldCandidates{Description: []string{"item"}, Amount: []string{"custo"}}),
	})
	require.NoError(t, err)
	require.Len(t, result.Batch.ValidRows, 1)
	assert.Equal(t, "Tijolo", result.Batch.ValidRows[0].Description)
}

func TestRun_UnsupportedFileFails(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "gastos.pdf", "%PDF")
	_, err := Run([]string{path}, RunOptions{Clock: fixedClock})
	assert.Error(t, err)
}

func TestRun_MissingFileFails(t *testing.T) {
	t.Parallel()

	_, err := Run([]string{"/nonexistent/gastos.csv"}, RunOptions{Clock: fixedClock})
	assert.Error(t, err)
}

func TestRunUpload_CSV(t *testing.T) {
	t.Parallel()

	input := strings.NewReader("Descrição;Valor;Vencimento\nCimento;35,00;20/12/2024\n;10,00;21/12/2024\n")
	result, err := RunUpload("gastos.csv", input, RunOptions{Clock: fixedClock})
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesProcessed)
	assert.Equal(t, 2, result.RowsRead)
	require.Len(t, result.Batch.ValidRows, 1)
	assert.Equal(t, 1, result.Batch.InvalidCount)
	assert.Equal(t, "Valor", result.FieldMaps["gastos.csv"].Resolved[FieldAmount])
}

func TestRunUpload_Workbook(t *testing.T) {
	t.Parallel()

	file := excelize.NewFile()
	defer file.Close()
	sheet := file.GetSheetName(0)
	require.NoError(t, file.SetSheetRow(sheet, "A1", &[]interface{}{"Vencimento", "Descrição", "Valor"}))
	require.NoError(t, file.SetSheetRow(sheet, "A2", &[]interface{}{45646, "Areia", "1.234,56"}))
	content, err := file.WriteToBuffer()
	require.NoError(t, err)

	result, err := RunUpload("planilha.xlsx", bytes.NewReader(content.Bytes()), RunOptions{Clock: fixedClock})
	require.NoError(t, err)
	require.Len(t, result.Batch.ValidRows, 1)
	assert.Equal(t, "2024-12-20", result.Batch.ValidRows[0].DueDate)
	assert.Equal(t, "1234.56", result.Batch.ValidRows[0].Amount.String())
}

func TestRunUpload_FormatOverridesName(t *testing.T) {
	t.Parallel()

	input := strings.NewReader("Descrição,Valor\nTijolo,\"0,50\"\n")
	result, err := RunUpload("upload", input, RunOptions{Format: "csv", Clock: fixedClock})
	require.NoError(t, err)
	assert.Len(t, result.Batch.ValidRows, 1)
}

func TestRunUpload_Errors(t *testing.T) {
	t.Parallel()

	_, err := RunUpload("gastos.pdf", strings.NewReader("%PDF"), RunOptions{Clock: fixedClock})
	assert.Error(t, err)

	_, err = RunUpload("gastos.xlsx", strings.NewReader("not a workbook"), RunOptions{Clock: fixedClock})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gastos.xlsx")
}
