package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"obracusto/expense"
)

var templateHeaders = []string{"Vencimento", "Descrição", "Valor", "Status"}

func TestParseRow_TemplateRow(t *testing.T) {
	t.Parallel()

	row := rawRow(templateHeaders, "20/12/2024", "Cimento 50kg", "35,00", "Pendente")
	parsed := ParseRow(row, DefaultCandidates(), fixedNow)

	assert.Equal(t, "Cimento 50kg", parsed.Description)
	assert.True(t, parsed.HasDescription)
	assert.True(t, parsed.Amount.Equal(decimal.NewFromInt(35)), "amount = %s", parsed.Amount)
	assert.Equal(t, "2024-12-20", parsed.DueDate)
	assert.Equal(t, expense.StatusPending, parsed.Status)
	assert.Equal(t, 2, parsed.RowNumber)
}

func TestParseRow_EmptyDescription(t *testing.T) {
	t.Parallel()

	row := rawRow(templateHeaders, "20/12/2024", "", "100,00", "Pago")
	parsed := ParseRow(row, DefaultCandidates(), fixedNow)

	assert.False(t, parsed.HasDescription)
	assert.Equal(t, "", parsed.Description)
	assert.True(t, parsed.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, expense.StatusPaid, parsed.Status)
}

func TestParseRow_BlankDescriptionDoesNotBorrowLaterColumn(t *testing.T) {
	t.Parallel()

	row := rawRow([]string{"Descrição", "Valor", "Descrição detalhada"}, "  ", "100,00", "Cimento 50kg")
	parsed := ParseRow(row, DefaultCandidates(), fixedNow)

	assert.False(t, parsed.HasDescription)
	assert.Equal(t, "", parsed.Description)
}

func TestParseRow_NumericAmountTruncation(t *testing.T) {
	t.Parallel()

	row, ok := newRawRow(3, templateHeaders, []Cell{NumberCell(45646), TextCell("Areia"), NumberCell(2.5), TextCell("")})
	if !ok {
		t.Fatalf("expected row with content")
	}
	parsed := ParseRow(row, DefaultCandidates(), fixedNow)

	assert.True(t, parsed.Amount.Equal(decimal.NewFromInt(2500)), "amount = %s", parsed.Amount)
	assert.Equal(t, "2024-12-20", parsed.DueDate)
	assert.Equal(t, expense.StatusPending, parsed.Status)
}

func TestParseRow_MissingColumnsFallBack(t *testing.T) {
	t.Parallel()

	row := rawRow([]string{"Descrição"}, "  Tijolo  ")
	parsed := ParseRow(row, DefaultCandidates(), fixedNow)

	assert.Equal(t, "Tijolo", parsed.Description)
	assert.False(t, parsed.HasAmount)
	assert.True(t, parsed.Amount.IsZero())
	assert.Equal(t, "2026-10-17", parsed.DueDate)
	assert.Equal(t, expense.StatusPending, parsed.Status)
}

func TestParseRow_HeaderDriftPerRow(t *testing.T) {
	t.Parallel()

	first := rawRow([]string{"Descricao", "Valor"}, "Cal", "10,00")
	second := rawRow([]string{"Description", "Price"}, "Lime", "12.50")

	rows := ParseRows([]RawRow{first, second}, DefaultCandidates(), fixedNow)
	assert.Len(t, rows, 2)
	assert.Equal(t, "Cal", rows[0].Description)
	assert.Equal(t, "Lime", rows[1].Description)
	assert.True(t, rows[1].Amount.Equal(decimal.RequireFromString("12.50")))
}
