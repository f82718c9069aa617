package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawRow(headers []string, values ...string) RawRow {
	cells := make([]Cell, len(values))
	for i, value := range values {
		cells[i] = TextCell(value)
	}
	row, _ := newRawRow(2, headers, cells)
	return row
}

func TestResolveField_ExactBeforeSubstring(t *testing.T) {
	t.Parallel()

	row := rawRow([]string{"Descrição do item", "DESCRIÇÃO"}, "long", "short")
	got := ResolveField(row, DefaultCandidates().Description)
	assert.Equal(t, "short", got.Text)
}

func TestResolveField_CandidateOrderWins(t *testing.T) {
	t.Parallel()

	row := rawRow([]string{"Data", "Vencimento"}, "01/01/2024", "20/12/2024")
	got := ResolveField(row, DefaultCandidates().DueDate)
	assert.Equal(t, "20/12/2024", got.Text)
}

func TestResolveField_SubstringFallback(t *testing.T) {
	t.Parallel()

	row := rawRow([]string{"Item", "Valor Total (R$)"}, "Areia", "120,00")
	got := ResolveField(row, DefaultCandidates().Amount)
	assert.Equal(t, "120,00", got.Text)
}

func TestResolveField_EmptyValueIsNoMatch(t *testing.T) {
	t.Parallel()

	row := rawRow([]string{"Valor", "Preço"}, "", "50,00")
	got := ResolveField(row, DefaultCandidates().Amount)
	assert.Equal(t, "50,00", got.Text)
}

func TestResolveField_WhitespaceValueIsAMatch(t *testing.T) {
	t.Parallel()

	row := rawRow([]string{"Descrição", "Descrição detalhada"}, "  ", "Cimento 50kg")
	got := ResolveField(row, DefaultCandidates().Description)
	assert.Equal(t, "  ", got.Text)
}

func TestResolveField_NumericZeroIsAMatch(t *testing.T) {
	t.Parallel()

	row, _ := newRawRow(2, []string{"Valor", "Valor total"}, []Cell{NumberCell(0), TextCell("50,00")})
	got := ResolveField(row, DefaultCandidates().Amount)
	assert.True(t, got.IsNumber)
	assert.Equal(t, float64(0), got.Number)
}

func TestResolveField_NoMatch(t *testing.T) {
	t.Parallel()

	row := rawRow([]string{"Foo", "Bar"}, "1", "2")
	got := ResolveField(row, DefaultCandidates().Status)
	assert.True(t, got.IsEmpty())
	assert.Equal(t, "", got.Text)
}

func TestResolveField_Idempotent(t *testing.T) {
	t.Parallel()

	row := rawRow([]string{"Vencimento", "Descrição", "Valor", "Status"}, "20/12/2024", "Cimento", "35,00", "Pago")
	candidates := DefaultCandidates()
	first := ResolveField(row, candidates.Amount)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ResolveField(row, candidates.Amount))
	}
}

func TestBuildFieldMap(t *testing.T) {
	t.Parallel()

	fieldMap := BuildFieldMap([]string{"Vencimento", "Descrição", "Valor", "Situação"}, DefaultCandidates())

	header, ok := fieldMap.Header(FieldDescription)
	require.True(t, ok)
	assert.Equal(t, "Descrição", header)
	assert.Equal(t, "Vencimento", fieldMap.Resolved[FieldDueDate])
	assert.Equal(t, "Valor", fieldMap.Resolved[FieldAmount])
	assert.Equal(t, "Situação", fieldMap.Resolved[FieldStatus])
	assert.Empty(t, fieldMap.Unresolved)
}

func TestBuildFieldMap_SuggestsAbbreviations(t *testing.T) {
	t.Parallel()

	fieldMap := BuildFieldMap([]string{"Item", "Vlr", "Venc"}, DefaultCandidates())

	assert.ElementsMatch(t, []string{FieldDescription, FieldAmount, FieldDueDate, FieldStatus}, fieldMap.Unresolved)
	assert.Contains(t, fieldMap.Suggestions[FieldAmount], "Vlr")
	assert.Contains(t, fieldMap.Suggestions[FieldDueDate], "Venc")
}

func TestBuildFieldMap_OrderIndependent(t *testing.T) {
	t.Parallel()

	a := BuildFieldMap([]string{"Valor", "Descrição"}, DefaultCandidates())
	b := BuildFieldMap([]string{"Descrição", "Valor"}, DefaultCandidates())
	assert.Equal(t, a.Resolved, b.Resolved)
}

func TestFieldCandidatesWithExtra(t *testing.T) {
	t.Parallel()

	merged := DefaultCandidates().WithExtra(FieldCandidates{Amount: []string{"custo", "VALOR"}})
	assert.Equal(t, []string{"valor", "amount", "preco", "preço", "price", "custo"}, merged.Amount)

	row := rawRow([]string{"Custo"}, "10,00")
	assert.Equal(t, "10,00", ResolveField(row, merged.Amount).Text)
}
