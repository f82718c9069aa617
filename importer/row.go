package importer

import (
	"strings"
	"time"

	"obracusto/expense"
)

// ParseRow resolves and normalizes the semantic fields of one row. Columns
// are resolved against this row alone, so header drift between rows is
// tolerated.
func ParseRow(row RawRow, candidates FieldCandidates, now time.Time) expense.ParsedRow {
	description := ResolveField(row, candidates.Description)
	amount := ResolveField(row, candidates.Amount)

	parsed := expense.ParsedRow{
		RowNumber: row.RowNumber,
		DueDate:   NormalizeDate(ResolveField(row, candidates.DueDate), now),
		Status:    NormalizeStatus(ResolveField(row, candidates.Status)),
	}
	if !description.IsEmpty() {
		parsed.Description = strings.TrimSpace(description.Text)
		parsed.HasDescription = true
	}
	if !amount.IsEmpty() {
		parsed.Amount = NormalizeAmount(amount)
		parsed.HasAmount = true
	}

	return parsed
}

func ParseRows(rows []RawRow, candidates FieldCandidates, now time.Time) []expense.ParsedRow {
	parsed := make([]expense.ParsedRow, 0, len(rows))
	for _, row := range rows {
		parsed = append(parsed, ParseRow(row, candidates, now))
	}
	return parsed
}
