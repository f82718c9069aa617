package classify

import (
	"strings"

	"obracusto/expense"
)

// Rows splits parsed rows into the valid set and an invalid count. A row is
// valid when its trimmed description is non-empty and its amount is strictly
// positive. Invalid rows are dropped without a reason.
func Rows(rows []expense.ParsedRow) expense.ImportBatch {
	batch := expense.ImportBatch{ValidRows: make([]expense.ParsedRow, 0, len(rows))}
	for _, row := range rows {
		if !IsValid(row) {
			batch.InvalidCount++
			continue
		}
		batch.ValidRows = append(batch.ValidRows, row)
	}
	return batch
}

func IsValid(row expense.ParsedRow) bool {
	return strings.TrimSpace(row.Description) != "" && row.Amount.IsPositive()
}

// Merge appends one batch onto another, keeping row order.
func Merge(into *expense.ImportBatch, batch expense.ImportBatch) {
	into.ValidRows = append(into.ValidRows, batch.ValidRows...)
	into.InvalidCount += batch.InvalidCount
}
