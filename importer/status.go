package importer

import (
	"strings"

	"obracusto/expense"
)

// NormalizeStatus maps any value mentioning "pago" to paid; everything else,
// including an empty cell, is pending.
func NormalizeStatus(cell Cell) expense.Status {
	if strings.Contains(strings.ToLower(cell.Text), "pago") {
		return expense.StatusPaid
	}
	return expense.StatusPending
}
