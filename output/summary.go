package output

import (
	"github.com/shopspring/decimal"

	"obracusto/expense"
)

// ImportSummary totals the valid rows of one import.
type ImportSummary struct {
	Rows         int
	Total        decimal.Decimal
	Paid         decimal.Decimal
	Pending      decimal.Decimal
	FirstDueDate string
	LastDueDate  string
}

func Summarize(rows []expense.ParsedRow) ImportSummary {
	summary := ImportSummary{
		Total:   decimal.Zero,
		Paid:    decimal.Zero,
		Pending: decimal.Zero,
	}
	for _, row := range rows {
		summary.Rows++
		summary.Total = summary.Total.Add(row.Amount)
		if row.Status == expense.StatusPaid {
			summary.Paid = summary.Paid.Add(row.Amount)
		} else {
			summary.Pending = summary.Pending.Add(row.Amount)
		}
		if summary.FirstDueDate == "" || row.DueDate < summary.FirstDueDate {
			summary.FirstDueDate = row.DueDate
		}
		if row.DueDate > summary.LastDueDate {
			summary.LastDueDate = row.DueDate
		}
	}
	return summary
}
