package web

import (
	"sort"

	"github.com/shopspring/decimal"

	"obracusto/expense"
)

type DueDateRow struct {
	DueDate string          `json:"dueDate"`
	Total   decimal.Decimal `json:"total"`
	Paid    decimal.Decimal `json:"paid"`
	Pending decimal.Decimal `json:"pending"`
	Entries []EntryRow      `json:"entries"`
}

type EntryRow struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Display     string          `json:"display"`
	Status      expense.Status  `json:"status"`
	AddedBy     string          `json:"addedBy"`
}

type MonthRow struct {
	Month   string          `json:"month"`
	Count   int             `json:"count"`
	Total   decimal.Decimal `json:"total"`
	Paid    decimal.Decimal `json:"paid"`
	Pending decimal.Decimal `json:"pending"`
}

type ExpenseOverview struct {
	Days    []DueDateRow    `json:"days"`
	Months  []MonthRow      `json:"months"`
	Total   decimal.Decimal `json:"total"`
	Display string          `json:"display"`
}

// BuildDueDateView groups expenses by due date, oldest first. Entries keep
// their input order inside a day.
func BuildDueDateView(expenses []expense.Expense, format func(decimal.Decimal) string) []DueDateRow {
	byDay := make(map[string]*DueDateRow)
	for _, item := range expenses {
		row, ok := byDay[item.DueDate]
		if !ok {
			row = &DueDateRow{
				DueDate: item.DueDate,
				Total:   decimal.Zero,
				Paid:    decimal.Zero,
				Pending: decimal.Zero,
			}
			byDay[item.DueDate] = row
		}
		row.Total = row.Total.Add(item.Amount)
		if item.Status == expense.StatusPaid {
			row.Paid = row.Paid.Add(item.Amount)
		} else {
			row.Pending = row.Pending.Add(item.Amount)
		}
		row.Entries = append(row.Entries, EntryRow{
			ID:          item.ID,
			Description: item.Description,
			Category:    item.Category,
			Amount:      item.Amount,
			Display:     format(item.Amount),
			Status:      item.Status,
			AddedBy:     item.AddedBy,
		})
	}

	keys := make([]string, 0, len(byDay))
	for key := range byDay {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]DueDateRow, 0, len(keys))
	for _, key := range keys {
		out = append(out, *byDay[key])
	}
	return out
}

// BuildMonthlyView rolls due-date rows up into calendar months.
func BuildMonthlyView(days []DueDateRow) []MonthRow {
	out := make([]MonthRow, 0)
	for _, day := range days {
		month := monthOf(day.DueDate)
		if len(out) == 0 || out[len(out)-1].Month != month {
			out = append(out, MonthRow{
				Month:   month,
				Total:   decimal.Zero,
				Paid:    decimal.Zero,
				Pending: decimal.Zero,
			})
		}
		current := &out[len(out)-1]
		current.Count += len(day.Entries)
		current.Total = current.Total.Add(day.Total)
		current.Paid = current.Paid.Add(day.Paid)
		current.Pending = current.Pending.Add(day.Pending)
	}
	return out
}

func BuildOverview(expenses []expense.Expense, format func(decimal.Decimal) string) ExpenseOverview {
	days := BuildDueDateView(expenses, format)
	total := decimal.Zero
	for _, day := range days {
		total = total.Add(day.Total)
	}
	return ExpenseOverview{
		Days:    days,
		Months:  BuildMonthlyView(days),
		Total:   total,
		Display: format(total),
	}
}

func monthOf(isoDate string) string {
	if len(isoDate) < 7 {
		return isoDate
	}
	return isoDate[:7]
}
