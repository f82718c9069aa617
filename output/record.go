package output

import (
	"time"

	"obracusto/expense"
	"obracusto/internal/timeutil"
)

// Record is one exported expense. Column names follow the import template so
// exported files can be imported again.
type Record struct {
	DueDate     string `csv:"Vencimento"`
	Description string `csv:"Descrição"`
	Amount      string `csv:"Valor"`
	Status      string `csv:"Status"`
	Category    string `csv:"Categoria"`
	AddedBy     string `csv:"Adicionado por"`
	ID          string `csv:"ID"`
}

var recordHeaders = []string{"Vencimento", "Descrição", "Valor", "Status", "Categoria", "Adicionado por", "ID"}

func (r Record) values() []string {
	return []string{r.DueDate, r.Description, r.Amount, r.Status, r.Category, r.AddedBy, r.ID}
}

func RecordsFromExpenses(expenses []expense.Expense) []Record {
	records := make([]Record, 0, len(expenses))
	for _, item := range expenses {
		records = append(records, Record{
			DueDate:     displayDate(item.DueDate),
			Description: item.Description,
			Amount:      FormatAmountBR(item.Amount),
			Status:      string(item.Status),
			Category:    item.Category,
			AddedBy:     item.AddedBy,
			ID:          item.ID,
		})
	}
	return records
}

func RecordsFromRows(rows []expense.ParsedRow) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record{
			DueDate:     displayDate(row.DueDate),
			Description: row.Description,
			Amount:      FormatAmountBR(row.Amount),
			Status:      string(row.Status),
		})
	}
	return records
}

// displayDate turns an ISO date into DD/MM/YYYY; other values pass through.
func displayDate(isoDate string) string {
	parsed, err := time.Parse(timeutil.ISODate, isoDate)
	if err != nil {
		return isoDate
	}
	return parsed.Format("02/01/2006")
}
