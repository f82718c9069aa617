package expense

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending Status = "Pendente"
	StatusPaid    Status = "Pago"
)

const (
	DefaultCategory = "Outros"
	DefaultAddedBy  = "Contratante"
)

// ParsedRow is one spreadsheet row after amount/date/status normalization and
// before validity classification. DueDate is always an ISO calendar date.
type ParsedRow struct {
	RowNumber      int
	Description    string
	HasDescription bool
	Amount         decimal.Decimal
	HasAmount      bool
	DueDate        string
	Status         Status
}

// ImportBatch is the valid/invalid split for one import run. Invalid rows are
// only counted; nothing else about them is kept.
type ImportBatch struct {
	ValidRows    []ParsedRow
	InvalidCount int
}

// Draft is the record handed to a Creator.
type Draft struct {
	ProjectID   string          `json:"project_id"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date"`
	Status      Status          `json:"status"`
	AddedBy     string          `json:"added_by"`
}

// Expense is a draft after a Creator assigned it an identity.
type Expense struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Draft
}

// Creator is the create-expense boundary. Implementations own id assignment,
// persistence and project scoping.
type Creator interface {
	CreateExpense(ctx context.Context, draft Draft) (Expense, error)
}

// DraftOptions overrides the fixed defaults applied to every draft.
type DraftOptions struct {
	ProjectID string
	Category  string
	AddedBy   string
}

func NewDraft(row ParsedRow, options DraftOptions) Draft {
	category := options.Category
	if category == "" {
		category = DefaultCategory
	}
	addedBy := options.AddedBy
	if addedBy == "" {
		addedBy = DefaultAddedBy
	}
	return Draft{
		ProjectID:   options.ProjectID,
		Description: row.Description,
		Category:    category,
		Amount:      row.Amount,
		DueDate:     row.DueDate,
		Status:      row.Status,
		AddedBy:     addedBy,
	}
}
