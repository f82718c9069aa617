package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"obracusto/expense"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var ErrExpenseNotFound = errors.New("expense not found")

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection serializes concurrent CreateExpense calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS expenses (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	description TEXT NOT NULL,
	category TEXT NOT NULL,
	amount TEXT NOT NULL,
	due_date TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('Pendente', 'Pago')),
	added_by TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_expenses_project_due ON expenses(project_id, due_date);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CreateExpense stores one draft under a fresh id.
func (s *SQLiteStore) CreateExpense(ctx context.Context, draft expense.Draft) (expense.Expense, error) {
	if strings.TrimSpace(draft.ProjectID) == "" {
		return expense.Expense{}, fmt.Errorf("expense project id is required")
	}

	created := expense.Expense{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC().Truncate(time.Second),
		Draft:     draft,
	}

	const insertStmt = `
INSERT INTO expenses (
	id,
	project_id,
	description,
	category,
	amount,
	due_date,
	status,
	added_by,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`

	_, err := s.db.ExecContext(
		ctx,
		insertStmt,
		created.ID,
		draft.ProjectID,
		draft.Description,
		draft.Category,
		draft.Amount.String(),
		draft.DueDate,
		string(draft.Status),
		draft.AddedBy,
		created.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	return created, nil
}

const selectExpenses = `
SELECT
	id,
	project_id,
	description,
	category,
	amount,
	due_date,
	status,
	added_by,
	created_at
FROM expenses
`

func (s *SQLiteStore) ListExpenses(ctx context.Context, projectID string) ([]expense.Expense, error) {
	rows, err := s.db.QueryContext(ctx, selectExpenses+`WHERE project_id = ? ORDER BY due_date, created_at, id;`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]expense.Expense, 0, 64)
	for rows.Next() {
		item, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

// GetExpense returns one expense by id; ok is false when it does not exist.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (expense.Expense, bool, error) {
	item, err := scanExpense(s.db.QueryRowContext(ctx, selectExpenses+`WHERE id = ?;`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return expense.Expense{}, false, nil
		}
		return expense.Expense{}, false, err
	}
	return item, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (expense.Expense, error) {
	var (
		item       expense.Expense
		amountRaw  string
		status     string
		createdRaw string
	)
	if err := row.Scan(
		&item.ID,
		&item.ProjectID,
		&item.Description,
		&item.Category,
		&amountRaw,
		&item.DueDate,
		&status,
		&item.AddedBy,
		&createdRaw,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return expense.Expense{}, err
		}
		return expense.Expense{}, fmt.Errorf("scan expense: %w", err)
	}

	amount, err := decimal.NewFromString(amountRaw)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("parse amount %q: %w", amountRaw, err)
	}
	item.Amount = amount
	item.Status = expense.Status(status)

	item.CreatedAt, err = time.Parse(time.RFC3339, createdRaw)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}

	return item, nil
}

// DeleteExpense removes the row with the given id.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read deleted row count: %w", err)
	}
	if rowsAffected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteProjectExpenses(ctx context.Context, projectID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE project_id = ?;`, projectID)
	if err != nil {
		return 0, fmt.Errorf("delete expenses of project %s: %w", projectID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}
