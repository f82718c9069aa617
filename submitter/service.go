package submitter

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"obracusto/expense"
)

// ErrSubmissionFailed marks an import whose batch was not fully created.
var ErrSubmissionFailed = errors.New("expense submission failed")

type Options struct {
	// Concurrency bounds in-flight create calls. Zero issues every call at
	// once and waits for all of them; a positive value stops scheduling new
	// calls after the first failure.
	Concurrency int
	Draft       expense.DraftOptions
}

// Report accounts for one submission run. Created is in row order.
type Report struct {
	Submitted int
	Created   []expense.Expense
	Failed    int
	Skipped   int
}

type outcome struct {
	created expense.Expense
	state   outcomeState
}

type outcomeState int

const (
	outcomeSkipped outcomeState = iota
	outcomeCreated
	outcomeFailed
)

// Submit creates one expense per row. Calls are independent: nothing is
// retried and rows created before a failure stay created. Any failure is
// returned wrapped in ErrSubmissionFailed together with the partial report.
func Submit(ctx context.Context, creator expense.Creator, rows []expense.ParsedRow, options Options) (Report, error) {
	logger := zerolog.Ctx(ctx)
	if len(rows) == 0 {
		return Report{Created: []expense.Expense{}}, nil
	}

	outcomes := make([]outcome, len(rows))
	var (
		group    *errgroup.Group
		groupCtx = ctx
	)
	if options.Concurrency > 0 {
		group, groupCtx = errgroup.WithContext(ctx)
		group.SetLimit(options.Concurrency)
	} else {
		group = &errgroup.Group{}
	}

	for i, row := range rows {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return nil
			}

			draft := expense.NewDraft(row, options.Draft)
			created, err := creator.CreateExpense(groupCtx, draft)
			if err != nil {
				outcomes[i].state = outcomeFailed
				logger.Debug().Err(err).Int("row", row.RowNumber).Msg("create expense failed")
				return fmt.Errorf("%w: row %d: %w", ErrSubmissionFailed, row.RowNumber, err)
			}
			outcomes[i] = outcome{created: created, state: outcomeCreated}
			return nil
		})
	}
	err := group.Wait()

	report := Report{Created: make([]expense.Expense, 0, len(rows))}
	for _, result := range outcomes {
		switch result.state {
		case outcomeCreated:
			report.Submitted++
			report.Created = append(report.Created, result.created)
		case outcomeFailed:
			report.Submitted++
			report.Failed++
		default:
			report.Skipped++
		}
	}

	logger.Info().
		Int("submitted", report.Submitted).
		Int("created", len(report.Created)).
		Int("failed", report.Failed).
		Int("skipped", report.Skipped).
		Msg("expense submission finished")

	if err == nil {
		if ctxErr := ctx.Err(); ctxErr != nil && report.Skipped > 0 {
			return report, fmt.Errorf("%w: %w", ErrSubmissionFailed, ctxErr)
		}
	}
	return report, err
}
