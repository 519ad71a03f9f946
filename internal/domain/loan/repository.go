package loan

import (
	"context"
	"time"
)

// Filter narrows List. Zero values mean "no constraint".
type Filter struct {
	OwnerID  *uint64
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
	// Query matches notes, requester name or requester NIM.
	Query       string
	OldestFirst bool
}

type Repository interface {
	// Create inserts the loan together with its line items.
	Create(ctx context.Context, l *Loan) error
	// GetByLoanID loads a loan and its line items by public id.
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate is GetByLoanID holding a row lock until the tx ends.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	// Save writes the loan's own columns; line items are immutable after create.
	Save(ctx context.Context, l *Loan) error
	// Delete removes the loan and its line items.
	Delete(ctx context.Context, l *Loan) error
	List(ctx context.Context, f Filter, page, perPage int) ([]Loan, int64, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}
