package uow

import (
	"context"

	"mathrent/internal/domain/catalog"
	"mathrent/internal/domain/loan"
	"mathrent/internal/domain/user"
)

// Repos are bound to the transaction they were handed out for.
type Repos struct {
	Loans   loan.Repository
	Catalog catalog.Repository
	Users   user.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
