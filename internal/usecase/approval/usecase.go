package approval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mathrent/internal/domain/catalog"
	domainLoan "mathrent/internal/domain/loan"
	"mathrent/internal/domain/uow"
	"mathrent/internal/domain/user"
	loanuc "mathrent/internal/usecase/loan"
	"mathrent/pkg/id"

	"go.uber.org/zap"
)

type Usecase struct {
	uow     uow.UnitOfWork
	log     *zap.Logger
	newCode func() string
}

func NewUsecase(tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		uow:     tx,
		log:     log.Named("approval"),
		newCode: func() string { return id.NewCode(codeLength) },
	}
}

// Transition moves a loan along the status table and applies the catalog
// side effects in the same transaction. The loan is re-read under a row
// lock, so a concurrent request that lost the race sees the new status and
// fails with an InvalidTransitionError.
func (u *Usecase) Transition(ctx context.Context, staff user.Principal, loanID string, in TransitionInput) (*loanuc.LoanDTO, error) {
	if !staff.IsStaff() {
		return nil, domainLoan.ErrForbidden
	}

	var (
		out  loanuc.LoanDTO
		from domainLoan.Status
	)
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		from = l.Status
		if err := l.Transition(in.Status); err != nil {
			return err
		}

		approver := staff.ID
		switch in.Status {
		case domainLoan.StatusApproved:
			code := u.newCode()
			l.VerificationCode = &code
			l.ApproverID = &approver
			if err := u.apply(ctx, r.Catalog, l, reserve); err != nil {
				return err
			}
		case domainLoan.StatusRejected:
			l.ApproverID = &approver
		case domainLoan.StatusReturned:
			if err := u.apply(ctx, r.Catalog, l, release); err != nil {
				return err
			}
		}

		if notes := strings.TrimSpace(in.Notes); notes != "" {
			l.Notes = notes
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}

		var err error
		out, err = loanuc.Expand(ctx, r.Catalog, l)
		return err
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("loan status changed",
		zap.String("loan_id", loanID),
		zap.String("from", string(from)),
		zap.String("to", string(in.Status)),
		zap.Uint64("by", staff.ID),
	)
	return &out, nil
}

// effect mutates one locked catalog record for one line item.
type effect func(rec catalog.Resource, li domainLoan.LineItem)

func quantityOf(li domainLoan.LineItem) int {
	if p, ok := li.Payload().(domainLoan.ItemPayload); ok {
		return p.Quantity
	}
	return 0
}

// reserve takes stock, floored at zero. An item is marked loaned only once
// its stock runs out; rooms and sessions are marked loaned outright.
func reserve(rec catalog.Resource, li domainLoan.LineItem) {
	s, ok := rec.(catalog.Stocked)
	if !ok {
		rec.SetStatus(catalog.StatusLoaned)
		return
	}
	left := s.Stock() - quantityOf(li)
	if left < 0 {
		left = 0
	}
	s.SetStock(left)
	if left == 0 {
		s.SetStatus(catalog.StatusLoaned)
	}
}

func release(rec catalog.Resource, li domainLoan.LineItem) {
	if s, ok := rec.(catalog.Stocked); ok {
		s.SetStock(s.Stock() + quantityOf(li))
	}
	rec.SetStatus(catalog.StatusAvailable)
}

func (u *Usecase) apply(ctx context.Context, cat catalog.Repository, l *domainLoan.Loan, fx effect) error {
	for _, li := range l.Items {
		rec, err := cat.LookupForUpdate(ctx, li.Kind, li.ResourceID)
		if errors.Is(err, catalog.ErrNotFound) {
			u.log.Warn("line item resource missing, skipped",
				zap.String("loan_id", l.LoanID),
				zap.String("kind", string(li.Kind)),
				zap.Uint64("resource_id", li.ResourceID),
			)
			continue
		}
		if err != nil {
			return fmt.Errorf("lock %s %d: %w", li.Kind, li.ResourceID, err)
		}
		fx(rec, li)
		if err := cat.Save(ctx, rec); err != nil {
			return fmt.Errorf("save %s %d: %w", li.Kind, li.ResourceID, err)
		}
	}
	return nil
}
