package loan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mathrent/internal/domain/catalog"
	loanDomain "mathrent/internal/domain/loan"
	"mathrent/internal/domain/uow"
	"mathrent/internal/domain/user"
	"mathrent/pkg/id"

	"go.uber.org/zap"
)

// Usecase reads through repos and writes through tx.
type Usecase struct {
	repos uow.Repos
	tx    uow.UnitOfWork
	log   *zap.Logger
}

func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repos: repos, tx: tx, log: log.Named("loan")}
}

// Create validates the line items against the catalog and stores a pending
// loan. Nothing is reserved in the catalog until approval.
func (u *Usecase) Create(ctx context.Context, p user.Principal, in CreateLoanInput) (*LoanDTO, error) {
	if !p.IsStudent() {
		return nil, loanDomain.ErrForbidden
	}

	var out LoanDTO
	err := u.tx.WithinTx(ctx, func(r uow.Repos) error {
		msgs, err := Validate(ctx, in.Items, r.Catalog)
		if err != nil {
			return err
		}
		if len(msgs) > 0 {
			return &loanDomain.ValidationError{Errors: msgs}
		}

		l := &loanDomain.Loan{
			LoanID:      id.NewID32(),
			RequesterID: p.ID,
			LoanDate:    loanDomain.DateOnly(in.LoanDate),
			Status:      loanDomain.StatusPending,
			Notes:       strings.TrimSpace(in.Notes),
			Items:       make([]loanDomain.LineItem, 0, len(in.Items)),
		}
		for _, it := range in.Items {
			l.Items = append(l.Items, it.toLineItem())
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return fmt.Errorf("create loan: %w", err)
		}

		out, err = Expand(ctx, r.Catalog, l)
		return err
	})
	if err != nil {
		return nil, err
	}

	out.RequesterName, out.RequesterNIM = p.Name, p.NIM
	u.log.Info("loan created",
		zap.String("loan_id", out.LoanID),
		zap.Uint64("requester_id", p.ID),
		zap.Int("items", len(out.Items)),
	)
	return &out, nil
}

// List returns one page of loans. Students only ever see their own.
func (u *Usecase) List(ctx context.Context, p user.Principal, in ListInput) (*Page, error) {
	in.normalize()
	f := loanDomain.Filter{
		Status:   in.Status,
		DateFrom: in.DateFrom,
		DateTo:   in.DateTo,
		Query:    in.Query,
	}
	if !p.IsStaff() {
		owner := p.ID
		f.OwnerID = &owner
	}
	return ListPage(ctx, u.repos, f, in.Page, in.PerPage)
}

// ListPage runs a filtered listing and maps it to a response page.
// Paging is clamped with NormalizePaging.
func ListPage(ctx context.Context, repos uow.Repos, f loanDomain.Filter, page, perPage int) (*Page, error) {
	page, perPage = NormalizePaging(page, perPage)
	rows, total, err := repos.Loans.List(ctx, f, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	data := make([]LoanDTO, 0, len(rows))
	for i := range rows {
		data = append(data, ToDTO(&rows[i]))
	}
	if err := AttachRequesters(ctx, repos.Users, data); err != nil {
		return nil, err
	}
	return &Page{Data: data, Page: page, PerPage: perPage, Total: total}, nil
}

// Get returns the loan with every line item's resource resolved live.
func (u *Usecase) Get(ctx context.Context, p user.Principal, loanID string) (*LoanDTO, error) {
	l, err := u.repos.Loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !p.IsStaff() && !l.OwnedBy(p.ID) {
		return nil, loanDomain.ErrForbidden
	}

	out, err := Expand(ctx, u.repos.Catalog, l)
	if err != nil {
		return nil, err
	}
	dtos := []LoanDTO{out}
	if err := AttachRequesters(ctx, u.repos.Users, dtos); err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// Update patches date and notes. Only the requester may do it, and only
// while the loan is pending.
func (u *Usecase) Update(ctx context.Context, p user.Principal, loanID string, in UpdateLoanInput) (*LoanDTO, error) {
	var out LoanDTO
	err := u.tx.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if !l.OwnedBy(p.ID) {
			return loanDomain.ErrForbidden
		}
		if l.Status != loanDomain.StatusPending {
			return loanDomain.ErrInvalidState
		}
		if in.LoanDate != nil {
			l.LoanDate = loanDomain.DateOnly(*in.LoanDate)
		}
		if in.Notes != nil {
			l.Notes = strings.TrimSpace(*in.Notes)
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		out = ToDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.RequesterName, out.RequesterNIM = p.Name, p.NIM
	return &out, nil
}

// Delete removes a loan and its line items. Staff may delete in any
// status; the requester only while pending.
func (u *Usecase) Delete(ctx context.Context, p user.Principal, loanID string) error {
	err := u.tx.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if !p.IsStaff() {
			if !l.OwnedBy(p.ID) {
				return loanDomain.ErrForbidden
			}
			if l.Status != loanDomain.StatusPending {
				return loanDomain.ErrInvalidState
			}
		}
		if err := r.Loans.Delete(ctx, l); err != nil {
			return fmt.Errorf("delete loan: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	u.log.Info("loan deleted", zap.String("loan_id", loanID), zap.Uint64("by", p.ID))
	return nil
}

// Expand maps l and resolves each line item's catalog snapshot. A record
// that no longer exists leaves the snapshot empty.
func Expand(ctx context.Context, cat catalog.Repository, l *loanDomain.Loan) (LoanDTO, error) {
	out := ToDTO(l)
	for i, li := range l.Items {
		rec, err := cat.Lookup(ctx, li.Kind, li.ResourceID)
		if errors.Is(err, catalog.ErrNotFound) {
			continue
		}
		if err != nil {
			return out, fmt.Errorf("resolve %s %d: %w", li.Kind, li.ResourceID, err)
		}
		snap := rec.Snapshot()
		out.Items[i].Resource = &snap
	}
	return out, nil
}

// AttachRequesters fills requester name and NIM on each row in place.
func AttachRequesters(ctx context.Context, users user.Repository, rows []LoanDTO) error {
	if len(rows) == 0 {
		return nil
	}
	seen := make(map[uint64]struct{}, len(rows))
	ids := make([]uint64, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.RequesterID]; !ok {
			seen[r.RequesterID] = struct{}{}
			ids = append(ids, r.RequesterID)
		}
	}
	byID, err := users.NamesByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve requesters: %w", err)
	}
	for i := range rows {
		if u, ok := byID[rows[i].RequesterID]; ok {
			rows[i].RequesterName, rows[i].RequesterNIM = u.Name, u.NIM
		}
	}
	return nil
}
