package approval

import (
	"context"
	"errors"
	"testing"

	"mathrent/internal/domain/catalog"
	"mathrent/internal/domain/loan"
	"mathrent/internal/domain/uow"
	"mathrent/internal/domain/user"
	"mathrent/internal/testutil/catalogmock"
	"mathrent/internal/testutil/loanmock"
	"mathrent/internal/testutil/uowmock"
)

var staff = user.Principal{ID: 9, Name: "Bu Sari", Role: user.RoleStaff}

func qty(n int) *int { return &n }

func TestUsecase_Transition(t *testing.T) {
	newLoan := func(st loan.Status) *loan.Loan {
		return &loan.Loan{
			ID: 777, LoanID: "LN-123", RequesterID: 1, Status: st, Notes: "awal",
			Items: []loan.LineItem{{ID: 1, Kind: catalog.KindItem, ResourceID: 5, Quantity: qty(2)}},
		}
	}

	tests := []struct {
		name    string
		from    loan.Status
		in      TransitionInput
		stock   int
		lookErr error
		saveErr error
		wantErr error
		check   func(t *testing.T, saved *loan.Loan, item *catalog.Item)
	}{
		{
			name:  "pending -> disetujui reserves stock and stamps code",
			from:  loan.StatusPending,
			in:    TransitionInput{Status: loan.StatusApproved, Notes: "ambil di TU"},
			stock: 5,
			check: func(t *testing.T, saved *loan.Loan, item *catalog.Item) {
				if saved.Status != loan.StatusApproved || saved.ApproverID == nil || *saved.ApproverID != staff.ID {
					t.Fatalf("unexpected loan: %+v", saved)
				}
				if saved.VerificationCode == nil || *saved.VerificationCode != "CODE1234" {
					t.Fatalf("code not stamped: %v", saved.VerificationCode)
				}
				if saved.Notes != "ambil di TU" {
					t.Fatalf("notes not replaced: %q", saved.Notes)
				}
				if item.Quantity != 3 || item.Status != catalog.StatusAvailable {
					t.Fatalf("partial depletion should stay available: %+v", item)
				}
			},
		},
		{
			name:  "pending -> ditolak leaves catalog alone",
			from:  loan.StatusPending,
			in:    TransitionInput{Status: loan.StatusRejected, Notes: "   "},
			stock: 5,
			check: func(t *testing.T, saved *loan.Loan, item *catalog.Item) {
				if saved.ApproverID == nil || saved.VerificationCode != nil {
					t.Fatalf("unexpected loan: %+v", saved)
				}
				if saved.Notes != "awal" {
					t.Fatalf("blank notes should not overwrite: %q", saved.Notes)
				}
				if item.Quantity != 5 {
					t.Fatalf("stock changed on reject: %d", item.Quantity)
				}
			},
		},
		{
			name:  "disetujui -> dikembalikan restores stock",
			from:  loan.StatusApproved,
			in:    TransitionInput{Status: loan.StatusReturned},
			stock: 0,
			check: func(t *testing.T, saved *loan.Loan, item *catalog.Item) {
				if item.Quantity != 2 || item.Status != catalog.StatusAvailable {
					t.Fatalf("unexpected item: %+v", item)
				}
			},
		},
		{
			name:    "self transition",
			from:    loan.StatusPending,
			in:      TransitionInput{Status: loan.StatusPending},
			wantErr: loan.ErrInvalidTransition,
		},
		{
			name:    "from terminal",
			from:    loan.StatusReturned,
			in:      TransitionInput{Status: loan.StatusApproved},
			wantErr: loan.ErrInvalidTransition,
		},
		{
			name:    "missing resource is skipped",
			from:    loan.StatusPending,
			in:      TransitionInput{Status: loan.StatusApproved},
			lookErr: catalog.ErrNotFound,
			check: func(t *testing.T, saved *loan.Loan, _ *catalog.Item) {
				if saved.Status != loan.StatusApproved {
					t.Fatalf("loan should still be approved: %+v", saved)
				}
			},
		},
		{
			name:    "catalog save failure aborts",
			from:    loan.StatusPending,
			in:      TransitionInput{Status: loan.StatusApproved},
			stock:   5,
			saveErr: errors.New("deadlock"),
			wantErr: errors.New("deadlock"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := &catalog.Item{ID: 5, Name: "Proyektor", Quantity: tc.stock, Status: catalog.StatusAvailable}
			if tc.from == loan.StatusApproved && tc.stock == 0 {
				item.Status = catalog.StatusLoaned
			}
			var saved *loan.Loan
			loans := &loanmock.Repo{
				GetByLoanIDForUpdateFn: func(context.Context, string) (*loan.Loan, error) {
					return newLoan(tc.from), nil
				},
				SaveFn: func(_ context.Context, l *loan.Loan) error {
					saved = l
					return nil
				},
			}
			cat := &catalogmock.Repo{
				LookupForUpdateFn: func(context.Context, catalog.Kind, uint64) (catalog.Resource, error) {
					if tc.lookErr != nil {
						return nil, tc.lookErr
					}
					return item, nil
				},
				LookupFn: func(context.Context, catalog.Kind, uint64) (catalog.Resource, error) {
					return item, nil
				},
				SaveFn: func(context.Context, catalog.Resource) error { return tc.saveErr },
			}
			uc := NewUsecase(uowmock.Passthrough(uow.Repos{Loans: loans, Catalog: cat}), nil)
			uc.newCode = func() string { return "CODE1234" }

			dto, err := uc.Transition(context.Background(), staff, "LN-123", tc.in)
			if tc.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error %v, got nil", tc.wantErr)
				}
				if errors.Is(tc.wantErr, loan.ErrInvalidTransition) && !errors.Is(err, loan.ErrInvalidTransition) {
					t.Fatalf("want invalid transition, got %v", err)
				}
				if saved != nil {
					t.Fatalf("loan saved despite error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if dto == nil || dto.LoanID != "LN-123" || dto.Status != tc.in.Status {
				t.Fatalf("unexpected dto: %+v", dto)
			}
			tc.check(t, saved, item)
		})
	}
}

func TestUsecase_Transition_StudentForbidden(t *testing.T) {
	uc := NewUsecase(uowmock.New(), nil)
	_, err := uc.Transition(context.Background(), user.Principal{ID: 1, Role: user.RoleStudent}, "LN-1", TransitionInput{Status: loan.StatusApproved})
	if !errors.Is(err, loan.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

func TestUsecase_Transition_LoanNotFound(t *testing.T) {
	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(context.Context, string) (*loan.Loan, error) { return nil, loan.ErrNotFound },
	}
	uc := NewUsecase(uowmock.Passthrough(uow.Repos{Loans: loans}), nil)
	_, err := uc.Transition(context.Background(), staff, "LN-0", TransitionInput{Status: loan.StatusApproved})
	if !errors.Is(err, loan.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestReserve_FloorsAtZero(t *testing.T) {
	it := &catalog.Item{Quantity: 1, Status: catalog.StatusAvailable}
	reserve(it, loan.LineItem{Kind: catalog.KindItem, Quantity: qty(4)})
	if it.Quantity != 0 || it.Status != catalog.StatusLoaned {
		t.Fatalf("unexpected item: %+v", it)
	}

	rm := &catalog.Room{Status: catalog.StatusAvailable}
	reserve(rm, loan.LineItem{Kind: catalog.KindRoom})
	if rm.Status != catalog.StatusLoaned {
		t.Fatalf("room not loaned: %+v", rm)
	}
	release(rm, loan.LineItem{Kind: catalog.KindRoom})
	if rm.Status != catalog.StatusAvailable {
		t.Fatalf("room not released: %+v", rm)
	}
}
