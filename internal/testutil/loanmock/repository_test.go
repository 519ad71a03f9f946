package loanmock

import (
	"context"
	"errors"
	"testing"

	domain "mathrent/internal/domain/loan"
)

func TestRepo_Create(t *testing.T) {
	ctx := context.Background()
	l := &domain.Loan{LoanID: "LN-1"}

	called := false
	wantErr := errors.New("boom")
	m := &Repo{
		CreateFn: func(gotCtx context.Context, got *domain.Loan) error {
			called = true
			if gotCtx != ctx || got != l {
				t.Fatalf("Create args mismatch")
			}
			return wantErr
		},
	}
	if err := m.Create(ctx, l); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("CreateFn not called")
	}

	// Default (nil func) → no-op, nil error
	m = &Repo{}
	if err := m.Create(ctx, l); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
	if err := m.Save(ctx, l); err != nil {
		t.Fatalf("Save default: want nil, got %v", err)
	}
	if err := m.Delete(ctx, l); err != nil {
		t.Fatalf("Delete default: want nil, got %v", err)
	}
}

func TestRepo_GetByLoanIDForUpdate(t *testing.T) {
	ctx := context.Background()
	want := &domain.Loan{LoanID: "LN-5"}

	m := &Repo{
		GetByLoanIDForUpdateFn: func(_ context.Context, loanID string) (*domain.Loan, error) {
			if loanID != "LN-5" {
				t.Fatalf("loanID mismatch: got %s", loanID)
			}
			return want, nil
		},
	}
	got, err := m.GetByLoanIDForUpdate(ctx, "LN-5")
	if err != nil || got != want {
		t.Fatalf("GetByLoanIDForUpdate: got %+v, %v", got, err)
	}

	// Default (nil func) → context.Canceled
	m = &Repo{}
	if _, err := m.GetByLoanIDForUpdate(ctx, "LN-5"); err != context.Canceled {
		t.Fatalf("default: want context.Canceled, got %v", err)
	}
	if _, err := m.GetByLoanID(ctx, "LN-5"); err != context.Canceled {
		t.Fatalf("default: want context.Canceled, got %v", err)
	}
}

func TestRepo_ListAndCount(t *testing.T) {
	ctx := context.Background()
	m := &Repo{
		ListFn: func(_ context.Context, f domain.Filter, page, perPage int) ([]domain.Loan, int64, error) {
			if page != 2 || perPage != 5 || f.Query != "andi" {
				t.Fatalf("List args mismatch: %+v %d %d", f, page, perPage)
			}
			return []domain.Loan{{LoanID: "a"}}, 6, nil
		},
		CountByStatusFn: func(context.Context) (map[domain.Status]int64, error) {
			return map[domain.Status]int64{domain.StatusPending: 3}, nil
		},
	}
	got, total, err := m.List(ctx, domain.Filter{Query: "andi"}, 2, 5)
	if err != nil || total != 6 || len(got) != 1 {
		t.Fatalf("List: %v %d %v", got, total, err)
	}
	counts, err := m.CountByStatus(ctx)
	if err != nil || counts[domain.StatusPending] != 3 {
		t.Fatalf("CountByStatus: %v %v", counts, err)
	}

	m = &Repo{}
	if _, _, err := m.List(ctx, domain.Filter{}, 1, 10); err != context.Canceled {
		t.Fatalf("List default: want context.Canceled, got %v", err)
	}
}
