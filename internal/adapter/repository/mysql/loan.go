package mysql

import (
	"context"
	"errors"
	"strings"

	loanDomain "mathrent/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(l).Error
}

func (r *LoanRepository) Delete(ctx context.Context, l *loanDomain.Loan) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("loan_id = ?", l.ID).Delete(&loanDomain.LineItem{}).Error; err != nil {
		return err
	}
	return db.Delete(&loanDomain.Loan{}, l.ID).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	return r.first(ctx, loanID, false)
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	return r.first(ctx, loanID, true)
}

func (r *LoanRepository) first(ctx context.Context, loanID string, lock bool) (*loanDomain.Loan, error) {
	q := r.db.WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out loanDomain.Loan
	err := q.Where("loan_id = ?", loanID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("loan_id = ?", out.ID).Order("id ASC").Find(&out.Items).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) List(ctx context.Context, f loanDomain.Filter, page, perPage int) ([]loanDomain.Loan, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).Scopes(loanFilter(f)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "loans.created_at DESC, loans.id DESC"
	if f.OldestFirst {
		order = "loans.created_at ASC, loans.id ASC"
	}
	var out []loanDomain.Loan
	err := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).Scopes(loanFilter(f)).
		Select("loans.*").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("loan_items.id ASC") }).
		Order(order).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func loanFilter(f loanDomain.Filter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.OwnerID != nil {
			q = q.Where("loans.requester_id = ?", *f.OwnerID)
		}
		if f.Status != nil {
			q = q.Where("loans.status = ?", *f.Status)
		}
		if f.DateFrom != nil {
			q = q.Where("loans.loan_date >= ?", loanDomain.DateOnly(*f.DateFrom))
		}
		if f.DateTo != nil {
			q = q.Where("loans.loan_date <= ?", loanDomain.DateOnly(*f.DateTo))
		}
		if s := strings.TrimSpace(f.Query); s != "" {
			like := "%" + s + "%"
			q = q.Joins("JOIN users ON users.id = loans.requester_id").
				Where("loans.notes LIKE ? OR users.name LIKE ? OR users.nim LIKE ?", like, like, like)
		}
		return q
	}
}

func (r *LoanRepository) CountByStatus(ctx context.Context) (map[loanDomain.Status]int64, error) {
	var rows []struct {
		Status loanDomain.Status
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[loanDomain.Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
