package loan

import (
	"time"

	"mathrent/internal/domain/catalog"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "disetujui"
	StatusRejected Status = "ditolak"
	StatusReturned Status = "dikembalikan"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusReturned:
		return true
	}
	return false
}

func (s Status) Terminal() bool { return s == StatusRejected || s == StatusReturned }

type Loan struct {
	ID               uint64     `gorm:"primaryKey;column:id" json:"-"`
	LoanID           string     `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	RequesterID      uint64     `gorm:"column:requester_id;not null;index:idx_loans_requester" json:"requester_id"`
	LoanDate         time.Time  `gorm:"column:loan_date;type:date;not null;index:idx_loans_date" json:"loan_date"`
	Status           Status     `gorm:"type:enum('pending','disetujui','ditolak','dikembalikan');default:'pending';index:idx_loans_status" json:"status"`
	ApproverID       *uint64    `gorm:"column:approver_id" json:"approver_id"`
	VerificationCode *string    `gorm:"column:verification_code;size:16" json:"verification_code"`
	Notes            string     `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	Items            []LineItem `gorm:"foreignKey:LoanID;references:ID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Loan) TableName() string { return "loans" }

func (l *Loan) OwnedBy(userID uint64) bool { return l.RequesterID == userID }

// Transition moves the loan to next if the transition table allows it.
// Side effects on the catalog are the caller's job.
func (l *Loan) Transition(next Status) error {
	if !CanTransition(l.Status, next) {
		return &InvalidTransitionError{From: l.Status, To: next}
	}
	l.Status = next
	return nil
}

// LineItem is one requested resource. Kind decides which payload columns are set.
type LineItem struct {
	ID         uint64       `gorm:"primaryKey;column:id" json:"id"`
	LoanID     uint64       `gorm:"column:loan_id;not null;index:idx_loan_items_loan" json:"-"`
	Kind       catalog.Kind `gorm:"column:kind;type:enum('barang','kelas','absen');not null;index:idx_loan_items_ref" json:"kind"`
	ResourceID uint64       `gorm:"column:resource_id;not null;index:idx_loan_items_ref" json:"resource_id"`
	Quantity   *int         `gorm:"column:quantity" json:"quantity,omitempty"`
	StartTime  *time.Time   `gorm:"column:start_time" json:"start_time,omitempty"`
	EndTime    *time.Time   `gorm:"column:end_time" json:"end_time,omitempty"`
	CreatedAt  time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (LineItem) TableName() string { return "loan_items" }

// DateOnly truncates t to midnight UTC, the storage form of Loan.LoanDate.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
