package loan

import (
	"time"

	"mathrent/internal/domain/catalog"
	loanDomain "mathrent/internal/domain/loan"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type LineItemInput struct {
	Kind       catalog.Kind
	ResourceID uint64
	Quantity   *int
	StartTime  *time.Time
	EndTime    *time.Time
}

// toLineItem must only be called on validated input.
func (in LineItemInput) toLineItem() loanDomain.LineItem {
	var p loanDomain.Payload = loanDomain.SessionPayload{}
	switch in.Kind {
	case catalog.KindItem:
		p = loanDomain.ItemPayload{Quantity: *in.Quantity}
	case catalog.KindRoom:
		p = loanDomain.RoomPayload{Start: *in.StartTime, End: *in.EndTime}
	}
	return loanDomain.NewLineItem(in.ResourceID, p)
}

type CreateLoanInput struct {
	LoanDate time.Time
	Notes    string
	Items    []LineItemInput
}

// UpdateLoanInput is a patch; nil fields are left alone.
type UpdateLoanInput struct {
	LoanDate *time.Time
	Notes    *string
}

type ListInput struct {
	Status   *loanDomain.Status
	DateFrom *time.Time
	DateTo   *time.Time
	Query    string
	Page     int
	PerPage  int
}

// NormalizePaging clamps paging to page >= 1 and 1 <= per_page <= MaxPerPage.
// Non-positive values fall back to the first page and DefaultPerPage.
func NormalizePaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

func (in *ListInput) normalize() {
	in.Page, in.PerPage = NormalizePaging(in.Page, in.PerPage)
}

type LineItemDTO struct {
	DetailID      uint64            `json:"detail_id"`
	Kind          catalog.Kind      `json:"kind"`
	ResourceID    uint64            `json:"resource_id"`
	Resource      *catalog.Snapshot `json:"resource"`
	Quantity      *int              `json:"quantity,omitempty"`
	StartTime     *time.Time        `json:"start_time,omitempty"`
	EndTime       *time.Time        `json:"end_time,omitempty"`
	DurationHours *float64          `json:"duration_hours,omitempty"`
}

type LoanDTO struct {
	LoanID           string            `json:"loan_id"`
	RequesterID      uint64            `json:"requester_id"`
	RequesterName    string            `json:"requester_name,omitempty"`
	RequesterNIM     string            `json:"requester_nim,omitempty"`
	LoanDate         string            `json:"loan_date"`
	Status           loanDomain.Status `json:"status"`
	ApproverID       *uint64           `json:"approver_id"`
	VerificationCode *string           `json:"verification_code"`
	Notes            string            `json:"notes"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	Items            []LineItemDTO     `json:"items"`
}

type Page struct {
	Data    []LoanDTO `json:"data"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
	Total   int64     `json:"total"`
}

const dateLayout = "2006-01-02"

// ToDTO maps a loan without resolving catalog snapshots.
func ToDTO(l *loanDomain.Loan) LoanDTO {
	out := LoanDTO{
		LoanID:           l.LoanID,
		RequesterID:      l.RequesterID,
		LoanDate:         l.LoanDate.Format(dateLayout),
		Status:           l.Status,
		ApproverID:       l.ApproverID,
		VerificationCode: l.VerificationCode,
		Notes:            l.Notes,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
		Items:            make([]LineItemDTO, 0, len(l.Items)),
	}
	for _, li := range l.Items {
		out.Items = append(out.Items, lineItemDTO(li, nil))
	}
	return out
}

func lineItemDTO(li loanDomain.LineItem, snap *catalog.Snapshot) LineItemDTO {
	out := LineItemDTO{
		DetailID:   li.ID,
		Kind:       li.Kind,
		ResourceID: li.ResourceID,
		Resource:   snap,
	}
	switch p := li.Payload().(type) {
	case loanDomain.ItemPayload:
		q := p.Quantity
		out.Quantity = &q
	case loanDomain.RoomPayload:
		s, e, h := p.Start, p.End, p.Hours()
		out.StartTime, out.EndTime, out.DurationHours = &s, &e, &h
	}
	return out
}
