package report

import (
	"context"
	"fmt"
	"time"

	"mathrent/internal/domain/catalog"
	"mathrent/internal/domain/loan"
	"mathrent/internal/domain/uow"
	"mathrent/internal/domain/user"
	loanuc "mathrent/internal/usecase/loan"
)

type Stats struct {
	Total    int64                 `json:"total"`
	ByStatus map[loan.Status]int64 `json:"by_status"`
	Today    int64                 `json:"today"`
}

// Available lists what can be requested right now.
type Available struct {
	Items    []catalog.Snapshot `json:"barang"`
	Rooms    []catalog.Snapshot `json:"kelas"`
	Sessions []catalog.Snapshot `json:"absen"`
}

type Usecase struct {
	repos uow.Repos
	now   func() time.Time
}

func NewUsecase(repos uow.Repos) *Usecase {
	return &Usecase{repos: repos, now: time.Now}
}

// Pending is the approval queue, oldest request first. Paging is clamped
// like GET /loans.
func (u *Usecase) Pending(ctx context.Context, p user.Principal, page, perPage int) (*loanuc.Page, error) {
	if !p.IsStaff() {
		return nil, loan.ErrForbidden
	}
	st := loan.StatusPending
	return loanuc.ListPage(ctx, u.repos, loan.Filter{Status: &st, OldestFirst: true}, page, perPage)
}

// Today lists loans whose loan date is the current day.
func (u *Usecase) Today(ctx context.Context, p user.Principal, page, perPage int) (*loanuc.Page, error) {
	if !p.IsStaff() {
		return nil, loan.ErrForbidden
	}
	today := loan.DateOnly(u.now())
	return loanuc.ListPage(ctx, u.repos, loan.Filter{DateFrom: &today, DateTo: &today}, page, perPage)
}

func (u *Usecase) Stats(ctx context.Context, p user.Principal) (*Stats, error) {
	if !p.IsStaff() {
		return nil, loan.ErrForbidden
	}
	counts, err := u.repos.Loans.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count loans: %w", err)
	}
	out := &Stats{ByStatus: make(map[loan.Status]int64, 4)}
	for _, st := range []loan.Status{loan.StatusPending, loan.StatusApproved, loan.StatusRejected, loan.StatusReturned} {
		out.ByStatus[st] = counts[st]
		out.Total += counts[st]
	}

	today := loan.DateOnly(u.now())
	_, n, err := u.repos.Loans.List(ctx, loan.Filter{DateFrom: &today, DateTo: &today}, 1, 1)
	if err != nil {
		return nil, fmt.Errorf("count today: %w", err)
	}
	out.Today = n
	return out, nil
}

func (u *Usecase) Available(ctx context.Context) (*Available, error) {
	items, err := u.repos.Catalog.AvailableItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("available items: %w", err)
	}
	rooms, err := u.repos.Catalog.AvailableRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("available rooms: %w", err)
	}
	sessions, err := u.repos.Catalog.Sessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("sessions: %w", err)
	}

	out := &Available{
		Items:    make([]catalog.Snapshot, 0, len(items)),
		Rooms:    make([]catalog.Snapshot, 0, len(rooms)),
		Sessions: make([]catalog.Snapshot, 0, len(sessions)),
	}
	for i := range items {
		out.Items = append(out.Items, items[i].Snapshot())
	}
	for i := range rooms {
		out.Rooms = append(out.Rooms, rooms[i].Snapshot())
	}
	for i := range sessions {
		out.Sessions = append(out.Sessions, sessions[i].Snapshot())
	}
	return out, nil
}
