package usermock

import (
	"context"

	"mathrent/internal/domain/user"
)

var _ user.Repository = (*Repo)(nil)

// Repo is a function-backed user.Repository.
type Repo struct {
	CreateFn     func(ctx context.Context, u *user.User) error
	GetByIDFn    func(ctx context.Context, id uint64) (*user.User, error)
	GetByNIMFn   func(ctx context.Context, nim string) (*user.User, error)
	NamesByIDsFn func(ctx context.Context, ids []uint64) (map[uint64]user.User, error)
}

func (m *Repo) Create(ctx context.Context, u *user.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*user.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, user.ErrNotFound
}

func (m *Repo) GetByNIM(ctx context.Context, nim string) (*user.User, error) {
	if m.GetByNIMFn != nil {
		return m.GetByNIMFn(ctx, nim)
	}
	return nil, user.ErrNotFound
}

func (m *Repo) NamesByIDs(ctx context.Context, ids []uint64) (map[uint64]user.User, error) {
	if m.NamesByIDsFn != nil {
		return m.NamesByIDsFn(ctx, ids)
	}
	return map[uint64]user.User{}, nil
}
