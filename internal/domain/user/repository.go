package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint64) (*User, error)
	GetByNIM(ctx context.Context, nim string) (*User, error)
	// NamesByIDs resolves display names for listing rows.
	NamesByIDs(ctx context.Context, ids []uint64) (map[uint64]User, error)
}
