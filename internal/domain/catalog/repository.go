package catalog

import "context"

// Reader is the read side the line-item validator and the detail view use.
type Reader interface {
	GetItem(ctx context.Context, id uint64) (*Item, error)
	GetRoom(ctx context.Context, id uint64) (*Room, error)
	GetSession(ctx context.Context, id uint64) (*Session, error)
}

type Repository interface {
	Reader

	// Lookup resolves a record of any kind; ErrNotFound when absent.
	Lookup(ctx context.Context, kind Kind, id uint64) (Resource, error)
	// LookupForUpdate is Lookup with a row lock, used inside transitions.
	LookupForUpdate(ctx context.Context, kind Kind, id uint64) (Resource, error)
	// Save persists status and stock of a looked-up record.
	Save(ctx context.Context, r Resource) error

	AvailableItems(ctx context.Context) ([]Item, error)
	AvailableRooms(ctx context.Context) ([]Room, error)
	Sessions(ctx context.Context) ([]Session, error)
}
