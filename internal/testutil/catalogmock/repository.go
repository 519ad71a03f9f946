package catalogmock

import (
	"context"

	"mathrent/internal/domain/catalog"
)

var _ catalog.Repository = (*Repo)(nil)

// Repo is a function-backed catalog.Repository. Unset lookups report
// catalog.ErrNotFound; unset Save is a no-op.
type Repo struct {
	GetItemFn         func(ctx context.Context, id uint64) (*catalog.Item, error)
	GetRoomFn         func(ctx context.Context, id uint64) (*catalog.Room, error)
	GetSessionFn      func(ctx context.Context, id uint64) (*catalog.Session, error)
	LookupFn          func(ctx context.Context, kind catalog.Kind, id uint64) (catalog.Resource, error)
	LookupForUpdateFn func(ctx context.Context, kind catalog.Kind, id uint64) (catalog.Resource, error)
	SaveFn            func(ctx context.Context, r catalog.Resource) error
	AvailableItemsFn  func(ctx context.Context) ([]catalog.Item, error)
	AvailableRoomsFn  func(ctx context.Context) ([]catalog.Room, error)
	SessionsFn        func(ctx context.Context) ([]catalog.Session, error)
}

func (m *Repo) GetItem(ctx context.Context, id uint64) (*catalog.Item, error) {
	if m.GetItemFn != nil {
		return m.GetItemFn(ctx, id)
	}
	return nil, catalog.ErrNotFound
}

func (m *Repo) GetRoom(ctx context.Context, id uint64) (*catalog.Room, error) {
	if m.GetRoomFn != nil {
		return m.GetRoomFn(ctx, id)
	}
	return nil, catalog.ErrNotFound
}

func (m *Repo) GetSession(ctx context.Context, id uint64) (*catalog.Session, error) {
	if m.GetSessionFn != nil {
		return m.GetSessionFn(ctx, id)
	}
	return nil, catalog.ErrNotFound
}

func (m *Repo) Lookup(ctx context.Context, kind catalog.Kind, id uint64) (catalog.Resource, error) {
	if m.LookupFn != nil {
		return m.LookupFn(ctx, kind, id)
	}
	return nil, catalog.ErrNotFound
}

func (m *Repo) LookupForUpdate(ctx context.Context, kind catalog.Kind, id uint64) (catalog.Resource, error) {
	if m.LookupForUpdateFn != nil {
		return m.LookupForUpdateFn(ctx, kind, id)
	}
	return nil, catalog.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, r catalog.Resource) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}

func (m *Repo) AvailableItems(ctx context.Context) ([]catalog.Item, error) {
	if m.AvailableItemsFn != nil {
		return m.AvailableItemsFn(ctx)
	}
	return nil, nil
}

func (m *Repo) AvailableRooms(ctx context.Context) ([]catalog.Room, error) {
	if m.AvailableRoomsFn != nil {
		return m.AvailableRoomsFn(ctx)
	}
	return nil, nil
}

func (m *Repo) Sessions(ctx context.Context) ([]catalog.Session, error) {
	if m.SessionsFn != nil {
		return m.SessionsFn(ctx)
	}
	return nil, nil
}

// Items serves GetItem and Lookup from a fixed map.
func Items(items ...*catalog.Item) *Repo {
	byID := make(map[uint64]*catalog.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	get := func(_ context.Context, id uint64) (*catalog.Item, error) {
		if it, ok := byID[id]; ok {
			return it, nil
		}
		return nil, catalog.ErrNotFound
	}
	lookup := func(ctx context.Context, kind catalog.Kind, id uint64) (catalog.Resource, error) {
		if kind != catalog.KindItem {
			return nil, catalog.ErrNotFound
		}
		return get(ctx, id)
	}
	return &Repo{GetItemFn: get, LookupFn: lookup, LookupForUpdateFn: lookup}
}
