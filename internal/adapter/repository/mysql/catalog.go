package mysql

import (
	"context"
	"errors"
	"fmt"

	"mathrent/internal/domain/catalog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogRepository struct{ db *gorm.DB }

func NewCatalogRepository(db *gorm.DB) *CatalogRepository { return &CatalogRepository{db: db} }

func (r *CatalogRepository) GetItem(ctx context.Context, id uint64) (*catalog.Item, error) {
	var out catalog.Item
	return &out, notFound(r.db.WithContext(ctx).First(&out, id).Error)
}

func (r *CatalogRepository) GetRoom(ctx context.Context, id uint64) (*catalog.Room, error) {
	var out catalog.Room
	return &out, notFound(r.db.WithContext(ctx).First(&out, id).Error)
}

func (r *CatalogRepository) GetSession(ctx context.Context, id uint64) (*catalog.Session, error) {
	var out catalog.Session
	return &out, notFound(r.db.WithContext(ctx).First(&out, id).Error)
}

func (r *CatalogRepository) Lookup(ctx context.Context, kind catalog.Kind, id uint64) (catalog.Resource, error) {
	return r.lookup(r.db.WithContext(ctx), kind, id)
}

func (r *CatalogRepository) LookupForUpdate(ctx context.Context, kind catalog.Kind, id uint64) (catalog.Resource, error) {
	return r.lookup(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), kind, id)
}

func (r *CatalogRepository) lookup(db *gorm.DB, kind catalog.Kind, id uint64) (catalog.Resource, error) {
	var rec catalog.Resource
	switch kind {
	case catalog.KindItem:
		rec = &catalog.Item{}
	case catalog.KindRoom:
		rec = &catalog.Room{}
	case catalog.KindSession:
		rec = &catalog.Session{}
	default:
		return nil, fmt.Errorf("unknown resource kind %q", kind)
	}
	if err := notFound(db.First(rec, id).Error); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *CatalogRepository) Save(ctx context.Context, rec catalog.Resource) error {
	cols := map[string]any{"status": rec.CurrentStatus()}
	if s, ok := rec.(catalog.Stocked); ok {
		cols["stock"] = s.Stock()
	}
	return r.db.WithContext(ctx).Model(rec).Updates(cols).Error
}

func (r *CatalogRepository) AvailableItems(ctx context.Context) ([]catalog.Item, error) {
	var out []catalog.Item
	err := r.db.WithContext(ctx).
		Where("status = ? AND stock > 0", catalog.StatusAvailable).
		Order("name ASC").
		Find(&out).Error
	return out, err
}

func (r *CatalogRepository) AvailableRooms(ctx context.Context) ([]catalog.Room, error) {
	var out []catalog.Room
	err := r.db.WithContext(ctx).
		Where("status = ?", catalog.StatusAvailable).
		Order("name ASC").
		Find(&out).Error
	return out, err
}

func (r *CatalogRepository) Sessions(ctx context.Context) ([]catalog.Session, error) {
	var out []catalog.Session
	err := r.db.WithContext(ctx).Order("course ASC, class_group ASC").Find(&out).Error
	return out, err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return catalog.ErrNotFound
	}
	return err
}
