package mysql

import (
	"context"
	"errors"

	userDomain "mathrent/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return userDomain.ErrDuplicateNIM
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*userDomain.User, error) {
	var out userDomain.User
	err := r.db.WithContext(ctx).First(&out, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, userDomain.ErrNotFound
	}
	return &out, err
}

func (r *UserRepository) GetByNIM(ctx context.Context, nim string) (*userDomain.User, error) {
	var out userDomain.User
	err := r.db.WithContext(ctx).Where("nim = ?", nim).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, userDomain.ErrNotFound
	}
	return &out, err
}

func (r *UserRepository) NamesByIDs(ctx context.Context, ids []uint64) (map[uint64]userDomain.User, error) {
	out := make(map[uint64]userDomain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []userDomain.User
	if err := r.db.WithContext(ctx).Select("id", "nim", "name", "role").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, u := range rows {
		out[u.ID] = u
	}
	return out, nil
}
