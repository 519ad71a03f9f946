package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrDuplicateNIM  = errors.New("nim already registered")
	ErrBadCredential = errors.New("invalid nim or password")
)

type Role string

const (
	RoleStudent Role = "mahasiswa"
	RoleStaff   Role = "staff"
)

type User struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"id"`
	NIM          string    `gorm:"column:nim;size:32;uniqueIndex:ux_users_nim;not null" json:"nim"`
	Name         string    `gorm:"size:128;not null" json:"name"`
	Role         Role      `gorm:"type:enum('mahasiswa','staff');default:'mahasiswa'" json:"role"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) Principal() Principal {
	return Principal{ID: u.ID, NIM: u.NIM, Name: u.Name, Role: u.Role}
}

// Principal is the authenticated actor attached to a request.
type Principal struct {
	ID   uint64 `json:"id"`
	NIM  string `json:"nim"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

func (p Principal) IsStaff() bool   { return p.Role == RoleStaff }
func (p Principal) IsStudent() bool { return p.Role == RoleStudent }
