// Package sqlitedb opens an in-memory sqlite database carrying the same
// tables as the MySQL schema, minus the ENUM column types sqlite can't parse.
package sqlitedb

import (
	"testing"
	"time"

	"mathrent/internal/domain/catalog"
	"mathrent/internal/domain/user"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type loanRow struct {
	ID               uint64    `gorm:"primaryKey;column:id"`
	LoanID           string    `gorm:"size:32;uniqueIndex;column:loan_id"`
	RequesterID      uint64    `gorm:"column:requester_id"`
	LoanDate         time.Time `gorm:"column:loan_date"`
	Status           string    `gorm:"type:text;default:'pending';column:status"`
	ApproverID       *uint64   `gorm:"column:approver_id"`
	VerificationCode *string   `gorm:"column:verification_code"`
	Notes            string    `gorm:"type:text;column:notes"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (loanRow) TableName() string { return "loans" }

type lineItemRow struct {
	ID         uint64     `gorm:"primaryKey;column:id"`
	LoanID     uint64     `gorm:"column:loan_id;index"`
	Kind       string     `gorm:"type:text;column:kind"`
	ResourceID uint64     `gorm:"column:resource_id"`
	Quantity   *int       `gorm:"column:quantity"`
	StartTime  *time.Time `gorm:"column:start_time"`
	EndTime    *time.Time `gorm:"column:end_time"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
}

func (lineItemRow) TableName() string { return "loan_items" }

type itemRow struct {
	ID        uint64 `gorm:"primaryKey;column:id"`
	Name      string
	Unit      string
	Stock     int    `gorm:"column:stock;default:0"`
	Status    string `gorm:"type:text;default:'tersedia'"`
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (itemRow) TableName() string { return "items" }

type roomRow struct {
	ID         uint64 `gorm:"primaryKey;column:id"`
	Name       string
	Building   string
	Floor      int
	Capacity   int
	Facilities string
	Status     string `gorm:"type:text;default:'tersedia'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (roomRow) TableName() string { return "rooms" }

type sessionRow struct {
	ID         uint64 `gorm:"primaryKey;column:id"`
	Course     string
	ClassGroup string
	Semester   int
	Lecturer   string
	Department string
	Status     string `gorm:"type:text;default:'tersedia'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (sessionRow) TableName() string { return "attendance_sessions" }

type userRow struct {
	ID           uint64 `gorm:"primaryKey;column:id"`
	NIM          string `gorm:"column:nim;uniqueIndex"`
	Name         string
	Role         string `gorm:"type:text;default:'mahasiswa'"`
	PasswordHash string `gorm:"column:password_hash"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

// Open returns a fresh database. The pool is pinned to one connection:
// every :memory: connection is its own database, and a single connection
// also serializes concurrent transactions.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&userRow{}, &itemRow{}, &roomRow{}, &sessionRow{}, &loanRow{}, &lineItemRow{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func SeedUser(t *testing.T, db *gorm.DB, nim, name string, role user.Role) *user.User {
	t.Helper()
	u := &user.User{NIM: nim, Name: name, Role: role, PasswordHash: "x"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedItem(t *testing.T, db *gorm.DB, name string, stock int) *catalog.Item {
	t.Helper()
	it := &catalog.Item{Name: name, Unit: "pcs", Quantity: stock, Status: catalog.StatusAvailable, Location: "Lab 1"}
	if err := db.Create(it).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return it
}

func SeedRoom(t *testing.T, db *gorm.DB, name string) *catalog.Room {
	t.Helper()
	r := &catalog.Room{Name: name, Building: "Gedung A", Floor: 2, Capacity: 40, Status: catalog.StatusAvailable}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("seed room: %v", err)
	}
	return r
}

func SeedSession(t *testing.T, db *gorm.DB, course string) *catalog.Session {
	t.Helper()
	s := &catalog.Session{Course: course, ClassGroup: "A", Semester: 3, Lecturer: "Dr. Rahman", Department: "Matematika", Status: catalog.StatusAvailable}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return s
}
