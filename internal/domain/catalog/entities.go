package catalog

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("resource not found")

// Kind is the discriminant stored on every loan line item.
type Kind string

const (
	KindItem    Kind = "barang"
	KindRoom    Kind = "kelas"
	KindSession Kind = "absen"
)

func (k Kind) Valid() bool {
	switch k {
	case KindItem, KindRoom, KindSession:
		return true
	}
	return false
}

type Status string

const (
	StatusAvailable   Status = "tersedia"
	StatusLoaned      Status = "dipinjam"
	StatusMaintenance Status = "maintenance"
)

// Snapshot is the normalized projection of any catalog record.
type Snapshot struct {
	ID          uint64         `json:"id"`
	Kind        Kind           `json:"kind"`
	DisplayName string         `json:"display_name"`
	Status      Status         `json:"status"`
	Metadata    map[string]any `json:"metadata"`
}

// Resource is what the approval engine needs from every catalog record.
type Resource interface {
	ResourceID() uint64
	Kind() Kind
	CurrentStatus() Status
	SetStatus(s Status)
	Snapshot() Snapshot
}

// Stocked is implemented by records that carry a quantity on hand.
type Stocked interface {
	Resource
	Stock() int
	SetStock(n int)
}

// Item is a quantity-bearing inventory record.
type Item struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Unit      string    `gorm:"size:32" json:"unit"`
	Quantity  int       `gorm:"column:stock;not null;default:0" json:"stock"`
	Status    Status    `gorm:"type:enum('tersedia','dipinjam','maintenance');default:'tersedia'" json:"status"`
	Location  string    `gorm:"size:128" json:"location"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Item) TableName() string { return "items" }

func (i *Item) ResourceID() uint64 { return i.ID }
func (i *Item) Kind() Kind { return KindItem }
func (i *Item) CurrentStatus() Status { return i.Status }
func (i *Item) SetStatus(s Status) { i.Status = s }
func (i *Item) Stock() int { return i.Quantity }
func (i *Item) SetStock(n int) { i.Quantity = n }
func (i *Item) Available() bool { return i.Status == StatusAvailable }
func (i *Item) HasStock(want int) bool { return i.Quantity >= want }

func (i *Item) Snapshot() Snapshot {
	return Snapshot{
		ID:          i.ID,
		Kind:        KindItem,
		DisplayName: i.Name,
		Status:      i.Status,
		Metadata: map[string]any{
			"unit":     i.Unit,
			"stock":    i.Quantity,
			"location": i.Location,
		},
	}
}

// Room is a bookable classroom. It has no quantity.
type Room struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"id"`
	Name       string    `gorm:"size:64;not null" json:"name"`
	Building   string    `gorm:"size:64" json:"building"`
	Floor      int       `json:"floor"`
	Capacity   int       `json:"capacity"`
	Facilities string    `gorm:"type:text" json:"facilities"`
	Status     Status    `gorm:"type:enum('tersedia','dipinjam','maintenance');default:'tersedia'" json:"status"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Room) TableName() string { return "rooms" }

func (r *Room) ResourceID() uint64 { return r.ID }
func (r *Room) Kind() Kind { return KindRoom }
func (r *Room) CurrentStatus() Status { return r.Status }
func (r *Room) SetStatus(s Status) { r.Status = s }

func (r *Room) Snapshot() Snapshot {
	return Snapshot{
		ID:          r.ID,
		Kind:        KindRoom,
		DisplayName: r.Name,
		Status:      r.Status,
		Metadata: map[string]any{
			"building":   r.Building,
			"floor":      r.Floor,
			"capacity":   r.Capacity,
			"facilities": r.Facilities,
		},
	}
}

// Session is an attendance-sheet record. Its status is only an availability flag.
type Session struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"id"`
	Course     string    `gorm:"size:128;not null" json:"course"`
	ClassGroup string    `gorm:"size:16" json:"class_group"`
	Semester   int       `json:"semester"`
	Lecturer   string    `gorm:"size:128" json:"lecturer"`
	Department string    `gorm:"size:128" json:"department"`
	Status     Status    `gorm:"type:enum('tersedia','dipinjam','maintenance');default:'tersedia'" json:"status"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Session) TableName() string { return "attendance_sessions" }

func (s *Session) ResourceID() uint64 { return s.ID }
func (s *Session) Kind() Kind { return KindSession }
func (s *Session) CurrentStatus() Status { return s.Status }
func (s *Session) SetStatus(st Status) { s.Status = st }

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:          s.ID,
		Kind:        KindSession,
		DisplayName: s.Course,
		Status:      s.Status,
		Metadata: map[string]any{
			"course":      s.Course,
			"class_group": s.ClassGroup,
			"semester":    s.Semester,
			"lecturer":    s.Lecturer,
			"department":  s.Department,
		},
	}
}
