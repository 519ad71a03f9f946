package loan

import (
	"time"

	"mathrent/internal/domain/catalog"
)

// Payload is the kind-specific part of a line item. The set of
// implementations is closed: ItemPayload, RoomPayload, SessionPayload.
type Payload interface {
	Kind() catalog.Kind
	sealed()
}

type ItemPayload struct {
	Quantity int
}

type RoomPayload struct {
	Start time.Time
	End   time.Time
}

type SessionPayload struct{}

func (ItemPayload) Kind() catalog.Kind    { return catalog.KindItem }
func (RoomPayload) Kind() catalog.Kind    { return catalog.KindRoom }
func (SessionPayload) Kind() catalog.Kind { return catalog.KindSession }

func (ItemPayload) sealed()    {}
func (RoomPayload) sealed()    {}
func (SessionPayload) sealed() {}

// Hours is the booking length rounded to two decimals.
func (p RoomPayload) Hours() float64 {
	h := p.End.Sub(p.Start).Hours()
	return float64(int64(h*100+0.5)) / 100
}

// Payload decodes the stored columns by kind. A row whose columns don't
// match its kind yields nil; validation keeps such rows out of storage.
func (li LineItem) Payload() Payload {
	switch li.Kind {
	case catalog.KindItem:
		if li.Quantity == nil {
			return nil
		}
		return ItemPayload{Quantity: *li.Quantity}
	case catalog.KindRoom:
		if li.StartTime == nil || li.EndTime == nil {
			return nil
		}
		return RoomPayload{Start: *li.StartTime, End: *li.EndTime}
	case catalog.KindSession:
		return SessionPayload{}
	}
	return nil
}

// NewLineItem builds a storable row from a payload.
func NewLineItem(resourceID uint64, p Payload) LineItem {
	li := LineItem{Kind: p.Kind(), ResourceID: resourceID}
	switch v := p.(type) {
	case ItemPayload:
		q := v.Quantity
		li.Quantity = &q
	case RoomPayload:
		s, e := v.Start.UTC(), v.End.UTC()
		li.StartTime, li.EndTime = &s, &e
	}
	return li
}
