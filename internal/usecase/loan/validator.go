package loan

import (
	"context"
	"errors"
	"fmt"

	"mathrent/internal/domain/catalog"
)

// Validate checks every line item against the catalog and returns all
// problems found, each prefixed with its 1-based position. The error
// return is reserved for lookup failures other than not-found.
func Validate(ctx context.Context, items []LineItemInput, cat catalog.Reader) ([]string, error) {
	if len(items) == 0 {
		return []string{"at least one line item is required"}, nil
	}
	var out []string
	for i, in := range items {
		var (
			msgs []string
			err  error
		)
		switch in.Kind {
		case catalog.KindItem:
			msgs, err = validateItem(ctx, in, cat)
		case catalog.KindRoom:
			msgs, err = validateRoom(ctx, in, cat)
		case catalog.KindSession:
			msgs, err = validateSession(ctx, in, cat)
		default:
			msgs = []string{fmt.Sprintf("unknown resource kind %q", in.Kind)}
		}
		if err != nil {
			return nil, fmt.Errorf("validate item %d: %w", i+1, err)
		}
		for _, m := range msgs {
			out = append(out, fmt.Sprintf("item %d: %s", i+1, m))
		}
	}
	return out, nil
}

// a zero quantity counts as absent on kinds that take none
func hasQuantity(in LineItemInput) bool { return in.Quantity != nil && *in.Quantity != 0 }

func hasTimes(in LineItemInput) bool { return in.StartTime != nil || in.EndTime != nil }

func validateItem(ctx context.Context, in LineItemInput, cat catalog.Reader) ([]string, error) {
	var msgs []string
	qty := 0
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	if qty <= 0 {
		msgs = append(msgs, "quantity is required and must be greater than 0")
	}
	if hasTimes(in) {
		msgs = append(msgs, "start_time/end_time are not allowed for barang")
	}

	it, err := cat.GetItem(ctx, in.ResourceID)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return append(msgs, fmt.Sprintf("barang with id %d not found", in.ResourceID)), nil
	case err != nil:
		return nil, err
	case !it.Available():
		msgs = append(msgs, fmt.Sprintf("barang %q is not available", it.Name))
	case qty > 0 && !it.HasStock(qty):
		msgs = append(msgs, fmt.Sprintf("insufficient stock for barang %q (available: %d)", it.Name, it.Quantity))
	}
	return msgs, nil
}

func validateRoom(ctx context.Context, in LineItemInput, cat catalog.Reader) ([]string, error) {
	var msgs []string
	if in.StartTime == nil || in.EndTime == nil {
		msgs = append(msgs, "start_time and end_time are required for kelas")
	}
	if hasQuantity(in) {
		msgs = append(msgs, "quantity is not allowed for kelas")
	}
	if in.StartTime != nil && in.EndTime != nil && !in.StartTime.Before(*in.EndTime) {
		msgs = append(msgs, "start_time must be before end_time")
	}

	rm, err := cat.GetRoom(ctx, in.ResourceID)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		msgs = append(msgs, fmt.Sprintf("kelas with id %d not found", in.ResourceID))
	case err != nil:
		return nil, err
	case rm.Status != catalog.StatusAvailable:
		msgs = append(msgs, fmt.Sprintf("kelas %q is not available", rm.Name))
	}
	return msgs, nil
}

func validateSession(ctx context.Context, in LineItemInput, cat catalog.Reader) ([]string, error) {
	var msgs []string
	if hasQuantity(in) || hasTimes(in) {
		msgs = append(msgs, "quantity/start_time/end_time are not allowed for absen")
	}

	_, err := cat.GetSession(ctx, in.ResourceID)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		msgs = append(msgs, fmt.Sprintf("absen with id %d not found", in.ResourceID))
	case err != nil:
		return nil, err
	}
	return msgs, nil
}
