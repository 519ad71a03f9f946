package loan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidState      = errors.New("loan is not in a state that allows this operation")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrValidationFailed  = errors.New("validation failed")
)

// ValidationError carries every problem found in a request, not only the first.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return ErrValidationFailed.Error() + ": " + strings.Join(e.Errors, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }

type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	if e.From.Terminal() {
		return fmt.Sprintf("loan is already %q and its status can no longer change", e.From)
	}
	return fmt.Sprintf("cannot change status from %q to %q", e.From, e.To)
}

// Allowed lists the statuses the loan could have moved to instead.
func (e *InvalidTransitionError) Allowed() []Status { return NextStatuses(e.From) }

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }
