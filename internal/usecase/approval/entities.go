package approval

import (
	"mathrent/internal/domain/loan"
)

// TransitionInput asks for a status change. A non-blank Notes replaces
// the loan's notes.
type TransitionInput struct {
	Status loan.Status
	Notes  string
}

const codeLength = 8
