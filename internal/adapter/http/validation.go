package http

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"mathrent/internal/domain/catalog"
	"mathrent/internal/domain/loan"
	"mathrent/internal/domain/user"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// TransitionErrorResponse is the 409 body for a refused status change.
// Allowed is empty once the loan is rejected or returned.
type TransitionErrorResponse struct {
	Error   string        `json:"error"`
	From    loan.Status   `json:"from"`
	To      loan.Status   `json:"to"`
	Allowed []loan.Status `json:"allowed"`
}

// loan ids are 32-char lowercase hex
var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report wire names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	_ = v.RegisterValidation("nim", func(fl validator.FieldLevel) bool {
		_, err := user.ParseNIM(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("kind", func(fl validator.FieldLevel) bool {
		return catalog.Kind(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("loanstatus", func(fl validator.FieldLevel) bool {
		return loan.Status(fl.Field().String()).Valid()
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Namespace()
		// drop the root struct name: "createLoanReq.items[0].kind" -> "items[0].kind"
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "nim":
			out = append(out, FieldError{Field: field, Message: "must be a department student number (H{program}{YY}10NN)"})
		case "kind":
			out = append(out, FieldError{Field: field, Message: "must be one of barang, kelas, absen"})
		case "loanstatus":
			out = append(out, FieldError{Field: field, Message: "must be one of pending, disetujui, ditolak, dikembalikan"})
		case "datetime":
			out = append(out, FieldError{Field: field, Message: "must be a date in YYYY-MM-DD format"})
		case "min":
			out = append(out, FieldError{Field: field, Message: "must be at least " + e.Param() + " characters"})
		case "max":
			out = append(out, FieldError{Field: field, Message: "must be at most " + e.Param() + " characters"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
