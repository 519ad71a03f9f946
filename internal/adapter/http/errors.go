package http

import (
	"errors"
	"net/http"

	"mathrent/internal/domain/loan"
	"mathrent/internal/domain/user"
	"mathrent/internal/usecase/auth"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// writeError maps domain errors → HTTP codes. Anything unrecognised is
// logged and hidden behind a 500.
func writeError(c echo.Context, log *zap.Logger, err error) error {
	var ve *loan.ValidationError
	var te *loan.InvalidTransitionError

	switch {
	case errors.As(err, &ve):
		details := make([]FieldError, 0, len(ve.Errors))
		for _, m := range ve.Errors {
			details = append(details, FieldError{Field: "items", Message: m})
		}
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: details})
	case errors.As(err, &te):
		return c.JSON(http.StatusConflict, TransitionErrorResponse{Error: te.Error(), From: te.From, To: te.To, Allowed: te.Allowed()})
	case errors.Is(err, loan.ErrNotFound), errors.Is(err, user.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, loan.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, loan.ErrInvalidState):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: loan.ErrInvalidState.Error()})
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, user.ErrBadCredential):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, user.ErrDuplicateNIM):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: user.ErrDuplicateNIM.Error()})
	case errors.Is(err, user.ErrInvalidNIM):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: []FieldError{{Field: "nim", Message: err.Error()}}})
	case errors.Is(err, auth.ErrWeakPassword):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: []FieldError{{Field: "password", Message: err.Error()}}})
	case errors.Is(err, auth.ErrNameTooShort):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: []FieldError{{Field: "name", Message: err.Error()}}})
	}

	log.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// bindAndValidate writes the 400/422 response itself and reports whether
// the handler may continue.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
