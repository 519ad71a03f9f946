package http

import (
	"net/http"
	"strings"
	"time"

	"mathrent/internal/adapter/middleware"
	"mathrent/internal/domain/user"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// wireTime accepts RFC3339 or a naive "YYYY-MM-DDTHH:MM[:SS]" read as UTC.
type wireTime struct{ time.Time }

var naiveLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04"}

func (w *wireTime) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		w.Time = t.UTC()
		return nil
	}
	var err error
	for _, layout := range naiveLayouts {
		var t time.Time
		if t, err = time.Parse(layout, raw); err == nil {
			w.Time = t
			return nil
		}
	}
	return err
}

func (w *wireTime) ptr() *time.Time {
	if w == nil {
		return nil
	}
	t := w.Time
	return &t
}

// parseDate reads an already validated YYYY-MM-DD.
func parseDate(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := parseDate(s)
	return &t
}

// principal is set by middleware.Auth on every authenticated route.
func principal(c echo.Context) (user.Principal, bool) {
	return middleware.PrincipalFrom(c)
}

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
}

// loanIDParam returns false after writing a 404 for ids that cannot exist.
func loanIDParam(c echo.Context) (string, bool, error) {
	id := c.Param("loan_id")
	if id == "" {
		return "", false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	if !reHex32.MatchString(id) {
		return "", false, c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}
	return id, true, nil
}
