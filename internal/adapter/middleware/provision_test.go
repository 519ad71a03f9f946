package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zaptest"
)

func TestProvisionKey(t *testing.T) {
	const key = "0123456789abcdef"
	e := echo.New()
	e.POST("/auth/create-staff", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, ProvisionKey(key, zaptest.NewLogger(t)))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing key", header: "", want: http.StatusUnauthorized},
		{name: "wrong key", header: "0123456789abcdeX", want: http.StatusUnauthorized},
		{name: "prefix of key", header: "0123", want: http.StatusUnauthorized},
		{name: "matching key", header: key, want: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/create-staff", nil)
			if tt.header != "" {
				req.Header.Set(headerProvisionKey, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body=%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}
