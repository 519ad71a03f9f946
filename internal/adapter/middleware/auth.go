package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"mathrent/internal/domain/user"
	"mathrent/internal/usecase/auth"
	"mathrent/pkg/token"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	principalKey = "auth.principal"
	claimsKey    = "auth.claims"
)

type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (user.Principal, *token.Claims, error)
}

func bearer(h string) (string, bool) {
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	raw := strings.TrimSpace(h[len(prefix):])
	return raw, raw != ""
}

// Auth resolves the bearer token and stores the principal on the context.
func Auth(a Authenticator, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			p, claims, err := a.Authenticate(c.Request().Context(), raw)
			if errors.Is(err, auth.ErrUnauthorized) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}
			if err != nil {
				log.Error("authenticate", zap.Error(err))
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "authentication unavailable"})
			}
			c.Set(principalKey, p)
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// RequireRole must run after Auth.
func RequireRole(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
			}
			for _, r := range roles {
				if p.Role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}

func PrincipalFrom(c echo.Context) (user.Principal, bool) {
	p, ok := c.Get(principalKey).(user.Principal)
	return p, ok
}

func ClaimsFrom(c echo.Context) *token.Claims {
	cl, _ := c.Get(claimsKey).(*token.Claims)
	return cl
}

// WithPrincipal stores p the way Auth does.
func WithPrincipal(c echo.Context, p user.Principal, claims *token.Claims) {
	c.Set(principalKey, p)
	c.Set(claimsKey, claims)
}
