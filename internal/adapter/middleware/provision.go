package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const headerProvisionKey = "X-Provision-Key"

// ProvisionKey admits requests carrying the shared provisioning key.
func ProvisionKey(key string, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return echomw.KeyAuthWithConfig(echomw.KeyAuthConfig{
		KeyLookup: "header:" + headerProvisionKey,
		Validator: func(got string, _ echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(got), []byte(key)) == 1, nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			log.Warn("provisioning key rejected",
				zap.String("remote_ip", c.RealIP()),
				zap.Error(err),
			)
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid provisioning key"})
		},
	})
}
