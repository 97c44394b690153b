package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cantinadev/cantina-backend/internal/logging"
)

const HeaderAPIKey = "X-API-KEY"

// AdminOnly gates the admin group behind the configured API key.
func AdminOnly(adminKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get(HeaderAPIKey)
			if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) != 1 {
				l := logging.FromContext(c.Request().Context())
				l.Warn("unauthorized_admin_access", "remote_ip", c.RealIP(), "path", c.Path())
				return echo.NewHTTPError(http.StatusUnauthorized, "acesso não autorizado. Chave de API inválida ou ausente")
			}
			return next(c)
		}
	}
}
