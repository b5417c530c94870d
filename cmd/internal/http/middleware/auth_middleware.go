package middleware

import (
	"crypto/subtle"
	"gatherbeat/cmd/internal/utils/apierror"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

type AuthMiddlewareConfig struct {
	// Token is the shared admin token. An empty token disables the check.
	Token string
}

// NewAuthMiddleware guards admin routes behind a static bearer token.
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Token == "" {
				return next(c)
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, bearerPrefix)
			if !found || subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Token)) != 1 {
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}
			return next(c)
		}
	}
}
