package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/adarshkumar790/multisender/internal/model"
	echo "github.com/labstack/echo/v4"
)

// AccountResolver maps API keys to registered accounts.
type AccountResolver interface {
	AccountByAPIKey(ctx context.Context, apiKey string) (*model.RegisteredAccount, error)
}

// AccountFromCtx extracts the authenticated caller address set by
// APIKeyMiddleware.
func AccountFromCtx(c echo.Context) (model.Account, bool) {
	v := c.Get("account")
	a, ok := v.(model.Account)
	return a, ok
}

// APIKeyMiddleware authenticates requests using the X-API-Key header. On
// success it stores the caller's ledger address in context and blocks
// suspended accounts.
func APIKeyMiddleware(resolver AccountResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := strings.TrimSpace(c.Request().Header.Get("X-API-Key"))
			if key == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing api key"})
			}
			acc, err := resolver.AccountByAPIKey(c.Request().Context(), key)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "auth error"})
			}
			if acc == nil || acc.Status != "active" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid api key"})
			}
			c.Set("account", acc.Address)
			if acc.RateLimitRPS != nil {
				c.Set("account_rps", *acc.RateLimitRPS)
			}
			return next(c)
		}
	}
}
