package http

import (
	"net/http"
	"strconv"

	"github.com/adarshkumar790/multisender/internal/http/middleware"
	"github.com/adarshkumar790/multisender/internal/service/engine"
	echo "github.com/labstack/echo/v4"
)

func getPackageHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid package id"})
		}

		pkg, err := eng.GetPackage(c.Request().Context(), uint32(id))
		if err != nil {
			return engineError(c, err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"id":            pkg.ID,
			"price":         pkg.Price,
			"validity_secs": pkg.ValiditySecs,
		})
	}
}

// feeQuoteHandler quotes the fee the caller would owe for a batch of
// ?recipients=n, VIP waiver included.
func feeQuoteHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, ok := middleware.AccountFromCtx(c)
		if !ok || caller.IsZero() {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		n, err := strconv.Atoi(c.QueryParam("recipients"))
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid recipients"})
		}

		fee, err := eng.EffectiveFee(c.Request().Context(), caller, n)
		if err != nil {
			return engineError(c, err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"recipients": n,
			"fee":        fee,
		})
	}
}
