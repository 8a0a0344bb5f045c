package http

import (
	"net/http"

	"github.com/adarshkumar790/multisender/internal/http/middleware"
	"github.com/adarshkumar790/multisender/internal/metrics"
	"github.com/adarshkumar790/multisender/internal/service/engine"
	echo "github.com/labstack/echo/v4"
)

type purchaseReq struct {
	PackageID  uint32 `json:"package_id"`
	PaidAmount int64  `json:"paid_amount"`
}

func purchaseHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req purchaseReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		caller, ok := middleware.AccountFromCtx(c)
		if !ok || caller.IsZero() {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		expiresAt, err := eng.Purchase(c.Request().Context(), caller, req.PackageID, req.PaidAmount)
		if err != nil {
			return engineError(c, err)
		}

		metrics.VipPurchasesTotal.Inc()
		return c.JSON(http.StatusOK, map[string]any{
			"active":     true,
			"expires_at": expiresAt,
		})
	}
}

func vipStatusHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, ok := middleware.AccountFromCtx(c)
		if !ok || caller.IsZero() {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		m, err := eng.MembershipOf(c.Request().Context(), caller)
		if err != nil {
			return engineError(c, err)
		}
		active, err := eng.IsActive(c.Request().Context(), caller)
		if err != nil {
			return engineError(c, err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"active":     active,
			"expires_at": m.ExpiresAt,
		})
	}
}
