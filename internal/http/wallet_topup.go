package http

import (
	"net/http"
	"strings"

	"github.com/adarshkumar790/multisender/internal/http/middleware"
	"github.com/adarshkumar790/multisender/internal/service/engine"
	echo "github.com/labstack/echo/v4"
)

type topupReq struct {
	Amount    int64  `json:"amount"`
	RequestID string `json:"request_id"`
}

func walletTopupHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req topupReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		req.RequestID = strings.TrimSpace(req.RequestID)
		if req.RequestID == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "request_id required"})
		}

		caller, ok := middleware.AccountFromCtx(c)
		if !ok || caller.IsZero() {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		idempotent, err := eng.Topup(c.Request().Context(), caller, req.Amount, req.RequestID)
		if err != nil {
			return engineError(c, err)
		}

		bal, err := eng.WalletBalance(c.Request().Context(), caller)
		if err != nil {
			return engineError(c, err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"balance":    bal,
			"idempotent": idempotent,
		})
	}
}

func walletBalanceHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, ok := middleware.AccountFromCtx(c)
		if !ok || caller.IsZero() {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		bal, err := eng.WalletBalance(c.Request().Context(), caller)
		if err != nil {
			return engineError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"balance": bal})
	}
}
