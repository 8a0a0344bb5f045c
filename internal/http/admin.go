package http

import (
	"net/http"

	"github.com/adarshkumar790/multisender/internal/http/middleware"
	"github.com/adarshkumar790/multisender/internal/model"
	"github.com/adarshkumar790/multisender/internal/service/engine"
	echo "github.com/labstack/echo/v4"
)

// The admin surface is owner-gated inside the engine: every handler below
// passes the authenticated caller through and lets the engine decide.

func adminCaller(c echo.Context) (model.Account, bool) {
	caller, ok := middleware.AccountFromCtx(c)
	return caller, ok && !caller.IsZero()
}

type setPackageReq struct {
	ID           uint32 `json:"id"`
	Price        int64  `json:"price"`
	ValiditySecs int64  `json:"validity_secs"`
}

func adminSetPackageHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req setPackageReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		caller, ok := adminCaller(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		if err := eng.SetPackage(c.Request().Context(), caller, req.ID, req.Price, req.ValiditySecs); err != nil {
			return engineError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"id": req.ID})
	}
}

type setFeeReq struct {
	Amount int64 `json:"amount"`
}

func adminSetPerRecipientFeeHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req setFeeReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		caller, ok := adminCaller(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		if err := eng.SetPerRecipientFee(c.Request().Context(), caller, req.Amount); err != nil {
			return engineError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func adminSetMinimumFeeHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req setFeeReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		caller, ok := adminCaller(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		if err := eng.SetMinimumFee(c.Request().Context(), caller, req.Amount); err != nil {
			return engineError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

type accountReq struct {
	Account string `json:"account"`
}

func adminSetFeeReceiverHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req accountReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		caller, ok := adminCaller(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		receiver, _ := model.ParseAccount(req.Account)
		if err := eng.SetFeeReceiver(c.Request().Context(), caller, receiver); err != nil {
			return engineError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func adminTransferOwnershipHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req accountReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		caller, ok := adminCaller(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		newOwner, _ := model.ParseAccount(req.Account)
		if err := eng.TransferOwnership(c.Request().Context(), caller, newOwner); err != nil {
			return engineError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

type grantReq struct {
	Account   string `json:"account"`
	ExpiresAt int64  `json:"expires_at"`
}

func adminGrantHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req grantReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		caller, ok := adminCaller(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		account, _ := model.ParseAccount(req.Account)
		if err := eng.Grant(c.Request().Context(), caller, account, req.ExpiresAt); err != nil {
			return engineError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func adminRevokeHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req accountReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		caller, ok := adminCaller(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		account, _ := model.ParseAccount(req.Account)
		if err := eng.Revoke(c.Request().Context(), caller, account); err != nil {
			return engineError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

type recoverAssetReq struct {
	Asset     string `json:"asset"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

func adminRecoverAssetHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req recoverAssetReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		caller, ok := adminCaller(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		asset, _ := model.ParseAsset(req.Asset)
		recipient, _ := model.ParseAccount(req.Recipient)
		if err := eng.RecoverAsset(c.Request().Context(), caller, asset, recipient, req.Amount); err != nil {
			return engineError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

type recoverNativeReq struct {
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

func adminRecoverNativeHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req recoverNativeReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		caller, ok := adminCaller(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		recipient, _ := model.ParseAccount(req.Recipient)
		if err := eng.RecoverNative(c.Request().Context(), caller, recipient, req.Amount); err != nil {
			return engineError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
