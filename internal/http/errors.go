package http

import (
	"errors"
	"net/http"

	"github.com/adarshkumar790/multisender/internal/service/engine"
	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// engineError maps engine sentinels to a status code and a stable error code
// the caller can branch on.
func engineError(c echo.Context, err error) error {
	type mapping struct {
		sentinel error
		status   int
		code     string
	}
	mappings := []mapping{
		{engine.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
		{engine.ErrInsufficientPayment, http.StatusPaymentRequired, "insufficient_payment"},
		{engine.ErrInsufficientFunds, http.StatusPaymentRequired, "insufficient_funds"},
		{engine.ErrInvalidAsset, http.StatusBadRequest, "invalid_asset"},
		{engine.ErrInvalidRecipient, http.StatusBadRequest, "invalid_recipient"},
		{engine.ErrBatchSizeViolation, http.StatusBadRequest, "batch_size_violation"},
		{engine.ErrLengthMismatch, http.StatusBadRequest, "length_mismatch"},
		{engine.ErrEmptyBatch, http.StatusBadRequest, "empty_batch"},
		{engine.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
		{engine.ErrPackageNotFound, http.StatusNotFound, "package_not_found"},
		{engine.ErrLedgerTransferFailed, http.StatusBadGateway, "ledger_transfer_failed"},
		{engine.ErrNotConfigured, http.StatusServiceUnavailable, "not_configured"},
	}
	for _, m := range mappings {
		if errors.Is(err, m.sentinel) {
			return c.JSON(m.status, map[string]string{
				"error":       m.code,
				"description": err.Error(),
			})
		}
	}
	log.Errorf("engine error: %v", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
}
