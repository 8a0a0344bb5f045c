package http

import (
	"net/http"

	"github.com/adarshkumar790/multisender/internal/http/middleware"
	"github.com/adarshkumar790/multisender/internal/metrics"
	"github.com/adarshkumar790/multisender/internal/model"
	"github.com/adarshkumar790/multisender/internal/service/engine"
	echo "github.com/labstack/echo/v4"
)

type sendBatchReq struct {
	Asset         string   `json:"asset"`
	Recipients    []string `json:"recipients"`
	Amounts       []int64  `json:"amounts"`
	AttachedValue int64    `json:"attached_value"`
}

func sendBatchHandler(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req sendBatchReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		caller, ok := middleware.AccountFromCtx(c)
		if !ok || caller.IsZero() {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		asset, _ := model.ParseAsset(req.Asset)
		recipients := make([]model.Account, 0, len(req.Recipients))
		for _, raw := range req.Recipients {
			r, ok := model.ParseAccount(raw)
			if !ok {
				return c.JSON(http.StatusBadRequest, map[string]any{
					"error":     "invalid_recipient",
					"recipient": raw,
				})
			}
			recipients = append(recipients, r)
		}

		batchID, err := eng.SendBatch(c.Request().Context(), caller, model.BatchRequest{
			Asset:         asset,
			Recipients:    recipients,
			Amounts:       req.Amounts,
			AttachedValue: req.AttachedValue,
		})
		if err != nil {
			metrics.BatchesTotal.WithLabelValues("rejected").Inc()
			return engineError(c, err)
		}

		metrics.BatchesTotal.WithLabelValues("accepted").Inc()
		metrics.FeesCollectedTotal.Add(float64(req.AttachedValue))

		return c.JSON(http.StatusAccepted, map[string]any{
			"accepted":   true,
			"id":         batchID,
			"recipients": len(recipients),
		})
	}
}
