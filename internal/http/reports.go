package http

import (
	"net/http"
	"strconv"

	"github.com/adarshkumar790/multisender/internal/audit"
	"github.com/adarshkumar790/multisender/internal/http/middleware"
	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// listEventsHandler serves the caller's event history out of ClickHouse.
// Filters: ?kind=batch.executed, ?limit, ?offset.
func listEventsHandler(repo audit.Repository) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, ok := middleware.AccountFromCtx(c)
		if !ok || caller.IsZero() {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		offset, _ := strconv.Atoi(c.QueryParam("offset"))
		kind := c.QueryParam("kind")

		events, err := repo.ListByAccount(c.Request().Context(), caller, kind, limit, offset)
		if err != nil {
			log.Errorf("list events: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"events": events,
			"count":  len(events),
		})
	}
}
