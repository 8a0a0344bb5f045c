package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/adarshkumar790/multisender/internal/audit"
	"github.com/adarshkumar790/multisender/internal/config"
	"github.com/adarshkumar790/multisender/internal/http/middleware"
	"github.com/adarshkumar790/multisender/internal/metrics"
	"github.com/adarshkumar790/multisender/internal/service/engine"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Server struct{ e *echo.Echo }

func NewServer(cfg config.Config, eng *engine.Engine, clickhouseDB *sqlx.DB, rds *redis.Client) *Server {
	auditRepo := audit.NewRepository(clickhouseDB)

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	authMW := middleware.APIKeyMiddleware(eng)
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		DefaultRPS:     cfg.RateLimit.RPS,
		KeyPrefix:      "rl:acct:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// routes
	v1 := e.Group("/v1", authMW, rlMW)
	v1.POST("/batch/send", sendBatchHandler(eng))
	v1.POST("/vip/purchase", purchaseHandler(eng))
	v1.GET("/vip/status", vipStatusHandler(eng))
	v1.GET("/packages/:id", getPackageHandler(eng))
	v1.GET("/fees/quote", feeQuoteHandler(eng))
	v1.POST("/wallet/topup", walletTopupHandler(eng))
	v1.GET("/wallet/balance", walletBalanceHandler(eng))
	v1.GET("/reports/events", listEventsHandler(auditRepo))

	admin := v1.Group("/admin")
	admin.PUT("/packages", adminSetPackageHandler(eng))
	admin.PUT("/fees/per-recipient", adminSetPerRecipientFeeHandler(eng))
	admin.PUT("/fees/minimum", adminSetMinimumFeeHandler(eng))
	admin.PUT("/fee-receiver", adminSetFeeReceiverHandler(eng))
	admin.PUT("/owner", adminTransferOwnershipHandler(eng))
	admin.POST("/memberships/grant", adminGrantHandler(eng))
	admin.POST("/memberships/revoke", adminRevokeHandler(eng))
	admin.POST("/recover/asset", adminRecoverAssetHandler(eng))
	admin.POST("/recover/native", adminRecoverNativeHandler(eng))

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	log.Printf("http: listening on %s", addr)
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
