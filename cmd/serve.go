package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/adarshkumar790/multisender/internal/clock"
	"github.com/adarshkumar790/multisender/internal/config"
	"github.com/adarshkumar790/multisender/internal/db"
	httpSrv "github.com/adarshkumar790/multisender/internal/http"
	"github.com/adarshkumar790/multisender/internal/ledger"
	"github.com/adarshkumar790/multisender/internal/logger"
	"github.com/adarshkumar790/multisender/internal/service/engine"
	mysqlStore "github.com/adarshkumar790/multisender/internal/store/mysql"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger.Init(cfg.Log.Level)

		mysqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
			PingTimeout:     cfg.MySQL.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer mysqlDB.Close()

		redisClient, err := db.NewRedisClient(db.RedisOpts{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		defer func() { _ = redisClient.Close() }()

		chDB, err := db.NewClickHouseConnection(db.ClickHouseOpts{
			DSN:             cfg.ClickHouse.DSN,
			MaxOpenConns:    cfg.ClickHouse.MaxOpenConns,
			MaxIdleConns:    cfg.ClickHouse.MaxIdleConns,
			ConnMaxLifetime: cfg.ClickHouse.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.ClickHouse.ConnMaxIdleTime,
			PingTimeout:     cfg.ClickHouse.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("clickhouse connect: %w", err)
		}
		defer func() { _ = chDB.Close() }()

		// ledger nodes → round-robin pool
		var nodes []ledger.Node
		for _, nc := range cfg.Ledger.Nodes {
			if !nc.Enabled || strings.TrimSpace(nc.BaseURL) == "" {
				continue
			}
			nodes = append(nodes, ledger.NewHTTPNode(
				nc.Name,
				strings.TrimRight(nc.BaseURL, "/"),
				nc.TransferFromPath,
				nc.TransferPath,
				nc.TimeoutMs,
				nc.Breaker.FailThreshold,
				nc.Breaker.OpenForMs,
			))
		}
		if len(nodes) == 0 {
			return fmt.Errorf("no ledger nodes enabled in config")
		}
		pool := ledger.NewPool(nodes)

		eng := engine.New(mysqlStore.New(mysqlDB), pool, clock.System(), logger.Log)

		server := httpSrv.NewServer(cfg, eng, chDB, redisClient)

		errCh := make(chan error, 1)
		go func() {
			log.Printf("starting http on %s", cfg.HTTP.Addr)
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Printf("signal received: %s, shutting down...", sig)
		case err := <-errCh:
			if err != nil {
				log.Printf("http server exited: %v", err)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)

		return nil
	},
}
