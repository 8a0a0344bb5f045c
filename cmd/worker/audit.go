package worker

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adarshkumar790/multisender/internal/audit"
	"github.com/adarshkumar790/multisender/internal/config"
	"github.com/adarshkumar790/multisender/internal/db"
	"github.com/adarshkumar790/multisender/internal/kafka"
	"github.com/adarshkumar790/multisender/internal/metrics"
	"github.com/adarshkumar790/multisender/internal/model"
	"github.com/adarshkumar790/multisender/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the audit ingest worker (Kafka events -> ClickHouse)",
	RunE:  runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	// 1) load config
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	// 2) ClickHouse connection
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

	auditRepo := audit.NewRepository(chDB)

	// 3) kafka consumer on the events topic
	groupID := cfg.Kafka.GroupID
	if groupID == "" {
		groupID = "msnd-audit"
	}

	consumer := kafka.NewConsumerFromConfig(kafka.Config{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          model.EventsKafkaTopic,
		GroupID:        groupID,
		MinBytes:       cfg.Kafka.MinBytes,
		MaxBytes:       cfg.Kafka.MaxBytes,
		CommitInterval: time.Duration(cfg.Kafka.CommitInterval) * time.Millisecond,
	})
	defer consumer.Close()

	w := worker.NewAuditIngest(consumer, auditRepo)

	// tune knobs
	if cfg.Audit.Workers > 0 {
		w.Workers = cfg.Audit.Workers
	}
	if cfg.Audit.BatchSize > 0 {
		w.BatchSize = cfg.Audit.BatchSize
	}
	if cfg.Audit.BatchWait > 0 {
		w.BatchWait = time.Duration(cfg.Audit.BatchWait) * time.Millisecond
	}

	// 4) graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf(">> audit ingest started topic=%s group=%s workers=%d batchSize=%d batchWait=%s",
		model.EventsKafkaTopic, groupID, w.Workers, w.BatchSize, w.BatchWait)

	return w.Run(ctx)
}
