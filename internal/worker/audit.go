package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/adarshkumar790/multisender/internal/audit"
	"github.com/adarshkumar790/multisender/internal/kafka"
	"github.com/adarshkumar790/multisender/internal/metrics"
	"github.com/adarshkumar790/multisender/internal/model"
)

// AuditIngest:
// - fetches event envelopes from Kafka,
// - materializes them as audit rows,
// - batch-inserts into ClickHouse on size/time thresholds.
type AuditIngest struct {
	// Dependencies
	Consumer *kafka.Consumer
	Audit    audit.Repository

	// Behavior
	Workers   int           // goroutines parsing envelopes
	BatchSize int           // max buffered rows per flush
	BatchWait time.Duration // max time to wait before flush
}

// NewAuditIngest builds the worker with sane defaults.
func NewAuditIngest(consumer *kafka.Consumer, repo audit.Repository) *AuditIngest {
	return &AuditIngest{
		Consumer:  consumer,
		Audit:     repo,
		Workers:   16,
		BatchSize: 200,
		BatchWait: 300 * time.Millisecond,
	}
}

// Run starts the worker and blocks until ctx is cancelled.
func (w *AuditIngest) Run(ctx context.Context) error {
	if w.Consumer == nil || w.Audit == nil {
		return errors.New("audit-ingest: missing consumer or repository")
	}
	if w.Workers <= 0 {
		w.Workers = 16
	}
	if w.BatchSize <= 0 {
		w.BatchSize = 200
	}
	if w.BatchWait <= 0 {
		w.BatchWait = 300 * time.Millisecond
	}

	rows := make(chan model.AuditEvent, w.BatchSize*2)
	defer close(rows)

	go w.runBatchWriter(ctx, rows)

	msgCh := make(chan kafka.Message, w.Workers*2)

	// Fetcher goroutine
	go func() {
		defer close(msgCh)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				m, err := w.Consumer.Fetch(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Printf("[audit] kafka fetch err: %v", err)
					time.Sleep(200 * time.Millisecond)
					continue
				}
				msgCh <- m
			}
		}
	}()

	for i := 0; i < w.Workers; i++ {
		go w.runProcessor(ctx, msgCh, rows)
	}

	<-ctx.Done()
	return nil
}

func (w *AuditIngest) runProcessor(ctx context.Context, in <-chan kafka.Message, out chan<- model.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-in:
			if !ok {
				return
			}
			w.processOne(ctx, m, out)
		}
	}
}

func (w *AuditIngest) processOne(ctx context.Context, m kafka.Message, out chan<- model.AuditEvent) {
	var env model.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil || env.ID == "" {
		_ = w.Consumer.Commit(ctx, m) // poison → commit, skip
		if err != nil {
			log.Printf("[audit] bad envelope json: %v", err)
		} else {
			log.Printf("[audit] envelope missing id")
		}
		return
	}

	metrics.AuditEventsTotal.WithLabelValues(env.Kind).Inc()
	out <- model.AuditEvent{
		ID:        env.ID,
		Kind:      env.Kind,
		Account:   env.Account,
		Payload:   string(m.Value),
		CreatedAt: time.Now(),
	}

	// At-least-once; the insert is idempotent on event id (ReplacingMergeTree).
	if err := w.Consumer.Commit(ctx, m); err != nil {
		log.Printf("[audit] commit err: %v", err)
	}
}

// runBatchWriter does size/time-based flush into ClickHouse.
func (w *AuditIngest) runBatchWriter(ctx context.Context, in <-chan model.AuditEvent) {
	tick := time.NewTicker(w.BatchWait)
	defer tick.Stop()

	batch := make([]model.AuditEvent, 0, w.BatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := w.Audit.InsertEvents(ctx, batch); err != nil {
			log.Printf("[audit] insert batch err: %v", err)
			return
		}
		log.Printf("[audit] flushed: events=%d", len(batch))
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case row, ok := <-in:
			if !ok {
				flush()
				return
			}
			batch = append(batch, row)
			if len(batch) >= w.BatchSize {
				flush()
			}
		case <-tick.C:
			flush()
		}
	}
}
