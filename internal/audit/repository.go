// Package audit persists the event history in ClickHouse so external
// observers can replay state changes.
package audit

import (
	"context"
	"strings"

	"github.com/adarshkumar790/multisender/internal/model"
	"github.com/jmoiron/sqlx"
)

// Repository reads and writes the audit_events table.
type Repository interface {
	InsertEvents(ctx context.Context, events []model.AuditEvent) error
	ListByAccount(ctx context.Context, account model.Account, kind string, limit, offset int) ([]model.AuditEvent, error)
}

type chRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewRepository(ch *sqlx.DB) Repository {
	return &chRepository{ch: ch}
}

// InsertEvents writes a worker batch in one statement.
func (r *chRepository) InsertEvents(ctx context.Context, events []model.AuditEvent) error {
	if len(events) == 0 {
		return nil
	}

	var sb strings.Builder
	args := make([]any, 0, len(events)*5)

	sb.WriteString(`INSERT INTO msnd.audit_events (id, kind, account, payload, created_at) VALUES `)
	for i, e := range events {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?, ?)")
		args = append(args, e.ID, e.Kind, e.Account, e.Payload, e.CreatedAt)
	}

	_, err := r.ch.ExecContext(ctx, sb.String(), args...)
	return err
}

func (r *chRepository) ListByAccount(ctx context.Context, account model.Account, kind string, limit, offset int) ([]model.AuditEvent, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := `
		SELECT id, kind, account, payload, created_at
		FROM msnd.audit_events
		WHERE account = ?
	`
	args := []any{account}

	if kind != "" {
		q += " AND kind = ?"
		args = append(args, kind)
	}

	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var rows []model.AuditEvent
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
