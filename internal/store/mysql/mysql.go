// Package mysql is the sqlx-backed production driver for store.Store.
package mysql

import (
	"context"
	"database/sql"

	"github.com/adarshkumar790/multisender/internal/model"
	"github.com/adarshkumar790/multisender/internal/store"
	"github.com/jmoiron/sqlx"
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store { return &Store{db: db} }

var _ store.Store = (*Store)(nil)

func (s *Store) RunInTx(ctx context.Context, fn func(store.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&mysqlTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Close() error { return s.db.Close() }

type mysqlTx struct {
	tx *sqlx.Tx
}

var _ store.Tx = (*mysqlTx)(nil)

func (t *mysqlTx) AccountByAPIKey(ctx context.Context, apiKey string) (*model.RegisteredAccount, error) {
	var a model.RegisteredAccount
	err := t.tx.GetContext(ctx, &a, `
		SELECT id, address, name, api_key, status, rate_limit_rps, created_at, updated_at
		  FROM accounts
		 WHERE api_key = ? LIMIT 1
	`, apiKey)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (t *mysqlTx) Settings(ctx context.Context) (model.Settings, error) {
	var s model.Settings
	err := t.tx.GetContext(ctx, &s, `
		SELECT owner, fee_receiver, per_recipient_fee, minimum_fee, updated_at
		  FROM engine_settings
		 WHERE id = 1
	`)
	if err == sql.ErrNoRows {
		return model.Settings{}, store.ErrNotFound
	}
	return s, err
}

func (t *mysqlTx) PutSettings(ctx context.Context, s model.Settings) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO engine_settings (id, owner, fee_receiver, per_recipient_fee, minimum_fee, updated_at)
		VALUES (1, ?, ?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE
		    owner             = VALUES(owner),
		    fee_receiver      = VALUES(fee_receiver),
		    per_recipient_fee = VALUES(per_recipient_fee),
		    minimum_fee       = VALUES(minimum_fee),
		    updated_at        = VALUES(updated_at)
	`, s.Owner, s.FeeReceiver, s.PerRecipientFee, s.MinimumFee)
	return err
}
