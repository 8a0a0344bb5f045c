package mysql

import (
	"context"
	"strings"

	"github.com/adarshkumar790/multisender/internal/model"
)

func (t *mysqlTx) EnsureWallet(ctx context.Context, account model.Account) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO wallet_accounts (account, balance, created_at, updated_at)
		VALUES (?, 0, NOW(), NOW())
		ON DUPLICATE KEY UPDATE updated_at = VALUES(updated_at)
	`, account)
	return err
}

func (t *mysqlTx) WalletForUpdate(ctx context.Context, account model.Account) (int64, error) {
	var bal int64
	err := t.tx.QueryRowxContext(ctx, `
		SELECT balance
		  FROM wallet_accounts
		 WHERE account = ?
		 FOR UPDATE
	`, account).Scan(&bal)
	return bal, err
}

func (t *mysqlTx) AdjustWallet(ctx context.Context, account model.Account, delta int64) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE wallet_accounts
		   SET balance = balance + ?, updated_at = NOW()
		 WHERE account = ?
	`, delta, account)
	return err
}

func (t *mysqlTx) LedgerEntryExists(ctx context.Context, idempotencyKey string) (bool, error) {
	var one int
	err := t.tx.QueryRowxContext(ctx,
		`SELECT 1 FROM wallet_ledger WHERE idempotency_key = ? LIMIT 1`, idempotencyKey,
	).Scan(&one)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (t *mysqlTx) InsertLedgerEntries(ctx context.Context, entries []model.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	var sb strings.Builder
	args := make([]any, 0, len(entries)*5)

	sb.WriteString(`INSERT INTO wallet_ledger (account, op, amount, idempotency_key, batch_id) VALUES `)
	for i, e := range entries {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?, ?)")
		args = append(args, e.Account, e.Op, e.Amount, e.IdempotencyKey, e.BatchID)
	}
	sb.WriteString(` ON DUPLICATE KEY UPDATE id = id`)

	_, err := t.tx.ExecContext(ctx, sb.String(), args...)
	return err
}
