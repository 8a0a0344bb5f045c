package mysql

import (
	"context"
	"database/sql"

	"github.com/adarshkumar790/multisender/internal/model"
)

// Membership returns a zero-value row for accounts never granted; "never
// granted" and "revoked" are indistinguishable by design (both expiry 0).
func (t *mysqlTx) Membership(ctx context.Context, account model.Account) (model.Membership, error) {
	var m model.Membership
	err := t.tx.GetContext(ctx, &m, `
		SELECT account, expires_at, updated_at
		  FROM vip_memberships
		 WHERE account = ? LIMIT 1
	`, account)
	if err == sql.ErrNoRows {
		return model.Membership{Account: account}, nil
	}
	return m, err
}

func (t *mysqlTx) SetMembership(ctx context.Context, account model.Account, expiresAt int64) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO vip_memberships (account, expires_at, updated_at)
		VALUES (?, ?, NOW())
		ON DUPLICATE KEY UPDATE
		    expires_at = VALUES(expires_at),
		    updated_at = VALUES(updated_at)
	`, account, expiresAt)
	return err
}
