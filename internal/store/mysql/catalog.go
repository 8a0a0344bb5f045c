package mysql

import (
	"context"
	"database/sql"

	"github.com/adarshkumar790/multisender/internal/model"
	"github.com/adarshkumar790/multisender/internal/store"
)

func (t *mysqlTx) Package(ctx context.Context, id uint32) (model.VipPackage, error) {
	var p model.VipPackage
	err := t.tx.GetContext(ctx, &p, `
		SELECT id, price, validity_secs, updated_at
		  FROM vip_packages
		 WHERE id = ? LIMIT 1
	`, id)
	if err == sql.ErrNoRows {
		return model.VipPackage{}, store.ErrNotFound
	}
	return p, err
}

// PutPackage overwrites both fields atomically; ids are never deleted.
func (t *mysqlTx) PutPackage(ctx context.Context, p model.VipPackage) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO vip_packages (id, price, validity_secs, updated_at)
		VALUES (?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE
		    price         = VALUES(price),
		    validity_secs = VALUES(validity_secs),
		    updated_at    = VALUES(updated_at)
	`, p.ID, p.Price, p.ValiditySecs)
	return err
}
