package mysql

import (
	"context"
	"strings"

	"github.com/adarshkumar790/multisender/internal/model"
)

func (t *mysqlTx) InsertBatch(ctx context.Context, b model.Batch) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO batches
		    (id, caller, asset, recipient_count, total_amount, fee, attached_value, status, created_at)
		VALUES
		    (?,  ?,      ?,     ?,               ?,            ?,   ?,              ?,      NOW())
	`, b.ID, b.Caller, b.Asset, b.RecipientCount, b.TotalAmount, b.Fee, b.AttachedValue, b.Status.String())
	return err
}

// InsertBatchTransfers writes all legs of a batch in one statement, keeping
// the array order in idx.
func (t *mysqlTx) InsertBatchTransfers(ctx context.Context, transfers []model.BatchTransfer) error {
	if len(transfers) == 0 {
		return nil
	}

	var sb strings.Builder
	args := make([]any, 0, len(transfers)*4)

	sb.WriteString(`INSERT INTO batch_transfers (batch_id, idx, recipient, amount) VALUES `)
	for i, tr := range transfers {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?)")
		args = append(args, tr.BatchID, tr.Idx, tr.Recipient, tr.Amount)
	}

	_, err := t.tx.ExecContext(ctx, sb.String(), args...)
	return err
}
