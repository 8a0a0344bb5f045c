package model

import "time"

// MaxRecipients bounds batch size; a batch must hold 1..MaxRecipients-1
// recipients.
const MaxRecipients = 200

type BatchStatus string

const (
	BatchAccepted BatchStatus = "accepted"
	BatchRejected BatchStatus = "rejected"
)

func (s BatchStatus) String() string { return string(s) }

func (s BatchStatus) Valid() bool {
	return s == BatchAccepted || s == BatchRejected
}

// BatchRequest is the ephemeral input of one SendBatch invocation.
type BatchRequest struct {
	Asset         Asset     `json:"asset"`
	Recipients    []Account `json:"recipients"`
	Amounts       []int64   `json:"amounts"`
	AttachedValue int64     `json:"attached_value"`
}

// Batch is the DB row persisted per accepted batch.
type Batch struct {
	ID             string      `db:"id"` // ULID
	Caller         Account     `db:"caller"`
	Asset          Asset       `db:"asset"`
	RecipientCount int         `db:"recipient_count"`
	TotalAmount    int64       `db:"total_amount"`
	Fee            int64       `db:"fee"`
	AttachedValue  int64       `db:"attached_value"`
	Status         BatchStatus `db:"status"`
	CreatedAt      time.Time   `db:"created_at"`
}

// BatchTransfer is one (recipient, amount) leg of a batch, persisted in array
// order for audit.
type BatchTransfer struct {
	BatchID   string  `db:"batch_id"`
	Idx       int     `db:"idx"`
	Recipient Account `db:"recipient"`
	Amount    int64   `db:"amount"`
}
