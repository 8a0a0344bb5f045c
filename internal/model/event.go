package model

import "time"

// EventsKafkaTopic is where Debezium's outbox SMT publishes state-change
// envelopes.
const EventsKafkaTopic = "multisender.events"

// Event kinds carried in the envelope `kind` field.
const (
	EventMembershipGranted    = "membership.granted"
	EventMembershipRevoked    = "membership.revoked"
	EventCatalogUpdated       = "catalog.updated"
	EventFeesUpdated          = "fees.updated"
	EventFeeReceiverUpdated   = "fee_receiver.updated"
	EventOwnershipTransferred = "ownership.transferred"
	EventBatchExecuted        = "batch.executed"
	EventAssetRecovered       = "asset.recovered"
	EventNativeRecovered      = "native.recovered"
)

// Envelope is the payload written to the outbox table (and published to
// Kafka). It carries the literal values changed so external observers can
// replay state history.
type Envelope struct {
	ID      string  `json:"id"`   // event ULID
	Kind    string  `json:"kind"` // Event* constant
	Account Account `json:"account,omitempty"`

	// membership.granted / membership.revoked
	Price     int64 `json:"price,omitempty"`
	ExpiresAt int64 `json:"expires_at,omitempty"`

	// catalog.updated
	PackageID    uint32 `json:"package_id,omitempty"`
	ValiditySecs int64  `json:"validity_secs,omitempty"`

	// fees.updated
	PerRecipientFee int64 `json:"per_recipient_fee,omitempty"`
	MinimumFee      int64 `json:"minimum_fee,omitempty"`

	// batch.executed / asset.recovered / native.recovered
	BatchID        string  `json:"batch_id,omitempty"`
	Asset          Asset   `json:"asset,omitempty"`
	RecipientCount int     `json:"recipient_count,omitempty"`
	TotalAmount    int64   `json:"total_amount,omitempty"`
	Fee            int64   `json:"fee,omitempty"`
	Amount         int64   `json:"amount,omitempty"`
	Recipient      Account `json:"recipient,omitempty"`
}

// OutboxEvent is the row Debezium tails.
type OutboxEvent struct {
	ID          int64     `db:"id"`
	Aggregate   string    `db:"aggregate"`    // e.g. "batch", "membership"
	AggregateID string    `db:"aggregate_id"` // batch ULID, account address, ...
	Topic       string    `db:"topic"`
	Payload     []byte    `db:"payload"`
	Attempts    int       `db:"attempts"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// AuditEvent is the ClickHouse row the audit worker materializes per
// envelope, queried by the reports endpoint.
type AuditEvent struct {
	ID        string    `db:"id"`
	Kind      string    `db:"kind"`
	Account   Account   `db:"account"`
	Payload   string    `db:"payload"` // raw envelope JSON
	CreatedAt time.Time `db:"created_at"`
}
