// Package store defines the persistence boundary of the gateway. The engine
// only sees the Store/Tx interfaces; drivers live in store/mysql (production)
// and store/memory (tests, dev).
package store

import (
	"context"
	"errors"

	"github.com/adarshkumar790/multisender/internal/model"
)

// ErrNotFound is returned by lookups for rows that were never written.
var ErrNotFound = errors.New("store: not found")

// Store opens transactions. Every engine operation runs inside exactly one
// transaction so a failed operation leaves persistent state untouched.
type Store interface {
	// RunInTx executes fn inside a transaction, committing when fn returns
	// nil and rolling back otherwise.
	RunInTx(ctx context.Context, fn func(Tx) error) error
	Close() error
}

// Tx is the per-transaction view of the gateway's state.
type Tx interface {
	// Accounts
	AccountByAPIKey(ctx context.Context, apiKey string) (*model.RegisteredAccount, error)

	// Engine settings (singleton row)
	Settings(ctx context.Context) (model.Settings, error)
	PutSettings(ctx context.Context, s model.Settings) error

	// Package catalog
	Package(ctx context.Context, id uint32) (model.VipPackage, error)
	PutPackage(ctx context.Context, p model.VipPackage) error

	// Membership registry. Membership returns a zero-value row (ExpiresAt 0)
	// for accounts never granted.
	Membership(ctx context.Context, account model.Account) (model.Membership, error)
	SetMembership(ctx context.Context, account model.Account, expiresAt int64) error

	// Native-currency wallets. EnsureWallet upserts a zero-balance row;
	// WalletForUpdate locks the row for the rest of the transaction.
	EnsureWallet(ctx context.Context, account model.Account) error
	WalletForUpdate(ctx context.Context, account model.Account) (int64, error)
	AdjustWallet(ctx context.Context, account model.Account, delta int64) error
	InsertLedgerEntries(ctx context.Context, entries []model.LedgerEntry) error
	LedgerEntryExists(ctx context.Context, idempotencyKey string) (bool, error)

	// Batch audit rows
	InsertBatch(ctx context.Context, b model.Batch) error
	InsertBatchTransfers(ctx context.Context, transfers []model.BatchTransfer) error

	// Outbox (Debezium publishes rows to Kafka)
	InsertOutbox(ctx context.Context, aggregate, aggregateID, topic string, payload []byte) error
}
