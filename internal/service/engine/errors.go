package engine

import "errors"

// Sentinel errors surfaced by engine operations. The HTTP layer maps these to
// status codes with errors.Is; none are retried or swallowed internally.
var (
	// ErrUnauthorized: caller lacks the owner capability.
	ErrUnauthorized = errors.New("engine: unauthorized")

	// ErrInsufficientPayment: attached/paid amount below the required price
	// or fee.
	ErrInsufficientPayment = errors.New("engine: insufficient payment")

	// ErrInsufficientFunds: caller's native wallet balance cannot cover the
	// amount being attached.
	ErrInsufficientFunds = errors.New("engine: insufficient wallet funds")

	// ErrInvalidAsset / ErrInvalidRecipient: zero identifier where a concrete
	// account is required.
	ErrInvalidAsset     = errors.New("engine: invalid asset")
	ErrInvalidRecipient = errors.New("engine: invalid recipient")

	// ErrBatchSizeViolation: batch length is 0 or >= 200.
	ErrBatchSizeViolation = errors.New("engine: batch size out of range")

	// ErrLengthMismatch: recipients/amounts lengths differ.
	ErrLengthMismatch = errors.New("engine: recipients/amounts length mismatch")

	// ErrEmptyBatch: fee computed for zero recipients.
	ErrEmptyBatch = errors.New("engine: empty batch")

	// ErrLedgerTransferFailed: the external ledger rejected a transfer; the
	// whole batch was rolled back.
	ErrLedgerTransferFailed = errors.New("engine: ledger transfer failed")

	// ErrPackageNotFound: the package id was never configured. Undefined
	// packages cannot be purchased.
	ErrPackageNotFound = errors.New("engine: package not found")

	// ErrInvalidAmount: negative monetary or duration input.
	ErrInvalidAmount = errors.New("engine: invalid amount")

	// ErrNotConfigured: the engine settings row is missing (migrate/seed not
	// run).
	ErrNotConfigured = errors.New("engine: settings not configured")
)
