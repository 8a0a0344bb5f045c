package model

import "time"

// WalletAccount holds an account's native-currency balance inside the
// gateway. Fees and VIP purchases are paid out of this balance.
type WalletAccount struct {
	Account   Account   `db:"account"`
	Balance   int64     `db:"balance"`
	UpdatedAt time.Time `db:"updated_at"`
	CreatedAt time.Time `db:"created_at"`
}

// SystemAccount is the wallet row holding the gateway's own native float,
// the source of RecoverNative payouts.
const SystemAccount Account = "0x0000000000000000000000000000000000000001"

type LedgerOp string

const (
	LedgerOpTopup      LedgerOp = "topup"
	LedgerOpSweepOut   LedgerOp = "sweep_out"   // attached value / purchase payment leaving the payer
	LedgerOpSweepIn    LedgerOp = "sweep_in"    // same amount arriving at the fee receiver
	LedgerOpRecoverOut LedgerOp = "recover_out" // native recovery leaving the system float
	LedgerOpRecoverIn  LedgerOp = "recover_in"
)

// LedgerEntry is one double-entry row in wallet_ledger. Idempotency keys keep
// replays from double-applying.
type LedgerEntry struct {
	ID             int64     `db:"id"`
	Account        Account   `db:"account"`
	Op             LedgerOp  `db:"op"`
	Amount         int64     `db:"amount"`
	IdempotencyKey string    `db:"idempotency_key"`
	BatchID        string    `db:"batch_id"` // empty for topup/recover
	CreatedAt      time.Time `db:"created_at"`
}
