package model

import "time"

// Settings is the singleton engine configuration row: the owner capability,
// the fee-receiving account, and the fee parameters.
type Settings struct {
	Owner           Account   `db:"owner"`
	FeeReceiver     Account   `db:"fee_receiver"`
	PerRecipientFee int64     `db:"per_recipient_fee"`
	MinimumFee      int64     `db:"minimum_fee"`
	UpdatedAt       time.Time `db:"updated_at"`
}
