package model

import "time"

// Membership maps an account to a VIP expiry instant. An expiry of 0 or any
// instant at or before "now" means not VIP; the row simply lapses, it is
// never deleted.
type Membership struct {
	Account   Account   `db:"account"`
	ExpiresAt int64     `db:"expires_at"` // unix seconds, 0 = never granted / revoked
	UpdatedAt time.Time `db:"updated_at"`
}

// ActiveAt reports whether the membership waives fees at the given instant.
// Strict comparison: an account whose expiry equals "now" is already inactive.
func (m Membership) ActiveAt(now time.Time) bool {
	return m.ExpiresAt > now.Unix()
}
