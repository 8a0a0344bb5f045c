package model

import (
	"regexp"
	"strings"
	"time"
)

// Account is a normalized, 0x-prefixed hex address of a participant on the
// external ledger. The zero value (or the all-zero address) means "no account".
type Account string

// Asset identifies the token contract a batch operates on. Same wire format
// as Account.
type Asset string

const zeroHex = "0x0000000000000000000000000000000000000000"

var addressRe = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

// ParseAccount normalizes raw input into a lowercase 0x-hex address.
// Returns (account, true) if valid; otherwise ("", false).
func ParseAccount(raw string) (Account, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	if !addressRe.MatchString(s) {
		return "", false
	}
	return Account(s), true
}

// ParseAsset normalizes a token contract address.
func ParseAsset(raw string) (Asset, bool) {
	a, ok := ParseAccount(raw)
	return Asset(a), ok
}

func (a Account) String() string { return string(a) }

func (a Account) IsZero() bool { return a == "" || string(a) == zeroHex }

func (a Asset) String() string { return string(a) }

func (a Asset) IsZero() bool { return a == "" || string(a) == zeroHex }

// RegisteredAccount is an API caller mapped to a ledger address.
type RegisteredAccount struct {
	ID           int64     `db:"id"`
	Address      Account   `db:"address"`
	Name         string    `db:"name"`
	APIKey       string    `db:"api_key"`
	Status       string    `db:"status"`         // active|suspended
	RateLimitRPS *int      `db:"rate_limit_rps"` // nullable
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
