package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseAccount(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  Account
		valid bool
	}{
		{"canonical", "0x00000000000000000000000000000000000000b1", "0x00000000000000000000000000000000000000b1", true},
		{"uppercase normalized", "0x00000000000000000000000000000000000000B1", "0x00000000000000000000000000000000000000b1", true},
		{"missing prefix added", "00000000000000000000000000000000000000b1", "0x00000000000000000000000000000000000000b1", true},
		{"surrounding whitespace", "  0x00000000000000000000000000000000000000b1 ", "0x00000000000000000000000000000000000000b1", true},
		{"empty", "", "", false},
		{"too short", "0xb1", "", false},
		{"too long", "0x00000000000000000000000000000000000000b1ff", "", false},
		{"non-hex", "0x00000000000000000000000000000000000000zz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAccount(tt.raw)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccountIsZero(t *testing.T) {
	assert.True(t, Account("").IsZero())
	assert.True(t, Account("0x0000000000000000000000000000000000000000").IsZero())
	assert.False(t, Account("0x00000000000000000000000000000000000000b1").IsZero())

	// the zero address parses but is still "no account"
	a, ok := ParseAccount("0x0000000000000000000000000000000000000000")
	assert.True(t, ok)
	assert.True(t, a.IsZero())
}

func TestMembershipActiveAt(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	assert.False(t, Membership{}.ActiveAt(now))
	assert.False(t, Membership{ExpiresAt: now.Unix() - 1}.ActiveAt(now))
	assert.False(t, Membership{ExpiresAt: now.Unix()}.ActiveAt(now)) // strict
	assert.True(t, Membership{ExpiresAt: now.Unix() + 1}.ActiveAt(now))
}

func TestPackageValidity(t *testing.T) {
	p := VipPackage{ValiditySecs: 3600}
	assert.Equal(t, time.Hour, p.Validity())
}
