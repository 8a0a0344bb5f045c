package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/adarshkumar790/multisender/internal/model"
	"github.com/adarshkumar790/multisender/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const acct = model.Account("0x00000000000000000000000000000000000000b1")

func TestRunInTxCommit(t *testing.T) {
	st := New()
	ctx := context.Background()

	err := st.RunInTx(ctx, func(tx store.Tx) error {
		if err := tx.EnsureWallet(ctx, acct); err != nil {
			return err
		}
		return tx.AdjustWallet(ctx, acct, 100)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), st.Wallets()[acct])
}

func TestRunInTxRollback(t *testing.T) {
	st := New()
	ctx := context.Background()

	boom := errors.New("boom")
	err := st.RunInTx(ctx, func(tx store.Tx) error {
		if err := tx.EnsureWallet(ctx, acct); err != nil {
			return err
		}
		if err := tx.AdjustWallet(ctx, acct, 100); err != nil {
			return err
		}
		if err := tx.InsertBatch(ctx, model.Batch{ID: "b1", Status: model.BatchAccepted}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// every write inside the failed fn is discarded
	assert.Empty(t, st.Wallets())
	assert.Empty(t, st.Batches())
}

func TestSettingsNotFound(t *testing.T) {
	st := New()
	err := st.RunInTx(context.Background(), func(tx store.Tx) error {
		_, err := tx.Settings(context.Background())
		return err
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMembershipZeroValueWhenAbsent(t *testing.T) {
	st := New()
	var m model.Membership
	err := st.RunInTx(context.Background(), func(tx store.Tx) error {
		var err error
		m, err = tx.Membership(context.Background(), acct)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, acct, m.Account)
	assert.Zero(t, m.ExpiresAt)
}

func TestLedgerEntryIdempotency(t *testing.T) {
	st := New()
	ctx := context.Background()

	insert := func() error {
		return st.RunInTx(ctx, func(tx store.Tx) error {
			if err := tx.EnsureWallet(ctx, acct); err != nil {
				return err
			}
			return tx.InsertLedgerEntries(ctx, []model.LedgerEntry{
				{Account: acct, Op: model.LedgerOpTopup, Amount: 50, IdempotencyKey: "k1"},
			})
		})
	}
	require.NoError(t, insert())
	require.NoError(t, insert()) // duplicate key, silently skipped

	var exists bool
	err := st.RunInTx(ctx, func(tx store.Tx) error {
		var err error
		exists, err = tx.LedgerEntryExists(ctx, "k1")
		return err
	})
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestWalletForUpdateMissing(t *testing.T) {
	st := New()
	err := st.RunInTx(context.Background(), func(tx store.Tx) error {
		_, err := tx.WalletForUpdate(context.Background(), acct)
		return err
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccountByAPIKey(t *testing.T) {
	st := New()
	st.SeedAccount(model.RegisteredAccount{Address: acct, APIKey: "key-1", Status: "active"})

	var got *model.RegisteredAccount
	err := st.RunInTx(context.Background(), func(tx store.Tx) error {
		var err error
		got, err = tx.AccountByAPIKey(context.Background(), "key-1")
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, acct, got.Address)

	err = st.RunInTx(context.Background(), func(tx store.Tx) error {
		var err error
		got, err = tx.AccountByAPIKey(context.Background(), "nope")
		return err
	})
	require.NoError(t, err)
	assert.Nil(t, got)
}
