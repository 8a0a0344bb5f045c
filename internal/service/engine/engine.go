// Package engine is the authorization + fee + batch-transfer state machine:
// VIP package catalog, membership lifecycle, fee policy, the all-or-nothing
// multi-recipient send, and the owner-gated administration surface.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/adarshkumar790/multisender/internal/clock"
	"github.com/adarshkumar790/multisender/internal/ledger"
	"github.com/adarshkumar790/multisender/internal/model"
	"github.com/adarshkumar790/multisender/internal/store"
	"github.com/adarshkumar790/multisender/internal/util"
	"go.uber.org/zap"
)

// Engine owns all persistent engine state. Public operations are serialized
// by mu and each runs in a single store transaction, so a failed operation
// leaves catalog, memberships, fee parameters and balances exactly as they
// were.
type Engine struct {
	mu     sync.Mutex
	store  store.Store
	ledger ledger.Client
	clock  clock.Clock
	log    *zap.Logger
}

func New(st store.Store, lc ledger.Client, ck clock.Clock, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: st, ledger: lc, clock: ck, log: log}
}

func (e *Engine) settings(ctx context.Context, tx store.Tx) (model.Settings, error) {
	s, err := tx.Settings(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return model.Settings{}, ErrNotConfigured
	}
	return s, err
}

// requireOwner loads settings and checks the caller holds the owner
// capability.
func (e *Engine) requireOwner(ctx context.Context, tx store.Tx, caller model.Account) (model.Settings, error) {
	s, err := e.settings(ctx, tx)
	if err != nil {
		return model.Settings{}, err
	}
	if caller != s.Owner {
		return model.Settings{}, ErrUnauthorized
	}
	return s, nil
}

// emit writes one event envelope into the outbox within the operation's
// transaction. Debezium publishes the row to Kafka.
func (e *Engine) emit(ctx context.Context, tx store.Tx, aggregate, aggregateID string, env model.Envelope) error {
	env.ID = util.New()
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	return tx.InsertOutbox(ctx, aggregate, aggregateID, model.EventsKafkaTopic, payload)
}

// sweep moves amount from payer's wallet to the fee receiver inside tx. The
// whole amount moves, including any excess above the required fee or price —
// overpayment is intentionally not refunded.
func (e *Engine) sweep(ctx context.Context, tx store.Tx, payer, receiver model.Account, amount int64, idemKey, batchID string) error {
	if amount == 0 {
		return nil
	}

	if err := tx.EnsureWallet(ctx, payer); err != nil {
		return fmt.Errorf("wallet upsert: %w", err)
	}
	bal, err := tx.WalletForUpdate(ctx, payer)
	if err != nil {
		return fmt.Errorf("wallet get for update: %w", err)
	}
	if bal < amount {
		return ErrInsufficientFunds
	}
	if err := tx.AdjustWallet(ctx, payer, -amount); err != nil {
		return fmt.Errorf("wallet debit: %w", err)
	}
	if err := tx.EnsureWallet(ctx, receiver); err != nil {
		return fmt.Errorf("receiver wallet upsert: %w", err)
	}
	if err := tx.AdjustWallet(ctx, receiver, +amount); err != nil {
		return fmt.Errorf("wallet credit: %w", err)
	}

	return tx.InsertLedgerEntries(ctx, []model.LedgerEntry{
		{Account: payer, Op: model.LedgerOpSweepOut, Amount: amount, IdempotencyKey: idemKey + "-out", BatchID: batchID},
		{Account: receiver, Op: model.LedgerOpSweepIn, Amount: amount, IdempotencyKey: idemKey + "-in", BatchID: batchID},
	})
}

// ──────────────────────────────────────────────────
// Package Catalog
// ──────────────────────────────────────────────────

// SetPackage creates or wholly overwrites a catalog entry. Owner-only.
func (e *Engine) SetPackage(ctx context.Context, caller model.Account, id uint32, price, validitySecs int64) error {
	if price < 0 || validitySecs < 0 {
		return ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.RunInTx(ctx, func(tx store.Tx) error {
		if _, err := e.requireOwner(ctx, tx, caller); err != nil {
			return err
		}
		if err := tx.PutPackage(ctx, model.VipPackage{ID: id, Price: price, ValiditySecs: validitySecs}); err != nil {
			return err
		}
		return e.emit(ctx, tx, "catalog", fmt.Sprintf("%d", id), model.Envelope{
			Kind:         model.EventCatalogUpdated,
			PackageID:    id,
			Price:        price,
			ValiditySecs: validitySecs,
		})
	})
}

// GetPackage reads a catalog entry. Unset ids report ErrPackageNotFound
// rather than a free, instant-expiring package.
func (e *Engine) GetPackage(ctx context.Context, id uint32) (model.VipPackage, error) {
	var pkg model.VipPackage
	err := e.store.RunInTx(ctx, func(tx store.Tx) error {
		p, err := tx.Package(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return ErrPackageNotFound
		}
		if err != nil {
			return err
		}
		pkg = p
		return nil
	})
	return pkg, err
}

// ──────────────────────────────────────────────────
// Membership Registry
// ──────────────────────────────────────────────────

// Purchase charges paidAmount for the package and extends the caller's VIP
// expiry to now + validity. The expiry is overwritten, never stacked, and the
// entire paid amount is swept to the fee receiver.
func (e *Engine) Purchase(ctx context.Context, caller model.Account, packageID uint32, paidAmount int64) (int64, error) {
	if paidAmount < 0 {
		return 0, ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var expiresAt int64
	err := e.store.RunInTx(ctx, func(tx store.Tx) error {
		pkg, err := tx.Package(ctx, packageID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrPackageNotFound
		}
		if err != nil {
			return err
		}
		if paidAmount < pkg.Price {
			return ErrInsufficientPayment
		}

		s, err := e.settings(ctx, tx)
		if err != nil {
			return err
		}

		eventID := util.New()
		if err := e.sweep(ctx, tx, caller, s.FeeReceiver, paidAmount, "vip-"+eventID, ""); err != nil {
			return err
		}

		expiresAt = e.clock.Now().Add(pkg.Validity()).Unix()
		if err := tx.SetMembership(ctx, caller, expiresAt); err != nil {
			return err
		}

		return e.emit(ctx, tx, "membership", caller.String(), model.Envelope{
			Kind:      model.EventMembershipGranted,
			Account:   caller,
			Price:     pkg.Price,
			ExpiresAt: expiresAt,
			PackageID: packageID,
		})
	})
	return expiresAt, err
}

// IsActive reports whether the account's membership waives fees right now.
func (e *Engine) IsActive(ctx context.Context, account model.Account) (bool, error) {
	m, err := e.MembershipOf(ctx, account)
	if err != nil {
		return false, err
	}
	return m.ActiveAt(e.clock.Now()), nil
}

// MembershipOf returns the raw membership row (zero-value when never
// granted).
func (e *Engine) MembershipOf(ctx context.Context, account model.Account) (model.Membership, error) {
	var m model.Membership
	err := e.store.RunInTx(ctx, func(tx store.Tx) error {
		var err error
		m, err = tx.Membership(ctx, account)
		return err
	})
	return m, err
}

// Grant sets an account's expiry directly, bypassing payment. Owner-only.
func (e *Engine) Grant(ctx context.Context, caller, account model.Account, expiresAt int64) error {
	if account.IsZero() {
		return ErrInvalidRecipient
	}
	if expiresAt < 0 {
		return ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.RunInTx(ctx, func(tx store.Tx) error {
		if _, err := e.requireOwner(ctx, tx, caller); err != nil {
			return err
		}
		if err := tx.SetMembership(ctx, account, expiresAt); err != nil {
			return err
		}
		return e.emit(ctx, tx, "membership", account.String(), model.Envelope{
			Kind:      model.EventMembershipGranted,
			Account:   account,
			Price:     0,
			ExpiresAt: expiresAt,
		})
	})
}

// Revoke zeroes an account's expiry. Owner-only.
func (e *Engine) Revoke(ctx context.Context, caller, account model.Account) error {
	if account.IsZero() {
		return ErrInvalidRecipient
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.RunInTx(ctx, func(tx store.Tx) error {
		if _, err := e.requireOwner(ctx, tx, caller); err != nil {
			return err
		}
		if err := tx.SetMembership(ctx, account, 0); err != nil {
			return err
		}
		return e.emit(ctx, tx, "membership", account.String(), model.Envelope{
			Kind:    model.EventMembershipRevoked,
			Account: account,
		})
	})
}

// ──────────────────────────────────────────────────
// Fee Policy
// ──────────────────────────────────────────────────

// EffectiveFee quotes the fee the account would owe for a batch of the given
// size: zero for active VIPs, ComputeFee otherwise.
func (e *Engine) EffectiveFee(ctx context.Context, account model.Account, recipientCount int) (int64, error) {
	var fee int64
	err := e.store.RunInTx(ctx, func(tx store.Tx) error {
		s, err := e.settings(ctx, tx)
		if err != nil {
			return err
		}
		m, err := tx.Membership(ctx, account)
		if err != nil {
			return err
		}
		fee, err = e.effectiveFee(s, m, recipientCount)
		return err
	})
	return fee, err
}

func (e *Engine) effectiveFee(s model.Settings, m model.Membership, recipientCount int) (int64, error) {
	if m.ActiveAt(e.clock.Now()) {
		// the empty-batch guard still applies to VIP quotes
		if recipientCount == 0 {
			return 0, ErrEmptyBatch
		}
		return 0, nil
	}
	return ComputeFee(s.PerRecipientFee, s.MinimumFee, recipientCount)
}

// SetPerRecipientFee updates the per-recipient fee parameter. Owner-only.
func (e *Engine) SetPerRecipientFee(ctx context.Context, caller model.Account, amount int64) error {
	return e.updateFees(ctx, caller, func(s *model.Settings) { s.PerRecipientFee = amount }, amount)
}

// SetMinimumFee updates the fee floor. Owner-only.
func (e *Engine) SetMinimumFee(ctx context.Context, caller model.Account, amount int64) error {
	return e.updateFees(ctx, caller, func(s *model.Settings) { s.MinimumFee = amount }, amount)
}

func (e *Engine) updateFees(ctx context.Context, caller model.Account, apply func(*model.Settings), amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.RunInTx(ctx, func(tx store.Tx) error {
		s, err := e.requireOwner(ctx, tx, caller)
		if err != nil {
			return err
		}
		apply(&s)
		if err := tx.PutSettings(ctx, s); err != nil {
			return err
		}
		return e.emit(ctx, tx, "fees", "singleton", model.Envelope{
			Kind:            model.EventFeesUpdated,
			PerRecipientFee: s.PerRecipientFee,
			MinimumFee:      s.MinimumFee,
		})
	})
}

// ──────────────────────────────────────────────────
// Batch Transfer Engine
// ──────────────────────────────────────────────────

// SendBatch validates the request, sweeps the attached value, and drives the
// external ledger through all transfers in array order. All-or-nothing: the
// first rejected transfer reverses every applied leg, rolls the transaction
// back, and surfaces ErrLedgerTransferFailed. Returns the accepted batch id.
func (e *Engine) SendBatch(ctx context.Context, caller model.Account, req model.BatchRequest) (string, error) {
	if req.Asset.IsZero() {
		return "", ErrInvalidAsset
	}
	n := len(req.Recipients)
	if n == 0 || n >= model.MaxRecipients {
		return "", ErrBatchSizeViolation
	}
	if n != len(req.Amounts) {
		return "", ErrLengthMismatch
	}
	if req.AttachedValue < 0 {
		return "", ErrInvalidAmount
	}
	var total int64
	for _, amt := range req.Amounts {
		if amt < 0 {
			return "", ErrInvalidAmount
		}
		total += amt
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	batchID := util.New()
	err := e.store.RunInTx(ctx, func(tx store.Tx) error {
		s, err := e.settings(ctx, tx)
		if err != nil {
			return err
		}
		m, err := tx.Membership(ctx, caller)
		if err != nil {
			return err
		}
		fee, err := e.effectiveFee(s, m, n)
		if err != nil {
			return err
		}
		if req.AttachedValue < fee {
			return ErrInsufficientPayment
		}

		// the whole attached value moves, fee overpayment included
		if err := e.sweep(ctx, tx, caller, s.FeeReceiver, req.AttachedValue, "batch-"+batchID, batchID); err != nil {
			return err
		}

		if err := tx.InsertBatch(ctx, model.Batch{
			ID:             batchID,
			Caller:         caller,
			Asset:          req.Asset,
			RecipientCount: n,
			TotalAmount:    total,
			Fee:            fee,
			AttachedValue:  req.AttachedValue,
			Status:         model.BatchAccepted,
		}); err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}

		transfers := make([]model.BatchTransfer, n)
		for i := range req.Recipients {
			transfers[i] = model.BatchTransfer{
				BatchID:   batchID,
				Idx:       i,
				Recipient: req.Recipients[i],
				Amount:    req.Amounts[i],
			}
		}
		if err := tx.InsertBatchTransfers(ctx, transfers); err != nil {
			return fmt.Errorf("insert batch transfers: %w", err)
		}

		if err := e.emit(ctx, tx, "batch", batchID, model.Envelope{
			Kind:           model.EventBatchExecuted,
			Account:        caller,
			BatchID:        batchID,
			Asset:          req.Asset,
			RecipientCount: n,
			TotalAmount:    total,
			Fee:            fee,
		}); err != nil {
			return err
		}

		// External legs last: every database effect above still rolls back
		// with the transaction when a leg fails.
		for i := range req.Recipients {
			if err := e.ledger.TransferFrom(ctx, req.Asset, caller, req.Recipients[i], req.Amounts[i]); err != nil {
				e.compensate(ctx, caller, req, i)
				return fmt.Errorf("%w: leg %d/%d: %v", ErrLedgerTransferFailed, i+1, n, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return batchID, nil
}

// compensate reverses legs [0, failedIdx) in reverse order after a ledger
// rejection, restoring the pre-batch token balances.
func (e *Engine) compensate(ctx context.Context, caller model.Account, req model.BatchRequest, failedIdx int) {
	for j := failedIdx - 1; j >= 0; j-- {
		if err := e.ledger.TransferFrom(ctx, req.Asset, req.Recipients[j], caller, req.Amounts[j]); err != nil {
			e.log.Error("batch compensation failed; manual recovery required",
				zap.String("asset", req.Asset.String()),
				zap.String("caller", caller.String()),
				zap.String("recipient", req.Recipients[j].String()),
				zap.Int64("amount", req.Amounts[j]),
				zap.Int("idx", j),
				zap.Error(err),
			)
		}
	}
}

// ──────────────────────────────────────────────────
// Wallet
// ──────────────────────────────────────────────────

// Topup credits an account's native wallet. Idempotent on requestID; replays
// report idempotent=true without double-crediting.
func (e *Engine) Topup(ctx context.Context, account model.Account, amount int64, requestID string) (bool, error) {
	if amount <= 0 {
		return false, ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idem := "topup-" + requestID
	var idempotent bool
	err := e.store.RunInTx(ctx, func(tx store.Tx) error {
		if err := tx.EnsureWallet(ctx, account); err != nil {
			return err
		}
		exists, err := tx.LedgerEntryExists(ctx, idem)
		if err != nil {
			return err
		}
		if exists {
			idempotent = true
			return nil
		}
		if err := tx.InsertLedgerEntries(ctx, []model.LedgerEntry{
			{Account: account, Op: model.LedgerOpTopup, Amount: amount, IdempotencyKey: idem},
		}); err != nil {
			return err
		}
		return tx.AdjustWallet(ctx, account, amount)
	})
	return idempotent, err
}

// WalletBalance reads an account's native balance (0 when no wallet row).
func (e *Engine) WalletBalance(ctx context.Context, account model.Account) (int64, error) {
	var bal int64
	err := e.store.RunInTx(ctx, func(tx store.Tx) error {
		if err := tx.EnsureWallet(ctx, account); err != nil {
			return err
		}
		var err error
		bal, err = tx.WalletForUpdate(ctx, account)
		return err
	})
	return bal, err
}

// ──────────────────────────────────────────────────
// Administration Surface
// ──────────────────────────────────────────────────

// SetFeeReceiver points fee sweeps at a new account. Owner-only.
func (e *Engine) SetFeeReceiver(ctx context.Context, caller, receiver model.Account) error {
	if receiver.IsZero() {
		return ErrInvalidRecipient
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.RunInTx(ctx, func(tx store.Tx) error {
		s, err := e.requireOwner(ctx, tx, caller)
		if err != nil {
			return err
		}
		s.FeeReceiver = receiver
		if err := tx.PutSettings(ctx, s); err != nil {
			return err
		}
		return e.emit(ctx, tx, "settings", "fee_receiver", model.Envelope{
			Kind:    model.EventFeeReceiverUpdated,
			Account: receiver,
		})
	})
}

// TransferOwnership hands the owner capability to a new account. The zero
// account can never become owner.
func (e *Engine) TransferOwnership(ctx context.Context, caller, newOwner model.Account) error {
	if newOwner.IsZero() {
		return ErrInvalidRecipient
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.RunInTx(ctx, func(tx store.Tx) error {
		s, err := e.requireOwner(ctx, tx, caller)
		if err != nil {
			return err
		}
		s.Owner = newOwner
		if err := tx.PutSettings(ctx, s); err != nil {
			return err
		}
		return e.emit(ctx, tx, "settings", "owner", model.Envelope{
			Kind:    model.EventOwnershipTransferred,
			Account: newOwner,
		})
	})
}

// RecoverAsset moves stray tokens held by the gateway's own ledger account to
// a recipient. Owner-only; ledger failures propagate to the caller.
func (e *Engine) RecoverAsset(ctx context.Context, caller model.Account, asset model.Asset, recipient model.Account, amount int64) error {
	if asset.IsZero() {
		return ErrInvalidAsset
	}
	if recipient.IsZero() {
		return ErrInvalidRecipient
	}
	if amount < 0 {
		return ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.RunInTx(ctx, func(tx store.Tx) error {
		if _, err := e.requireOwner(ctx, tx, caller); err != nil {
			return err
		}
		if err := e.ledger.Transfer(ctx, asset, recipient, amount); err != nil {
			return fmt.Errorf("%w: %v", ErrLedgerTransferFailed, err)
		}
		return e.emit(ctx, tx, "recovery", recipient.String(), model.Envelope{
			Kind:      model.EventAssetRecovered,
			Asset:     asset,
			Recipient: recipient,
			Amount:    amount,
		})
	})
}

// RecoverNative pays out native currency from the gateway's system float.
// Owner-only.
func (e *Engine) RecoverNative(ctx context.Context, caller, recipient model.Account, amount int64) error {
	if recipient.IsZero() {
		return ErrInvalidRecipient
	}
	if amount < 0 {
		return ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.RunInTx(ctx, func(tx store.Tx) error {
		if _, err := e.requireOwner(ctx, tx, caller); err != nil {
			return err
		}
		if err := tx.EnsureWallet(ctx, model.SystemAccount); err != nil {
			return err
		}
		bal, err := tx.WalletForUpdate(ctx, model.SystemAccount)
		if err != nil {
			return err
		}
		if bal < amount {
			return ErrInsufficientFunds
		}
		if err := tx.AdjustWallet(ctx, model.SystemAccount, -amount); err != nil {
			return err
		}
		if err := tx.EnsureWallet(ctx, recipient); err != nil {
			return err
		}
		if err := tx.AdjustWallet(ctx, recipient, amount); err != nil {
			return err
		}
		eventID := util.New()
		if err := tx.InsertLedgerEntries(ctx, []model.LedgerEntry{
			{Account: model.SystemAccount, Op: model.LedgerOpRecoverOut, Amount: amount, IdempotencyKey: "recover-" + eventID + "-out"},
			{Account: recipient, Op: model.LedgerOpRecoverIn, Amount: amount, IdempotencyKey: "recover-" + eventID + "-in"},
		}); err != nil {
			return err
		}
		return e.emit(ctx, tx, "recovery", recipient.String(), model.Envelope{
			Kind:      model.EventNativeRecovered,
			Recipient: recipient,
			Amount:    amount,
		})
	})
}

// AccountByAPIKey resolves an API key to a registered account (nil when
// unknown). Used by the auth middleware.
func (e *Engine) AccountByAPIKey(ctx context.Context, apiKey string) (*model.RegisteredAccount, error) {
	var acc *model.RegisteredAccount
	err := e.store.RunInTx(ctx, func(tx store.Tx) error {
		var err error
		acc, err = tx.AccountByAPIKey(ctx, apiKey)
		return err
	})
	return acc, err
}
