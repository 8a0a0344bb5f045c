// Package memory is an in-memory store.Store used by tests and local dev.
// RunInTx operates on a deep copy of the state and swaps it in on commit, so
// rollback semantics match the MySQL driver.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/adarshkumar790/multisender/internal/model"
	"github.com/adarshkumar790/multisender/internal/store"
)

type state struct {
	accounts    map[string]model.RegisteredAccount // keyed by api key
	settings    *model.Settings
	packages    map[uint32]model.VipPackage
	memberships map[model.Account]model.Membership
	wallets     map[model.Account]int64
	ledger      []model.LedgerEntry
	ledgerIdem  map[string]struct{}
	batches     []model.Batch
	transfers   []model.BatchTransfer
	outbox      []model.OutboxEvent
}

func newState() *state {
	return &state{
		accounts:    map[string]model.RegisteredAccount{},
		packages:    map[uint32]model.VipPackage{},
		memberships: map[model.Account]model.Membership{},
		wallets:     map[model.Account]int64{},
		ledgerIdem:  map[string]struct{}{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	if s.settings != nil {
		cp := *s.settings
		c.settings = &cp
	}
	for k, v := range s.packages {
		c.packages[k] = v
	}
	for k, v := range s.memberships {
		c.memberships[k] = v
	}
	for k, v := range s.wallets {
		c.wallets[k] = v
	}
	c.ledger = append(c.ledger, s.ledger...)
	for k := range s.ledgerIdem {
		c.ledgerIdem[k] = struct{}{}
	}
	c.batches = append(c.batches, s.batches...)
	c.transfers = append(c.transfers, s.transfers...)
	c.outbox = append(c.outbox, s.outbox...)
	return c
}

type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store { return &Store{st: newState()} }

var _ store.Store = (*Store)(nil)

func (s *Store) RunInTx(_ context.Context, fn func(store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&memTx{st: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) Close() error { return nil }

// SeedAccount registers an API caller (test/dev helper).
func (s *Store) SeedAccount(a model.RegisteredAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.accounts[a.APIKey] = a
}

// Wallets returns a copy of all balances (test helper).
func (s *Store) Wallets() map[model.Account]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[model.Account]int64, len(s.st.wallets))
	for k, v := range s.st.wallets {
		out[k] = v
	}
	return out
}

// Batches returns a copy of all persisted batch rows (test helper).
func (s *Store) Batches() []model.Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Batch(nil), s.st.batches...)
}

// Outbox returns a copy of all outbox rows (test helper).
func (s *Store) Outbox() []model.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.OutboxEvent(nil), s.st.outbox...)
}

type memTx struct {
	st *state
}

var _ store.Tx = (*memTx)(nil)

func (t *memTx) AccountByAPIKey(_ context.Context, apiKey string) (*model.RegisteredAccount, error) {
	a, ok := t.st.accounts[apiKey]
	if !ok {
		return nil, nil
	}
	cp := a
	return &cp, nil
}

func (t *memTx) Settings(_ context.Context) (model.Settings, error) {
	if t.st.settings == nil {
		return model.Settings{}, store.ErrNotFound
	}
	return *t.st.settings, nil
}

func (t *memTx) PutSettings(_ context.Context, s model.Settings) error {
	s.UpdatedAt = time.Now()
	t.st.settings = &s
	return nil
}

func (t *memTx) Package(_ context.Context, id uint32) (model.VipPackage, error) {
	p, ok := t.st.packages[id]
	if !ok {
		return model.VipPackage{}, store.ErrNotFound
	}
	return p, nil
}

func (t *memTx) PutPackage(_ context.Context, p model.VipPackage) error {
	p.UpdatedAt = time.Now()
	t.st.packages[p.ID] = p
	return nil
}

func (t *memTx) Membership(_ context.Context, account model.Account) (model.Membership, error) {
	m, ok := t.st.memberships[account]
	if !ok {
		return model.Membership{Account: account}, nil
	}
	return m, nil
}

func (t *memTx) SetMembership(_ context.Context, account model.Account, expiresAt int64) error {
	t.st.memberships[account] = model.Membership{
		Account:   account,
		ExpiresAt: expiresAt,
		UpdatedAt: time.Now(),
	}
	return nil
}

func (t *memTx) EnsureWallet(_ context.Context, account model.Account) error {
	if _, ok := t.st.wallets[account]; !ok {
		t.st.wallets[account] = 0
	}
	return nil
}

func (t *memTx) WalletForUpdate(_ context.Context, account model.Account) (int64, error) {
	bal, ok := t.st.wallets[account]
	if !ok {
		return 0, store.ErrNotFound
	}
	return bal, nil
}

func (t *memTx) AdjustWallet(_ context.Context, account model.Account, delta int64) error {
	t.st.wallets[account] += delta
	return nil
}

func (t *memTx) LedgerEntryExists(_ context.Context, idempotencyKey string) (bool, error) {
	_, ok := t.st.ledgerIdem[idempotencyKey]
	return ok, nil
}

func (t *memTx) InsertLedgerEntries(_ context.Context, entries []model.LedgerEntry) error {
	for _, e := range entries {
		if _, dup := t.st.ledgerIdem[e.IdempotencyKey]; dup {
			continue
		}
		e.ID = int64(len(t.st.ledger) + 1)
		e.CreatedAt = time.Now()
		t.st.ledger = append(t.st.ledger, e)
		t.st.ledgerIdem[e.IdempotencyKey] = struct{}{}
	}
	return nil
}

func (t *memTx) InsertBatch(_ context.Context, b model.Batch) error {
	b.CreatedAt = time.Now()
	t.st.batches = append(t.st.batches, b)
	return nil
}

func (t *memTx) InsertBatchTransfers(_ context.Context, transfers []model.BatchTransfer) error {
	t.st.transfers = append(t.st.transfers, transfers...)
	return nil
}

func (t *memTx) InsertOutbox(_ context.Context, aggregate, aggregateID, topic string, payload []byte) error {
	t.st.outbox = append(t.st.outbox, model.OutboxEvent{
		ID:          int64(len(t.st.outbox) + 1),
		Aggregate:   aggregate,
		AggregateID: aggregateID,
		Topic:       topic,
		Payload:     append([]byte(nil), payload...),
		CreatedAt:   time.Now(),
	})
	return nil
}
