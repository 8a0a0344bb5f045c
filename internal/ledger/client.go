// Package ledger talks to the external token ledger. The engine treats a
// rejection and a transport failure identically: the enclosing operation
// aborts. There is no retry — the batch semantics leave no room for one.
package ledger

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/adarshkumar790/multisender/internal/model"
)

var (
	ErrNoHealthyNodes = fmt.Errorf("ledger: no healthy nodes")
	ErrNotAcquired    = fmt.Errorf("ledger: node not acquired")
)

// Client is the boundary contract the engine depends on.
type Client interface {
	// TransferFrom moves amount of asset from `from` to `to`, drawing on the
	// allowance `from` granted the gateway.
	TransferFrom(ctx context.Context, asset model.Asset, from, to model.Account, amount int64) error
	// Transfer moves amount of asset out of the gateway's own holdings.
	Transfer(ctx context.Context, asset model.Asset, to model.Account, amount int64) error
}

// Pool selects one breaker-healthy node per call, round-robin. A single
// attempt only: any failure surfaces to the caller unchanged.
type Pool struct {
	nodes             []Node
	roundRobinCounter atomic.Uint64
}

func NewPool(nodes []Node) *Pool {
	return &Pool{nodes: nodes}
}

var _ Client = (*Pool)(nil)

func (p *Pool) selectNode() (Node, error) {
	healthy := make([]Node, 0, len(p.nodes))
	for _, n := range p.nodes {
		if n.Ready() {
			healthy = append(healthy, n)
		}
	}

	if len(healthy) == 0 {
		return nil, ErrNoHealthyNodes
	}

	x := p.roundRobinCounter.Add(1)
	idx := int((x - 1) % uint64(len(healthy)))

	return healthy[idx], nil
}

func (p *Pool) TransferFrom(ctx context.Context, asset model.Asset, from, to model.Account, amount int64) error {
	n, err := p.selectNode()
	if err != nil {
		return err
	}

	if !n.Acquire() {
		return ErrNotAcquired
	}

	return n.TransferFrom(ctx, asset, from, to, amount)
}

func (p *Pool) Transfer(ctx context.Context, asset model.Asset, to model.Account, amount int64) error {
	n, err := p.selectNode()
	if err != nil {
		return err
	}

	if !n.Acquire() {
		return ErrNotAcquired
	}

	return n.Transfer(ctx, asset, to, amount)
}
