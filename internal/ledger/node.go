package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/adarshkumar790/multisender/internal/model"
)

// Node is a single ledger endpoint with its own circuit breaker.
type Node interface {
	Name() string
	Ready() bool
	Acquire() bool
	TransferFrom(ctx context.Context, asset model.Asset, from, to model.Account, amount int64) error
	Transfer(ctx context.Context, asset model.Asset, to model.Account, amount int64) error
}

// HTTPNode posts transfer instructions to a bridge/node service.
type HTTPNode struct {
	name             string
	baseURL          string
	transferFromPath string
	transferPath     string
	client           *http.Client
	br               *MicroBreaker
}

func NewHTTPNode(
	name, baseURL, transferFromPath, transferPath string,
	timeoutMs, failThreshold, openForMs int,
) *HTTPNode {
	if timeoutMs <= 0 {
		timeoutMs = 3000
	}

	if failThreshold <= 0 {
		failThreshold = 3
	}

	if openForMs <= 0 {
		openForMs = 15000
	}

	return &HTTPNode{
		name:             name,
		baseURL:          baseURL,
		transferFromPath: transferFromPath,
		transferPath:     transferPath,
		client:           &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond},
		br:               NewMicroBreaker(failThreshold, time.Duration(openForMs)*time.Millisecond),
	}
}

func (n *HTTPNode) Name() string  { return n.name }
func (n *HTTPNode) Ready() bool   { return n.br.Ready() }
func (n *HTTPNode) Acquire() bool { return n.br.TryAcquire() }

type transferReq struct {
	Asset  string `json:"asset"`
	From   string `json:"from,omitempty"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type transferResp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (n *HTTPNode) TransferFrom(ctx context.Context, asset model.Asset, from, to model.Account, amount int64) error {
	if err := n.post(ctx, n.transferFromPath, transferReq{
		Asset:  asset.String(),
		From:   from.String(),
		To:     to.String(),
		Amount: amount,
	}); err != nil {
		n.br.OnFailure()
		return err
	}

	n.br.OnSuccess()

	return nil
}

func (n *HTTPNode) Transfer(ctx context.Context, asset model.Asset, to model.Account, amount int64) error {
	if err := n.post(ctx, n.transferPath, transferReq{
		Asset:  asset.String(),
		To:     to.String(),
		Amount: amount,
	}); err != nil {
		n.br.OnFailure()
		return err
	}

	n.br.OnSuccess()

	return nil
}

func (n *HTTPNode) post(ctx context.Context, path string, body transferReq) error {
	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}

	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return fmt.Errorf("ledger node=%s path=%s status=%d", n.name, path, res.StatusCode)
	}

	var tr transferResp
	if err := json.NewDecoder(res.Body).Decode(&tr); err != nil {
		return fmt.Errorf("ledger node=%s path=%s decode: %w", n.name, path, err)
	}
	// a clean false is the same as a raised failure: abort the operation
	if !tr.OK {
		return fmt.Errorf("ledger node=%s path=%s rejected: %s", n.name, path, tr.Error)
	}

	return nil
}
