package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/adarshkumar790/multisender/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAsset = model.Asset("0x00000000000000000000000000000000000000e1")
	testFrom  = model.Account("0x00000000000000000000000000000000000000b1")
	testTo    = model.Account("0x00000000000000000000000000000000000000b2")
)

func newTestNode(handler http.HandlerFunc) (*HTTPNode, *httptest.Server) {
	srv := httptest.NewServer(handler)
	n := NewHTTPNode("test", srv.URL, "/transfer-from", "/transfer", 1000, 2, 10_000)
	return n, srv
}

func TestHTTPNodeTransferFrom(t *testing.T) {
	var got transferReq
	n, srv := newTestNode(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transfer-from", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(transferResp{OK: true})
	})
	defer srv.Close()

	err := n.TransferFrom(context.Background(), testAsset, testFrom, testTo, 42)
	require.NoError(t, err)
	assert.Equal(t, testAsset.String(), got.Asset)
	assert.Equal(t, testFrom.String(), got.From)
	assert.Equal(t, testTo.String(), got.To)
	assert.Equal(t, int64(42), got.Amount)
}

func TestHTTPNodeTransferOmitsFrom(t *testing.T) {
	var raw map[string]any
	n, srv := newTestNode(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transfer", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_ = json.NewEncoder(w).Encode(transferResp{OK: true})
	})
	defer srv.Close()

	require.NoError(t, n.Transfer(context.Background(), testAsset, testTo, 42))
	_, hasFrom := raw["from"]
	assert.False(t, hasFrom)
}

func TestHTTPNodeRejection(t *testing.T) {
	n, srv := newTestNode(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(transferResp{OK: false, Error: "allowance exceeded"})
	})
	defer srv.Close()

	err := n.TransferFrom(context.Background(), testAsset, testFrom, testTo, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allowance exceeded")
}

func TestHTTPNodeNon2xx(t *testing.T) {
	n, srv := newTestNode(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer srv.Close()

	err := n.TransferFrom(context.Background(), testAsset, testFrom, testTo, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=500")
}

func TestHTTPNodeBreakerOpensAfterFailures(t *testing.T) {
	n, srv := newTestNode(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	// threshold is 2: after two failures the node stops reporting ready
	_ = n.TransferFrom(context.Background(), testAsset, testFrom, testTo, 1)
	assert.True(t, n.Ready())
	_ = n.TransferFrom(context.Background(), testAsset, testFrom, testTo, 1)
	assert.False(t, n.Ready())
}

func TestPoolNoHealthyNodes(t *testing.T) {
	n, srv := newTestNode(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	pool := NewPool([]Node{n})
	_ = pool.TransferFrom(context.Background(), testAsset, testFrom, testTo, 1)
	_ = pool.TransferFrom(context.Background(), testAsset, testFrom, testTo, 1)

	err := pool.TransferFrom(context.Background(), testAsset, testFrom, testTo, 1)
	assert.ErrorIs(t, err, ErrNoHealthyNodes)
}

func TestPoolRoundRobin(t *testing.T) {
	hits := map[string]int{}
	mk := func(name string) (*HTTPNode, *httptest.Server) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits[name]++
			_ = json.NewEncoder(w).Encode(transferResp{OK: true})
		}))
		return NewHTTPNode(name, srv.URL, "/transfer-from", "/transfer", 1000, 3, 10_000), srv
	}

	a, srvA := mk("a")
	defer srvA.Close()
	b, srvB := mk("b")
	defer srvB.Close()

	pool := NewPool([]Node{a, b})
	for i := 0; i < 4; i++ {
		require.NoError(t, pool.TransferFrom(context.Background(), testAsset, testFrom, testTo, 1))
	}
	assert.Equal(t, 2, hits["a"])
	assert.Equal(t, 2, hits["b"])
}

func TestMicroBreakerHalfOpenProbe(t *testing.T) {
	br := NewMicroBreaker(1, time.Millisecond)

	br.OnFailure()
	time.Sleep(5 * time.Millisecond)
	// openFor elapsed: a single probe may go through
	assert.True(t, br.TryAcquire())
	// second concurrent probe is refused
	assert.False(t, br.TryAcquire())

	br.OnSuccess()
	assert.True(t, br.TryAcquire())
}
