package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/adarshkumar790/multisender/internal/clock"
	"github.com/adarshkumar790/multisender/internal/model"
	"github.com/adarshkumar790/multisender/internal/service/engine"
	"github.com/adarshkumar790/multisender/internal/store"
	"github.com/adarshkumar790/multisender/internal/store/memory"
	echo "github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOwner  = model.Account("0x00000000000000000000000000000000000000a1")
	testCaller = model.Account("0x00000000000000000000000000000000000000b1")
)

type nopLedger struct{}

func (nopLedger) TransferFrom(context.Context, model.Asset, model.Account, model.Account, int64) error {
	return nil
}
func (nopLedger) Transfer(context.Context, model.Asset, model.Account, int64) error { return nil }

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	st := memory.New()
	err := st.RunInTx(context.Background(), func(tx store.Tx) error {
		return tx.PutSettings(context.Background(), model.Settings{
			Owner:           testOwner,
			FeeReceiver:     "0x00000000000000000000000000000000000000a2",
			PerRecipientFee: 10,
			MinimumFee:      50,
		})
	})
	require.NoError(t, err)
	return engine.New(st, nopLedger{}, clock.System(), nil)
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, caller model.Account) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller != "" {
		c.Set("account", caller)
	}
	require.NoError(t, h(c))
	return rec
}

func TestSendBatchHandler(t *testing.T) {
	eng := newTestEngine(t)
	h := sendBatchHandler(eng)

	_, err := eng.Topup(context.Background(), testCaller, 1000, "t1")
	require.NoError(t, err)

	body := `{
		"asset": "0x00000000000000000000000000000000000000e1",
		"recipients": ["0x00000000000000000000000000000000000000c1"],
		"amounts": [100],
		"attached_value": 50
	}`
	rec := doJSON(t, h, http.MethodPost, "/v1/batch/send", body, testCaller)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), `"accepted":true`)
}

func TestSendBatchHandlerBadRecipient(t *testing.T) {
	eng := newTestEngine(t)
	h := sendBatchHandler(eng)

	body := `{
		"asset": "0x00000000000000000000000000000000000000e1",
		"recipients": ["not-an-address"],
		"amounts": [100],
		"attached_value": 50
	}`
	rec := doJSON(t, h, http.MethodPost, "/v1/batch/send", body, testCaller)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_recipient")
}

func TestSendBatchHandlerInsufficientPayment(t *testing.T) {
	eng := newTestEngine(t)
	h := sendBatchHandler(eng)

	body := `{
		"asset": "0x00000000000000000000000000000000000000e1",
		"recipients": ["0x00000000000000000000000000000000000000c1"],
		"amounts": [100],
		"attached_value": 10
	}`
	rec := doJSON(t, h, http.MethodPost, "/v1/batch/send", body, testCaller)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_payment")
}

func TestSendBatchHandlerNoCaller(t *testing.T) {
	eng := newTestEngine(t)
	h := sendBatchHandler(eng)

	rec := doJSON(t, h, http.MethodPost, "/v1/batch/send", `{}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPurchaseHandlerUnknownPackage(t *testing.T) {
	eng := newTestEngine(t)
	h := purchaseHandler(eng)

	rec := doJSON(t, h, http.MethodPost, "/v1/vip/purchase", `{"package_id": 9, "paid_amount": 100}`, testCaller)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "package_not_found")
}

func TestVipPurchaseAndStatusFlow(t *testing.T) {
	eng := newTestEngine(t)

	require.NoError(t, eng.SetPackage(context.Background(), testOwner, 1, 500, int64((30*24*time.Hour).Seconds())))
	_, err := eng.Topup(context.Background(), testCaller, 1000, "t1")
	require.NoError(t, err)

	rec := doJSON(t, purchaseHandler(eng), http.MethodPost, "/v1/vip/purchase", `{"package_id": 1, "paid_amount": 500}`, testCaller)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, vipStatusHandler(eng), http.MethodGet, "/v1/vip/status", "", testCaller)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"active":true`)
}

func TestAdminHandlerForbiddenForNonOwner(t *testing.T) {
	eng := newTestEngine(t)
	h := adminSetMinimumFeeHandler(eng)

	rec := doJSON(t, h, http.MethodPut, "/v1/admin/fees/minimum", `{"amount": 5}`, testCaller)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestAdminSetPackageHandler(t *testing.T) {
	eng := newTestEngine(t)
	h := adminSetPackageHandler(eng)

	rec := doJSON(t, h, http.MethodPut, "/v1/admin/packages", `{"id": 2, "price": 900, "validity_secs": 3600}`, testOwner)
	assert.Equal(t, http.StatusOK, rec.Code)

	pkg, err := eng.GetPackage(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(900), pkg.Price)
}
