package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oasislabs/ledger-gateway/client"
	"github.com/oasislabs/ledger-gateway/client/clienttest"
	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/faucet"
	"github.com/oasislabs/ledger-gateway/ledger"
	"github.com/oasislabs/ledger-gateway/log"
	"github.com/oasislabs/ledger-gateway/metrics"
	"github.com/oasislabs/ledger-gateway/rpc"
	"github.com/oasislabs/ledger-gateway/tx"
	"github.com/oasislabs/ledger-gateway/wallet"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon about"

var Context = context.Background()

var Logger = log.NewLogrus(log.LogrusLoggerProperties{
	Output: ioutil.Discard,
})

var transferScript = []byte{0x4c, 0x49, 0x42, 0x52, 0x41, 0x56, 0x4d}

type MockMinter struct {
	mock.Mock
}

func (m *MockMinter) Mint(ctx context.Context, receiver ledger.AccountAddress, microCoins uint64) errors.Err {
	args := m.Called(ctx, receiver, microCoins)
	err, _ := args.Get(0).(errors.Err)
	return err
}

func mockFactories(c *clienttest.MockClient, minter *MockMinter) Factories {
	return Factories{
		ClientFactory: func(ctx context.Context, logger log.Logger, config *Config) (client.Client, error) {
			return c, nil
		},
		MinterFactory: func(ctx context.Context, logger log.Logger, config *Config) (faucet.Minter, error) {
			return minter, nil
		},
	}
}

func newTestServices(t *testing.T, shared *wallet.Owner, script []byte) (Services, *clienttest.MockClient) {
	c := &clienttest.MockClient{}
	clienttest.ImplementMock(c)

	return Services{
		Logger: Logger,
		Client: c,
		Minter: &MockMinter{},
		Tx: tx.NewService(&tx.Services{
			Logger:  Logger,
			Metrics: metrics.NewOperationMetrics(prometheus.NewRegistry(), "tx"),
		}, &tx.Props{}),
		Resolver: tx.NewCredentialResolver(tx.CredentialResolverProps{
			SharedWallet: shared,
		}),
		TransferScript: script,
		SharedWallet:   shared,
		Metrics:        metrics.NewDefaultServiceMetrics(prometheus.NewRegistry(), serviceName),
	}, c
}

func newTestRouter(t *testing.T, shared *wallet.Owner, script []byte) (*rpc.HttpRouter, *clienttest.MockClient) {
	services, c := newTestServices(t, shared, script)
	return NewRouter(services, BindConfig{CorsEnabled: true, CorsAllowedOrigins: []string{"*"}}), c
}

func newSharedWallet(t *testing.T, preload uint) *wallet.Owner {
	owner, err := NewSharedWallet(Context, &wallet.Config{Mnemonic: testMnemonic, Preload: preload})
	require.Nil(t, err)
	require.NotNil(t, owner)
	return owner
}

func serve(router *rpc.HttpRouter, method, path string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		p, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(p))
		req.Header.Set("Content-Type", "application/json")
	}

	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func decodeBody(t *testing.T, res *httptest.ResponseRecorder) map[string]interface{} {
	var v map[string]interface{}
	require.Nil(t, json.Unmarshal(res.Body.Bytes(), &v))
	return v
}

func TestNewSharedWalletNoMnemonic(t *testing.T) {
	owner, err := NewSharedWallet(Context, &wallet.Config{})

	assert.Nil(t, err)
	assert.Nil(t, owner)
}

func TestNewSharedWalletPreload(t *testing.T) {
	owner := newSharedWallet(t, 3)

	addresses, err := owner.Addresses(Context)

	assert.Nil(t, err)
	assert.Len(t, addresses, 3)
}

func TestReadTransferScript(t *testing.T) {
	dir, err := ioutil.TempDir("", "gateway")
	require.Nil(t, err)

	path := filepath.Join(dir, "peer_to_peer.mv")
	require.Nil(t, ioutil.WriteFile(path, transferScript, 0600))

	script, err := ReadTransferScript(path)
	assert.Nil(t, err)
	assert.Equal(t, transferScript, script)

	script, err = ReadTransferScript("")
	assert.Nil(t, err)
	assert.Nil(t, script)

	_, err = ReadTransferScript(filepath.Join(dir, "missing.mv"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.mv")
	require.Nil(t, ioutil.WriteFile(empty, nil, 0600))
	_, err = ReadTransferScript(empty)
	assert.Error(t, err)
}

func TestNewMinterDerivesURL(t *testing.T) {
	c, err := parseConfig(testLedgerURL)
	require.Nil(t, err)

	minter, err := NewMinter(Context, Logger, c)

	assert.Nil(t, err)
	assert.NotNil(t, minter)
}

func TestNewMinterInvalidLedgerURL(t *testing.T) {
	c := &Config{}
	c.LedgerConfig.URL = "http://:8000"

	_, err := NewMinter(Context, Logger, c)

	assert.Error(t, err)
}

func TestNewServices(t *testing.T) {
	c, err := parseConfig(testLedgerURL, "--wallet.mnemonic="+testMnemonic, "--wallet.preload=2")
	require.Nil(t, err)

	mockClient := &clienttest.MockClient{}
	clienttest.ImplementMock(mockClient)
	services, err := NewServices(Context, Logger, c, mockFactories(mockClient, &MockMinter{}))

	require.Nil(t, err)
	assert.Equal(t, mockClient, services.Client)
	assert.NotNil(t, services.SharedWallet)
	assert.NotNil(t, services.Tx)
	assert.NotNil(t, services.Resolver)
	assert.Nil(t, services.TransferScript)
}

func TestNewServicesMissingScript(t *testing.T) {
	c, err := parseConfig(testLedgerURL, "--tx.transfer_script_path=/nonexistent/peer_to_peer.mv")
	require.Nil(t, err)

	_, err = NewServices(Context, Logger, c, mockFactories(&clienttest.MockClient{}, &MockMinter{}))

	assert.Error(t, err)
}

func TestRouterHealth(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	res := serve(router, http.MethodGet, "/v0/api/health", nil)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, map[string]interface{}{"health": "healthy"}, decodeBody(t, res))
}

func TestRouterSendersNoSharedWallet(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	res := serve(router, http.MethodGet, "/v0/api/info/senders", nil)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, map[string]interface{}{"senders": []interface{}{}}, decodeBody(t, res))
}

func TestRouterSendersSharedWallet(t *testing.T) {
	router, _ := newTestRouter(t, newSharedWallet(t, 2), nil)

	res := serve(router, http.MethodGet, "/v0/api/info/senders", nil)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, decodeBody(t, res)["senders"], 2)
}

func TestRouterBalance(t *testing.T) {
	router, c := newTestRouter(t, nil, nil)
	address := "0x" + strings.Repeat("aa", 32)

	res := serve(router, http.MethodPost, "/v0/api/account/balance", map[string]interface{}{
		"address": address,
	})

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, map[string]interface{}{"balance": "1.000000"}, decodeBody(t, res))
	c.AssertCalled(t, "GetAccountResource", mock.Anything, mock.Anything)
}

func TestRouterBalanceInvalidAddress(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	res := serve(router, http.MethodPost, "/v0/api/account/balance", map[string]interface{}{
		"address": "0xaa",
	})

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, float64(errors.ErrInvalidAddress.Code()), decodeBody(t, res)["errorCode"])
}

func TestRouterSignTransferSharedWallet(t *testing.T) {
	shared := newSharedWallet(t, 1)
	router, _ := newTestRouter(t, shared, transferScript)

	res := serve(router, http.MethodPost, "/v0/api/transaction/sign", map[string]interface{}{
		"child_index": 0,
		"receiver":    "0x" + strings.Repeat("bb", 32),
		"amount":      "0.001",
	})
	require.Equal(t, http.StatusOK, res.Code)

	rawBytes, err := hexutil.Decode(decodeBody(t, res)["raw_txn_bytes"].(string))
	require.Nil(t, err)
	raw, err := ledger.DecodeRawTransaction(rawBytes)
	require.Nil(t, err)

	addresses, err := shared.Addresses(Context)
	require.Nil(t, err)
	assert.Equal(t, addresses[0], raw.Sender)
	assert.Equal(t, uint64(5), raw.SequenceNumber)
	assert.Equal(t, tx.DefaultMaxGasAmount, raw.MaxGasAmount)
}

func TestRouterSignTransferNoSharedWallet(t *testing.T) {
	router, _ := newTestRouter(t, nil, transferScript)

	res := serve(router, http.MethodPost, "/v0/api/transaction/sign", map[string]interface{}{
		"child_index": 0,
		"receiver":    "0x" + strings.Repeat("bb", 32),
		"amount":      "1",
	})

	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, float64(errors.ErrSharedWalletNotConfigured.Code()), decodeBody(t, res)["errorCode"])
}

func TestRouterTransactionNotFound(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	res := serve(router, http.MethodPost, "/v0/api/transaction/get", map[string]interface{}{
		"address":         "0x" + strings.Repeat("aa", 32),
		"sequence_number": 3,
	})

	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestRouterCorsPreflight(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/v0/api/account/balance", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "*", res.Header().Get("Access-Control-Allow-Origin"))
}
