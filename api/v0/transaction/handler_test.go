package transaction

import (
	"context"
	stderr "errors"
	"io/ioutil"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oasislabs/ledger-gateway/client/clienttest"
	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/keys"
	"github.com/oasislabs/ledger-gateway/ledger"
	"github.com/oasislabs/ledger-gateway/log"
	"github.com/oasislabs/ledger-gateway/metrics"
	"github.com/oasislabs/ledger-gateway/proof"
	"github.com/oasislabs/ledger-gateway/tx"
	"github.com/oasislabs/ledger-gateway/wallet"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon about"

var Context = context.Background()

var Logger = log.NewLogrus(log.LogrusLoggerProperties{
	Output: ioutil.Discard,
})

var (
	transferScript = []byte{0x4c, 0x49, 0x42, 0x52, 0x41, 0x56, 0x4d}
	receiverHex    = "0x" + strings.Repeat("bb", 32)
	receiver, _    = ledger.ParseAccountAddress(receiverHex)
	testNow        = time.Unix(1568000000, 0)
)

func childIndex(i uint64) *uint64 {
	return &i
}

func newSharedWallet(t *testing.T) *wallet.Owner {
	w, err := wallet.NewFromMnemonic(testMnemonic, wallet.Props{})
	require.Nil(t, err)
	return wallet.NewOwner(w)
}

func createTransactionHandler(
	t *testing.T,
	overwrite clienttest.MockMethods,
	script []byte,
) (TransactionHandler, *clienttest.MockClient, *wallet.Owner) {
	client := &clienttest.MockClient{}
	clienttest.ImplementMockWithOverwrite(client, overwrite)
	shared := newSharedWallet(t)

	service := tx.NewService(&tx.Services{
		Logger:  Logger,
		Metrics: metrics.NewOperationMetrics(prometheus.NewRegistry(), "tx"),
	}, &tx.Props{
		Builder: tx.BuilderProps{Clock: func() time.Time { return testNow }},
	})

	return NewTransactionHandler(Services{
		Logger:         Logger,
		Client:         client,
		Tx:             service,
		Resolver:       tx.NewCredentialResolver(tx.CredentialResolverProps{SharedWallet: shared}),
		TransferScript: script,
	}), client, shared
}

func sharedAddress(t *testing.T, shared *wallet.Owner, child wallet.ChildNumber) ledger.AccountAddress {
	var address ledger.AccountAddress
	err := shared.Do(Context, func(w *wallet.Wallet) error {
		addr, err := w.NewAddressAtChild(child)
		if err != nil {
			return err
		}
		address = addr
		return nil
	})
	require.Nil(t, err)
	return address
}

func decodeRaw(t *testing.T, res interface{}) (*ledger.RawTransaction, *proof.SignedTransactionView) {
	view, ok := res.(*proof.SignedTransactionView)
	require.True(t, ok)

	raw, err := ledger.DecodeRawTransaction(view.RawTxnBytes)
	require.Nil(t, err)
	return raw, view
}

func TestNewTransactionHandlerMissingServices(t *testing.T) {
	assert.Panics(t, func() {
		NewTransactionHandler(Services{Logger: Logger, Client: &clienttest.MockClient{}})
	})
}

func TestSignTransferSharedWallet(t *testing.T) {
	handler, client, shared := createTransactionHandler(t, nil, transferScript)
	sender := sharedAddress(t, shared, 2)

	res, err := handler.SignTransfer(Context, &TransferRequest{
		Credential: Credential{ChildIndex: childIndex(2)},
		Receiver:   receiverHex,
		Amount:     "0.001",
	})
	require.Nil(t, err)

	raw, view := decodeRaw(t, res)
	assert.Equal(t, sender, raw.Sender)
	assert.Equal(t, uint64(5), raw.SequenceNumber)
	assert.Equal(t, ledger.NewTransferProgram(transferScript, receiver, 1000), raw.Program)
	assert.Equal(t, uint64(tx.DefaultMaxGasAmount), raw.MaxGasAmount)
	assert.Equal(t, uint64(0), raw.GasUnitPrice)
	assert.Equal(t, uint64(testNow.Add(tx.DefaultExpirationWindow).Unix()), raw.ExpirationTime)
	assert.True(t, keys.Verify(view.SenderPublicKey, view.Hash, view.SenderSignature))

	client.AssertCalled(t, "GetAccountResource", mock.Anything, sender)
	client.AssertNotCalled(t, "SubmitTransaction", mock.Anything, mock.Anything)
}

func TestSignTransferPrivateKeyExplicitSequenceAndGas(t *testing.T) {
	handler, client, _ := createTransactionHandler(t, nil, transferScript)
	kp, err := keys.NewKeyPair(make([]byte, 32))
	require.Nil(t, err)

	res, herr := handler.SignTransfer(Context, &TransferRequest{
		Credential:     Credential{PrivateKey: "0x" + strings.Repeat("00", 32)},
		Receiver:       receiverHex,
		Amount:         "1",
		SequenceNumber: childIndex(9),
		GasUnitPrice:   childIndex(2),
		MaxGasAmount:   childIndex(500),
	})
	require.Nil(t, herr)

	raw, _ := decodeRaw(t, res)
	assert.Equal(t, kp.Address(), raw.Sender)
	assert.Equal(t, uint64(9), raw.SequenceNumber)
	assert.Equal(t, uint64(2), raw.GasUnitPrice)
	assert.Equal(t, uint64(500), raw.MaxGasAmount)
	client.AssertNotCalled(t, "GetAccountResource", mock.Anything, mock.Anything)
}

func TestSignTransferAmbiguousCredential(t *testing.T) {
	handler, _, _ := createTransactionHandler(t, nil, transferScript)

	_, err := handler.SignTransfer(Context, &TransferRequest{
		Credential: Credential{
			Mnemonic:   testMnemonic,
			ChildIndex: childIndex(0),
			PrivateKey: "0x" + strings.Repeat("00", 32),
		},
		Receiver: receiverHex,
		Amount:   "1",
	})

	assert.True(t, errors.Is(err, errors.ErrCredential))
}

func TestSignTransferNoScript(t *testing.T) {
	handler, _, _ := createTransactionHandler(t, nil, nil)

	_, err := handler.SignTransfer(Context, &TransferRequest{
		Credential: Credential{ChildIndex: childIndex(0)},
		Receiver:   receiverHex,
		Amount:     "1",
	})

	assert.True(t, errors.Is(err, errors.ErrTransferScriptNotConfigured))
}

func TestSignTransferInvalidReceiver(t *testing.T) {
	handler, _, _ := createTransactionHandler(t, nil, transferScript)

	_, err := handler.SignTransfer(Context, &TransferRequest{
		Credential: Credential{ChildIndex: childIndex(0)},
		Receiver:   "0xbb",
		Amount:     "1",
	})

	assert.True(t, errors.Is(err, errors.ErrInvalidAddress))
}

func TestTransferSubmits(t *testing.T) {
	handler, client, _ := createTransactionHandler(t, nil, transferScript)

	res, err := handler.Transfer(Context, &TransferRequest{
		Credential: Credential{Mnemonic: testMnemonic, ChildIndex: childIndex(1)},
		Receiver:   receiverHex,
		Amount:     "3",
	})
	require.Nil(t, err)

	view := res.(*proof.SignedTransactionView)
	client.AssertCalled(t, "SubmitTransaction", mock.Anything,
		mock.MatchedBy(func(signed *ledger.SignedTransaction) bool {
			return signed.Hash() == view.Hash
		}))
}

func TestTransferSubmitErr(t *testing.T) {
	handler, _, _ := createTransactionHandler(t, clienttest.MockMethods{
		"SubmitTransaction": clienttest.MockMethod{
			Arguments: []interface{}{mock.Anything, mock.Anything},
			Return: []interface{}{errors.New(errors.ErrSubmitTransaction,
				stderr.New("sequence number too old"))},
		},
	}, transferScript)

	_, err := handler.Transfer(Context, &TransferRequest{
		Credential: Credential{ChildIndex: childIndex(0)},
		Receiver:   receiverHex,
		Amount:     "3",
	})

	assert.True(t, errors.Is(err, errors.ErrSubmitTransaction))
}

func TestGetTransactionNotFound(t *testing.T) {
	handler, _, _ := createTransactionHandler(t, nil, transferScript)

	_, err := handler.GetTransaction(Context, &GetTransactionRequest{
		Address:        receiverHex,
		SequenceNumber: 1,
	})

	assert.True(t, errors.Is(err, errors.ErrTransactionNotFound))
}

func TestGetTransactionWithEvents(t *testing.T) {
	signed := &ledger.SignedTransaction{
		RawTxnBytes:     []byte{0x0a, 0x01},
		SenderPublicKey: []byte{0x02},
		SenderSignature: []byte{0x03},
	}
	events := []ledger.ContractEvent{{SequenceNumber: 4, EventData: []byte{0x05}}}
	handler, _, _ := createTransactionHandler(t, clienttest.MockMethods{
		"GetTransaction": clienttest.MockMethod{
			Arguments: []interface{}{mock.Anything, receiver, uint64(1), true},
			Return:    []interface{}{signed, events, nil},
		},
	}, transferScript)

	res, err := handler.GetTransaction(Context, &GetTransactionRequest{
		Address:        receiverHex,
		SequenceNumber: 1,
		FetchEvents:    true,
	})

	assert.Nil(t, err)
	expected := proof.EncodeTransactionWithEvents(signed, events)
	assert.Equal(t, &expected, res)
}
