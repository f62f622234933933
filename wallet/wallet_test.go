package wallet

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/ledger"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon about"

func newTestWallet(t *testing.T) *Wallet {
	w, err := NewFromMnemonic(testMnemonic, Props{MaxChildNumber: 10})
	require.Nil(t, err)
	return w
}

func TestParseMnemonic(t *testing.T) {
	m, err := ParseMnemonic("  ABANDON abandon abandon abandon abandon abandon\n" +
		"abandon abandon abandon abandon abandon   about ")

	assert.Nil(t, err)
	assert.Equal(t, testMnemonic, m.String())
}

func TestParseMnemonicBadChecksum(t *testing.T) {
	// every word is known and the count is valid, only the checksum is wrong
	_, err := ParseMnemonic(strings.TrimSpace(strings.Repeat("abandon ", 12)))

	assert.True(t, errors.Is(err, errors.ErrCredential))
	assert.Contains(t, err.Error(), "checksum")
}

func TestParseMnemonicInvalid(t *testing.T) {
	for _, s := range []string{
		"",
		"abandon abandon abandon",
		"abandon abandon abandon abandon abandon abandon " +
			"abandon abandon abandon abandon abandon abandon",
		"notaword abandon abandon abandon abandon abandon " +
			"abandon abandon abandon abandon abandon about",
	} {
		_, err := ParseMnemonic(s)
		assert.True(t, errors.Is(err, errors.ErrCredential), s)
	}
}

func TestNewMnemonic(t *testing.T) {
	m, err := NewMnemonic()
	assert.Nil(t, err)

	parsed, perr := ParseMnemonic(m.String())
	assert.Nil(t, perr)
	assert.Equal(t, m, parsed)
}

func TestNewAddressAtChildDeterministic(t *testing.T) {
	w1 := newTestWallet(t)
	w2 := newTestWallet(t)

	a1, err := w1.NewAddressAtChild(3)
	assert.Nil(t, err)
	a2, err := w2.NewAddressAtChild(3)
	assert.Nil(t, err)
	assert.Equal(t, a1, a2)

	other, err := w1.NewAddressAtChild(4)
	assert.Nil(t, err)
	assert.NotEqual(t, a1, other)
}

func TestNewAddressAtChildIdempotent(t *testing.T) {
	w := newTestWallet(t)

	a1, err := w.NewAddressAtChild(1)
	assert.Nil(t, err)
	a2, err := w.NewAddressAtChild(1)
	assert.Nil(t, err)

	assert.Equal(t, a1, a2)
	assert.Equal(t, []ledger.AccountAddress{a1}, w.Addresses())
}

func TestNewAddressAtChildOutOfRange(t *testing.T) {
	w := newTestWallet(t)

	_, err := w.NewAddressAtChild(11)
	assert.True(t, errors.Is(err, errors.ErrDerivation))
	assert.Empty(t, w.Addresses())
}

func TestSeedSaltChangesKeys(t *testing.T) {
	m, err := ParseMnemonic(testMnemonic)
	require.Nil(t, err)

	a1, err := New(m, Props{}).NewAddressAtChild(0)
	assert.Nil(t, err)
	a2, err := New(m, Props{Salt: "OTHER"}).NewAddressAtChild(0)
	assert.Nil(t, err)

	assert.NotEqual(t, a1, a2)
}

func TestAddressesOrderedByChild(t *testing.T) {
	w := newTestWallet(t)

	a5, _ := w.NewAddressAtChild(5)
	a0, _ := w.NewAddressAtChild(0)
	a2, _ := w.NewAddressAtChild(2)

	assert.Equal(t, []ledger.AccountAddress{a0, a2, a5}, w.Addresses())

	child, ok := w.ChildOf(a2)
	assert.True(t, ok)
	assert.Equal(t, ChildNumber(2), child)
}

func TestExportPrivateKey(t *testing.T) {
	w := newTestWallet(t)

	kp, err := w.ExportPrivateKey(7)
	assert.Nil(t, err)
	assert.Empty(t, w.Addresses())

	address, err := w.NewAddressAtChild(7)
	assert.Nil(t, err)
	assert.Equal(t, address, kp.Address())
}

func TestSignTransaction(t *testing.T) {
	w := newTestWallet(t)
	sender, err := w.NewAddressAtChild(0)
	require.Nil(t, err)

	raw := &ledger.RawTransaction{
		Sender:         sender,
		SequenceNumber: 5,
		MaxGasAmount:   10000,
		ExpirationTime: 100,
	}

	signed, err := w.SignTransaction(raw)
	assert.Nil(t, err)
	assert.True(t, signed.Verify())

	p, _ := raw.Bytes()
	assert.Equal(t, p, signed.RawTxnBytes)
}

func TestSignTransactionUnknownSender(t *testing.T) {
	w := newTestWallet(t)

	_, err := w.SignTransaction(&ledger.RawTransaction{})
	assert.True(t, errors.Is(err, errors.ErrDerivation))
}

func TestSignTransactionSerializationFailure(t *testing.T) {
	w := newTestWallet(t)
	sender, err := w.NewAddressAtChild(0)
	require.Nil(t, err)

	_, err = w.SignTransaction(&ledger.RawTransaction{
		Sender: sender,
		Program: ledger.Program{
			Arguments: []ledger.TransactionArgument{{Type: ledger.ArgType(42)}},
		},
	})
	assert.True(t, errors.Is(err, errors.ErrSerialization))
}

func TestOwnerDoSerializes(t *testing.T) {
	owner := NewOwner(newTestWallet(t))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		inside int
		peak   int
	)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(child ChildNumber) {
			defer wg.Done()
			err := owner.Do(context.Background(), func(w *Wallet) error {
				mu.Lock()
				inside++
				if inside > peak {
					peak = inside
				}
				mu.Unlock()

				_, err := w.NewAddressAtChild(child)

				mu.Lock()
				inside--
				mu.Unlock()
				if err != nil {
					return err
				}
				return nil
			})
			assert.Nil(t, err)
		}(ChildNumber(i))
	}
	wg.Wait()

	assert.Equal(t, 1, peak)

	addresses, err := owner.Addresses(context.Background())
	assert.Nil(t, err)
	assert.Len(t, addresses, 8)
}

func TestOwnerDoContextCancelled(t *testing.T) {
	owner := NewOwner(newTestWallet(t))
	entered := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = owner.Do(context.Background(), func(w *Wallet) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	called := false
	err := owner.Do(ctx, func(w *Wallet) error {
		called = true
		return nil
	})
	close(release)

	assert.Equal(t, context.DeadlineExceeded, err)
	assert.False(t, called)
}
