package wallet

import (
	"strings"

	stderr "github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"

	"github.com/oasislabs/ledger-gateway/errors"
)

// mnemonicEntropyBits is the entropy of generated mnemonics, which
// results in 24 words
const mnemonicEntropyBits = 256

// Mnemonic is a validated list of words from which a wallet seed
// is derived
type Mnemonic struct {
	words string
}

// ParseMnemonic validates the words and checksum of a mnemonic.
// Whitespace between words is normalized
func ParseMnemonic(s string) (Mnemonic, errors.Err) {
	words := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	if len(words) == 0 {
		return Mnemonic{}, errors.New(errors.ErrCredential, stderr.New("mnemonic is empty"))
	}

	// IsMnemonicValid does not verify the checksum, decoding the
	// entropy does
	if _, err := bip39.EntropyFromMnemonic(words); err != nil {
		return Mnemonic{}, errors.New(errors.ErrCredential,
			stderr.Wrap(err, "mnemonic has unknown words or an invalid checksum"))
	}

	return Mnemonic{words: words}, nil
}

// NewMnemonic generates a random mnemonic
func NewMnemonic() (Mnemonic, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return Mnemonic{}, stderr.Wrap(err, "failed to generate entropy")
	}

	words, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return Mnemonic{}, stderr.Wrap(err, "failed to generate mnemonic")
	}

	return Mnemonic{words: words}, nil
}

func (m Mnemonic) String() string {
	return m.words
}
