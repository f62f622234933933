package wallet

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oasislabs/ledger-gateway/config"
	"github.com/oasislabs/ledger-gateway/log"
)

const (
	cfgWalletMnemonic = "wallet.mnemonic"
	cfgWalletSalt     = "wallet.salt"
	cfgWalletMaxChild = "wallet.max_child"
	cfgWalletPreload  = "wallet.preload"
)

// Config is the configuration of the wallets used by the gateway. If
// Mnemonic is set the gateway keeps a shared wallet derived from it
type Config struct {
	Mnemonic       string
	Salt           string
	MaxChildNumber ChildNumber

	// Preload is the number of children of the shared wallet that are
	// derived at startup
	Preload uint
}

// Props returns the wallet properties of the configuration
func (c *Config) Props() Props {
	return Props{Salt: c.Salt, MaxChildNumber: c.MaxChildNumber}
}

// Log implementation of log.Loggable. The mnemonic is never logged
func (c *Config) Log(fields log.Fields) {
	fields.Add("wallet.shared", len(c.Mnemonic) > 0)
	fields.Add(cfgWalletSalt, c.Salt)
	fields.Add(cfgWalletMaxChild, c.MaxChildNumber)
	fields.Add(cfgWalletPreload, c.Preload)
}

func (c *Config) Configure(v *viper.Viper) error {
	c.Mnemonic = v.GetString(cfgWalletMnemonic)
	if len(c.Mnemonic) > 0 {
		if _, err := ParseMnemonic(c.Mnemonic); err != nil {
			return config.ErrInvalidValue{
				Key:          cfgWalletMnemonic,
				InvalidValue: "<redacted>",
				Values:       []string{"a valid bip39 mnemonic"},
			}
		}
	}

	c.Salt = v.GetString(cfgWalletSalt)
	if len(c.Salt) == 0 {
		return config.ErrKeyNotSet{Key: cfgWalletSalt}
	}

	maxChild := v.GetUint64(cfgWalletMaxChild)
	if maxChild == 0 || maxChild > uint64(DefaultMaxChildNumber) {
		return config.ErrOutOfRange{Key: cfgWalletMaxChild, Value: maxChild, Min: 1, Max: DefaultMaxChildNumber}
	}
	c.MaxChildNumber = ChildNumber(maxChild)

	c.Preload = v.GetUint(cfgWalletPreload)
	if len(c.Mnemonic) == 0 && c.Preload > 0 {
		return config.ErrKeyNotSet{Key: cfgWalletMnemonic}
	}
	if uint64(c.Preload) > maxChild {
		return config.ErrOutOfRange{Key: cfgWalletPreload, Value: c.Preload, Min: 0, Max: maxChild}
	}

	return nil
}

func (c *Config) Bind(v *viper.Viper, cmd *cobra.Command) error {
	cmd.PersistentFlags().String(cfgWalletMnemonic, "",
		"mnemonic of the shared wallet. Requests that only provide a child_index "+
			"are signed with it. If not set the gateway has no shared wallet")
	cmd.PersistentFlags().String(cfgWalletSalt, DefaultSeedSalt,
		"salt used to derive wallet seeds from mnemonics")
	cmd.PersistentFlags().Uint64(cfgWalletMaxChild, uint64(DefaultMaxChildNumber),
		"highest child number a wallet derives")
	cmd.PersistentFlags().Uint(cfgWalletPreload, 0,
		"number of children of the shared wallet derived at startup")

	return nil
}
