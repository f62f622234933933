package tx

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oasislabs/ledger-gateway/config"
	"github.com/oasislabs/ledger-gateway/log"
)

const (
	cfgTxGasUnitPrice       = "tx.gas_unit_price"
	cfgTxMaxGasAmount       = "tx.max_gas_amount"
	cfgTxExpirationWindow   = "tx.expiration_window"
	cfgTxTransferScriptPath = "tx.transfer_script_path"
)

// Config is the transaction policy of the gateway
type Config struct {
	GasUnitPrice     uint64
	MaxGasAmount     uint64
	ExpirationWindow time.Duration

	// TransferScriptPath is the path to the compiled peer to peer
	// transfer script. Transfers are rejected if it is not set
	TransferScriptPath string
}

// BuilderProps returns the builder properties of the configuration
func (c *Config) BuilderProps() BuilderProps {
	return BuilderProps{
		GasUnitPrice:     c.GasUnitPrice,
		MaxGasAmount:     c.MaxGasAmount,
		ExpirationWindow: c.ExpirationWindow,
	}
}

func (c *Config) Log(fields log.Fields) {
	fields.Add(cfgTxGasUnitPrice, c.GasUnitPrice)
	fields.Add(cfgTxMaxGasAmount, c.MaxGasAmount)
	fields.Add(cfgTxExpirationWindow, c.ExpirationWindow)
	fields.Add(cfgTxTransferScriptPath, c.TransferScriptPath)
}

func (c *Config) Configure(v *viper.Viper) error {
	c.GasUnitPrice = v.GetUint64(cfgTxGasUnitPrice)

	c.MaxGasAmount = v.GetUint64(cfgTxMaxGasAmount)
	if c.MaxGasAmount == 0 {
		return config.ErrOutOfRange{Key: cfgTxMaxGasAmount, Value: c.MaxGasAmount, Min: 1, Max: "inf"}
	}

	c.ExpirationWindow = v.GetDuration(cfgTxExpirationWindow)
	if c.ExpirationWindow < time.Second {
		return config.ErrOutOfRange{Key: cfgTxExpirationWindow, Value: c.ExpirationWindow, Min: time.Second, Max: "inf"}
	}

	c.TransferScriptPath = v.GetString(cfgTxTransferScriptPath)
	return nil
}

func (c *Config) Bind(v *viper.Viper, cmd *cobra.Command) error {
	cmd.PersistentFlags().Uint64(cfgTxGasUnitPrice, DefaultGasUnitPrice,
		"gas unit price of transactions that do not set one")
	cmd.PersistentFlags().Uint64(cfgTxMaxGasAmount, DefaultMaxGasAmount,
		"maximum gas amount of transactions that do not set one")
	cmd.PersistentFlags().Duration(cfgTxExpirationWindow, DefaultExpirationWindow,
		"time a transaction stays valid after it is built")
	cmd.PersistentFlags().String(cfgTxTransferScriptPath, "",
		"path to the compiled peer to peer transfer script")

	return nil
}
