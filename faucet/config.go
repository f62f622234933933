package faucet

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oasislabs/ledger-gateway/config"
	"github.com/oasislabs/ledger-gateway/log"
)

const (
	cfgFaucetURL     = "faucet.url"
	cfgFaucetRetries = "faucet.retries"
	cfgFaucetTimeout = "faucet.timeout"
)

// Config is the configuration of the faucet client. An empty URL
// means the url is derived from the ledger url
type Config struct {
	URL     string
	Retries int
	Timeout time.Duration
}

func (c *Config) Log(fields log.Fields) {
	fields.Add(cfgFaucetURL, c.URL)
	fields.Add(cfgFaucetRetries, c.Retries)
	fields.Add(cfgFaucetTimeout, c.Timeout)
}

func (c *Config) Configure(v *viper.Viper) error {
	c.URL = v.GetString(cfgFaucetURL)

	c.Retries = v.GetInt(cfgFaucetRetries)
	if c.Retries < 0 {
		return config.ErrOutOfRange{Key: cfgFaucetRetries, Value: c.Retries, Min: 0, Max: "inf"}
	}

	c.Timeout = v.GetDuration(cfgFaucetTimeout)
	if c.Timeout <= 0 {
		return config.ErrOutOfRange{Key: cfgFaucetTimeout, Value: c.Timeout, Min: "0s", Max: "inf"}
	}

	return nil
}

func (c *Config) Bind(v *viper.Viper, cmd *cobra.Command) error {
	cmd.PersistentFlags().String(cfgFaucetURL, "", "url of the faucet service. Derived from ledger.url if not set")
	cmd.PersistentFlags().Int(cfgFaucetRetries, 2, "retries of a faucet request when the faucet is unavailable")
	cmd.PersistentFlags().Duration(cfgFaucetTimeout, 30*time.Second, "timeout of a faucet request")

	return nil
}
