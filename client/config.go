package client

import (
	"net/url"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oasislabs/ledger-gateway/config"
	"github.com/oasislabs/ledger-gateway/log"
)

const (
	cfgLedgerURL         = "ledger.url"
	cfgLedgerRetries     = "ledger.retries"
	cfgLedgerBaseBackoff = "ledger.base_backoff"
	cfgLedgerMaxBackoff  = "ledger.max_backoff"
	cfgLedgerTimeout     = "ledger.timeout"
)

// Config is the configuration of the connection to the ledger node
type Config struct {
	// URL of the node's JSON-RPC endpoint
	URL string

	// Retries is the maximum number of attempts of a call that
	// fails because the node is busy or unavailable
	Retries uint

	// BaseBackoff and MaxBackoff bound the exponential backoff
	// between attempts
	BaseBackoff time.Duration
	MaxBackoff  time.Duration

	// Timeout of a single http request
	Timeout time.Duration
}

func (c *Config) Log(fields log.Fields) {
	fields.Add(cfgLedgerURL, c.URL)
	fields.Add(cfgLedgerRetries, c.Retries)
	fields.Add(cfgLedgerBaseBackoff, c.BaseBackoff)
	fields.Add(cfgLedgerMaxBackoff, c.MaxBackoff)
	fields.Add(cfgLedgerTimeout, c.Timeout)
}

func (c *Config) Configure(v *viper.Viper) error {
	c.URL = v.GetString(cfgLedgerURL)
	if len(c.URL) == 0 {
		return config.ErrKeyNotSet{Key: cfgLedgerURL}
	}
	if _, err := url.ParseRequestURI(c.URL); err != nil {
		return config.ErrInvalidValue{Key: cfgLedgerURL, InvalidValue: c.URL, Values: []string{"an absolute url"}}
	}

	c.Retries = v.GetUint(cfgLedgerRetries)
	if c.Retries == 0 {
		return config.ErrOutOfRange{Key: cfgLedgerRetries, Value: c.Retries, Min: 1, Max: "inf"}
	}

	c.BaseBackoff = v.GetDuration(cfgLedgerBaseBackoff)
	c.MaxBackoff = v.GetDuration(cfgLedgerMaxBackoff)
	if c.BaseBackoff <= 0 || c.MaxBackoff < c.BaseBackoff {
		return config.ErrOutOfRange{Key: cfgLedgerMaxBackoff, Value: c.MaxBackoff, Min: c.BaseBackoff, Max: "inf"}
	}

	c.Timeout = v.GetDuration(cfgLedgerTimeout)
	if c.Timeout <= 0 {
		return config.ErrOutOfRange{Key: cfgLedgerTimeout, Value: c.Timeout, Min: "0s", Max: "inf"}
	}

	return nil
}

func (c *Config) Bind(v *viper.Viper, cmd *cobra.Command) error {
	cmd.PersistentFlags().String(cfgLedgerURL, "", "url of the ledger node json-rpc endpoint")
	cmd.PersistentFlags().Uint(cfgLedgerRetries, 3, "maximum attempts of a call when the ledger is busy or unavailable")
	cmd.PersistentFlags().Duration(cfgLedgerBaseBackoff, 500*time.Millisecond, "base backoff between attempts")
	cmd.PersistentFlags().Duration(cfgLedgerMaxBackoff, 5*time.Second, "maximum backoff between attempts")
	cmd.PersistentFlags().Duration(cfgLedgerTimeout, 10*time.Second, "timeout of a single request to the ledger")

	return nil
}
