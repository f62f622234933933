package gateway

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oasislabs/ledger-gateway/client"
	"github.com/oasislabs/ledger-gateway/config"
	"github.com/oasislabs/ledger-gateway/faucet"
	"github.com/oasislabs/ledger-gateway/log"
	"github.com/oasislabs/ledger-gateway/metrics"
	"github.com/oasislabs/ledger-gateway/tx"
	"github.com/oasislabs/ledger-gateway/wallet"
)

// Config is the general application's configuration
type Config struct {
	BindPublicConfig BindPublicConfig
	LedgerConfig     client.Config
	FaucetConfig     faucet.Config
	WalletConfig     wallet.Config
	TxConfig         tx.Config
	MetricsConfig    metrics.Config
	LoggingConfig    log.Config
}

func (c *Config) Use() string {
	return "ledger-gateway"
}

func (c *Config) EnvPrefix() string {
	return "LEDGER_GW"
}

func (c *Config) Binders() []config.Binder {
	return []config.Binder{
		&c.BindPublicConfig,
		&c.LedgerConfig,
		&c.FaucetConfig,
		&c.WalletConfig,
		&c.TxConfig,
		&c.MetricsConfig,
		&c.LoggingConfig,
	}
}

func (c *Config) Log(fields log.Fields) {
	c.BindPublicConfig.Log(fields)
	c.LedgerConfig.Log(fields)
	c.FaucetConfig.Log(fields)
	c.WalletConfig.Log(fields)
	c.TxConfig.Log(fields)
	c.MetricsConfig.Log(fields)
	c.LoggingConfig.Log(fields)
}

// BindConfig is the configuration for binding the exposed APIs
// to the computer network interface
type BindConfig struct {
	HttpInterface      string
	HttpPort           int32
	HttpReadTimeoutMs  int32
	HttpWriteTimeoutMs int32
	HttpMaxHeaderBytes int32
	HttpsEnabled       bool
	TlsCertificatePath string
	TlsPrivateKeyPath  string

	CorsEnabled        bool
	CorsAllowedOrigins []string
	CorsMaxAge         int
}

func (c *BindConfig) Configure(prefix string, v *viper.Viper) error {
	c.HttpInterface = v.GetString(prefix + ".http_interface")
	if len(c.HttpInterface) == 0 {
		return config.ErrKeyNotSet{Key: prefix + ".http_interface"}
	}

	c.HttpPort = v.GetInt32(prefix + ".http_port")
	if c.HttpPort > 65535 || c.HttpPort < 0 {
		return config.ErrOutOfRange{Key: prefix + ".http_port", Value: c.HttpPort, Min: 0, Max: 65535}
	}

	c.HttpReadTimeoutMs = v.GetInt32(prefix + ".http_read_timeout_ms")
	if c.HttpReadTimeoutMs < 0 {
		return config.ErrOutOfRange{Key: prefix + ".http_read_timeout_ms", Value: c.HttpReadTimeoutMs, Min: 0, Max: "inf"}
	}

	c.HttpWriteTimeoutMs = v.GetInt32(prefix + ".http_write_timeout_ms")
	if c.HttpWriteTimeoutMs < 0 {
		return config.ErrOutOfRange{Key: prefix + ".http_write_timeout_ms", Value: c.HttpWriteTimeoutMs, Min: 0, Max: "inf"}
	}

	c.HttpMaxHeaderBytes = v.GetInt32(prefix + ".http_max_header_bytes")
	if c.HttpMaxHeaderBytes < 0 {
		return config.ErrOutOfRange{Key: prefix + ".http_max_header_bytes", Value: c.HttpMaxHeaderBytes, Min: 0, Max: "inf"}
	}

	c.HttpsEnabled = v.GetBool(prefix + ".https_enabled")
	c.TlsCertificatePath = v.GetString(prefix + ".tls_certificate_path")
	c.TlsPrivateKeyPath = v.GetString(prefix + ".tls_private_key_path")

	if c.HttpsEnabled {
		if len(c.TlsCertificatePath) == 0 {
			return config.ErrKeyNotSet{Key: prefix + ".tls_certificate_path"}
		}
		if len(c.TlsPrivateKeyPath) == 0 {
			return config.ErrKeyNotSet{Key: prefix + ".tls_private_key_path"}
		}
	}

	c.CorsEnabled = v.GetBool(prefix + ".cors_enabled")
	c.CorsAllowedOrigins = v.GetStringSlice(prefix + ".cors_allowed_origins")
	c.CorsMaxAge = v.GetInt(prefix + ".cors_max_age")
	if c.CorsMaxAge < 0 {
		return config.ErrOutOfRange{Key: prefix + ".cors_max_age", Value: c.CorsMaxAge, Min: 0, Max: "inf"}
	}

	return nil
}

func (c *BindConfig) Bind(prefix string, v *viper.Viper, cmd *cobra.Command) error {
	cmd.PersistentFlags().String(prefix+".http_interface", "127.0.0.1",
		"interface to bind for http")
	cmd.PersistentFlags().Int32(prefix+".http_port", 1234,
		"port to listen to for http")
	cmd.PersistentFlags().Int32(prefix+".http_read_timeout_ms",
		10000, "http read timeout for http interface")
	cmd.PersistentFlags().Int32(prefix+".http_write_timeout_ms",
		10000, "http write timeout for http interface")
	cmd.PersistentFlags().Int32(prefix+".http_max_header_bytes",
		10000, "http max header bytes for http")
	cmd.PersistentFlags().Bool(prefix+".https_enabled",
		false, "if set the interface will listen with https. If this option is "+
			"set, then "+prefix+".tls_certificate_path and "+prefix+
			".tls_private_key_path must be set as well")
	cmd.PersistentFlags().String(prefix+".tls_certificate_path",
		"", "path to the tls certificate for https")
	cmd.PersistentFlags().String(prefix+".tls_private_key_path",
		"", "path to the private key for https")
	cmd.PersistentFlags().Bool(prefix+".cors_enabled",
		true, "if set cross origin requests are verified before being handled")
	cmd.PersistentFlags().StringSlice(prefix+".cors_allowed_origins",
		[]string{"*"}, "origins a cross origin request can be executed from")
	cmd.PersistentFlags().Int(prefix+".cors_max_age",
		0, "seconds the result of a preflight request can be cached")

	return nil
}

type BindPublicConfig struct {
	BindConfig
}

func (c *BindPublicConfig) Log(fields log.Fields) {
	fields.Add("bind_public.http_interface", c.BindConfig.HttpInterface)
	fields.Add("bind_public.http_port", c.BindConfig.HttpPort)
	fields.Add("bind_public.http_read_timeout_ms", c.BindConfig.HttpReadTimeoutMs)
	fields.Add("bind_public.http_write_timeout_ms", c.BindConfig.HttpWriteTimeoutMs)
	fields.Add("bind_public.http_max_header_bytes", c.BindConfig.HttpMaxHeaderBytes)
	fields.Add("bind_public.https_enabled", c.BindConfig.HttpsEnabled)
	fields.Add("bind_public.tls_certificate_path", c.BindConfig.TlsCertificatePath)
	fields.Add("bind_public.tls_private_key_path", c.BindConfig.TlsPrivateKeyPath)
	fields.Add("bind_public.cors_enabled", c.BindConfig.CorsEnabled)
	fields.Add("bind_public.cors_allowed_origins", c.BindConfig.CorsAllowedOrigins)
	fields.Add("bind_public.cors_max_age", c.BindConfig.CorsMaxAge)
}

func (c *BindPublicConfig) Configure(v *viper.Viper) error {
	return c.BindConfig.Configure("bind_public", v)
}

func (c *BindPublicConfig) Bind(v *viper.Viper, cmd *cobra.Command) error {
	return c.BindConfig.Bind("bind_public", v, cmd)
}
