package log

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const cfgLoggingLevel = "logging.level"

var levels = []string{"debug", "info", "warn", "error"}

// Config for the root logger of the gateway
type Config struct {
	Level string
}

// Log implementation of Loggable
func (c *Config) Log(fields Fields) {
	fields.Add(cfgLoggingLevel, c.Level)
}

// Configure implementation of config.Binder
func (c *Config) Configure(v *viper.Viper) error {
	c.Level = strings.ToLower(v.GetString(cfgLoggingLevel))
	if len(c.Level) == 0 {
		c.Level = "debug"
	}

	for _, level := range levels {
		if level == c.Level {
			return nil
		}
	}

	return fmt.Errorf("configuration key %s set to invalid value %s. "+
		"Accepted values are: %s.", cfgLoggingLevel, c.Level, strings.Join(levels, ", "))
}

// Bind implementation of config.Binder
func (c *Config) Bind(v *viper.Viper, cmd *cobra.Command) error {
	cmd.PersistentFlags().String(cfgLoggingLevel, "debug",
		"sets the minimum logging level for the logger. Options are "+
			strings.Join(levels, ", ")+".")
	return nil
}
