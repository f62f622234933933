package config

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const cfgConfigPath = "config.path"

// File is the Binder that loads an optional configuration file. It
// must be configured before any other Binder so that the values it
// reads act as defaults for the rest
type File struct {
	Path string
}

func (f *File) Bind(v *viper.Viper, cmd *cobra.Command) error {
	cmd.PersistentFlags().String(cfgConfigPath, "", "sets the configuration file")
	return nil
}

func (f *File) Configure(v *viper.Viper) error {
	f.Path = v.GetString(cfgConfigPath)
	if len(f.Path) == 0 {
		return nil
	}

	ext := strings.TrimPrefix(path.Ext(f.Path), ".")
	if ext != "toml" && ext != "yaml" {
		return ErrInvalidValue{
			Key:          cfgConfigPath,
			InvalidValue: f.Path,
			Values:       []string{"*.toml", "*.yaml"},
		}
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("failed to open config file %s", err.Error())
	}

	defer func() { _ = file.Close() }()
	v.SetConfigType(ext)
	if err := v.ReadConfig(file); err != nil {
		return fmt.Errorf("failed to read config file %s", err.Error())
	}

	return nil
}
