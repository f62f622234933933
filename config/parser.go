package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the root configuration of a binary
type Config interface {
	Use() string
	EnvPrefix() string
	Binders() []Binder
}

// Parser resolves a Config from flags, environment and an optional
// configuration file, in that order of precedence
type Parser struct {
	Config Config

	file *File
	cmd  *cobra.Command
	v    *viper.Viper
}

// Parse parses the provided arguments and configures all the binders
func (p *Parser) Parse(args []string) error {
	if p.cmd.PersistentFlags().Parsed() {
		return ErrAlreadyParsed
	}

	if err := p.cmd.PersistentFlags().Parse(args); err != nil {
		return ErrParseFlags{err}
	}

	// keep file first so that any parameters read from the file are used
	// as defaults for the other flags
	binders := append([]Binder{p.file}, p.Config.Binders()...)
	for _, c := range binders {
		if err := c.Configure(p.v); err != nil {
			return err
		}
	}

	return nil
}

// Usage prints the flags accepted by the parser
func (p *Parser) Usage() error {
	return p.cmd.Usage()
}

// Command returns the cobra command that holds the flags
func (p *Parser) Command() *cobra.Command {
	return p.cmd
}

// Generate creates a Parser for the provided configuration. All
// environment variables start with the config's EnvPrefix and are set
// by replacing `.` with `_`. For example, with prefix LEDGER_GW the key
// wallet.mnemonic can be set with LEDGER_GW_WALLET_MNEMONIC
func Generate(config Config) (*Parser, error) {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{Use: config.Use()}
	file := File{}
	binders := append([]Binder{&file}, config.Binders()...)

	for _, c := range binders {
		if err := c.Bind(v, cmd); err != nil {
			return nil, fmt.Errorf("failed to bind flags %s", err.Error())
		}
	}

	if err := v.BindPFlags(cmd.PersistentFlags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags %s", err.Error())
	}

	return &Parser{file: &file, Config: config, cmd: cmd, v: v}, nil
}
