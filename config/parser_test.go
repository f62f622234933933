package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type endpointConfig struct {
	URL string
}

func (c *endpointConfig) Bind(v *viper.Viper, cmd *cobra.Command) error {
	cmd.PersistentFlags().String("ledger.url", "http://localhost:8000", "ledger url")
	return nil
}

func (c *endpointConfig) Configure(v *viper.Viper) error {
	c.URL = v.GetString("ledger.url")
	if len(c.URL) == 0 {
		return ErrKeyNotSet{Key: "ledger.url"}
	}
	return nil
}

type testConfig struct {
	Endpoint endpointConfig
}

func (c *testConfig) Use() string       { return "test" }
func (c *testConfig) EnvPrefix() string { return "CONFIG_TEST" }
func (c *testConfig) Binders() []Binder { return []Binder{&c.Endpoint} }

func TestParseDefaults(t *testing.T) {
	c := testConfig{}
	p, err := Generate(&c)
	require.Nil(t, err)

	assert.Nil(t, p.Parse(nil))
	assert.Equal(t, "http://localhost:8000", c.Endpoint.URL)
}

func TestParseFlags(t *testing.T) {
	c := testConfig{}
	p, err := Generate(&c)
	require.Nil(t, err)

	assert.Nil(t, p.Parse([]string{"--ledger.url", "http://ledger:8000"}))
	assert.Equal(t, "http://ledger:8000", c.Endpoint.URL)
	assert.Equal(t, ErrAlreadyParsed, p.Parse(nil))
}

func TestParseEnv(t *testing.T) {
	require.Nil(t, os.Setenv("CONFIG_TEST_LEDGER_URL", "http://env:8000"))
	defer func() { _ = os.Unsetenv("CONFIG_TEST_LEDGER_URL") }()

	c := testConfig{}
	p, err := Generate(&c)
	require.Nil(t, err)

	assert.Nil(t, p.Parse(nil))
	assert.Equal(t, "http://env:8000", c.Endpoint.URL)
}

func TestParseFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "config")
	require.Nil(t, err)
	defer func() { _ = os.RemoveAll(dir) }()

	path := filepath.Join(dir, "gateway.toml")
	require.Nil(t, ioutil.WriteFile(path, []byte("[ledger]\nurl = \"http://file:8000\"\n"), 0600))

	c := testConfig{}
	p, err := Generate(&c)
	require.Nil(t, err)

	assert.Nil(t, p.Parse([]string{"--config.path", path}))
	assert.Equal(t, "http://file:8000", c.Endpoint.URL)
}

func TestParseFileInvalidExtension(t *testing.T) {
	c := testConfig{}
	p, err := Generate(&c)
	require.Nil(t, err)

	err = p.Parse([]string{"--config.path", "gateway.json"})
	assert.IsType(t, ErrInvalidValue{}, err)
}
