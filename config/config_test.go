package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abcfe/avax-types/common/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(file, []byte(`
[Common]
Level = "alpha"
ServiceName = "test"
NetworkID = 5

[LogInfo]
Path = "~/logs/test"

[DB]
Path = "/tmp/keys"

[Custody]
Endpoint = "http://127.0.0.1:8090"

[RPC]
Endpoint = "http://127.0.0.1:9650/ext/bc/C/rpc"
ChainID = 43113
`), 0o600))

	cfg, err := NewConfig(file)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), cfg.Common.NetworkID)
	assert.Equal(t, filepath.Join(utils.HomeDir(), "logs/test"), cfg.LogInfo.Path)
	assert.Equal(t, "/tmp/keys", cfg.DB.Path)
	assert.Equal(t, uint64(43113), cfg.RPC.ChainID)
	assert.Equal(t, 10*time.Second, cfg.CustodyTimeout())
	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.False(t, cfg.Server.ServeHotKey)
	assert.Empty(t, cfg.Server.AuthToken)
}

func TestDefaultConfigFileParses(t *testing.T) {
	cfg, err := NewConfig("config.toml")
	require.NoError(t, err)
	assert.Equal(t, uint32(12345), cfg.Common.NetworkID)
	assert.Equal(t, 8090, cfg.Server.RestPort)
	assert.Equal(t, 50, cfg.Server.SignRateLimit)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.False(t, cfg.Server.ServeHotKey)
	assert.Equal(t, "m/44'/60'/0'/0/0", cfg.Wallet.DerivationPath)
}

func TestTokensFromEnv(t *testing.T) {
	t.Setenv(EnvSignerToken, "server-secret")
	t.Setenv(EnvCustodyToken, "client-secret")
	cfg, err := NewConfig("config.toml")
	require.NoError(t, err)
	assert.Equal(t, "server-secret", cfg.Server.AuthToken)
	assert.Equal(t, "client-secret", cfg.Custody.Token)
}

func TestNewConfigMissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestMnemonicFromEnv(t *testing.T) {
	t.Setenv(EnvMnemonic, "words")
	t.Setenv(EnvMnemonicPassphrase, "pass")
	m, p := Mnemonic()
	assert.Equal(t, "words", m)
	assert.Equal(t, "pass", p)
}
