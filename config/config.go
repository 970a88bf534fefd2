package config

import (
	"fmt"
	"os"
	"time"

	"github.com/abcfe/avax-types/common/utils"
	"github.com/naoina/toml"
)

// DefaultPath is searched for upwards from the working directory when no
// config file is given.
const DefaultPath = "config/config.toml"

// Environment variables for secrets that never go in the config file.
const (
	EnvMnemonic           = "AVAX_MNEMONIC"
	EnvMnemonicPassphrase = "AVAX_MNEMONIC_PASSPHRASE"
	EnvSignerToken        = "AVAX_SIGNER_TOKEN"
	EnvCustodyToken       = "AVAX_CUSTODY_TOKEN"
)

// DefaultHost keeps the REST API off external interfaces unless a host is
// configured.
const DefaultHost = "127.0.0.1"

type Common struct {
	Level       string // local, alpha, dev, prod
	ServiceName string
	NetworkID   uint32 // 1 mainnet, 5 fuji, 12345 local
}

type LogInfo struct {
	Path       string
	MaxAgeHour int
	RotateHour int
}

type DB struct {
	Path string
}

type Server struct {
	Host     string `toml:"Host"`
	RestPort int    `toml:"RestPort"`
	// per-client signing requests per second, 0 keeps the default
	SignRateLimit int `toml:"SignRateLimit"`
	// AuthToken is the bearer token the custody routes require. Empty
	// disables them. EnvSignerToken overrides it.
	AuthToken string `toml:"AuthToken"`
	// ServeHotKey lets custody clients sign with the mnemonic key.
	ServeHotKey bool `toml:"ServeHotKey"`
}

// Custody selects the remote signer. Endpoint set means the HTTP custody
// service, otherwise AWS KMS in Region.
type Custody struct {
	Region     string `toml:"Region"`
	KeyID      string `toml:"KeyID"`
	Endpoint   string `toml:"Endpoint"`
	Token      string `toml:"Token"`
	TimeoutSec int    `toml:"TimeoutSec"`
}

// Wallet configures the mnemonic-derived hot key.
type Wallet struct {
	// BIP-44 path, empty means m/44'/60'/0'/0/0
	DerivationPath string `toml:"DerivationPath"`
}

type RPC struct {
	Endpoint string `toml:"Endpoint"`
	// expected chain id, checked against eth_chainId when non-zero
	ChainID uint64 `toml:"ChainID"`
}

type Config struct {
	Common  Common
	LogInfo LogInfo
	DB      DB
	Server  Server
	Custody Custody
	Wallet  Wallet
	RPC     RPC
}

func NewConfig(filepath string) (*Config, error) {
	if filepath == "" {
		workDir, _ := os.Getwd()
		found, ok := utils.FindUpward(workDir, DefaultPath)
		if !ok {
			return nil, fmt.Errorf("no %s found above %s", DefaultPath, workDir)
		}
		filepath = found
	}

	if file, err := os.Open(filepath); err != nil {
		return nil, err
	} else {
		defer file.Close()

		c := new(Config)
		if err := toml.NewDecoder(file).Decode(c); err != nil {
			return nil, err
		} else {
			c.sanitize()
			return c, nil
		}
	}
}

func (p *Config) sanitize() {
	p.LogInfo.Path = utils.ExpandHome(p.LogInfo.Path)
	p.DB.Path = utils.ExpandHome(p.DB.Path)
	if p.Custody.TimeoutSec <= 0 {
		p.Custody.TimeoutSec = 10
	}
	if p.Server.Host == "" {
		p.Server.Host = DefaultHost
	}
	if token := os.Getenv(EnvSignerToken); token != "" {
		p.Server.AuthToken = token
	}
	if token := os.Getenv(EnvCustodyToken); token != "" {
		p.Custody.Token = token
	}
}

func (p *Config) GetLogInfoConfig() *LogInfo {
	return &p.LogInfo
}

// CustodyTimeout bounds a single custody call.
func (p *Config) CustodyTimeout() time.Duration {
	return time.Duration(p.Custody.TimeoutSec) * time.Second
}

// Mnemonic reads the hot key phrase and passphrase from the environment.
func Mnemonic() (string, string) {
	return os.Getenv(EnvMnemonic), os.Getenv(EnvMnemonicPassphrase)
}
