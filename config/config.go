package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the operator-facing daemon configuration.
type Config struct {
	RPCAddress  string `toml:"RPCAddress"`
	DataDir     string `toml:"DataDir"`
	NetworkName string `toml:"NetworkName"`
	Environment string `toml:"Environment"`
	LogFile     string `toml:"LogFile"`

	// OwnerAddress is the platform owner: fee treasury and reputation
	// administrator. Bech32, required.
	OwnerAddress string `toml:"OwnerAddress"`
	// PlatformFeeBps is the payout fee in basis points.
	PlatformFeeBps uint32 `toml:"PlatformFeeBps"`
	// AdminToken gates the administrative RPC methods. Falls back to the
	// BOUNTY_RPC_TOKEN environment variable when empty.
	AdminToken string `toml:"AdminToken"`
	// EventBuffer bounds the retained notification records served over RPC.
	EventBuffer int `toml:"EventBuffer"`

	// Genesis pre-funds accounts on first boot: bech32 address -> amount in
	// base units (decimal string).
	Genesis map[string]string `toml:"genesis"`
}

const (
	defaultRPCAddress  = "127.0.0.1:8645"
	defaultDataDir     = "./data"
	defaultNetworkName = "bounty-local"
	defaultFeeBps      = 250
	defaultEventBuffer = 1024
)

// Load loads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.RPCAddress) == "" {
		c.RPCAddress = defaultRPCAddress
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.NetworkName) == "" {
		c.NetworkName = defaultNetworkName
	}
	if c.PlatformFeeBps == 0 {
		c.PlatformFeeBps = defaultFeeBps
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = defaultEventBuffer
	}
	if strings.TrimSpace(c.AdminToken) == "" {
		c.AdminToken = strings.TrimSpace(os.Getenv("BOUNTY_RPC_TOKEN"))
	}
}

// Validate rejects configurations the daemon cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OwnerAddress) == "" {
		return fmt.Errorf("config: OwnerAddress is required")
	}
	if c.PlatformFeeBps > 10_000 {
		return fmt.Errorf("config: PlatformFeeBps must not exceed 10000")
	}
	for addr, amount := range c.Genesis {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("config: genesis entry with empty address")
		}
		v, ok := new(big.Int).SetString(strings.TrimSpace(amount), 10)
		if !ok || v.Sign() <= 0 {
			return fmt.Errorf("config: genesis balance for %s must be a positive decimal", addr)
		}
	}
	return nil
}

// GenesisBalances parses the configured genesis allocations.
func (c *Config) GenesisBalances() (map[string]*big.Int, error) {
	out := make(map[string]*big.Int, len(c.Genesis))
	for addr, amount := range c.Genesis {
		v, ok := new(big.Int).SetString(strings.TrimSpace(amount), 10)
		if !ok {
			return nil, fmt.Errorf("config: invalid genesis balance for %s", addr)
		}
		out[strings.TrimSpace(addr)] = v
	}
	return out, nil
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
