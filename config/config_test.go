package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
OwnerAddress = "bty1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq5e06fc"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, defaultRPCAddress, cfg.RPCAddress)
	require.Equal(t, defaultDataDir, cfg.DataDir)
	require.Equal(t, defaultNetworkName, cfg.NetworkName)
	require.Equal(t, uint32(defaultFeeBps), cfg.PlatformFeeBps)
	require.Equal(t, defaultEventBuffer, cfg.EventBuffer)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
RPCAddress = "0.0.0.0:9000"
DataDir = "/var/lib/bountyd"
OwnerAddress = "bty1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq5e06fc"
PlatformFeeBps = 500
AdminToken = "sekrit"

[genesis]
"bty1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq5e06fc" = "1000000"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9000", cfg.RPCAddress)
	require.Equal(t, uint32(500), cfg.PlatformFeeBps)
	require.Equal(t, "sekrit", cfg.AdminToken)

	balances, err := cfg.GenesisBalances()
	require.NoError(t, err)
	require.Len(t, balances, 1)
	for _, v := range balances {
		require.Equal(t, int64(1_000_000), v.Int64())
	}
}

func TestLoadRejectsMissingOwner(t *testing.T) {
	path := writeConfig(t, `RPCAddress = "0.0.0.0:9000"`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsExcessiveFee(t *testing.T) {
	path := writeConfig(t, `
OwnerAddress = "bty1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq5e06fc"
PlatformFeeBps = 10001
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadGenesisBalance(t *testing.T) {
	path := writeConfig(t, `
OwnerAddress = "bty1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq5e06fc"

[genesis]
"bty1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq5e06fc" = "-5"
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, defaultRPCAddress, cfg.RPCAddress)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestAdminTokenFromEnvironment(t *testing.T) {
	t.Setenv("BOUNTY_RPC_TOKEN", "env-token")
	path := writeConfig(t, `
OwnerAddress = "bty1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq5e06fc"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "env-token", cfg.AdminToken)
}
