package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
  readTimeout: 10
networks:
  - chainID: 42220
    name: Celo
    networkId: celo-mainnet
    nativeSymbol: CELO
    nativeDecimals: 18
    endpoint: https://forno.celo.org
    fallbackRpcUrls:
      - https://rpc.ankr.com/celo
    limiterPeriod: 100ms
    limiterBurst: 5
logging:
  level: debug
preparation:
  decreasedAmountGasFeeMultiplier: 1.5
registry:
  tokenDirectory: /var/lib/txprepare/tokens
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 1.5, cfg.Preparation.DecreasedAmountGasFeeMultiplier)
	assert.Equal(t, "/var/lib/txprepare/tokens", cfg.Registry.TokenDirectory)

	require.Len(t, cfg.Networks, 1)
	network := cfg.Networks[0]
	assert.Equal(t, uint64(42220), network.ChainID)
	assert.Equal(t, "100ms", network.LimiterPeriod)

	def := network.Definition()
	assert.Equal(t, "celo-mainnet", def.NetworkID)
	assert.Equal(t, "https://forno.celo.org", def.PrimaryRPCURL)
	assert.Equal(t, []string{"https://rpc.ankr.com/celo"}, def.FallbackRPCURLs)
	assert.Equal(t, uint8(18), def.NativeDecimals)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
networks:
  - chainID: 42220
    name: Celo
    networkId: celo-mainnet
    endpoint: https://forno.celo.org
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(10000), cfg.RpcClient.ConnectionTimeoutMs)
	assert.Equal(t, int64(10000), cfg.RpcClient.CallTimeoutMs)
	assert.Equal(t, 15, cfg.FeeOracle.CacheTTLSeconds)
	assert.Equal(t, 60, cfg.FeeOracle.CleanupIntervalSeconds)
	assert.Equal(t, 1.0, cfg.Preparation.DecreasedAmountGasFeeMultiplier)
	assert.Equal(t, int64(5000), cfg.Analytics.RequestTimeoutMillis)
	assert.Equal(t, "data/tokens", cfg.Registry.TokenDirectory)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("missing networkId", func(t *testing.T) {
		path := writeConfig(t, `
networks:
  - chainID: 42220
    name: Celo
    endpoint: https://forno.celo.org
`)
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		path := writeConfig(t, `
networks:
  - chainID: 42220
    name: Celo
    networkId: celo-mainnet
`)
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "{not yaml")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestDefinitionsByID(t *testing.T) {
	cfg := &Config{Networks: []NetworkNode{
		{NetworkID: "celo-mainnet", Endpoint: "https://forno.celo.org"},
		{NetworkID: "celo-alfajores", Endpoint: "https://alfajores-forno.celo-testnet.org"},
	}}

	byID := cfg.DefinitionsByID()
	require.Len(t, byID, 2)
	assert.Equal(t, "https://forno.celo.org", byID["celo-mainnet"].PrimaryRPCURL)

	defs := cfg.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "celo-alfajores", defs[1].NetworkID)
}
