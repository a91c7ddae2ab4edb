package tokenloader

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txprepare/internal/domain/entity"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

var testNetwork = entity.NetworkDefinition{
	ChainID:   42220,
	Name:      "Celo",
	NetworkID: "celo-mainnet",
}

func writeTokenFile(t *testing.T, dir, networkID, content string) {
	t.Helper()
	path := filepath.Join(dir, networkID+".json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadTokens(t *testing.T) {
	dir := t.TempDir()
	writeTokenFile(t, dir, testNetwork.NetworkID, `[
		{"symbol": "CELO", "decimals": 18, "balance": "1.5", "isNative": true},
		{
			"tokenId": "celo-mainnet:cusd",
			"address": "0x765DE816845861e75A25fCA122bb6898B8B1282a",
			"symbol": "cUSD",
			"decimals": 18,
			"balance": "10",
			"isFeeCurrency": true
		},
		{"symbol": "BROKEN", "decimals": 18, "balance": "2"},
		{"symbol": "ALSO_BROKEN", "address": "0x9999999999999999999999999999999999999999", "balance": "not a number"}
	]`)

	loader := NewTokenLoader(dir, nopLogger{})
	tokens, err := loader.LoadTokens(testNetwork)
	require.NoError(t, err)

	// Both broken records are skipped, not fatal.
	require.Len(t, tokens, 2)

	native := tokens[0]
	assert.Equal(t, "celo-mainnet:native", native.TokenID)
	assert.True(t, native.IsNative)
	assert.Zero(t, native.Balance.Cmp(big.NewRat(3, 2)))

	cusd := tokens[1]
	assert.Equal(t, "celo-mainnet:cusd", cusd.TokenID)
	assert.Equal(t, testNetwork.NetworkID, cusd.NetworkID)
	assert.True(t, cusd.IsFeeCurrency)
	assert.Zero(t, cusd.Balance.Cmp(big.NewRat(10, 1)))
}

func TestLoadTokensDerivesTokenID(t *testing.T) {
	dir := t.TempDir()
	writeTokenFile(t, dir, testNetwork.NetworkID, `[
		{"address": "0x765DE816845861e75A25fCA122bb6898B8B1282a", "symbol": "cUSD", "decimals": 18, "isFeeCurrency": true}
	]`)

	loader := NewTokenLoader(dir, nopLogger{})
	tokens, err := loader.LoadTokens(testNetwork)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "celo-mainnet:0x765DE816845861e75A25fCA122bb6898B8B1282a", tokens[0].TokenID)
	assert.Zero(t, tokens[0].Balance.Sign())
}

func TestLoadTokensMissingFile(t *testing.T) {
	loader := NewTokenLoader(t.TempDir(), nopLogger{})
	_, err := loader.LoadTokens(testNetwork)
	assert.Error(t, err)
}

func TestLoadTokensMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	writeTokenFile(t, dir, testNetwork.NetworkID, `{not json`)

	loader := NewTokenLoader(dir, nopLogger{})
	_, err := loader.LoadTokens(testNetwork)
	assert.Error(t, err)
}
