package tokenloader

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"txprepare/internal/app/port"
	"txprepare/internal/domain/entity"
)

// tokenRecord is the on-disk shape of one token entry. Balance is a decimal
// string to keep arbitrary precision through JSON.
type tokenRecord struct {
	TokenID                    string `json:"tokenId"`
	Address                    string `json:"address"`
	Symbol                     string `json:"symbol"`
	Decimals                   uint8  `json:"decimals"`
	Balance                    string `json:"balance"`
	IsNative                   bool   `json:"isNative"`
	IsFeeCurrency              bool   `json:"isFeeCurrency"`
	FeeCurrencyAdapterAddress  string `json:"feeCurrencyAdapterAddress,omitempty"`
	FeeCurrencyAdapterDecimals uint8  `json:"feeCurrencyAdapterDecimals,omitempty"`
}

// TokenFileLoader reads per-network token files ("<dir>/<networkId>.json")
// into TokenBalance records.
type TokenFileLoader struct {
	tokenDirPath string
	logger       port.Logger
}

// NewTokenLoader creates a new TokenFileLoader.
func NewTokenLoader(tokenDirPath string, logger port.Logger) *TokenFileLoader {
	return &TokenFileLoader{
		tokenDirPath: tokenDirPath,
		logger:       logger,
	}
}

// LoadTokens reads the token file for the given network.
func (l *TokenFileLoader) LoadTokens(netDef entity.NetworkDefinition) ([]entity.TokenBalance, error) {
	filePath := filepath.Join(l.tokenDirPath, netDef.NetworkID+".json")
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file %s: %w", filePath, err)
	}

	var records []tokenRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token file %s: %w", filePath, err)
	}

	tokens := make([]entity.TokenBalance, 0, len(records))
	for _, record := range records {
		token, err := record.toEntity(netDef)
		if err != nil {
			l.logger.Warn("Skipping invalid token record", "file", filePath, "tokenId", record.TokenID, "error", err)
			continue
		}
		tokens = append(tokens, token)
	}
	l.logger.Info("Loaded token records", "network", netDef.NetworkID, "count", len(tokens))
	return tokens, nil
}

func (r tokenRecord) toEntity(netDef entity.NetworkDefinition) (entity.TokenBalance, error) {
	balance := new(big.Rat)
	if r.Balance != "" {
		parsed, ok := new(big.Rat).SetString(r.Balance)
		if !ok {
			return entity.TokenBalance{}, fmt.Errorf("balance %q is not a decimal number", r.Balance)
		}
		balance = parsed
	}
	tokenID := r.TokenID
	if tokenID == "" {
		suffix := r.Address
		if r.IsNative {
			suffix = "native"
		}
		tokenID = netDef.NetworkID + ":" + suffix
	}
	if !r.IsNative && r.Address == "" {
		return entity.TokenBalance{}, fmt.Errorf("non-native token has no address")
	}
	return entity.TokenBalance{
		TokenID:                    tokenID,
		NetworkID:                  netDef.NetworkID,
		Address:                    r.Address,
		Symbol:                     r.Symbol,
		Decimals:                   r.Decimals,
		Balance:                    balance,
		IsNative:                   r.IsNative,
		IsFeeCurrency:              r.IsFeeCurrency,
		FeeCurrencyAdapterAddress:  r.FeeCurrencyAdapterAddress,
		FeeCurrencyAdapterDecimals: r.FeeCurrencyAdapterDecimals,
	}, nil
}
