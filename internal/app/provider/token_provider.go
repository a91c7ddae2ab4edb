package provider

import (
	"fmt"
	"sort"
	"sync"

	"txprepare/internal/app/port"
	"txprepare/internal/domain/entity"
	"txprepare/internal/infrastructure/tokenloader"
)

// tokenRegistry implements port.TokenRegistry over the file-based loader,
// caching per-network records after the first load.
type tokenRegistry struct {
	loader *tokenloader.TokenFileLoader
	logger port.Logger

	mu     sync.Mutex
	tokens map[string][]entity.TokenBalance // keyed by network ID
}

// NewTokenRegistry creates a new registry backed by the given loader.
func NewTokenRegistry(loader *tokenloader.TokenFileLoader, logger port.Logger) port.TokenRegistry {
	return &tokenRegistry{
		loader: loader,
		logger: logger,
		tokens: make(map[string][]entity.TokenBalance),
	}
}

func (r *tokenRegistry) networkTokens(netDef entity.NetworkDefinition) ([]entity.TokenBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tokens, ok := r.tokens[netDef.NetworkID]; ok {
		return tokens, nil
	}
	tokens, err := r.loader.LoadTokens(netDef)
	if err != nil {
		return nil, err
	}
	r.tokens[netDef.NetworkID] = tokens
	return tokens, nil
}

// FeeCurrencies returns the network's fee-paying candidates in priority
// order: the native asset first, then the rest in file order. Records that
// cannot resolve a fee-currency address are dropped with a warning; paying
// fees with them could never work.
func (r *tokenRegistry) FeeCurrencies(netDef entity.NetworkDefinition) ([]entity.TokenBalance, error) {
	tokens, err := r.networkTokens(netDef)
	if err != nil {
		return nil, err
	}

	candidates := make([]entity.TokenBalance, 0, len(tokens))
	for _, token := range tokens {
		if !token.IsNative && !token.IsFeeCurrency && token.FeeCurrencyAdapterAddress == "" {
			continue
		}
		if _, err := token.FeeCurrencyAddress(); err != nil {
			r.logger.Warn("Dropping fee currency candidate", "tokenId", token.TokenID, "error", err)
			continue
		}
		candidates = append(candidates, token)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].IsNative && !candidates[j].IsNative
	})
	return candidates, nil
}

// TokenByID looks up a single token record on the network.
func (r *tokenRegistry) TokenByID(netDef entity.NetworkDefinition, tokenID string) (entity.TokenBalance, error) {
	tokens, err := r.networkTokens(netDef)
	if err != nil {
		return entity.TokenBalance{}, err
	}
	for _, token := range tokens {
		if token.TokenID == tokenID {
			return token, nil
		}
	}
	return entity.TokenBalance{}, fmt.Errorf("token %s not found on network %s", tokenID, netDef.NetworkID)
}
