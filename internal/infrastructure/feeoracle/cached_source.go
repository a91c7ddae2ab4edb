// Package feeoracle caches fee-per-gas quotes. The selector still fetches
// once per candidate within a preparation call; this layer absorbs repeated
// calls across API requests hitting the same network/fee-currency pair.
package feeoracle

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"txprepare/internal/app/port"
	"txprepare/internal/domain/entity"
)

const nativeCacheKeySuffix = "native"

// CachedFeeSource implements port.FeePerGasSource with a TTL cache in front
// of the per-network RPC clients.
type CachedFeeSource struct {
	provider port.BlockchainClientProvider
	quotes   *cache.Cache
	logger   *zap.Logger
}

// NewCachedFeeSource creates a CachedFeeSource with the given quote TTL.
func NewCachedFeeSource(provider port.BlockchainClientProvider, ttl, cleanupInterval time.Duration, logger *zap.Logger) *CachedFeeSource {
	return &CachedFeeSource{
		provider: provider,
		quotes:   cache.New(ttl, cleanupInterval),
		logger:   logger.Named("CachedFeeSource"),
	}
}

// FeePerGas returns cached fee components when fresh, otherwise queries the
// network's client and caches the result.
func (s *CachedFeeSource) FeePerGas(ctx context.Context, netDef entity.NetworkDefinition, feeCurrency *common.Address) (entity.FeePerGas, error) {
	key := cacheKey(netDef.NetworkID, feeCurrency)
	if cached, found := s.quotes.Get(key); found {
		s.logger.Debug("Returning cached fee-per-gas quote", zap.String("key", key))
		return cached.(entity.FeePerGas), nil
	}

	client, err := s.provider.GetClient(netDef)
	if err != nil {
		return entity.FeePerGas{}, err
	}
	fees, err := client.FeePerGas(ctx, feeCurrency)
	if err != nil {
		return entity.FeePerGas{}, err
	}

	s.quotes.Set(key, fees, cache.DefaultExpiration)
	s.logger.Debug("Cached fee-per-gas quote",
		zap.String("key", key),
		zap.String("maxFeePerGas", fees.MaxFeePerGas.String()),
		zap.String("baseFeePerGas", fees.BaseFeePerGas.String()))
	return fees, nil
}

func cacheKey(networkID string, feeCurrency *common.Address) string {
	if feeCurrency == nil {
		return networkID + "|" + nativeCacheKeySuffix
	}
	return networkID + "|" + feeCurrency.Hex()
}
