package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"txprepare/internal/app/port"
	"txprepare/internal/config"
	"txprepare/internal/domain/entity"
)

const warmUpConcurrency = 4

// evmClientProvider implements the port.BlockchainClientProvider interface.
type evmClientProvider struct {
	clients           map[string]port.BlockchainClient
	mu                sync.Mutex
	logger            port.Logger
	limiters          map[string]*rate.Limiter
	connectionTimeout time.Duration
	rpcCallTimeout    time.Duration
}

// NewEVMClientProvider creates a new EVMClientProvider. Per-network rate
// limiters are built from the node configuration; networks without limiter
// settings run unthrottled.
func NewEVMClientProvider(cfg *config.Config, logger port.Logger) port.BlockchainClientProvider {
	limiters := make(map[string]*rate.Limiter, len(cfg.Networks))
	for _, node := range cfg.Networks {
		limiters[node.NetworkID] = newLimiter(node, logger)
	}
	return &evmClientProvider{
		clients:           make(map[string]port.BlockchainClient),
		logger:            logger,
		limiters:          limiters,
		connectionTimeout: time.Duration(cfg.RpcClient.ConnectionTimeoutMs) * time.Millisecond,
		rpcCallTimeout:    time.Duration(cfg.RpcClient.CallTimeoutMs) * time.Millisecond,
	}
}

func newLimiter(node config.NetworkNode, logger port.Logger) *rate.Limiter {
	if node.LimiterPeriod == "" || node.LimiterBurst <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	period, err := time.ParseDuration(node.LimiterPeriod)
	if err != nil || period <= 0 {
		logger.Warn("Invalid limiterPeriod, network will run unthrottled", "network", node.NetworkID, "limiterPeriod", node.LimiterPeriod)
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(period), node.LimiterBurst)
}

// GetClient retrieves a blockchain client for the given network definition.
// It caches clients to avoid reconnecting repeatedly.
func (p *evmClientProvider) GetClient(netDef entity.NetworkDefinition) (port.BlockchainClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, exists := p.clients[netDef.NetworkID]; exists {
		return client, nil
	}

	p.logger.Info("Creating new EVM client", "network", netDef.Name, "rpc_primary", netDef.PrimaryRPCURL)
	newClient, err := NewEVMClient(netDef, p.limiters[netDef.NetworkID], p.connectionTimeout, p.rpcCallTimeout)
	if err != nil {
		p.logger.Error("Failed to create EVM client", "network", netDef.Name, "error", err)
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", netDef.Name, err)
	}

	p.clients[netDef.NetworkID] = newClient
	return newClient, nil
}

// WarmUp dials every configured network concurrently so the first
// preparation call does not pay connection latency.
func (p *evmClientProvider) WarmUp(ctx context.Context, netDefs []entity.NetworkDefinition) error {
	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(warmUpConcurrency)

	for _, netDef := range netDefs {
		eg.Go(func() error {
			if _, err := p.GetClient(netDef); err != nil {
				return err
			}
			return nil
		})
	}
	return eg.Wait()
}
