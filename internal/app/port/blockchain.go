package port

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"txprepare/internal/domain/entity"
)

// BlockchainClient groups the per-network RPC operations the preparation
// engine needs. Implementations classify estimation failures into
// entity.EstimateGasError; timeouts and retries live in the transport.
type BlockchainClient interface {
	// EstimateGas simulates the transaction and returns the gas units it
	// consumes. The transaction's fee fields must already be populated; the
	// fee-currency tag, when present, is forwarded to the node.
	EstimateGas(ctx context.Context, tx entity.TransactionRequest) (uint64, error)

	// FeePerGas returns the current fee components for the network, in the
	// given fee currency (nil means the native asset).
	FeePerGas(ctx context.Context, feeCurrency *common.Address) (entity.FeePerGas, error)

	// Definition returns the network this client talks to.
	Definition() entity.NetworkDefinition
}

// BlockchainClientProvider hands out one cached client per network.
type BlockchainClientProvider interface {
	GetClient(netDef entity.NetworkDefinition) (BlockchainClient, error)

	// WarmUp dials all given networks up front so the first preparation call
	// does not pay connection latency.
	WarmUp(ctx context.Context, netDefs []entity.NetworkDefinition) error
}

// FeePerGasSource supplies fee-per-gas values keyed by network and optional
// fee currency. The selector fetches once per candidate; a caching
// implementation may absorb repeated calls across preparations.
type FeePerGasSource interface {
	FeePerGas(ctx context.Context, netDef entity.NetworkDefinition, feeCurrency *common.Address) (entity.FeePerGas, error)
}
