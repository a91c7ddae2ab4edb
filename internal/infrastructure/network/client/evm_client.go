package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"

	"txprepare/internal/app/port"
	"txprepare/internal/domain/entity"
)

// EVMClient implements the port.BlockchainClient interface for EVM-compatible chains.
type EVMClient struct {
	ethClient      *ethclient.Client
	netDef         entity.NetworkDefinition
	limiter        *rate.Limiter
	rpcCallTimeout time.Duration
}

// estimateCallArgs is the eth_estimateGas parameter object. FeeCurrency is
// omitted entirely for native-fee transactions; chain serialization rules
// require an absent field, not a null one.
type estimateCallArgs struct {
	From                 common.Address  `json:"from"`
	To                   *common.Address `json:"to,omitempty"`
	Data                 hexutil.Bytes   `json:"data,omitempty"`
	Value                *hexutil.Big    `json:"value,omitempty"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
	FeeCurrency          *common.Address `json:"feeCurrency,omitempty"`
}

// NewEVMClient creates a new EVM client for the given network definition.
// It tries the primary RPC URL first and falls back to the configured
// alternatives.
func NewEVMClient(netDef entity.NetworkDefinition, limiter *rate.Limiter, connectionTimeout, rpcCallTimeout time.Duration) (port.BlockchainClient, error) {
	rpcURLs := append([]string{netDef.PrimaryRPCURL}, netDef.FallbackRPCURLs...)
	var lastErr error

	for _, rpcURL := range rpcURLs {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		ethClient, err := ethclient.DialContext(ctx, rpcURL)
		cancel()

		if err == nil {
			if limiter == nil {
				limiter = rate.NewLimiter(rate.Inf, 0)
			}
			return &EVMClient{
				ethClient:      ethClient,
				netDef:         netDef,
				limiter:        limiter,
				rpcCallTimeout: rpcCallTimeout,
			}, nil
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}

	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
}

// EstimateGas simulates the transaction via eth_estimateGas and returns the
// gas units consumed. Failures are classified into entity.EstimateGasError at
// this boundary so callers never match on node error strings.
func (c *EVMClient) EstimateGas(ctx context.Context, tx entity.TransactionRequest) (uint64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	args := estimateCallArgs{
		From:        tx.From,
		FeeCurrency: tx.FeeCurrency,
	}
	if (tx.To != common.Address{}) {
		to := tx.To
		args.To = &to
	}
	if len(tx.Data) > 0 {
		args.Data = hexutil.Bytes(tx.Data)
	}
	if tx.Value != nil {
		args.Value = (*hexutil.Big)(tx.Value)
	}
	if tx.MaxFeePerGas != nil {
		args.MaxFeePerGas = (*hexutil.Big)(tx.MaxFeePerGas)
	}
	if tx.MaxPriorityFeePerGas != nil {
		args.MaxPriorityFeePerGas = (*hexutil.Big)(tx.MaxPriorityFeePerGas)
	}

	rpcCallCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	var gas hexutil.Uint64
	if err := c.ethClient.Client().CallContext(rpcCallCtx, &gas, "eth_estimateGas", args); err != nil {
		return 0, classifyEstimateError(err)
	}
	return uint64(gas), nil
}

// FeePerGas returns the current EIP-1559 fee components. For the native asset
// it combines the suggested tip with the latest header's base fee; for a
// non-native fee currency it queries the node's fee-currency-aware gas price
// surface in one batch call.
func (c *EVMClient) FeePerGas(ctx context.Context, feeCurrency *common.Address) (entity.FeePerGas, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return entity.FeePerGas{}, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	rpcCallCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	if feeCurrency == nil {
		return c.nativeFeePerGas(rpcCallCtx)
	}
	return c.feeCurrencyFeePerGas(rpcCallCtx, *feeCurrency)
}

func (c *EVMClient) nativeFeePerGas(ctx context.Context) (entity.FeePerGas, error) {
	tip, err := c.ethClient.SuggestGasTipCap(ctx)
	if err != nil {
		return entity.FeePerGas{}, fmt.Errorf("failed to fetch gas tip cap for %s: %w", c.netDef.Name, err)
	}
	header, err := c.ethClient.HeaderByNumber(ctx, nil)
	if err != nil {
		return entity.FeePerGas{}, fmt.Errorf("failed to fetch latest header for %s: %w", c.netDef.Name, err)
	}
	if header.BaseFee == nil {
		return entity.FeePerGas{}, fmt.Errorf("network %s does not report a base fee (pre-EIP-1559?)", c.netDef.Name)
	}
	return maxFeeWithHeadroom(header.BaseFee, tip), nil
}

func (c *EVMClient) feeCurrencyFeePerGas(ctx context.Context, feeCurrency common.Address) (entity.FeePerGas, error) {
	var (
		gasPrice hexutil.Big
		tip      hexutil.Big
	)
	batch := []rpc.BatchElem{
		{
			Method: "eth_gasPrice",
			Args:   []interface{}{feeCurrency},
			Result: &gasPrice,
		},
		{
			Method: "eth_maxPriorityFeePerGas",
			Args:   []interface{}{feeCurrency},
			Result: &tip,
		},
	}
	if err := c.ethClient.Client().BatchCallContext(ctx, batch); err != nil {
		return entity.FeePerGas{}, fmt.Errorf("fee-per-gas batch call failed for %s: %w", c.netDef.Name, err)
	}
	for _, elem := range batch {
		if elem.Error != nil {
			return entity.FeePerGas{}, fmt.Errorf("%s failed for fee currency %s on %s: %w", elem.Method, feeCurrency.Hex(), c.netDef.Name, elem.Error)
		}
	}

	// The node quotes gasPrice = baseFee + tip in fee-currency units.
	baseFee := new(big.Int).Sub(gasPrice.ToInt(), tip.ToInt())
	if baseFee.Sign() < 0 {
		return entity.FeePerGas{}, fmt.Errorf("fee currency %s on %s quotes tip above gas price", feeCurrency.Hex(), c.netDef.Name)
	}
	return maxFeeWithHeadroom(baseFee, tip.ToInt()), nil
}

// maxFeeWithHeadroom caps the fee at twice the observed base fee plus the
// tip, so the prepared transaction survives base fee growth between
// preparation and submission.
func maxFeeWithHeadroom(baseFee, tip *big.Int) entity.FeePerGas {
	maxFee := new(big.Int).Add(new(big.Int).Mul(baseFee, big.NewInt(2)), tip)
	return entity.FeePerGas{
		MaxFeePerGas:         maxFee,
		MaxPriorityFeePerGas: new(big.Int).Set(tip),
		BaseFeePerGas:        new(big.Int).Set(baseFee),
	}
}

// classifyEstimateError translates free-text node errors into a structured
// kind. This is the only place in the codebase allowed to match on RPC error
// strings.
func classifyEstimateError(err error) error {
	msg := strings.ToLower(err.Error())
	kind := entity.EstimateErrorUnclassified
	switch {
	case strings.Contains(msg, "insufficient funds"):
		kind = entity.EstimateErrorInsufficientFunds
	case strings.Contains(msg, "transfer value exceeded balance"),
		strings.Contains(msg, "insufficient balance"):
		kind = entity.EstimateErrorValueExceedsBalance
	case strings.Contains(msg, "gas required exceeds allowance"):
		kind = entity.EstimateErrorGasExceedsAllowance
	case strings.Contains(msg, "execution reverted"):
		kind = entity.EstimateErrorExecutionReverted
	}
	return &entity.EstimateGasError{Kind: kind, Err: err}
}

// Definition returns the network definition for this client.
func (c *EVMClient) Definition() entity.NetworkDefinition {
	return c.netDef
}
