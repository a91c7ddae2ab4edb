package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"txprepare/internal/app/port"
	"txprepare/internal/domain/entity"
)

// StaticGasPadding is the fixed extra gas allowance added to pre-estimated
// transactions when fees are paid in a non-native currency. The fee-currency
// code path costs extra gas on-chain that the original estimate did not
// account for.
const StaticGasPadding uint64 = 50_000

// errNoEstimate marks a candidate whose estimation failed because the sender
// cannot afford the batch with that fee currency. The selector treats it as
// "try the next candidate"; it never reaches the caller.
var errNoEstimate = errors.New("no gas estimate for this fee currency")

// estimateTransaction runs a single gas estimation and returns a copy of the
// transaction with gas and fee fields populated. Recoverable estimation
// failures collapse into errNoEstimate; anything else propagates.
func (s *PreparationService) estimateTransaction(
	ctx context.Context,
	client port.BlockchainClient,
	tx entity.TransactionRequest,
	fees entity.FeePerGas,
	feeCurrency *common.Address,
) (entity.TransactionRequest, error) {
	out := tx.Clone()
	out.MaxFeePerGas = fees.MaxFeePerGas
	out.MaxPriorityFeePerGas = fees.MaxPriorityFeePerGas
	out.BaseFeePerGas = fees.BaseFeePerGas
	out.FeeCurrency = feeCurrency

	gas, err := client.EstimateGas(ctx, out)
	if err != nil {
		var estErr *entity.EstimateGasError
		if errors.As(err, &estErr) && estErr.Recoverable() {
			s.logger.Debug("Gas estimation found the sender cannot afford the transaction",
				"network", client.Definition().NetworkID,
				"kind", estErr.Kind.String())
			return entity.TransactionRequest{}, errNoEstimate
		}
		return entity.TransactionRequest{}, fmt.Errorf("unexpected gas estimation failure: %w", err)
	}
	out.Gas = gas
	return out, nil
}

// estimateBatch estimates the whole batch for one candidate fee currency.
// Fee-per-gas values are fetched once for the candidate. Transactions that
// already carry gas keep it (padded for non-native candidates) and are never
// re-estimated. A single recoverable failure abandons the batch: a partial
// result is never returned.
func (s *PreparationService) estimateBatch(
	ctx context.Context,
	client port.BlockchainClient,
	netDef entity.NetworkDefinition,
	txs []entity.TransactionRequest,
	feeCurrency *common.Address,
) ([]entity.TransactionRequest, error) {
	fees, err := s.feeSource.FeePerGas(ctx, netDef, feeCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fee-per-gas values: %w", err)
	}

	out := make([]entity.TransactionRequest, 0, len(txs))
	for _, tx := range txs {
		if tx.Gas != 0 {
			padded := tx.Clone()
			padded.MaxFeePerGas = fees.MaxFeePerGas
			padded.MaxPriorityFeePerGas = fees.MaxPriorityFeePerGas
			padded.BaseFeePerGas = fees.BaseFeePerGas
			padded.FeeCurrency = feeCurrency
			if feeCurrency != nil {
				padded.Gas += StaticGasPadding
				if padded.EstimatedGasUse != 0 {
					padded.EstimatedGasUse += StaticGasPadding
				}
			}
			out = append(out, padded)
			continue
		}

		estimated, err := s.estimateTransaction(ctx, client, tx, fees, feeCurrency)
		if err != nil {
			return nil, err
		}
		out = append(out, estimated)
	}
	return out, nil
}
