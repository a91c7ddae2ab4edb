package service

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"txprepare/internal/app/port"
	"txprepare/internal/domain/entity"
	"txprepare/internal/pkg/erc20"
)

// When the spend token and the candidate fee currency are the same balance,
// a full-amount estimation is guaranteed to revert on the node's own balance
// check (value + fee > balance), masking the "could work with a smaller
// amount" case. The trial estimates at a reduced amount instead. The 4/5
// fraction is a heuristic, not a derived bound; it is tunable if fee-to-
// balance ratios ever make the 80% trial fail where a smaller fraction would
// have succeeded.
const (
	spendTrialNumerator   = 4
	spendTrialDenominator = 5
)

// spendTrialFees are the provisional fee figures of a reduced-amount trial,
// in the fee currency's decimal form. They decide feasibility and feed the
// decrease-amount result; they are never installed on final transactions.
type spendTrialFees struct {
	maxGasFee       *big.Rat
	estimatedGasFee *big.Rat
}

// reduceSpendAmount returns a copy of the batch with the spend amount scaled
// down to 4/5, rounded down. ERC-20 transfer calldata gets its amount word
// rewritten (recipient preserved verbatim), native transfers get Value
// replaced; any other transaction passes through unchanged.
func reduceSpendAmount(txs []entity.TransactionRequest, spendAmount *big.Int) ([]entity.TransactionRequest, error) {
	reduced := new(big.Int).Mul(spendAmount, big.NewInt(spendTrialNumerator))
	reduced.Div(reduced, big.NewInt(spendTrialDenominator))

	out := make([]entity.TransactionRequest, 0, len(txs))
	for i, tx := range txs {
		c := tx.Clone()
		switch {
		case erc20.IsTransfer(c.Data):
			data, err := erc20.WithTransferAmount(c.Data, reduced)
			if err != nil {
				return nil, fmt.Errorf("failed to rewrite transfer amount on transaction %d: %w", i, err)
			}
			c.Data = data
		case len(c.Data) == 0 && c.Value != nil && c.Value.Sign() > 0:
			c.Value = new(big.Int).Set(reduced)
		}
		out = append(out, c)
	}
	return out, nil
}

// trialEstimate runs the reduced-amount estimation for a same-token candidate
// and returns its provisional fee figures. errNoEstimate means the candidate
// cannot afford the batch even at 80% of the requested amount.
func (s *PreparationService) trialEstimate(
	ctx context.Context,
	client port.BlockchainClient,
	netDef entity.NetworkDefinition,
	txs []entity.TransactionRequest,
	spendAmount *big.Int,
	feeCurrency entity.TokenBalance,
	feeCurrencyAddr *common.Address,
) (*spendTrialFees, error) {
	reducedTxs, err := reduceSpendAmount(txs, spendAmount)
	if err != nil {
		return nil, err
	}

	estimated, err := s.estimateBatch(ctx, client, netDef, reducedTxs, feeCurrencyAddr)
	if err != nil {
		return nil, err
	}

	maxGasFee, estimatedGasFee, err := s.feesInDecimal(estimated, feeCurrency)
	if err != nil {
		return nil, err
	}
	return &spendTrialFees{maxGasFee: maxGasFee, estimatedGasFee: estimatedGasFee}, nil
}
