package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"txprepare/internal/app/port"
	"txprepare/internal/domain/entity"
	"txprepare/internal/pkg/erc20"
	"txprepare/internal/pkg/feemath"
	"txprepare/internal/pkg/utils"
)

// PreparationService implements port.Preparer: it walks the candidate fee
// currencies in caller order, estimates the batch against each, and returns
// the first viable outcome. Candidates and transactions are evaluated
// strictly sequentially; the loop short-circuits at the first winner, so
// parallel evaluation would only waste RPC calls.
type PreparationService struct {
	networks          map[string]entity.NetworkDefinition
	clients           port.BlockchainClientProvider
	feeSource         port.FeePerGasSource
	analytics         port.AnalyticsSink
	logger            port.Logger
	defaultMultiplier *big.Rat
}

// NewPreparationService creates a new PreparationService.
// defaultMultiplier is the decreased-amount gas fee safety margin used when a
// call does not supply its own; nil means 1.
func NewPreparationService(
	networks map[string]entity.NetworkDefinition,
	clients port.BlockchainClientProvider,
	feeSource port.FeePerGasSource,
	analytics port.AnalyticsSink,
	logger port.Logger,
	defaultMultiplier *big.Rat,
) *PreparationService {
	if defaultMultiplier == nil {
		defaultMultiplier = big.NewRat(1, 1)
	}
	return &PreparationService{
		networks:          networks,
		clients:           clients,
		feeSource:         feeSource,
		analytics:         analytics,
		logger:            logger,
		defaultMultiplier: defaultMultiplier,
	}
}

// spendTokenFees remembers the fee figures of a rejected spend-token
// candidate for the decrease-amount fallback.
type spendTokenFees struct {
	feeCurrency     entity.TokenBalance
	maxGasFee       *big.Rat
	estimatedGasFee *big.Rat
}

// PrepareTransactions selects a fee currency for the batch and returns the
// prepared transactions, a decrease-amount suggestion, or a not-enough-
// balance outcome. Precondition violations are errors; affordability
// outcomes are values.
func (s *PreparationService) PrepareTransactions(ctx context.Context, params port.PrepareParams) (entity.PreparedTransactionsResult, error) {
	spendAmount := params.SpendTokenAmount
	if spendAmount == nil {
		spendAmount = new(big.Int)
	}
	if spendAmount.Sign() > 0 && params.SpendToken == nil {
		return nil, errors.New("spend token is required when the spend amount is positive")
	}
	if params.SpendToken != nil && !params.SkipSpendBalanceCheck &&
		spendAmount.Cmp(params.SpendToken.BalanceInSmallestUnit()) > 0 {
		return nil, fmt.Errorf("spend amount %s exceeds balance of %s", spendAmount, params.SpendToken.TokenID)
	}
	if len(params.FeeCurrencies) == 0 {
		return entity.PreparedNotEnoughBalance{FeeCurrencies: nil}, nil
	}

	networkID := params.FeeCurrencies[0].NetworkID
	for _, feeCurrency := range params.FeeCurrencies {
		if feeCurrency.NetworkID != networkID {
			return nil, fmt.Errorf("fee currencies span networks %s and %s; one network per call", networkID, feeCurrency.NetworkID)
		}
	}
	if params.SpendToken != nil && params.SpendToken.NetworkID != networkID {
		return nil, fmt.Errorf("spend token network %s does not match fee currency network %s", params.SpendToken.NetworkID, networkID)
	}
	netDef, ok := s.networks[networkID]
	if !ok {
		return nil, fmt.Errorf("unknown network %s", networkID)
	}
	client, err := s.clients.GetClient(netDef)
	if err != nil {
		return nil, err
	}

	multiplier := params.DecreasedAmountGasFeeMultiplier
	if multiplier == nil {
		multiplier = s.defaultMultiplier
	}

	var spendAmountDecimal *big.Rat
	if params.SpendToken != nil {
		spendAmountDecimal = utils.RatFromSmallestUnit(spendAmount, params.SpendToken.Decimals)
	}

	var recorded *spendTokenFees
	for _, feeCurrency := range params.FeeCurrencies {
		balance := balanceRat(feeCurrency)
		if balance.Sign() <= 0 && !params.IsGasSubsidized {
			s.logger.Debug("Skipping fee currency with non-positive balance", "tokenId", feeCurrency.TokenID)
			continue
		}
		feeCurrencyAddr, err := feeCurrency.FeeCurrencyAddress()
		if err != nil {
			return nil, err
		}

		sameToken := params.SpendToken != nil && params.SpendToken.TokenID == feeCurrency.TokenID
		if sameToken && spendAmount.Sign() > 0 && !params.IsGasSubsidized {
			trial, err := s.trialEstimate(ctx, client, netDef, params.Transactions, spendAmount, feeCurrency, feeCurrencyAddr)
			if errors.Is(err, errNoEstimate) {
				s.logger.Debug("Reduced-amount trial failed, trying next fee currency", "tokenId", feeCurrency.TokenID)
				continue
			}
			if err != nil {
				return nil, err
			}
			spendPlusFee := new(big.Rat).Add(spendAmountDecimal, trial.maxGasFee)
			if spendPlusFee.Cmp(balance) > 0 {
				// The full amount cannot fit next to the fee; remember the
				// trial figures for a decrease-amount suggestion and move on
				// without a doomed full-amount estimation.
				recorded = &spendTokenFees{
					feeCurrency:     feeCurrency,
					maxGasFee:       trial.maxGasFee,
					estimatedGasFee: trial.estimatedGasFee,
				}
				continue
			}
			// The 80% trial says the full amount fits. The trial figures are
			// advisory only; fall through to the real full-amount estimation.
		}

		estimatedTxs, err := s.estimateBatch(ctx, client, netDef, params.Transactions, feeCurrencyAddr)
		if errors.Is(err, errNoEstimate) {
			s.logger.Debug("Batch estimation not possible, trying next fee currency", "tokenId", feeCurrency.TokenID)
			continue
		}
		if err != nil {
			return nil, err
		}

		maxGasFee, estimatedGasFee, err := s.feesInDecimal(estimatedTxs, feeCurrency)
		if err != nil {
			return nil, err
		}
		if sameToken {
			recorded = &spendTokenFees{
				feeCurrency:     feeCurrency,
				maxGasFee:       maxGasFee,
				estimatedGasFee: estimatedGasFee,
			}
		}

		if !params.IsGasSubsidized {
			if maxGasFee.Cmp(balance) > 0 {
				s.logger.Debug("Max gas fee exceeds candidate balance",
					"tokenId", feeCurrency.TokenID,
					"maxGasFee", utils.FormatRat(maxGasFee, feeCurrency.Decimals))
				continue
			}
			if sameToken && new(big.Rat).Add(spendAmountDecimal, maxGasFee).Cmp(balance) > 0 {
				continue
			}
		}

		s.logger.Info("Prepared transactions",
			"network", networkID,
			"feeCurrency", feeCurrency.TokenID,
			"transactionCount", len(estimatedTxs),
			"origin", params.Origin)
		return entity.PreparedPossible{Transactions: estimatedTxs, FeeCurrency: feeCurrency}, nil
	}

	s.analytics.Track(ctx, port.PreparationEvent{
		Name:      port.EventInsufficientBalanceForGas,
		Origin:    params.Origin,
		NetworkID: networkID,
	})

	if recorded == nil || recorded.maxGasFee.Cmp(balanceRat(recorded.feeCurrency)) > 0 {
		s.logger.Info("No fee currency can cover the gas fees",
			"network", networkID,
			"candidateCount", len(params.FeeCurrencies),
			"origin", params.Origin)
		return entity.PreparedNotEnoughBalance{FeeCurrencies: params.FeeCurrencies}, nil
	}

	adjustedMaxFee := new(big.Rat).Mul(recorded.maxGasFee, multiplier)
	decreasedSpendAmount := new(big.Rat).Sub(balanceRat(recorded.feeCurrency), adjustedMaxFee)
	s.logger.Info("Spend amount must decrease to leave room for gas",
		"network", networkID,
		"feeCurrency", recorded.feeCurrency.TokenID,
		"decreasedSpendAmount", utils.FormatRat(decreasedSpendAmount, recorded.feeCurrency.Decimals),
		"origin", params.Origin)
	return entity.PreparedNeedDecreaseSpendAmount{
		FeeCurrency:              recorded.feeCurrency,
		MaxGasFeeInDecimal:       recorded.maxGasFee,
		EstimatedGasFeeInDecimal: recorded.estimatedGasFee,
		DecreasedSpendAmount:     decreasedSpendAmount,
	}, nil
}

// PrepareERC20Transfer builds a single token transfer and delegates to
// PrepareTransactions.
func (s *PreparationService) PrepareERC20Transfer(ctx context.Context, params port.TransferParams) (entity.PreparedTransactionsResult, error) {
	if params.SpendToken.IsNative || params.SpendToken.Address == "" {
		return nil, fmt.Errorf("token %s cannot be transferred as an ERC-20", params.SpendToken.TokenID)
	}
	tx := entity.TransactionRequest{
		From: params.From,
		To:   common.HexToAddress(params.SpendToken.Address),
		Data: erc20.TransferData(params.To, params.Amount),
	}
	return s.PrepareTransactions(ctx, port.PrepareParams{
		Origin:           params.Origin,
		FeeCurrencies:    params.FeeCurrencies,
		SpendToken:       &params.SpendToken,
		SpendTokenAmount: params.Amount,
		Transactions:     []entity.TransactionRequest{tx},
	})
}

// PrepareNativeTransfer builds a single native-asset transfer and delegates
// to PrepareTransactions.
func (s *PreparationService) PrepareNativeTransfer(ctx context.Context, params port.TransferParams) (entity.PreparedTransactionsResult, error) {
	if !params.SpendToken.IsNative {
		return nil, fmt.Errorf("token %s is not the native asset", params.SpendToken.TokenID)
	}
	tx := entity.TransactionRequest{
		From:  params.From,
		To:    params.To,
		Value: new(big.Int).Set(params.Amount),
	}
	return s.PrepareTransactions(ctx, port.PrepareParams{
		Origin:           params.Origin,
		FeeCurrencies:    params.FeeCurrencies,
		SpendToken:       &params.SpendToken,
		SpendTokenAmount: params.Amount,
		Transactions:     []entity.TransactionRequest{tx},
	})
}

// feesInDecimal computes the batch's max and estimated fee and shifts both
// into the fee currency's decimal form.
func (s *PreparationService) feesInDecimal(txs []entity.TransactionRequest, feeCurrency entity.TokenBalance) (*big.Rat, *big.Rat, error) {
	maxGasFee, err := feemath.MaxGasFee(txs)
	if err != nil {
		return nil, nil, err
	}
	estimatedGasFee, err := feemath.EstimatedGasFee(txs)
	if err != nil {
		return nil, nil, err
	}
	decimals, err := feemath.FeeDecimals(txs, feeCurrency)
	if err != nil {
		return nil, nil, err
	}
	return utils.RatFromSmallestUnit(maxGasFee, decimals), utils.RatFromSmallestUnit(estimatedGasFee, decimals), nil
}

func balanceRat(token entity.TokenBalance) *big.Rat {
	if token.Balance == nil {
		return new(big.Rat)
	}
	return token.Balance
}
