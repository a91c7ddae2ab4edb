package port

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"txprepare/internal/domain/entity"
)

// PrepareParams are the inputs of a single preparation call.
//
// SpendTokenAmount is in the spend token's smallest unit; nil or zero means
// "no spend, just estimate fees". FeeCurrencies are tried strictly in the
// given order and must all belong to the same network.
type PrepareParams struct {
	Origin           string
	FeeCurrencies    []entity.TokenBalance
	SpendToken       *entity.TokenBalance
	SpendTokenAmount *big.Int
	Transactions     []entity.TransactionRequest

	// DecreasedAmountGasFeeMultiplier is the safety margin applied to the fee
	// when suggesting a decreased spend amount. Nil means the service default.
	DecreasedAmountGasFeeMultiplier *big.Rat

	// IsGasSubsidized bypasses every fee-sufficiency check because an
	// external party covers the fee.
	IsGasSubsidized bool

	// SkipSpendBalanceCheck disables the precondition that SpendTokenAmount
	// must not exceed the spend token's balance.
	SkipSpendBalanceCheck bool
}

// TransferParams describe a single transfer to prepare. For ERC-20 transfers
// the spend token's contract is the transaction target; for native transfers
// the value rides on the transaction itself.
type TransferParams struct {
	Origin        string
	From          common.Address
	To            common.Address
	SpendToken    entity.TokenBalance
	Amount        *big.Int // smallest units
	FeeCurrencies []entity.TokenBalance
}

// Preparer is the engine's entry point: it selects a fee currency, fills in
// gas and fee fields, and reports affordability as a tagged result.
type Preparer interface {
	PrepareTransactions(ctx context.Context, params PrepareParams) (entity.PreparedTransactionsResult, error)
	PrepareERC20Transfer(ctx context.Context, params TransferParams) (entity.PreparedTransactionsResult, error)
	PrepareNativeTransfer(ctx context.Context, params TransferParams) (entity.PreparedTransactionsResult, error)
}
