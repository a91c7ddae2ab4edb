package entity

import "math/big"

// PreparedTransactionsResult is the outcome of one preparation call. It has
// exactly three implementations; callers must switch over all of them.
// Affordability outcomes are values of this type, never errors.
type PreparedTransactionsResult interface {
	preparedTransactionsResult()
}

// PreparedPossible means a fee currency was found: every transaction in
// Transactions carries gas and fee fields for FeeCurrency.
type PreparedPossible struct {
	Transactions []TransactionRequest
	FeeCurrency  TokenBalance
}

// PreparedNeedDecreaseSpendAmount means the spend token doubles as the only
// viable fee currency and the requested amount leaves no room for fees.
// The caller may retry with DecreasedSpendAmount. Fee figures are in the fee
// currency's decimal form.
type PreparedNeedDecreaseSpendAmount struct {
	FeeCurrency              TokenBalance
	MaxGasFeeInDecimal       *big.Rat
	EstimatedGasFeeInDecimal *big.Rat
	DecreasedSpendAmount     *big.Rat
}

// PreparedNotEnoughBalance means no candidate could cover the fees; terminal
// for this call. FeeCurrencies echoes the full candidate list for display.
type PreparedNotEnoughBalance struct {
	FeeCurrencies []TokenBalance
}

func (PreparedPossible) preparedTransactionsResult()                {}
func (PreparedNeedDecreaseSpendAmount) preparedTransactionsResult() {}
func (PreparedNotEnoughBalance) preparedTransactionsResult()        {}
