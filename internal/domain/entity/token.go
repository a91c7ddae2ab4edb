package entity

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// TokenBalance identifies a fungible asset on a network together with the
// holder's current balance. Balance is kept in decimal form (smallest-unit-free);
// use BalanceInSmallestUnit for wei-level arithmetic.
type TokenBalance struct {
	TokenID   string // "<networkId>:<address>" or "<networkId>:native"
	NetworkID string
	Address   string // hex token address, empty for the native asset
	Symbol    string
	Decimals  uint8
	Balance   *big.Rat

	IsNative      bool
	IsFeeCurrency bool

	// Set for tokens that pay fees through a proxy contract rather than directly.
	FeeCurrencyAdapterAddress  string
	FeeCurrencyAdapterDecimals uint8
}

// BalanceInSmallestUnit returns the balance shifted into the token's smallest
// unit, rounded down. A nil balance counts as zero.
func (t TokenBalance) BalanceInSmallestUnit() *big.Int {
	if t.Balance == nil {
		return new(big.Int)
	}
	scaled := new(big.Rat).Mul(t.Balance, new(big.Rat).SetInt(pow10(t.Decimals)))
	return new(big.Int).Quo(scaled.Num(), scaled.Denom())
}

// FeeCurrencyAddress resolves the address that tags transactions paying fees
// in this token. Native assets return nil: the fee-currency field must be
// absent on the wire for them, not zeroed. Tokens that are neither native nor
// direct fee currencies must carry an adapter address.
func (t TokenBalance) FeeCurrencyAddress() (*common.Address, error) {
	switch {
	case t.IsNative:
		return nil, nil
	case t.IsFeeCurrency:
		addr := common.HexToAddress(t.Address)
		return &addr, nil
	case t.FeeCurrencyAdapterAddress != "":
		addr := common.HexToAddress(t.FeeCurrencyAdapterAddress)
		return &addr, nil
	}
	return nil, fmt.Errorf("cannot resolve fee currency address for token %s: not native, not a fee currency, and no adapter configured", t.TokenID)
}

// FeeDecimals returns the decimal count matching the given fee-currency tag.
// An absent tag means fees are paid natively and requires a native token;
// a present tag must match either the token itself or its adapter.
func (t TokenBalance) FeeDecimals(feeCurrency *common.Address) (uint8, error) {
	if feeCurrency == nil {
		if !t.IsNative {
			return 0, fmt.Errorf("transaction pays fees natively but candidate %s is not the native asset", t.TokenID)
		}
		return t.Decimals, nil
	}
	hex := feeCurrency.Hex()
	switch {
	case strings.EqualFold(hex, t.Address):
		return t.Decimals, nil
	case t.FeeCurrencyAdapterAddress != "" && strings.EqualFold(hex, t.FeeCurrencyAdapterAddress):
		return t.FeeCurrencyAdapterDecimals, nil
	}
	return 0, fmt.Errorf("fee currency tag %s does not match token %s", hex, t.TokenID)
}

func pow10(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}
