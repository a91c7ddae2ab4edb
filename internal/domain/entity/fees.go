package entity

import "math/big"

// FeePerGas holds the EIP-1559 fee components for one network/fee-currency
// pair, in the fee currency's smallest unit per gas.
type FeePerGas struct {
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	BaseFeePerGas        *big.Int
}
