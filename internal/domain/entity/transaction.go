package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TransactionRequest is a not-yet-submitted transaction. Callers supply From,
// To, Data and Value; the preparation engine fills in the gas and fee fields.
// A request lives for a single preparation call and is never persisted.
//
// Gas and EstimatedGasUse use zero as "unset", matching go-ethereum's CallMsg
// convention. A caller-populated Gas means "gas is already known, do not
// re-estimate".
type TransactionRequest struct {
	From  common.Address
	To    common.Address
	Data  []byte
	Value *big.Int

	Gas                  uint64
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	FeeCurrency          *common.Address // nil when fees are paid in the native asset

	// EstimatedGasUse is the precise gas estimate, as opposed to the padded
	// ceiling in Gas. BaseFeePerGas is the base fee in effect when the
	// estimate was taken; both feed the expected-cost computation.
	EstimatedGasUse uint64
	BaseFeePerGas   *big.Int
}

// Clone returns a deep copy so estimation never aliases caller-owned data.
func (t TransactionRequest) Clone() TransactionRequest {
	c := t
	if t.Data != nil {
		c.Data = append([]byte(nil), t.Data...)
	}
	if t.Value != nil {
		c.Value = new(big.Int).Set(t.Value)
	}
	if t.MaxFeePerGas != nil {
		c.MaxFeePerGas = new(big.Int).Set(t.MaxFeePerGas)
	}
	if t.MaxPriorityFeePerGas != nil {
		c.MaxPriorityFeePerGas = new(big.Int).Set(t.MaxPriorityFeePerGas)
	}
	if t.BaseFeePerGas != nil {
		c.BaseFeePerGas = new(big.Int).Set(t.BaseFeePerGas)
	}
	if t.FeeCurrency != nil {
		addr := *t.FeeCurrency
		c.FeeCurrency = &addr
	}
	return c
}

// CloneTransactions deep-copies a batch.
func CloneTransactions(txs []TransactionRequest) []TransactionRequest {
	out := make([]TransactionRequest, len(txs))
	for i, tx := range txs {
		out[i] = tx.Clone()
	}
	return out
}
