// Package feemath computes batch fee costs. All functions are pure: they take
// an estimated batch and return amounts in the fee currency's smallest unit,
// so they can be verified without any RPC.
package feemath

import (
	"fmt"
	"math/big"

	"txprepare/internal/domain/entity"
)

// MaxGasFee returns the worst-case fee for the batch: every unit of gas
// charged at the transaction's cap. Missing gas or maxFeePerGas on any
// transaction is a programmer error and returns an error.
func MaxGasFee(txs []entity.TransactionRequest) (*big.Int, error) {
	total := new(big.Int)
	for i, tx := range txs {
		if tx.Gas == 0 {
			return nil, fmt.Errorf("transaction %d has no gas", i)
		}
		if tx.MaxFeePerGas == nil {
			return nil, fmt.Errorf("transaction %d has no maxFeePerGas", i)
		}
		cost := new(big.Int).Mul(new(big.Int).SetUint64(tx.Gas), tx.MaxFeePerGas)
		total.Add(total, cost)
	}
	return total, nil
}

// EstimatedGasFee returns the expected fee for the batch: the precise gas
// estimate (falling back to the padded ceiling) charged at
// min(baseFeePerGas + maxPriorityFeePerGas, maxFeePerGas). A missing priority
// fee defaults to zero; missing gas or base/max fee fields are errors.
func EstimatedGasFee(txs []entity.TransactionRequest) (*big.Int, error) {
	total := new(big.Int)
	for i, tx := range txs {
		gasUse := tx.EstimatedGasUse
		if gasUse == 0 {
			gasUse = tx.Gas
		}
		if gasUse == 0 {
			return nil, fmt.Errorf("transaction %d has no gas estimate", i)
		}
		if tx.BaseFeePerGas == nil {
			return nil, fmt.Errorf("transaction %d has no baseFeePerGas", i)
		}
		if tx.MaxFeePerGas == nil {
			return nil, fmt.Errorf("transaction %d has no maxFeePerGas", i)
		}
		feePerGas := new(big.Int).Set(tx.BaseFeePerGas)
		if tx.MaxPriorityFeePerGas != nil {
			feePerGas.Add(feePerGas, tx.MaxPriorityFeePerGas)
		}
		if feePerGas.Cmp(tx.MaxFeePerGas) > 0 {
			feePerGas.Set(tx.MaxFeePerGas)
		}
		total.Add(total, new(big.Int).Mul(new(big.Int).SetUint64(gasUse), feePerGas))
	}
	return total, nil
}

// FeeDecimals resolves the decimal count used to shift the batch's fee totals
// into decimal form. Every transaction's fee-currency tag must resolve to the
// same count against the candidate; a mixed batch is a programmer error.
func FeeDecimals(txs []entity.TransactionRequest, feeCurrency entity.TokenBalance) (uint8, error) {
	if len(txs) == 0 {
		return 0, fmt.Errorf("cannot resolve fee decimals for an empty batch")
	}
	decimals, err := feeCurrency.FeeDecimals(txs[0].FeeCurrency)
	if err != nil {
		return 0, err
	}
	for i := 1; i < len(txs); i++ {
		d, err := feeCurrency.FeeDecimals(txs[i].FeeCurrency)
		if err != nil {
			return 0, err
		}
		if d != decimals {
			return 0, fmt.Errorf("transaction %d resolves to %d fee decimals, batch started with %d", i, d, decimals)
		}
	}
	return decimals, nil
}
