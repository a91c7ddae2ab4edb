package entity

import "fmt"

// EstimateGasErrorKind classifies why a gas estimation RPC failed. The RPC
// client translates free-text node errors into a kind once, at the transport
// boundary; everything above operates on the enum.
type EstimateGasErrorKind int

const (
	// EstimateErrorUnclassified is a failure the client could not recognize.
	EstimateErrorUnclassified EstimateGasErrorKind = iota
	// EstimateErrorInsufficientFunds: the sender cannot cover value plus fee.
	EstimateErrorInsufficientFunds
	// EstimateErrorValueExceedsBalance: the transferred value alone exceeds the sender's balance.
	EstimateErrorValueExceedsBalance
	// EstimateErrorGasExceedsAllowance: the node reports "gas required exceeds allowance".
	EstimateErrorGasExceedsAllowance
	// EstimateErrorExecutionReverted: the simulated call reverted for a reason unrelated to balance.
	EstimateErrorExecutionReverted
)

func (k EstimateGasErrorKind) String() string {
	switch k {
	case EstimateErrorInsufficientFunds:
		return "insufficient-funds"
	case EstimateErrorValueExceedsBalance:
		return "value-exceeds-balance"
	case EstimateErrorGasExceedsAllowance:
		return "gas-exceeds-allowance"
	case EstimateErrorExecutionReverted:
		return "execution-reverted"
	}
	return "unclassified"
}

// EstimateGasError wraps a failed gas estimation with its classification.
type EstimateGasError struct {
	Kind EstimateGasErrorKind
	Err  error
}

func (e *EstimateGasError) Error() string {
	return fmt.Sprintf("gas estimation failed (%s): %v", e.Kind, e.Err)
}

func (e *EstimateGasError) Unwrap() error {
	return e.Err
}

// Recoverable reports whether the failure means the sender simply cannot
// afford the transaction with this fee currency, in which case trying the
// next candidate makes sense. Reverts and unrecognized failures are not
// recoverable: another fee currency will not fix them.
func (e *EstimateGasError) Recoverable() bool {
	switch e.Kind {
	case EstimateErrorInsufficientFunds, EstimateErrorValueExceedsBalance, EstimateErrorGasExceedsAllowance:
		return true
	}
	return false
}
