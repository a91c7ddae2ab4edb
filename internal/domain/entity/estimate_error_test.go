package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateGasErrorRecoverable(t *testing.T) {
	cases := []struct {
		kind        EstimateGasErrorKind
		recoverable bool
	}{
		{EstimateErrorInsufficientFunds, true},
		{EstimateErrorValueExceedsBalance, true},
		{EstimateErrorGasExceedsAllowance, true},
		{EstimateErrorExecutionReverted, false},
		{EstimateErrorUnclassified, false},
	}
	for _, c := range cases {
		t.Run(c.kind.String(), func(t *testing.T) {
			err := &EstimateGasError{Kind: c.kind, Err: errors.New("node says no")}
			assert.Equal(t, c.recoverable, err.Recoverable())
		})
	}
}

func TestEstimateGasErrorUnwrap(t *testing.T) {
	cause := errors.New("insufficient funds for gas * price + value")
	err := &EstimateGasError{Kind: EstimateErrorInsufficientFunds, Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insufficient-funds")

	var estErr *EstimateGasError
	assert.ErrorAs(t, error(err), &estErr)
}
