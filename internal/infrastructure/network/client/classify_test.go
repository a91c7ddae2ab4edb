package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txprepare/internal/domain/entity"
)

func TestClassifyEstimateError(t *testing.T) {
	cases := []struct {
		name        string
		msg         string
		kind        entity.EstimateGasErrorKind
		recoverable bool
	}{
		{
			name:        "insufficient funds",
			msg:         "insufficient funds for gas * price + value: balance 0",
			kind:        entity.EstimateErrorInsufficientFunds,
			recoverable: true,
		},
		{
			name:        "fee currency balance check",
			msg:         "execution reverted: transfer value exceeded balance of sender",
			kind:        entity.EstimateErrorValueExceedsBalance,
			recoverable: true,
		},
		{
			name:        "insufficient balance wording",
			msg:         "insufficient balance for transfer",
			kind:        entity.EstimateErrorValueExceedsBalance,
			recoverable: true,
		},
		{
			name:        "gas allowance",
			msg:         "gas required exceeds allowance (81000)",
			kind:        entity.EstimateErrorGasExceedsAllowance,
			recoverable: true,
		},
		{
			name:        "contract revert",
			msg:         "execution reverted: ERC20: transfer amount exceeds allowance",
			kind:        entity.EstimateErrorExecutionReverted,
			recoverable: false,
		},
		{
			name:        "unrecognized failure",
			msg:         "connection refused",
			kind:        entity.EstimateErrorUnclassified,
			recoverable: false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cause := errors.New(c.msg)
			classified := classifyEstimateError(cause)

			var estErr *entity.EstimateGasError
			require.ErrorAs(t, classified, &estErr)
			assert.Equal(t, c.kind, estErr.Kind)
			assert.Equal(t, c.recoverable, estErr.Recoverable())
			assert.ErrorIs(t, classified, cause)
		})
	}
}

func TestClassifyEstimateErrorIsDeterministic(t *testing.T) {
	cause := errors.New("Insufficient Funds for transfer")

	var first, second *entity.EstimateGasError
	require.ErrorAs(t, classifyEstimateError(cause), &first)
	require.ErrorAs(t, classifyEstimateError(cause), &second)
	assert.Equal(t, first.Kind, second.Kind)
	assert.Equal(t, entity.EstimateErrorInsufficientFunds, first.Kind)
}
