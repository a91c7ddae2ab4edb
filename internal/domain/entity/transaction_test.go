package entity

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRequestClone(t *testing.T) {
	feeCurrency := common.HexToAddress(cusdAddr)
	original := TransactionRequest{
		From:                 common.HexToAddress("0x1111111111111111111111111111111111111111"),
		To:                   common.HexToAddress("0x2222222222222222222222222222222222222222"),
		Data:                 []byte{0x01, 0x02, 0x03},
		Value:                big.NewInt(100),
		Gas:                  21_000,
		MaxFeePerGas:         big.NewInt(2),
		MaxPriorityFeePerGas: big.NewInt(1),
		FeeCurrency:          &feeCurrency,
		EstimatedGasUse:      20_000,
		BaseFeePerGas:        big.NewInt(1),
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Data[0] = 0xff
	clone.Value.SetInt64(999)
	clone.MaxFeePerGas.SetInt64(999)
	*clone.FeeCurrency = common.Address{}

	assert.Equal(t, []byte{0x01, 0x02, 0x03}, original.Data)
	assert.Equal(t, big.NewInt(100), original.Value)
	assert.Equal(t, big.NewInt(2), original.MaxFeePerGas)
	assert.Equal(t, common.HexToAddress(cusdAddr), *original.FeeCurrency)
}

func TestCloneTransactions(t *testing.T) {
	txs := []TransactionRequest{
		{Value: big.NewInt(1)},
		{Value: big.NewInt(2)},
	}
	clones := CloneTransactions(txs)
	require.Len(t, clones, 2)

	clones[0].Value.SetInt64(999)
	assert.Equal(t, big.NewInt(1), txs[0].Value)
}
