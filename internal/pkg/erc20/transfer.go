// Package erc20 builds and rewrites ERC-20 "transfer" calldata. The amount
// rewrite exists for reduced-amount trial estimations: only the trailing
// 32-byte amount word changes, the recipient word is preserved byte for byte.
package erc20

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ERC20 ABI minimal part for transfer
const erc20ABI = `[{"constant":false,"inputs":[{"name":"_to","type":"address"},{"name":"_value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"nonpayable","type":"function"}]`

const (
	selectorLength = 4
	wordLength     = 32
	transferLength = selectorLength + 2*wordLength
)

var (
	parsedERC20ABI   abi.ABI
	parsedERC20Once  sync.Once
	transferMethodID []byte
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			// This is a critical error during initialization, panic is appropriate
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
		transferMethod, ok := parsedERC20ABI.Methods["transfer"]
		if !ok {
			panic("transfer method not found in parsed ERC20 ABI")
		}
		transferMethodID = transferMethod.ID
	})
}

// TransferData assembles calldata for transfer(to, amount).
func TransferData(to common.Address, amount *big.Int) []byte {
	initParsedERC20ABI()
	data := make([]byte, 0, transferLength)
	data = append(data, transferMethodID...)
	data = append(data, common.LeftPadBytes(to.Bytes(), wordLength)...)
	data = append(data, common.LeftPadBytes(amount.Bytes(), wordLength)...)
	return data
}

// IsTransfer reports whether data is an ERC-20 transfer call, recognized by
// its 4-byte method selector and exact argument length.
func IsTransfer(data []byte) bool {
	initParsedERC20ABI()
	if len(data) != transferLength {
		return false
	}
	for i := 0; i < selectorLength; i++ {
		if data[i] != transferMethodID[i] {
			return false
		}
	}
	return true
}

// TransferAmount parses the amount word out of transfer calldata.
func TransferAmount(data []byte) (*big.Int, error) {
	if !IsTransfer(data) {
		return nil, fmt.Errorf("calldata is not an ERC-20 transfer (length %d)", len(data))
	}
	return new(big.Int).SetBytes(data[selectorLength+wordLength:]), nil
}

// WithTransferAmount returns a copy of transfer calldata with the amount word
// replaced, re-padded to 32 bytes.
func WithTransferAmount(data []byte, amount *big.Int) ([]byte, error) {
	if !IsTransfer(data) {
		return nil, fmt.Errorf("calldata is not an ERC-20 transfer (length %d)", len(data))
	}
	if amount == nil || amount.Sign() < 0 {
		return nil, fmt.Errorf("transfer amount must be non-negative")
	}
	if len(amount.Bytes()) > wordLength {
		return nil, fmt.Errorf("transfer amount does not fit in 32 bytes")
	}
	out := append([]byte(nil), data[:selectorLength+wordLength]...)
	out = append(out, common.LeftPadBytes(amount.Bytes(), wordLength)...)
	return out, nil
}
