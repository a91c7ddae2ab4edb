package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatFromSmallestUnit(t *testing.T) {
	amount, _ := new(big.Int).SetString("1234500000000000000", 10)
	got := RatFromSmallestUnit(amount, 18)
	assert.Zero(t, got.Cmp(big.NewRat(12345, 10000)))

	assert.Zero(t, RatFromSmallestUnit(nil, 18).Sign())
}

func TestRatToSmallestUnit(t *testing.T) {
	t.Run("rounds down", func(t *testing.T) {
		got := RatToSmallestUnit(big.NewRat(12345, 10000), 2)
		assert.Equal(t, big.NewInt(123), got)
	})

	t.Run("round trips whole smallest units", func(t *testing.T) {
		amount := big.NewInt(987654321)
		got := RatToSmallestUnit(RatFromSmallestUnit(amount, 6), 6)
		assert.Equal(t, amount, got)
	})

	t.Run("nil amount is zero", func(t *testing.T) {
		assert.Zero(t, RatToSmallestUnit(nil, 6).Sign())
	})
}

func TestFormatRat(t *testing.T) {
	cases := []struct {
		name   string
		amount *big.Rat
		places uint8
		want   string
	}{
		{"trims trailing zeros", big.NewRat(1, 5), 6, "0.2"},
		{"whole number has no point", big.NewRat(3, 1), 6, "3"},
		{"zero", new(big.Rat), 6, "0"},
		{"nil", nil, 6, "0"},
		{"truncates beyond max places", big.NewRat(1, 3), 4, "0.3333"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, FormatRat(c.amount, c.places))
		})
	}
}

func TestFormatBigInt(t *testing.T) {
	amount, ok := new(big.Int).SetString("1234500000000000000", 10)
	require.True(t, ok)
	assert.Equal(t, "1.2345", FormatBigInt(amount, 18))
	assert.Equal(t, "42", FormatBigInt(big.NewInt(42), 0))
	assert.Equal(t, "0", FormatBigInt(nil, 18))
}
