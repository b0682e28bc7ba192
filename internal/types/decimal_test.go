package types

import (
	"encoding/json"
	"math"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToDecimal(t *testing.T) {
	huge := "123456789012345678901234567890.123456789"

	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, "0"},
		{"decimal", decimal.RequireFromString("10.25"), "10.25"},
		{"arbitrary precision string", huge, huge},
		{"padded string", "  42.50 ", "42.5"},
		{"bytes from numeric column", []byte("99.99"), "99.99"},
		{"json number", json.Number("7.125"), "7.125"},
		{"int", 12, "12"},
		{"max uint64", uint64(math.MaxUint64), "18446744073709551615"},
		{"float", 1.5, "1.5"},
		{"malformed string", "12,50 EUR", "0"},
		{"empty string", "", "0"},
		{"nan", math.NaN(), "0"},
		{"inf", math.Inf(1), "0"},
		{"unsupported type", struct{}{}, "0"},
		{"big int", bigInt("123456789012345678901234567890"), "123456789012345678901234567890"},
		{"big float keeps every digit", bigFloat("12345678901234567.25"), "12345678901234567.25"},
		{"big float inf", new(big.Float).SetInf(false), "0"},
		{"nil big float", (*big.Float)(nil), "0"},
		{"big rat", big.NewRat(1, 4), "0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDecimal(tt.in)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got.String())
		})
	}
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, "100.13", RoundMoney(100.125000001).String())
	assert.True(t, RoundMoney(math.NaN()).IsZero())
}

func bigInt(s string) *big.Int {
	v, _ := new(big.Int).SetString(s, 10)
	return v
}

func bigFloat(s string) *big.Float {
	v, _, _ := big.ParseFloat(s, 10, 200, big.ToNearestEven)
	return v
}
