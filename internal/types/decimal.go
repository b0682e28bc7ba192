package types

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ToDecimal is the single coercion point for monetary and numeric values
// arriving from storage drivers or loosely typed payloads. It never fails:
// nil, malformed, NaN and infinite inputs all become zero.
func ToDecimal(val interface{}) decimal.Decimal {
	switch v := val.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero
		}
		return *v
	case decimal.NullDecimal:
		if !v.Valid {
			return decimal.Zero
		}
		return v.Decimal
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(v)
	case float32:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat32(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case int32:
		return decimal.NewFromInt(int64(v))
	case int16:
		return decimal.NewFromInt(int64(v))
	case int8:
		return decimal.NewFromInt(int64(v))
	case uint:
		return parseDecimalString(fmt.Sprintf("%d", v))
	case uint64:
		// via string so values above MaxInt64 keep every digit
		return parseDecimalString(fmt.Sprintf("%d", v))
	case uint32:
		return decimal.NewFromInt(int64(v))
	case uint16:
		return decimal.NewFromInt(int64(v))
	case uint8:
		return decimal.NewFromInt(int64(v))
	case string:
		return parseDecimalString(v)
	case *string:
		if v == nil {
			return decimal.Zero
		}
		return parseDecimalString(*v)
	case []byte:
		return parseDecimalString(string(v))
	case json.Number:
		return parseDecimalString(string(v))
	case *big.Int:
		if v == nil {
			return decimal.Zero
		}
		return decimal.NewFromBigInt(v, 0)
	case *big.Float:
		if v == nil || v.IsInf() {
			return decimal.Zero
		}
		return parseDecimalString(v.Text('f', -1))
	case *big.Rat:
		if v == nil {
			return decimal.Zero
		}
		return parseDecimalString(v.FloatString(ratDigits))
	case fmt.Stringer:
		return parseDecimalString(v.String())
	default:
		return decimal.Zero
	}
}

// ratDigits is the number of fractional digits kept from a *big.Rat.
const ratDigits = 16

func parseDecimalString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ToFloat converts a decimal for the statistical code paths, which work in
// float64. Money stays decimal everywhere else.
func ToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// RoundMoney rounds a computed float to cents.
func RoundMoney(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f).Round(2)
}
