package amount

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	EtherDecimals = 18
	GweiDecimals  = 9
)

// ParseUnits scales a decimal string to integer base units. It fails when
// the string carries more fractional digits than decimals allows.
func ParseUnits(s string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "cannot parse %q", s)
	}

	return ToBase(d, decimals)
}

// ToBase scales d by 10^decimals. The result must be integral.
func ToBase(d decimal.Decimal, decimals int32) (*big.Int, error) {
	scaled := d.Shift(decimals)
	if !scaled.IsInteger() {
		return nil, errors.Wrapf(ErrInvalidInput, "%s has more than %d decimal places", d.String(), decimals)
	}

	return scaled.BigInt(), nil
}

// FormatUnits renders base units as a decimal string without trailing zeros.
func FormatUnits(v *big.Int, decimals int32) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -decimals).String()
}

func FormatEther(v *big.Int) string {
	return FormatUnits(v, EtherDecimals)
}

func FormatGwei(v *big.Int) string {
	return FormatUnits(v, GweiDecimals)
}
