package amount

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput marks an operator-entered amount that cannot be turned
// into base units.
var ErrInvalidInput = errors.New("invalid amount input")

type Mode string

const (
	ModeFixed  Mode = "fixed"
	ModeRandom Mode = "random"
)

// ParseMode maps the operator's answer to a mode. Anything other than
// "random" selects the fixed mode.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeRandom)) {
		return ModeRandom
	}
	return ModeFixed
}

// Params holds the operator's amount answers as entered.
type Params struct {
	Mode  Mode
	Fixed string
	Min   string
	Max   string
}

// Amount is one recipient's transfer quantity.
type Amount struct {
	// Value is the human-readable quantity, e.g. 0.01.
	Value decimal.Decimal
	// Base is Value scaled by 10^decimals.
	Base *big.Int
}
