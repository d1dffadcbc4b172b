package fee

import (
	"math/big"
	"strings"

	"github.com/batchsend/batchsend/internal/transfer/chain"
	"github.com/ethereum/go-ethereum/params"
	"github.com/pkg/errors"
)

var ErrInvalidInput = errors.New("invalid fee input")

// Policy selects how fee parameters are obtained for a batch.
type Policy string

const (
	// PolicyMarket reads the network's EIP-1559 estimates.
	PolicyMarket Policy = "market"
	// PolicyLegacy uses a flat gas price.
	PolicyLegacy Policy = "legacy"
)

// Fallbacks used when the network reports no EIP-1559 estimates.
var (
	DefaultMaxFeePerGas         = big.NewInt(5 * params.GWei)
	DefaultMaxPriorityFeePerGas = big.NewInt(2 * params.GWei)
)

// ParsePolicy maps the operator's answer to a policy; blank selects market.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PolicyMarket), "eip1559":
		return PolicyMarket, nil
	case string(PolicyLegacy), "fixed":
		return PolicyLegacy, nil
	default:
		return "", errors.Wrapf(ErrInvalidInput, "unknown fee policy %q", s)
	}
}

// Params are the fee fields shared by every transaction of a batch.
type Params struct {
	Policy Policy

	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	GasPrice             *big.Int
}

// Apply copies the fee fields onto req.
func (p Params) Apply(req *chain.TxRequest) {
	if p.Policy == PolicyLegacy {
		req.GasPrice = new(big.Int).Set(p.GasPrice)
		req.GasTipCap = nil
		req.GasFeeCap = nil
		return
	}

	req.GasPrice = nil
	req.GasTipCap = new(big.Int).Set(p.MaxPriorityFeePerGas)
	req.GasFeeCap = new(big.Int).Set(p.MaxFeePerGas)
}

// MaxCost is the most a transaction of gasLimit can pay in fees.
func (p Params) MaxCost(gasLimit uint64) *big.Int {
	perGas := p.MaxFeePerGas
	if p.Policy == PolicyLegacy {
		perGas = p.GasPrice
	}
	return new(big.Int).Mul(perGas, new(big.Int).SetUint64(gasLimit))
}
