package fee

import (
	"context"
	"math/big"
	"strings"

	"github.com/batchsend/batchsend/internal/transfer/amount"
	"github.com/batchsend/batchsend/internal/transfer/chain"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const baseFeeMultiplier = 2

// Suggester is the part of chain.Client the resolver reads from.
type Suggester interface {
	SuggestFees(ctx context.Context) (*chain.FeeSuggestion, error)
}

// Request is the operator's fee choice.
type Request struct {
	Policy Policy
	// GasPriceGwei is the flat price for PolicyLegacy; blank takes the
	// node's eth_gasPrice.
	GasPriceGwei string
}

// Resolver computes fee parameters once per batch.
type Resolver struct {
	suggester Suggester
}

func NewResolver(s Suggester) *Resolver {
	return &Resolver{suggester: s}
}

// Resolve returns the parameters for the whole batch. Nothing is re-queried
// per transaction.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Params, error) {
	if req.Policy == PolicyLegacy {
		return r.resolveLegacy(ctx, req.GasPriceGwei)
	}
	return r.resolveMarket(ctx)
}

// resolveMarket follows the usual wallet estimate: maxFee = 2*baseFee + tip.
// Without a base fee both caps fall back to the defaults; without a tip only
// the tip does.
func (r *Resolver) resolveMarket(ctx context.Context) (Params, error) {
	suggestion, err := r.suggester.SuggestFees(ctx)
	if err != nil {
		return Params{}, errors.Wrap(err, "failed to fetch fee data")
	}

	params := Params{Policy: PolicyMarket}

	if suggestion.BaseFee == nil {
		log.Warn().Msg("Network reported no base fee, using default fee caps")
		params.MaxFeePerGas = new(big.Int).Set(DefaultMaxFeePerGas)
		params.MaxPriorityFeePerGas = new(big.Int).Set(DefaultMaxPriorityFeePerGas)
		return params, nil
	}

	tip := suggestion.GasTipCap
	if tip == nil {
		tip = DefaultMaxPriorityFeePerGas
	}

	params.MaxPriorityFeePerGas = new(big.Int).Set(tip)
	params.MaxFeePerGas = new(big.Int).Add(
		new(big.Int).Mul(suggestion.BaseFee, big.NewInt(baseFeeMultiplier)),
		tip,
	)

	return params, nil
}

func (r *Resolver) resolveLegacy(ctx context.Context, gwei string) (Params, error) {
	params := Params{Policy: PolicyLegacy}

	if strings.TrimSpace(gwei) != "" {
		price, err := amount.ParseUnits(gwei, amount.GweiDecimals)
		if err != nil {
			return Params{}, errors.Wrapf(ErrInvalidInput, "gas price %q", gwei)
		}
		if price.Sign() <= 0 {
			return Params{}, errors.Wrapf(ErrInvalidInput, "gas price must be positive, got %q", gwei)
		}

		params.GasPrice = price
		return params, nil
	}

	suggestion, err := r.suggester.SuggestFees(ctx)
	if err != nil {
		return Params{}, errors.Wrap(err, "failed to fetch fee data")
	}

	if suggestion.GasPrice == nil {
		return Params{}, errors.New("network reported no gas price, enter one explicitly")
	}

	params.GasPrice = new(big.Int).Set(suggestion.GasPrice)
	return params, nil
}
