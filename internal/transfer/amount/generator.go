package amount

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// RandomPlaces is the rounding applied to random draws before scaling.
const RandomPlaces = 6

// Generator produces the amount for each recipient of a batch.
type Generator struct {
	mode     Mode
	decimals int32
	rng      *rand.Rand

	fixed    Amount
	min, max float64
	places   int32
}

// NewGenerator parses the operator's amount answers. Bounds are not checked
// for sign or order; a non-positive result is refused at submission.
func NewGenerator(params Params, decimals int32, rng *rand.Rand) (*Generator, error) {
	g := &Generator{
		mode:     params.Mode,
		decimals: decimals,
		rng:      rng,
		places:   min(RandomPlaces, decimals),
	}

	if g.mode != ModeRandom {
		g.mode = ModeFixed

		value, err := decimal.NewFromString(params.Fixed)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidInput, "fixed amount %q", params.Fixed)
		}

		base, err := ToBase(value, decimals)
		if err != nil {
			return nil, err
		}

		g.fixed = Amount{Value: value, Base: base}
		return g, nil
	}

	lo, err := decimal.NewFromString(params.Min)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "minimum amount %q", params.Min)
	}

	hi, err := decimal.NewFromString(params.Max)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "maximum amount %q", params.Max)
	}

	g.min = lo.InexactFloat64()
	g.max = hi.InexactFloat64()

	// draws happen in float64; bounds beyond its range cannot be sampled
	if !finite(g.min) || !finite(g.max) || !finite(g.max-g.min) {
		return nil, errors.Wrapf(ErrInvalidInput, "amount range [%s, %s] is out of range", params.Min, params.Max)
	}

	return g, nil
}

func (g *Generator) Mode() Mode {
	return g.mode
}

// Next returns the amount for the next recipient. In random mode every call
// draws independently from [min, max].
func (g *Generator) Next() (Amount, error) {
	if g.mode == ModeFixed {
		return g.fixed, nil
	}

	_, value := g.Draw()

	base, err := ToBase(value, g.decimals)
	if err != nil {
		return Amount{}, err
	}

	return Amount{Value: value, Base: base}, nil
}

// Draw samples [min, max] once and returns the raw value together with its
// rounding to RandomPlaces (or fewer, for tokens with fewer decimals).
func (g *Generator) Draw() (raw float64, rounded decimal.Decimal) {
	raw = g.min + g.rng.Float64()*(g.max-g.min)
	return raw, decimal.NewFromFloat(raw).Round(g.places)
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
