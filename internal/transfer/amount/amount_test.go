package amount_test

import (
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/batchsend/batchsend/internal/transfer/amount"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedAmount(t *testing.T) {
	gen, err := amount.NewGenerator(amount.Params{Mode: amount.ModeFixed, Fixed: "0.01"}, 18, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		a, err := gen.Next()
		require.NoError(t, err)
		assert.Equal(t, "10000000000000000", a.Base.String())
		assert.Equal(t, "0.01", a.Value.String())
	}
}

func TestFixedAmountInvalid(t *testing.T) {
	_, err := amount.NewGenerator(amount.Params{Mode: amount.ModeFixed, Fixed: "abc"}, 18, nil)
	assert.ErrorIs(t, err, amount.ErrInvalidInput)

	_, err = amount.NewGenerator(amount.Params{Mode: amount.ModeFixed, Fixed: "1.2345"}, 2, nil)
	assert.ErrorIs(t, err, amount.ErrInvalidInput)

	_, err = amount.NewGenerator(amount.Params{Mode: amount.ModeRandom, Min: "1", Max: ""}, 18, nil)
	assert.ErrorIs(t, err, amount.ErrInvalidInput)
}

func TestRandomAmountWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	gen, err := amount.NewGenerator(amount.Params{Mode: amount.ModeRandom, Min: "0.5", Max: "1.5"}, 18, rng)
	require.NoError(t, err)

	tolerance := decimal.New(1, -6)
	for i := 0; i < 1000; i++ {
		raw, rounded := gen.Draw()
		require.GreaterOrEqual(t, raw, 0.5)
		require.LessOrEqual(t, raw, 1.5)

		diff := rounded.Sub(decimal.NewFromFloat(raw)).Abs()
		require.True(t, diff.LessThanOrEqual(tolerance), "rounded %s too far from %v", rounded, raw)
		require.LessOrEqual(t, -rounded.Exponent(), int32(amount.RandomPlaces))
	}
}

func TestRandomAmountBaseUnits(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	gen, err := amount.NewGenerator(amount.Params{Mode: amount.ModeRandom, Min: "1", Max: "2"}, 6, rng)
	require.NoError(t, err)

	lo := big.NewInt(1_000_000)
	hi := big.NewInt(2_000_000)
	for i := 0; i < 200; i++ {
		a, err := gen.Next()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, a.Base.Cmp(lo), 0)
		assert.LessOrEqual(t, a.Base.Cmp(hi), 0)
		assert.True(t, a.Value.Shift(6).Equal(decimal.NewFromBigInt(a.Base, 0)))
	}
}

func TestRandomAmountFewDecimals(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	gen, err := amount.NewGenerator(amount.Params{Mode: amount.ModeRandom, Min: "1", Max: "9"}, 2, rng)
	require.NoError(t, err)

	a, err := gen.Next()
	require.NoError(t, err)
	assert.LessOrEqual(t, -a.Value.Exponent(), int32(2))
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, amount.ModeRandom, amount.ParseMode(" Random "))
	assert.Equal(t, amount.ModeFixed, amount.ParseMode("fixed"))
	assert.Equal(t, amount.ModeFixed, amount.ParseMode(""))
}

func TestUnits(t *testing.T) {
	v, err := amount.ParseUnits("1.5", amount.EtherDecimals)
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000", v.String())

	assert.Equal(t, "1.5", amount.FormatEther(v))
	assert.Equal(t, "2", amount.FormatGwei(big.NewInt(2_000_000_000)))
	assert.Equal(t, "0", amount.FormatUnits(nil, 18))

	_, err = amount.ParseUnits("0.1234567", 6)
	assert.ErrorIs(t, err, amount.ErrInvalidInput)
}

func TestRandomAmountOutOfRange(t *testing.T) {
	for _, bounds := range [][2]string{
		{"1", "1e400"},
		{"-1e400", "1"},
		{"-1e308", "1e308"},
	} {
		_, err := amount.NewGenerator(amount.Params{Mode: amount.ModeRandom, Min: bounds[0], Max: bounds[1]}, 18, rand.New(rand.NewPCG(1, 2)))
		assert.ErrorIs(t, err, amount.ErrInvalidInput, bounds)
	}
}
