package session_test

import (
	"bytes"
	"context"
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/batchsend/batchsend/internal/console"
	"github.com/batchsend/batchsend/internal/prompt"
	"github.com/batchsend/batchsend/internal/session"
	"github.com/batchsend/batchsend/internal/test"
	"github.com/batchsend/batchsend/internal/transfer/address"
	"github.com/batchsend/batchsend/internal/transfer/executor"
	"github.com/batchsend/batchsend/internal/transfer/fee"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	recipients = []string{
		"0x000000000000000000000000000000000000000a",
		"0x000000000000000000000000000000000000000b",
		"0x000000000000000000000000000000000000000c",
	}
	tokenAddr = common.HexToAddress("0x00000000000000000000000000000000000000f1")
)

type staticSource struct {
	addresses []string
	err       error
}

func (s staticSource) Fetch(context.Context) ([]string, error) {
	return s.addresses, s.err
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000_000_000_000))
}

func newDeps(fc *test.FakeChain, src address.Service, out *bytes.Buffer, answers ...string) session.Deps {
	c := console.New(out, true)

	return session.Deps{
		Client:    fc,
		Addresses: src,
		Prompt:    prompt.NewScripted(c, answers...),
		Console:   c,
		Rand:      rand.New(rand.NewPCG(1, 2)),
	}
}

func TestRunNativeFixed(t *testing.T) {
	fc := test.NewFakeChain(ether(10))
	var out bytes.Buffer

	deps := newDeps(fc, staticSource{addresses: recipients}, &out,
		"native", "2", "fixed", "0.01", "", "", "y")

	before, err := fc.Balance(context.Background())
	require.NoError(t, err)

	res, err := session.Run(context.Background(), deps, session.Options{})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, executor.KindNative, res.Config.Kind)
	assert.Equal(t, uint64(100000), res.Config.GasLimit)
	assert.Equal(t, fee.PolicyMarket, res.Fees.Policy)
	assert.Equal(t, "5000000000", res.Fees.MaxFeePerGas.String())
	assert.Len(t, res.Selected, 2)
	assert.NotEqual(t, res.Selected[0], res.Selected[1])
	assert.Equal(t, executor.Summary{Total: 2, Attempted: 2, Confirmed: 2}, res.Summary)
	assert.NotEmpty(t, res.BatchID)

	require.Len(t, fc.Submitted, 2)
	for _, req := range fc.Submitted {
		assert.Equal(t, "10000000000000000", req.Value.String())
		assert.Equal(t, uint64(100000), req.GasLimit)
	}

	after, err := fc.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Sub(before, after).String(), res.Spend.Native.String())

	assert.Contains(t, out.String(), "=== CRYPTO BATCH TRANSFER TOOL ===")
	assert.Contains(t, out.String(), "Retrieved 3 total addresses")
	assert.Contains(t, out.String(), "=== TRANSFER COMPLETE ===")
	assert.Contains(t, out.String(), "Successfully sent 2 of 2 transfers")
	assert.Contains(t, out.String(), "Total spent:")
}

func TestRunTokenRandomLegacy(t *testing.T) {
	fc := test.NewFakeChain(ether(10))
	fc.Tokens[tokenAddr] = big.NewInt(100_000_000)
	fc.Decimals[tokenAddr] = 6
	var out bytes.Buffer

	deps := newDeps(fc, staticSource{addresses: recipients}, &out,
		"token", tokenAddr.Hex(), "USDC", "", "", "random", "1", "2", "60000", "legacy", "3")

	res, err := session.Run(context.Background(), deps, session.Options{AssumeYes: true})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, executor.KindToken, res.Config.Kind)
	assert.Equal(t, int32(6), res.Config.Decimals)
	assert.Equal(t, "USDC", res.Config.Symbol)
	assert.Equal(t, fee.PolicyLegacy, res.Fees.Policy)
	assert.Equal(t, "3000000000", res.Fees.GasPrice.String())
	assert.Equal(t, 3, res.Summary.Confirmed)

	total := new(big.Int)
	require.Len(t, fc.Submitted, 3)
	for _, req := range fc.Submitted {
		assert.Equal(t, tokenAddr, req.To)
		assert.Equal(t, uint64(60000), req.GasLimit)
		assert.Equal(t, "3000000000", req.GasPrice.String())

		value := new(big.Int).SetBytes(req.Data[36:])
		assert.GreaterOrEqual(t, value.Int64(), int64(1_000_000))
		assert.LessOrEqual(t, value.Int64(), int64(2_000_000))
		total.Add(total, value)
	}

	require.NotNil(t, res.Spend.Token)
	assert.Equal(t, total.String(), res.Spend.Token.String())
	assert.Contains(t, out.String(), "Tokens sent:")
}

func TestRunClampsCount(t *testing.T) {
	fc := test.NewFakeChain(ether(10))
	var out bytes.Buffer

	deps := newDeps(fc, staticSource{addresses: recipients}, &out,
		"native", "10", "fixed", "0.01", "21000", "market")

	res, err := session.Run(context.Background(), deps, session.Options{AssumeYes: true})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, 3, res.Config.Count)
	assert.ElementsMatch(t, recipients, res.Selected)
	assert.Equal(t, uint64(21000), fc.Submitted[0].GasLimit)
}

func TestRunNothingToSend(t *testing.T) {
	for name, answers := range map[string][]string{
		"zero":     {"native", "0"},
		"negative": {"native", "-4"},
	} {
		t.Run(name, func(t *testing.T) {
			fc := test.NewFakeChain(ether(10))
			var out bytes.Buffer

			res, err := session.Run(context.Background(), newDeps(fc, staticSource{addresses: recipients}, &out, answers...), session.Options{})
			require.NoError(t, err)
			assert.Nil(t, res)
			assert.Empty(t, fc.Submitted)
			assert.Contains(t, out.String(), "No valid addresses to send to.")
		})
	}
}

func TestRunEmptySource(t *testing.T) {
	fc := test.NewFakeChain(ether(10))
	var out bytes.Buffer

	res, err := session.Run(context.Background(), newDeps(fc, staticSource{}, &out, "native", ""), session.Options{})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Contains(t, out.String(), "Retrieved 0 total addresses")
}

func TestRunInvalidInput(t *testing.T) {
	cases := map[string][]string{
		"kind":           {"nft"},
		"count":          {"native", "abc"},
		"gas limit":      {"native", "1", "fixed", "0.01", "lots"},
		"token address":  {"token", "not-an-address"},
		"token decimals": {"token", tokenAddr.Hex(), "TKN", "99"},
	}

	for name, answers := range cases {
		t.Run(name, func(t *testing.T) {
			fc := test.NewFakeChain(ether(10))
			var out bytes.Buffer

			_, err := session.Run(context.Background(), newDeps(fc, staticSource{addresses: recipients}, &out, answers...), session.Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, session.ErrInvalidInput), err.Error())
			assert.Empty(t, fc.Submitted)
		})
	}
}

func TestRunSourceUnavailable(t *testing.T) {
	fc := test.NewFakeChain(ether(10))
	var out bytes.Buffer

	src := staticSource{err: errors.Wrap(address.ErrSourceUnavailable, "status 404")}

	_, err := session.Run(context.Background(), newDeps(fc, src, &out, "native"), session.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, address.ErrSourceUnavailable))
	assert.Empty(t, fc.Submitted)
}

func TestRunDeclined(t *testing.T) {
	fc := test.NewFakeChain(ether(10))
	var out bytes.Buffer

	deps := newDeps(fc, staticSource{addresses: recipients}, &out,
		"native", "", "fixed", "0.01", "", "", "n")

	res, err := session.Run(context.Background(), deps, session.Options{})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Empty(t, fc.Submitted)
	assert.Contains(t, out.String(), "Batch cancelled")
}

func TestRunContinuesAfterFailure(t *testing.T) {
	fc := test.NewFakeChain(ether(10))
	fc.FailSubmit[common.HexToAddress(recipients[1])] = errors.New("insufficient funds for gas")
	var out bytes.Buffer

	deps := newDeps(fc, staticSource{addresses: recipients}, &out,
		"native", "", "fixed", "0.01", "", "")

	res, err := session.Run(context.Background(), deps, session.Options{AssumeYes: true})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, 3, res.Summary.Attempted)
	assert.Equal(t, 2, res.Summary.Confirmed)
	assert.Equal(t, 1, res.Summary.Failed)
	assert.Len(t, fc.Submitted, 2)
	assert.Contains(t, out.String(), "Error sending to "+recipients[1])
	assert.Contains(t, out.String(), "Successfully sent 2 of 3 transfers")
}

func TestRunInvalidFixedAmount(t *testing.T) {
	fc := test.NewFakeChain(ether(10))
	var out bytes.Buffer

	deps := newDeps(fc, staticSource{addresses: recipients}, &out,
		"native", "1", "fixed", "ten")

	_, err := session.Run(context.Background(), deps, session.Options{})
	require.Error(t, err)
	assert.Empty(t, fc.Submitted)
}

func TestRunKindSynonym(t *testing.T) {
	fc := test.NewFakeChain(ether(10))
	fc.Tokens[tokenAddr] = big.NewInt(10_000_000)
	var out bytes.Buffer

	deps := newDeps(fc, staticSource{addresses: recipients}, &out,
		"ERC-20", tokenAddr.Hex(), "TKN", "6", "1", "fixed", "1", "", "")

	res, err := session.Run(context.Background(), deps, session.Options{AssumeYes: true})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, executor.KindToken, res.Config.Kind)
	require.Len(t, fc.Submitted, 1)
	assert.Equal(t, tokenAddr, fc.Submitted[0].To)
	assert.Equal(t, "0", fc.Submitted[0].Value.String())
	assert.Equal(t, fc.Recipients()[0], common.HexToAddress(res.Selected[0]))
}
