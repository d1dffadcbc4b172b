package report_test

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/batchsend/batchsend/internal/console"
	"github.com/batchsend/batchsend/internal/test"
	"github.com/batchsend/batchsend/internal/transfer/chain"
	"github.com/batchsend/batchsend/internal/transfer/report"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinishNative(t *testing.T) {
	fc := test.NewFakeChain(big.NewInt(3_000_000_000_000_000_000))
	var out bytes.Buffer
	r := report.New(fc, console.New(&out, true), nil)
	ctx := context.Background()

	before, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, before.Token)

	req := chain.NativeTransferRequest(common.HexToAddress("0x01"), big.NewInt(500_000_000_000_000_000), 21000)
	req.GasFeeCap = big.NewInt(1_000_000_000)
	req.GasTipCap = big.NewInt(1_000_000_000)
	_, err = fc.Submit(ctx, req)
	require.NoError(t, err)

	spend, err := r.Finish(ctx, before)
	require.NoError(t, err)

	after, err := fc.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Sub(before.Native, after).String(), spend.Native.String())
	// principal + 21000 gas at 1 gwei
	assert.Equal(t, "500021000000000000", spend.Native.String())
	assert.Contains(t, out.String(), "Total spent: 0.500021 ETH")
	assert.Contains(t, out.String(), "Final balance: 2.499979 ETH")
}

func TestFinishToken(t *testing.T) {
	fc := test.NewFakeChain(big.NewInt(1_000_000_000_000_000_000))
	token := common.HexToAddress("0x00000000000000000000000000000000000000ee")
	fc.Tokens[token] = big.NewInt(10_000_000)

	var out bytes.Buffer
	r := report.New(fc, console.New(&out, true), &report.TokenInfo{Address: token, Symbol: "USDT", Decimals: 6})
	ctx := context.Background()

	before, err := r.Snapshot(ctx)
	require.NoError(t, err)
	r.PrintBalance(before)

	req, err := chain.TokenTransferRequest(token, common.HexToAddress("0x02"), big.NewInt(1_500_000), 100000)
	require.NoError(t, err)
	req.GasPrice = big.NewInt(1)
	_, err = fc.Submit(ctx, req)
	require.NoError(t, err)

	spend, err := r.Finish(ctx, before)
	require.NoError(t, err)
	assert.Equal(t, "1500000", spend.Token.String())
	assert.Equal(t, "100000", spend.Native.String())
	assert.Contains(t, out.String(), "Token balance: 10 USDT")
	assert.Contains(t, out.String(), "Tokens sent: 1.5 USDT")
}

func TestDiff(t *testing.T) {
	spend := report.Diff(report.Snapshot{Native: big.NewInt(10)}, report.Snapshot{Native: big.NewInt(4)})
	assert.Equal(t, "6", spend.Native.String())
	assert.Nil(t, spend.Token)
}

func TestFillToken(t *testing.T) {
	fc := test.NewFakeChain(big.NewInt(5))
	token := common.HexToAddress("0x00000000000000000000000000000000000000ee")
	fc.Tokens[token] = big.NewInt(77)
	ctx := context.Background()

	snap, err := report.New(fc, console.New(&bytes.Buffer{}, true), nil).Snapshot(ctx)
	require.NoError(t, err)

	r := report.New(fc, console.New(&bytes.Buffer{}, true), &report.TokenInfo{Address: token, Symbol: "T", Decimals: 0})
	require.NoError(t, r.FillToken(ctx, &snap))
	assert.Equal(t, "77", snap.Token.String())
	assert.Equal(t, "5", snap.Native.String())
}
