// Package report summarizes what a batch cost the wallet.
package report

import (
	"context"
	"math/big"

	"github.com/batchsend/batchsend/internal/console"
	"github.com/batchsend/batchsend/internal/transfer/amount"
	"github.com/batchsend/batchsend/internal/transfer/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Snapshot is the wallet's holdings at one point in time. Token is nil for
// native batches.
type Snapshot struct {
	Native *big.Int
	Token  *big.Int
}

// Spend is the difference between two snapshots. Native includes fees.
type Spend struct {
	Native *big.Int
	Token  *big.Int
}

// TokenInfo describes the token of a token batch.
type TokenInfo struct {
	Address  common.Address
	Symbol   string
	Decimals int32
}

type Reporter struct {
	client  chain.Client
	console *console.Console
	token   *TokenInfo
}

// New returns a Reporter; token may be nil for native batches.
func New(client chain.Client, c *console.Console, token *TokenInfo) *Reporter {
	return &Reporter{
		client:  client,
		console: c,
		token:   token,
	}
}

// Snapshot reads the wallet's current balances.
func (r *Reporter) Snapshot(ctx context.Context) (Snapshot, error) {
	native, err := r.client.Balance(ctx)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "failed to read wallet balance")
	}

	snap := Snapshot{Native: native}

	if r.token != nil {
		tokenBalance, err := r.client.TokenBalance(ctx, r.token.Address)
		if err != nil {
			return Snapshot{}, errors.Wrap(err, "failed to read token balance")
		}
		snap.Token = tokenBalance
	}

	return snap, nil
}

// FillToken adds the token balance to a snapshot taken before the token was
// known. It is a no-op for native batches.
func (r *Reporter) FillToken(ctx context.Context, snap *Snapshot) error {
	if r.token == nil || snap.Token != nil {
		return nil
	}

	tokenBalance, err := r.client.TokenBalance(ctx, r.token.Address)
	if err != nil {
		return errors.Wrap(err, "failed to read token balance")
	}
	snap.Token = tokenBalance

	return nil
}

// Diff returns before minus after.
func Diff(before, after Snapshot) Spend {
	spend := Spend{Native: new(big.Int).Sub(before.Native, after.Native)}
	if before.Token != nil && after.Token != nil {
		spend.Token = new(big.Int).Sub(before.Token, after.Token)
	}
	return spend
}

// PrintBalance prints a snapshot as the starting balance.
func (r *Reporter) PrintBalance(snap Snapshot) {
	r.console.Info("Wallet balance: %s ETH", amount.FormatEther(snap.Native))
	if r.token != nil && snap.Token != nil {
		r.console.Info("Token balance: %s %s", amount.FormatUnits(snap.Token, r.token.Decimals), r.token.Symbol)
	}
}

// Finish reads the closing balance and prints the spend against before.
func (r *Reporter) Finish(ctx context.Context, before Snapshot) (Spend, error) {
	after, err := r.Snapshot(ctx)
	if err != nil {
		return Spend{}, err
	}

	spend := Diff(before, after)

	r.console.Info("Final balance: %s ETH", amount.FormatEther(after.Native))
	r.console.Info("Total spent: %s ETH", amount.FormatEther(spend.Native))
	if r.token != nil && spend.Token != nil {
		r.console.Info("Tokens sent: %s %s", amount.FormatUnits(spend.Token, r.token.Decimals), r.token.Symbol)
	}

	return spend, nil
}
