// Package executor drains a recipient list one transfer at a time.
package executor

import (
	"context"
	"time"

	"github.com/batchsend/batchsend/internal/console"
	"github.com/batchsend/batchsend/internal/transfer/amount"
	"github.com/batchsend/batchsend/internal/transfer/chain"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Transfer values are uint256 on chain; the ABI encoder would silently
// reduce larger ones modulo 2^256.
const maxAmountBits = 256

type Executor struct {
	client  chain.Client
	console *console.Console
	logger  zerolog.Logger
	config  Config
}

func New(client chain.Client, c *console.Console, logger zerolog.Logger, config Config) *Executor {
	return &Executor{
		client:  client,
		console: c,
		logger:  logger,
		config:  config,
	}
}

// Run sends one transfer per recipient, strictly in order. A failing
// recipient is reported and skipped; only cancellation of ctx stops the
// loop early.
func (e *Executor) Run(ctx context.Context, job Job, recipients []string, amounts AmountSource) Summary {
	summary := Summary{Total: len(recipients)}

	for i, recipient := range recipients {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}

		summary.Attempted++
		e.console.Step("Transaction %d/%d - Recipient: %s", i+1, len(recipients), recipient)

		state, err := e.transfer(ctx, job, recipient, amounts)

		logger := e.logger.With().
			Int("index", i).
			Str("recipient", recipient).
			Str("state", state.String()).
			Logger()

		if err != nil {
			var transferErr *TransferError
			if errors.As(err, &transferErr) {
				logger = logger.With().Str("failed_from", transferErr.Stage.String()).Logger()
			}

			summary.Failed++
			e.console.Error("Error sending to %s: %v", recipient, err)
			logger.Warn().Err(err).Msg("Transfer failed")
			continue
		}

		summary.Confirmed++
		logger.Info().Msg("Transfer confirmed")

		if i < len(recipients)-1 && e.config.PaceInterval > 0 {
			e.console.Wait("Preparing next transaction...")
			if err := sleep(ctx, e.config.PaceInterval); err != nil {
				summary.Interrupted = true
				break
			}
		}
	}

	if summary.Interrupted {
		e.console.Warn("Batch interrupted after %d of %d recipients", summary.Attempted, summary.Total)
	}

	return summary
}

// transfer moves a single recipient through pending → submitted →
// confirmed, returning the state it stopped in.
func (e *Executor) transfer(ctx context.Context, job Job, recipient string, amounts AmountSource) (State, error) {
	value, err := amounts.Next()
	if err != nil {
		return StateFailed, fail(StatePending, err)
	}

	if value.Base == nil || value.Base.Sign() <= 0 {
		return StateFailed, fail(StatePending, errors.Wrap(ErrNonPositiveAmount, value.Value.String()))
	}

	if value.Base.BitLen() > maxAmountBits {
		return StateFailed, fail(StatePending, errors.Wrap(ErrAmountOverflow, value.Value.String()))
	}

	to, err := chain.ParseAddress(recipient)
	if err != nil {
		return StateFailed, fail(StatePending, err)
	}

	var req *chain.TxRequest
	switch job.Kind {
	case KindToken:
		req, err = chain.TokenTransferRequest(job.Token, to, value.Base, job.GasLimit)
		if err != nil {
			return StateFailed, fail(StatePending, err)
		}
	default:
		req = chain.NativeTransferRequest(to, value.Base, job.GasLimit)
	}
	job.Fees.Apply(req)

	e.console.Info("Sending %s %s", amount.FormatUnits(value.Base, job.Decimals), job.Symbol)

	tx, err := e.client.Submit(ctx, req)
	if err != nil {
		return StateFailed, fail(StatePending, err)
	}

	e.console.Success("Transaction sent! Hash: %s", tx.Hash().Hex())
	e.console.Wait("Waiting for confirmation...")

	receipt, err := e.waitConfirmation(ctx, tx)
	if err != nil {
		return StateFailed, fail(StateSubmitted, err)
	}

	e.console.Success("Confirmed in block %s", receipt.BlockNumber.String())

	return StateConfirmed, nil
}

func (e *Executor) waitConfirmation(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	waitCtx := ctx
	if e.config.ConfirmTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, e.config.ConfirmTimeout)
		defer cancel()
	}

	receipt, err := e.client.WaitConfirmation(waitCtx, tx.Hash())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, errors.Wrapf(ErrConfirmationTimeout, "after %s", e.config.ConfirmTimeout)
		}
		return nil, err
	}

	if receipt.Status == types.ReceiptStatusFailed {
		return nil, errors.Wrapf(ErrTransferReverted, "in block %s", receipt.BlockNumber.String())
	}

	return receipt, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
