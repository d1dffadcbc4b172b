// Package session drives one interactive batch: it asks the operator for
// the batch parameters, resolves fees once and hands the recipients to the
// executor.
package session

import (
	"context"
	"math/rand/v2"

	"github.com/batchsend/batchsend/internal/transfer/address"
	"github.com/batchsend/batchsend/internal/transfer/amount"
	"github.com/batchsend/batchsend/internal/transfer/executor"
	"github.com/batchsend/batchsend/internal/transfer/fee"
	"github.com/batchsend/batchsend/internal/transfer/report"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type session struct {
	deps Deps
	opts Options
}

// Run executes a full session. Errors returned are pre-loop failures; once
// transfers start, per-recipient failures only show up in the summary.
// A nil Result with nil error means the operator declined or there was
// nothing to send.
func Run(ctx context.Context, deps Deps, opts Options) (*Result, error) {
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // amounts and sampling are not security relevant
	}

	s := &session{deps: deps, opts: opts}

	return s.run(ctx)
}

func (s *session) run(ctx context.Context) (*Result, error) {
	out := s.deps.Console

	out.Header("CRYPTO BATCH TRANSFER TOOL")
	out.Info("Connected wallet: %s", s.deps.Client.Address().Hex())

	opening := report.New(s.deps.Client, out, nil)
	before, err := opening.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	opening.PrintBalance(before)

	var cfg BatchConfig
	if err := s.askKind(ctx, &cfg); err != nil {
		return nil, err
	}

	out.Wait("Fetching addresses...")
	addresses, err := s.deps.Addresses.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	out.Success("Retrieved %d total addresses", len(addresses))

	cfg.Count, err = s.askCount(ctx, len(addresses))
	if err != nil {
		return nil, err
	}

	selected := address.Sample(addresses, cfg.Count, s.deps.Rand)
	if len(selected) == 0 {
		out.Error("No valid addresses to send to.")
		return nil, nil
	}
	out.Info("Selected %d addresses", len(selected))

	if err := s.askAmounts(ctx, &cfg); err != nil {
		return nil, err
	}

	generator, err := amount.NewGenerator(cfg.Amounts, cfg.Decimals, s.deps.Rand)
	if err != nil {
		return nil, err
	}

	if err := s.askGas(ctx, &cfg); err != nil {
		return nil, err
	}

	out.Wait("Fetching current gas fees from network...")
	fees, err := fee.NewResolver(s.deps.Client).Resolve(ctx, cfg.Fee)
	if err != nil {
		return nil, err
	}
	s.printFees(fees, cfg.GasLimit)

	if !s.opts.AssumeYes {
		ok, err := s.confirm(ctx, len(selected))
		if err != nil {
			return nil, err
		}
		if !ok {
			out.Warn("Batch cancelled")
			return nil, nil
		}
	}

	var token *report.TokenInfo
	if cfg.Kind == executor.KindToken {
		token = &report.TokenInfo{Address: cfg.Token, Symbol: cfg.Symbol, Decimals: cfg.Decimals}
	}

	reporter := report.New(s.deps.Client, out, token)
	if err := reporter.FillToken(ctx, &before); err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	logger := log.With().
		Str("batch_id", batchID).
		Str("kind", string(cfg.Kind)).
		Int("recipients", len(selected)).
		Logger()
	logger.Info().Str("fee_policy", string(fees.Policy)).Msg("Starting batch")

	out.Header("STARTING TRANSFERS")

	job := executor.Job{
		Kind:     cfg.Kind,
		Token:    cfg.Token,
		Symbol:   cfg.Symbol,
		Decimals: cfg.Decimals,
		GasLimit: cfg.GasLimit,
		Fees:     fees,
	}

	exec := executor.New(s.deps.Client, out, logger, executor.Config{
		ConfirmTimeout: s.opts.ConfirmTimeout,
		PaceInterval:   s.opts.PaceInterval,
	})
	summary := exec.Run(ctx, job, selected, generator)

	out.Header("TRANSFER COMPLETE")
	out.Success("Successfully sent %d of %d transfers", summary.Confirmed, summary.Total)

	result := &Result{
		BatchID:  batchID,
		Config:   cfg,
		Selected: selected,
		Fees:     fees,
		Summary:  summary,
	}

	// The closing balance uses a fresh context so that an interrupted batch
	// still gets its report.
	spend, err := reporter.Finish(context.WithoutCancel(ctx), before)
	if err != nil {
		out.Error("Could not read final balance: %v", err)
		logger.Warn().Err(err).Msg("Final balance unavailable")
		return result, nil
	}
	result.Spend = spend

	logger.Info().
		Int("confirmed", summary.Confirmed).
		Int("failed", summary.Failed).
		Str("spent_wei", spend.Native.String()).
		Msg("Batch finished")

	return result, nil
}

func (s *session) printFees(fees fee.Params, gasLimit uint64) {
	out := s.deps.Console

	if fees.Policy == fee.PolicyLegacy {
		out.Info("Gas price: %s gwei", amount.FormatGwei(fees.GasPrice))
	} else {
		out.Info("Max fee per gas: %s gwei", amount.FormatGwei(fees.MaxFeePerGas))
		out.Info("Max priority fee per gas: %s gwei", amount.FormatGwei(fees.MaxPriorityFeePerGas))
	}

	out.Info("Max fee per transaction: %s ETH", amount.FormatEther(fees.MaxCost(gasLimit)))
}
