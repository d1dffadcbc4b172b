package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/batchsend/batchsend/internal/prompt"
	"github.com/batchsend/batchsend/internal/transfer/amount"
	"github.com/batchsend/batchsend/internal/transfer/chain"
	"github.com/batchsend/batchsend/internal/transfer/executor"
	"github.com/batchsend/batchsend/internal/transfer/fee"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// askKind asks for the transfer kind and, for tokens, the contract,
// display symbol and decimals.
func (s *session) askKind(ctx context.Context, cfg *BatchConfig) error {
	kind, err := s.deps.Prompt.Ask(ctx, "Send Native Token or ERC-20? (native/token):")
	if err != nil {
		return err
	}

	cfg.Kind, err = executor.ParseKind(kind)
	if err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}
	cfg.Symbol = nativeSymbol
	cfg.Decimals = defaultDecimals

	if cfg.Kind != executor.KindToken {
		return nil
	}

	contract, err := s.deps.Prompt.Ask(ctx, "Enter token contract address:")
	if err != nil {
		return err
	}

	cfg.Token, err = chain.ParseAddress(contract)
	if err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}

	cfg.Symbol, err = prompt.AskDefault(ctx, s.deps.Prompt, "Enter token symbol (for display):", defaultTokenSymbol)
	if err != nil {
		return err
	}

	suggested := defaultDecimals
	if onChain, err := s.deps.Client.TokenDecimals(ctx, cfg.Token); err == nil {
		suggested = int(onChain)
	} else {
		log.Debug().Err(err).Str("token", cfg.Token.Hex()).Msg("Token does not report decimals")
	}

	answer, err := prompt.AskDefault(ctx, s.deps.Prompt,
		fmt.Sprintf("Enter token decimals (default: %d):", suggested), strconv.Itoa(suggested))
	if err != nil {
		return err
	}

	decimals, err := strconv.Atoi(answer)
	if err != nil || decimals < 0 || decimals > maxTokenDecimals {
		return errors.Wrapf(ErrInvalidInput, "token decimals %q", answer)
	}
	cfg.Decimals = int32(decimals)

	return nil
}

// askCount asks how many of the available addresses to use. A blank answer
// takes all of them; the result is clamped to [0, available].
func (s *session) askCount(ctx context.Context, available int) (int, error) {
	answer, err := prompt.AskDefault(ctx, s.deps.Prompt,
		fmt.Sprintf("How many addresses to send to? (max: %d):", available), strconv.Itoa(available))
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidInput, "recipient count %q", answer)
	}

	return max(0, min(n, available)), nil
}

func (s *session) askAmounts(ctx context.Context, cfg *BatchConfig) error {
	mode, err := s.deps.Prompt.Ask(ctx, "Use fixed amount or random amount? (fixed/random):")
	if err != nil {
		return err
	}

	cfg.Amounts.Mode = amount.ParseMode(mode)

	if cfg.Amounts.Mode == amount.ModeRandom {
		if cfg.Amounts.Min, err = s.deps.Prompt.Ask(ctx, "Enter minimum amount:"); err != nil {
			return err
		}
		if cfg.Amounts.Max, err = s.deps.Prompt.Ask(ctx, "Enter maximum amount:"); err != nil {
			return err
		}

		s.deps.Console.Info("Will send random amounts between %s and %s %s", cfg.Amounts.Min, cfg.Amounts.Max, cfg.Symbol)
		return nil
	}

	if cfg.Amounts.Fixed, err = s.deps.Prompt.Ask(ctx, "Enter fixed amount to send:"); err != nil {
		return err
	}

	s.deps.Console.Info("Will send fixed amount of %s %s to each address", cfg.Amounts.Fixed, cfg.Symbol)
	return nil
}

func (s *session) askGas(ctx context.Context, cfg *BatchConfig) error {
	answer, err := prompt.AskDefault(ctx, s.deps.Prompt,
		fmt.Sprintf("Enter gas limit (default: %d):", defaultGasLimit), strconv.Itoa(defaultGasLimit))
	if err != nil {
		return err
	}

	cfg.GasLimit, err = strconv.ParseUint(answer, 10, 64)
	if err != nil || cfg.GasLimit == 0 {
		return errors.Wrapf(ErrInvalidInput, "gas limit %q", answer)
	}

	policy, err := s.deps.Prompt.Ask(ctx, "Fee model? (market/legacy, default: market):")
	if err != nil {
		return err
	}

	cfg.Fee.Policy, err = fee.ParsePolicy(policy)
	if err != nil {
		return err
	}

	if cfg.Fee.Policy == fee.PolicyLegacy {
		cfg.Fee.GasPriceGwei, err = s.deps.Prompt.Ask(ctx, "Enter gas price in Gwei (blank for network price):")
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *session) confirm(ctx context.Context, count int) (bool, error) {
	answer, err := s.deps.Prompt.Ask(ctx, fmt.Sprintf("Proceed with %d transfers? (y/N):", count))
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
