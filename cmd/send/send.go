package send

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/batchsend/batchsend/internal/config"
	"github.com/batchsend/batchsend/internal/console"
	"github.com/batchsend/batchsend/internal/prompt"
	"github.com/batchsend/batchsend/internal/session"
	"github.com/batchsend/batchsend/internal/transfer/address"
	"github.com/batchsend/batchsend/internal/transfer/chain"
	"github.com/batchsend/batchsend/internal/util/command"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	answersFlag = "answers"
	yesFlag     = "yes"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Run an interactive batch transfer",
		Long: `Asks for the transfer kind, recipient count, amounts and gas settings,
then sends one transfer per selected address and prints the balance spent.

Answers can be read from a file (one per line, '#' starts a comment, an
empty line selects the default) instead of the terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			answers, err := cmd.Flags().GetString(answersFlag)
			if err != nil {
				return err
			}

			yes, err := cmd.Flags().GetBool(yesFlag)
			if err != nil {
				return err
			}

			return run(cmd.Context(), answers, yes)
		},
	}

	cmd.Flags().String(answersFlag, "", "Read prompt answers from this file instead of stdin")
	cmd.Flags().BoolP(yesFlag, "y", false, "Do not ask for confirmation before sending")

	return cmd
}

func run(ctx context.Context, answersPath string, assumeYes bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Ctrl-C stops the batch between recipients.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.LoadDotEnv()
	cfg := config.DefaultConfigFromEnv()
	out := console.Stdout()

	location, err := cfg.Source.AddressURL()
	if err != nil {
		return errors.Wrap(err, "invalid config")
	}

	var provider prompt.Provider = prompt.NewTerminal(out, os.Stdin)
	var scripted *prompt.Scripted
	if answersPath != "" {
		scripted, err = loadAnswers(out, answersPath)
		if err != nil {
			return err
		}
		provider = scripted
	}

	return command.WithWallet(ctx, cfg, out, func(ctx context.Context, client chain.Client) error {
		_, err := session.Run(ctx, session.Deps{
			Client:    client,
			Addresses: address.NewService(location, cfg.Source.Timeout),
			Prompt:    provider,
			Console:   out,
		}, session.Options{
			ConfirmTimeout: cfg.Batch.ConfirmTimeout,
			PaceInterval:   cfg.Batch.PaceInterval,
			AssumeYes:      assumeYes,
		})
		if err != nil {
			return err
		}

		if scripted != nil && scripted.Remaining() > 0 {
			log.Warn().Int("unused", scripted.Remaining()).Msg("Answer file has unused lines")
		}

		return nil
	})
}

func loadAnswers(out *console.Console, path string) (*prompt.Scripted, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open answer file")
	}
	defer f.Close()

	answers, err := prompt.ParseScript(f)
	if err != nil {
		return nil, err
	}

	return prompt.NewScripted(out, answers...), nil
}
