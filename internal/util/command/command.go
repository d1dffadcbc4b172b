package command

import (
	"context"
	"fmt"

	"github.com/batchsend/batchsend/internal/config"
	"github.com/batchsend/batchsend/internal/console"
	"github.com/batchsend/batchsend/internal/prompt"
	"github.com/batchsend/batchsend/internal/transfer/chain"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewSubcommandGroup returns a command that only groups subcommands and
// prints its help when run on its own.
func NewSubcommandGroup(name string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("%s subcommands", name),
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	cmd.AddCommand(subcommands...)

	return cmd
}

// WithWallet sets up logging, connects to the configured RPC nodes, loads
// the signing key and runs f with the resulting client. The RPC connections
// are closed when f returns.
func WithWallet(ctx context.Context, cfg config.Config, c *console.Console, f func(ctx context.Context, client chain.Client) error) error {
	cfg.Logger.SetupLogger()

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	key, err := chain.LoadKey(chain.Credential{
		PrivateKey:       cfg.Wallet.PrivateKey,
		KeystorePath:     cfg.Wallet.KeystorePath,
		KeystorePassword: cfg.Wallet.KeystorePassword,
	}, func() (string, error) {
		return prompt.ReadSecret(c, "Keystore password:")
	})
	if err != nil {
		return errors.Wrap(err, "failed to load wallet key")
	}

	rpc, err := chain.NewRPCClient(cfg.RPC.URLs)
	if err != nil {
		return errors.Wrap(err, "failed to connect to RPC")
	}
	defer rpc.Close()

	client, err := chain.NewClient(ctx, rpc, key, chain.Options{
		ChainID:      cfg.RPC.ChainID,
		PollInterval: cfg.Batch.PollInterval,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create wallet client")
	}

	log.Debug().Str("address", client.Address().Hex()).Int("rpc_urls", len(cfg.RPC.URLs)).Msg("Wallet ready")

	return f(ctx, client)
}
