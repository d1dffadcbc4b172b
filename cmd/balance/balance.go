package balance

import (
	"context"

	"github.com/batchsend/batchsend/internal/config"
	"github.com/batchsend/batchsend/internal/console"
	"github.com/batchsend/batchsend/internal/transfer/amount"
	"github.com/batchsend/batchsend/internal/transfer/chain"
	"github.com/batchsend/batchsend/internal/transfer/report"
	"github.com/batchsend/batchsend/internal/util/command"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const tokenFlag = "token"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the wallet address and balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := cmd.Flags().GetString(tokenFlag)
			if err != nil {
				return err
			}

			config.LoadDotEnv()
			cfg := config.DefaultConfigFromEnv()
			out := console.Stdout()

			var info *report.TokenInfo
			if token != "" {
				addr, err := chain.ParseAddress(token)
				if err != nil {
					return err
				}
				info = &report.TokenInfo{Address: addr, Symbol: "tokens", Decimals: amount.EtherDecimals}
			}

			return command.WithWallet(cmd.Context(), cfg, out, func(ctx context.Context, client chain.Client) error {
				out.Info("Wallet address: %s", client.Address().Hex())

				if info != nil {
					if decimals, err := client.TokenDecimals(ctx, info.Address); err == nil {
						info.Decimals = int32(decimals)
					} else {
						log.Warn().Err(err).Msg("Token does not report decimals, assuming 18")
					}
				}

				reporter := report.New(client, out, info)
				snap, err := reporter.Snapshot(ctx)
				if err != nil {
					return err
				}
				reporter.PrintBalance(snap)

				return nil
			})
		},
	}

	cmd.Flags().String(tokenFlag, "", "Also print the balance of this ERC-20 contract")

	return cmd
}
