package probe

import (
	"context"
	"time"

	"github.com/batchsend/batchsend/internal/config"
	"github.com/batchsend/batchsend/internal/console"
	"github.com/batchsend/batchsend/internal/transfer/chain"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const probeTimeout = 10 * time.Second

func newRPC() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rpc",
		Short: "Checks every configured RPC URL",
		Long: `Checks every URL in RPC_URL on its own and prints the chain id and head
block it reports. Fails when no URL is healthy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				return err
			}

			config.LoadDotEnv()
			cfg := config.DefaultConfigFromEnv()
			cfg.Logger.SetupLogger()

			if len(cfg.RPC.URLs) == 0 {
				return config.ErrMissingRPCURL
			}

			out := console.Stdout()
			healthy := 0
			for _, url := range cfg.RPC.URLs {
				if err := probeRPC(cmd.Context(), out, url, verbose); err != nil {
					out.Error("%s: %v", url, err)
					continue
				}
				healthy++
			}

			if healthy == 0 {
				return errors.New("no healthy RPC URL")
			}

			return nil
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Print the head block hash and base fee")

	return cmd
}

func probeRPC(ctx context.Context, out *console.Console, url string, verbose bool) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	client, err := chain.NewRPCClient([]string{url})
	if err != nil {
		return err
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return err
	}

	head, err := client.LatestHeader(ctx)
	if err != nil {
		return err
	}

	out.Success("%s: chain %s, block %s", url, chainID.String(), head.Number.String())

	if verbose {
		out.Info("hash %s", head.Hash().Hex())
		if head.BaseFee != nil {
			out.Info("base fee %s wei", head.BaseFee.String())
		}
	}

	log.Debug().Str("url", url).Uint64("block", head.Number.Uint64()).Msg("RPC probe ok")

	return nil
}
