package addresses

import (
	"fmt"
	"math/rand/v2"

	"github.com/batchsend/batchsend/internal/config"
	"github.com/batchsend/batchsend/internal/transfer/address"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const sampleFlag = "sample"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "Print the recipient addresses from the configured sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sample, err := cmd.Flags().GetInt(sampleFlag)
			if err != nil {
				return err
			}

			config.LoadDotEnv()
			cfg := config.DefaultConfigFromEnv()
			cfg.Logger.SetupLogger()

			location, err := cfg.Source.AddressURL()
			if err != nil {
				return errors.Wrap(err, "invalid config")
			}

			list, err := address.NewService(location, cfg.Source.Timeout).Fetch(cmd.Context())
			if err != nil {
				return err
			}

			if cmd.Flags().Changed(sampleFlag) {
				rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // sampling is not security relevant
				list = address.Sample(list, sample, rng)
			}

			for _, a := range list {
				fmt.Fprintln(cmd.OutOrStdout(), a)
			}

			return nil
		},
	}

	cmd.Flags().Int(sampleFlag, 0, "Print only N randomly chosen addresses")

	return cmd
}
