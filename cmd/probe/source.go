package probe

import (
	"github.com/batchsend/batchsend/internal/config"
	"github.com/batchsend/batchsend/internal/console"
	"github.com/batchsend/batchsend/internal/transfer/address"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newSource() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source",
		Short: "Checks that the address sheet can be fetched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
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

			out := console.Stdout()
			out.Success("Retrieved %d total addresses", len(list))
			if verbose && len(list) > 0 {
				out.Info("first %s, last %s", list[0], list[len(list)-1])
			}

			return nil
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Print the first and last address")

	return cmd
}
