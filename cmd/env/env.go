package env

import (
	"encoding/json"
	"fmt"

	"github.com/batchsend/batchsend/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// envView adds credential presence to the config; the secrets themselves
// are never serialized.
type envView struct {
	config.Config
	PrivateKeySet       bool   `json:"privateKeySet"`
	KeystorePasswordSet bool   `json:"keystorePasswordSet"`
	AddressURL          string `json:"addressUrl,omitempty"`
}

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the effective config as JSON",
		Long: `Prints the config assembled from ENV and .env files as JSON.
Private keys and passwords are reported as set or unset only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadDotEnv()
			cfg := config.DefaultConfigFromEnv()

			view := envView{
				Config:              cfg,
				PrivateKeySet:       cfg.Wallet.PrivateKey != "",
				KeystorePasswordSet: cfg.Wallet.KeystorePassword != "",
			}
			if u, err := cfg.Source.AddressURL(); err == nil {
				view.AddressURL = u
			}

			b, err := json.MarshalIndent(view, "", "  ")
			if err != nil {
				return errors.Wrap(err, "failed to marshal config")
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(b))

			return nil
		},
	}
}
