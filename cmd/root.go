package cmd

import (
	"fmt"
	"os"

	"github.com/batchsend/batchsend/cmd/addresses"
	"github.com/batchsend/batchsend/cmd/balance"
	"github.com/batchsend/batchsend/cmd/env"
	"github.com/batchsend/batchsend/cmd/probe"
	"github.com/batchsend/batchsend/cmd/send"
	"github.com/batchsend/batchsend/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "batchsend",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

Sends native or ERC-20 transfers to a list of addresses read from a
spreadsheet CSV export, one transaction at a time.
Requires configuration through ENV or a .env file.`, config.ModuleName),
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	// attach the subcommands
	rootCmd.AddCommand(
		addresses.New(),
		balance.New(),
		env.New(),
		probe.New(),
		send.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
