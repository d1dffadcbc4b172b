package probe

import (
	"github.com/batchsend/batchsend/internal/util/command"
	"github.com/spf13/cobra"
)

const (
	verboseFlag string = "verbose"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newRPC(),
		newSource(),
	)
}
