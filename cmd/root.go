package cmd

import (
	"os"

	"github.com/crytic/solflat/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cmdLogger is the logger used by the cmd package. It writes colorized output to the console until a command
// reconfigures it from the project configuration.
var cmdLogger = logging.NewLogger(zerolog.InfoLevel).NewSubLogger("module", logging.CLI_SERVICE)

var rootCmd = &cobra.Command{
	Use:   "solflat",
	Short: "A Solidity source flattener",
	Long:  "solflat merges a Solidity contract and all of its transitive imports into a single self-contained file",
}

func init() {
	cmdLogger.AddWriter(os.Stdout, logging.UNSTRUCTURED, true)
}

// Execute runs the root command, parsing the command line and invoking the selected sub-command.
func Execute() error {
	return rootCmd.Execute()
}
