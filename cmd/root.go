package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"bootstrap-machine/internal/logger"
)

// debug flag indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// rootCmd is the base command for the CLI tool `bootstrap-machine`.
// It sets up the root-level CLI structure and provides global flags.
var rootCmd = &cobra.Command{
	Use:   "bootstrap-machine",             // The name of the CLI tool
	Short: "Workstation provisioning tool", // Short description shown in help output

	// Errors from RunE are logged once at the top level in Execute; cobra's
	// own duplicate printing is silenced.
	SilenceErrors: true,
	SilenceUsage:  true,

	// PersistentPreRun is a hook that runs before any subcommand.
	// Here, we initialize the logger based on the debug flag.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug) // Set up logging (verbose if --debug is true)
	},
}

// Execute initializes flags, registers subcommands, and starts the command execution.
// It's the entry point for the CLI when invoked by the user.
//
// Exit status: 0 on full success (including runs where optional tools failed
// recoverably), 1 when a fatal step failed — directory layout, the
// configuration-tool bootstrap, or the dotfiles apply.
func Execute() {
	// Register the global --debug flag before any command is executed.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
}
