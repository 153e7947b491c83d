// Package cli provides the command-line interface for chatlens.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/internal/cli/commands"
	"github.com/ccollicutt/chatlens/internal/cli/plugins"
)

// Execute runs the root command with os.Args and returns the exit code.
func Execute() int {
	return ExecuteArgs(os.Args[1:])
}

// ExecuteArgs runs the root command with args and returns the exit code.
// A first argument that is neither a flag nor a built-in command is handed
// to a plugin when one is installed.
func ExecuteArgs(args []string) int {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	commands.ExitCode = commands.ExitOK

	external := len(args) > 0 && args[0] != "" && args[0][0] != '-' && !isBuiltinCommand(rootCmd, args[0])
	if external {
		if pluginPath, err := plugins.NewFinder().Find(args[0]); err == nil {
			return plugins.Run(plugins.Command(pluginPath, args[1:], commands.Version))
		}
	}

	if err := rootCmd.Execute(); err != nil {
		if external {
			_, _ = fmt.Fprintln(os.Stderr, plugins.FormatNotFoundError(args[0]))
			return commands.ExitError
		}
		// SilenceErrors prevents cobra from printing this
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return commands.ExitError
	}
	return commands.ExitCode
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chatlens",
		Short: "Analyze exported WhatsApp chats",
		Long: `chatlens parses exported WhatsApp chat logs and reports who talks, when,
and about what.

Both export layouts are recognised:
  [3:04 pm, 2/1/2006] Alice: hello      (bracketed, 12-hour)
  2/1/06, 15:04 - Alice: hello          (dashed, 24-hour)

Run it once on the command line, or as an HTTP service with "chatlens serve".

PLUGINS:
  Unknown commands are handed to executables named chatlens-<command>,
  searched next to the chatlens binary, in ~/.chatlens/plugins/, then in PATH.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewUsersCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
