package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// Typically called by the main package with values injected via
// ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the fluentmind CLI and returns an error if any command
// fails. Logging defaults to info level on stderr; --verbose switches
// to debug. The logger is attached to the command context and
// retrieved by subcommands via loggerFromContext.
func Execute() error {
	var verbose bool

	root := &cobra.Command{
		Use:          "fluentmind",
		Short:        "FluentMind validates, lays out and ships workflow graphs",
		Long:         `FluentMind is a CLI for working with workflow-graph JSON files: structural validation, deterministic canvas layout, API-safe sanitization, template instantiation, and submission to an execution host.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("fluentmind %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newLayoutCmd())
	root.AddCommand(newSanitizeCmd())
	root.AddCommand(newSubmitCmd())
	root.AddCommand(newTemplatesCmd())
	root.AddCommand(newInstantiateCmd())

	return root.ExecuteContext(context.Background())
}
