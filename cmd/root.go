// Package cmd defines command-line interface commands for matrix-tpl.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ai-infra-matrix/matrix-tpl/internal/config"
	"github.com/ai-infra-matrix/matrix-tpl/internal/errors"
	"github.com/ai-infra-matrix/matrix-tpl/internal/ui"
)

var (
	version    string
	configPath string
	verbose    bool
	quiet      bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "matrix-tpl",
	Short: "Deployment templating toolkit for AI-Infra-Matrix",
	Long: `matrix-tpl turns hand-written infrastructure files into environment
parameterized templates and renders them back into concrete outputs.

Templates use {{NAME}} tokens (NAME matching [A-Z_][A-Z0-9_]*). Everything
else, including nginx $variables and shell ${VAR} references, is left as is.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return nil
		}
		msg := fmt.Sprintf("unknown command %q for %q", args[0], cmd.CommandPath())
		if suggestions := cmd.SuggestionsFor(args[0]); len(suggestions) > 0 {
			msg += fmt.Sprintf(", did you mean %q?", suggestions[0])
		}
		return errors.NewUsageError(msg, cmd.UseLine()+" <command>")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return errors.NewUsageError("a command is required; see matrix-tpl --help", cmd.UseLine()+" <command>")
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

// Execute runs the root CLI command. Errors are reported on stderr as a
// single [ERROR] line before being returned.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		ui.Error("%v", err)
	}
	return err
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
	rootCmd.Version = version
}

// setup loads configuration and applies the diagnostic level.
func setup() error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return errors.NewRuntimeError("failed to load configuration", err)
	}

	level, err := ui.ParseLevel(loaded.Log.Level)
	if err != nil {
		return errors.NewRuntimeError("invalid log.level", err)
	}
	if verbose {
		level = ui.LevelDebug
	}
	if quiet {
		level = ui.LevelWarn
	}
	ui.SetLevel(level)

	cfg = loaded
	if loaded.File != "" {
		ui.Debug("using config file %s", loaded.File)
	}
	return nil
}

// activeConfig returns the loaded configuration, or the defaults when a
// command function runs without going through the root command.
func activeConfig() *config.Config {
	if cfg == nil {
		cfg = config.Defaults()
	}
	return cfg
}

// exactArgs is cobra.ExactArgs with a usage error that carries the synopsis.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.NewUsageError(
				fmt.Sprintf("%s accepts %d arg(s), received %d", cmd.Name(), n, len(args)),
				cmd.UseLine(),
			)
		}
		return nil
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./"+config.DefaultFile+" when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug diagnostics")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Print only warnings and errors")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.NewUsageError(err.Error(), cmd.UseLine())
	})

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(dockerfilesCmd)
	rootCmd.AddCommand(composePatchCmd)
	rootCmd.AddCommand(catalogueCmd)
}
