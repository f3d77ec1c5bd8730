// Package commands implements the CLI commands for the foundry test runner.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/foundry/internal/app"
	"go.trai.ch/foundry/internal/build"
	"go.trai.ch/foundry/internal/core/domain"
)

// CLI represents the command line interface for foundry.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "foundry",
		Short:         "Compile and run Cairo test contracts",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.String(),
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().String("cache-dir", "", "Directory holding the compilation cache")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		jsonLogs, _ := cmd.Flags().GetBool("json")
		c.app.SetJSONLogs(jsonLogs)
	}

	rootCmd.AddCommand(c.newTestCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets where command output is written. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

func overrides(cmd *cobra.Command) domain.ConfigOverrides {
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	o := domain.ConfigOverrides{CacheRoot: cacheDir}
	if f := cmd.Flags().Lookup("parallel"); f != nil && f.Changed {
		o.Parallelism, _ = cmd.Flags().GetInt("parallel")
	}
	return o
}
