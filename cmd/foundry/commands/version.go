package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/foundry/internal/build"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "foundry version %s\n", build.String())
		},
	}
}
