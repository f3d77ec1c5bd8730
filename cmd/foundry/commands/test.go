package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/foundry/internal/app"
	"go.trai.ch/foundry/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [root]",
		Short: "Compile and run the test contracts below root",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			o := overrides(cmd)
			if cmd.Flags().Changed("parallel") && o.Parallelism < 1 {
				return zerr.With(zerr.New(domain.ErrInvalidConfig.Error()), "parallel", o.Parallelism)
			}

			noCache, _ := cmd.Flags().GetBool("no-cache")
			watch, _ := cmd.Flags().GetBool("watch")
			traceFile, _ := cmd.Flags().GetString("trace-file")
			return c.app.Test(cmd.Context(), app.TestOptions{
				Root:      root,
				NoCache:   noCache,
				Watch:     watch,
				TraceFile: traceFile,
				Overrides: o,
			})
		},
	}
	cmd.Flags().BoolP("no-cache", "n", false, "Ignore the compilation cache and recompile every contract")
	cmd.Flags().IntP("parallel", "p", 0, "Number of contracts tested concurrently (default: number of CPUs)")
	cmd.Flags().BoolP("watch", "w", false, "Rerun affected tests when contracts change")
	cmd.Flags().String("trace-file", "", "Write the OpenTelemetry spans of the run to this file as JSON lines")
	return cmd
}
