// Command nurbsdiff computes, applies, and three-way-merges textual
// patches between scene documents.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nurbsdiff/nurbsdiff/internal/config"
	"github.com/nurbsdiff/nurbsdiff/internal/obslog"
)

var (
	flagInteractive bool
	flagColor       bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "nurbsdiff:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nurbsdiff",
		Short: "Compute and apply structural deltas between scene documents",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			obslog.SetLevel(config.Get().LogLevel)
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&flagInteractive, "interactive", true, "use the prompting session when stdout is a terminal (merge conflicts follow the configured MergeStrategy, not a prompt)")
	root.PersistentFlags().BoolVar(&flagColor, "color", true, "accepted but ignored: no output is colorized")

	root.AddCommand(diffCmd(), patchCmd(), diff3Cmd())
	return root
}
