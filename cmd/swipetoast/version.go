package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swipetoast/internal/toast"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "swipetoast %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "  toast:  %s\n", toast.Version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", buildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
