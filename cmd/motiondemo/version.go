package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the motiondemo version, overridden at build time with
// -ldflags "-X main.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of motiondemo",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "motiondemo version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
