package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var screensCmd = &cobra.Command{
	Use:   "screens",
	Short: "List the demo screens",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, name := range screenNames() {
			fmt.Fprintf(w, "%s\t%s\n", name, screenDefs[name].description)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(screensCmd)
}
