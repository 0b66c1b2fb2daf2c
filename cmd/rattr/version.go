package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suadelabs/rattr/internal/analytics"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the rattr version",
	Run: func(cmd *cobra.Command, _ []string) {
		analytics.ReportEvent(analytics.EventVersionCommand)
		fmt.Printf("rattr %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
