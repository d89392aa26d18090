package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/grab/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
