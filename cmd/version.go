package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of sleepctl",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sleepctl v%s\n", version)
	},
}
