package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sleepctl",
	Short: "sleepctl — schedule, repeat and prevent system sleep",
	Long: `sleepctl puts the machine to sleep after a delay and re-arms itself after
every wake until stopped, or holds a sleep inhibitor to keep the machine
awake. Scheduled runs can broadcast their countdown so a second terminal
can watch them live.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
