package cmd

import (
	"github.com/spf13/cobra"
	"github.com/systemsleep/sleepctl/internal/inhibit"
	"github.com/systemsleep/sleepctl/internal/ui"
)

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Terminate orphaned inhibitors left by crashed runs",
	Long: `Scans for sleep inhibitors tagged with this tool's identity and
terminates them. Inhibitors held by other applications are never touched.
Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := inhibit.NewManager()
		rep, err := mgr.Cleanup(cmd.Context())
		if err != nil {
			return err
		}

		for _, pid := range rep.Terminated {
			ui.Success("Terminated orphaned inhibitor pid %d", pid)
		}
		for pid, ferr := range rep.Failed {
			ui.Error("Could not terminate pid %d: %v", pid, ferr)
		}
		if rep.Skipped > 0 {
			ui.Info("Left %d foreign inhibitor(s) untouched", rep.Skipped)
		}
		if len(rep.Terminated) == 0 && len(rep.Failed) == 0 {
			ui.Info("No orphaned inhibitors found")
		}
		// Partial failure is reported above, not fatal.
		return nil
	},
}
