package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/systemsleep/sleepctl/internal/config"
	"github.com/systemsleep/sleepctl/internal/inhibit"
	"github.com/systemsleep/sleepctl/internal/logging"
	"github.com/systemsleep/sleepctl/internal/monitor"
	"github.com/systemsleep/sleepctl/internal/power"
	"github.com/systemsleep/sleepctl/internal/scheduler"
	"github.com/systemsleep/sleepctl/internal/ui"
)

var (
	flagSleepType string
	flagDelayMin  int
	flagDelaySec  int
	flagWakeMin   int
	flagTimeout   int
	flagOnce      bool
	flagForce     bool
	flagListen    string
	flagLogFile   string
	flagConfig    string
)

func init() {
	sleepCmd.Flags().StringVarP(&flagSleepType, "type", "s", "", "Sleep type: suspend, hibernate or hybrid-sleep")
	sleepCmd.Flags().IntVarP(&flagDelayMin, "delay", "d", -1, "Initial delay in minutes before sleep (0 for immediate)")
	sleepCmd.Flags().IntVar(&flagDelaySec, "delay-seconds", -1, "Initial delay in seconds (overrides --delay)")
	sleepCmd.Flags().IntVarP(&flagWakeMin, "wake-delay", "w", -1, "Delay in minutes after wake-up before the next cycle")
	sleepCmd.Flags().IntVarP(&flagTimeout, "timeout", "t", 0, "Sleep command timeout in seconds")
	sleepCmd.Flags().BoolVar(&flagOnce, "once", false, "Sleep once and exit instead of cycling")
	sleepCmd.Flags().BoolVar(&flagForce, "force", false, "Schedule even when foreign sleep inhibitors are active")
	sleepCmd.Flags().StringVar(&flagListen, "listen", "", "Broadcast countdown events on this address (e.g. 127.0.0.1:7878)")
	sleepCmd.Flags().StringVarP(&flagLogFile, "log-file", "l", "", "Path to log file")
	sleepCmd.Flags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.AddCommand(sleepCmd)
}

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Schedule a repeating sleep cycle",
	Long: `Counts down, puts the machine to sleep, and after the machine wakes waits
the wake delay and re-arms for another cycle, until interrupted with
Ctrl+C. With --once the run ends after the first successful sleep.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}

		sleepType := cfg.DefaultSleepType
		if flagSleepType != "" {
			sleepType = flagSleepType
		}
		capability, err := power.ParseCapability(sleepType)
		if err != nil {
			return err
		}
		if capability == power.PreventSleep {
			return errors.New("use `sleepctl prevent` for sleep prevention")
		}

		req := scheduler.Request{
			Capability:    capability,
			InitialDelay:  cfg.InitialDelay(),
			Cycle:         cfg.Cycle && !flagOnce,
			WakeDelay:     cfg.WakeDelay(),
			ActionTimeout: cfg.ActionTimeout(),
		}
		if flagDelayMin >= 0 {
			req.InitialDelay = time.Duration(flagDelayMin) * time.Minute
		}
		if flagDelaySec >= 0 {
			req.InitialDelay = time.Duration(flagDelaySec) * time.Second
		}
		if flagWakeMin >= 0 {
			req.WakeDelay = time.Duration(flagWakeMin) * time.Minute
		}
		if flagTimeout > 0 {
			req.ActionTimeout = time.Duration(flagTimeout) * time.Second
		}

		logPath := cfg.LogFile
		if cmd.Flags().Changed("log-file") {
			logPath = flagLogFile
		}
		log, closeLog, err := logging.Init(logPath)
		if err != nil {
			return err
		}
		defer closeLog()

		ui.Banner(version)
		ui.KeyValue("Type", capability.String())
		ui.KeyValue("Delay", req.InitialDelay.String())
		if req.Cycle {
			ui.KeyValue("Wake delay", req.WakeDelay.String())
		}
		ui.KeyValue("Timeout", req.ActionTimeout.String())
		ui.Separator()

		if err := checkForeignInhibitors(cmd, flagForce); err != nil {
			return err
		}

		token := scheduler.NewToken()
		sched := scheduler.New(req, power.New(), power.NewPrechecker(), token, &consoleObserver{})
		sched.SetLogger(log)

		listen := flagListen
		if listen == "" {
			listen = cfg.ListenAddr
		}
		if listen != "" {
			srv := monitor.NewServer()
			if err := srv.Listen(listen); err != nil {
				return fmt.Errorf("cannot listen on %s: %w", listen, err)
			}
			defer srv.Close()
			sched.AddObserver(monitor.NewBroadcaster(sched.RunID(), srv))
			ui.Info("Broadcasting countdown on ws://%s/ws", srv.Addr())
		}

		// Ctrl+C requests cooperative cancellation; the run finishes its
		// current suspension point and reports Cancelled.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			<-sigCh
			fmt.Fprintln(os.Stderr)
			ui.Warn("Cancelling...")
			token.Cancel()
		}()

		// The run owns a dedicated goroutine; this loop only waits for it.
		type outcome struct {
			res scheduler.Result
			err error
		}
		done := make(chan outcome, 1)
		go func() {
			res, err := sched.Run(cmd.Context())
			done <- outcome{res, err}
		}()

		out := <-done
		if out.err != nil {
			return out.err
		}
		if out.res.Phase == scheduler.Failed {
			return errors.New(out.res.Message)
		}
		return nil
	},
}

// checkForeignInhibitors refuses to schedule while inhibitors held by other
// applications would block the transition, unless forced.
func checkForeignInhibitors(cmd *cobra.Command, force bool) error {
	mgr := inhibit.NewManager()
	foreign, err := mgr.Foreign(cmd.Context())
	if err != nil {
		// Enumeration problems should not block scheduling.
		ui.Warn("Could not scan for foreign inhibitors: %v", err)
		return nil
	}
	if len(foreign) == 0 {
		return nil
	}
	for _, f := range foreign {
		ui.Warn("Foreign sleep inhibitor: pid %d %s", f.PID, ui.Dim(f.Cmdline))
	}
	if force {
		ui.Info("Proceeding anyway (--force)")
		return nil
	}
	return fmt.Errorf("%d foreign sleep inhibitor(s) active; stop them or pass --force",
		len(foreign))
}
