package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/systemsleep/sleepctl/internal/config"
	"github.com/systemsleep/sleepctl/internal/inhibit"
	"github.com/systemsleep/sleepctl/internal/logging"
	"github.com/systemsleep/sleepctl/internal/monitor"
	"github.com/systemsleep/sleepctl/internal/rates"
	"github.com/systemsleep/sleepctl/internal/scheduler"
	"github.com/systemsleep/sleepctl/internal/ui"
)

var (
	flagReason        string
	flagRates         bool
	flagRatesInterval int
	flagPrevListen    string
	flagPrevLogFile   string
	flagPrevConfig    string
)

func init() {
	preventCmd.Flags().StringVar(&flagReason, "reason", "", "Reason for preventing sleep (shown in systemd logs)")
	preventCmd.Flags().BoolVar(&flagRates, "rates", false, "Poll the USD→INR exchange rate while preventing sleep")
	preventCmd.Flags().IntVar(&flagRatesInterval, "rates-interval", 0, "Exchange-rate poll interval in seconds")
	preventCmd.Flags().StringVar(&flagPrevListen, "listen", "", "Broadcast prevention status on this address (e.g. 127.0.0.1:7878)")
	preventCmd.Flags().StringVarP(&flagPrevLogFile, "log-file", "l", "", "Path to log file")
	preventCmd.Flags().StringVar(&flagPrevConfig, "config", "", "Path to config file")
	rootCmd.AddCommand(preventCmd)
}

var preventCmd = &cobra.Command{
	Use:   "prevent",
	Short: "Prevent the system from sleeping until interrupted",
	Long: `Holds an OS-level sleep inhibitor until Ctrl+C. The inhibitor is tagged
with this tool's identity so a later ` + "`sleepctl cleanup`" + ` can recover it if
this process is force-killed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagPrevConfig)
		if err != nil {
			return err
		}

		reason := cfg.PreventSleepReason
		if flagReason != "" {
			reason = flagReason
		}
		logPath := cfg.LogFile
		if cmd.Flags().Changed("log-file") {
			logPath = flagPrevLogFile
		}
		log, closeLog, err := logging.Init(logPath)
		if err != nil {
			return err
		}
		defer closeLog()

		ui.Banner(version)
		ui.KeyValue("Mode", "prevent sleep")
		ui.KeyValue("Reason", reason)
		ui.Separator()

		var bcast *monitor.Broadcaster
		listen := flagPrevListen
		if listen == "" {
			listen = cfg.ListenAddr
		}
		if listen != "" {
			srv := monitor.NewServer()
			if err := srv.Listen(listen); err != nil {
				return fmt.Errorf("cannot listen on %s: %w", listen, err)
			}
			defer srv.Close()
			bcast = monitor.NewBroadcaster(uuid.NewString(), srv)
			ui.Info("Broadcasting prevention status on ws://%s/ws", srv.Addr())
		}

		mgr := inhibit.NewManager()
		handle, err := mgr.Start(reason)
		if err != nil {
			if errors.Is(err, inhibit.ErrNotFound) {
				ui.Error("No sleep-prevention backend: %v", err)
			}
			return err
		}
		log.Info("sleep prevention started", "pid", handle.PID, "reason", reason)
		if bcast != nil {
			bcast.Status(fmt.Sprintf("sleep prevention active (%s)", reason))
		}

		ui.Success("Sleep prevention active %s", ui.Dim(fmt.Sprintf("(pid %d)", handle.PID)))
		ui.Info("Press Ctrl+C to exit")

		token := scheduler.NewToken()
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			<-sigCh
			fmt.Fprintln(os.Stderr)
			ui.Warn("Shutting down...")
			token.Cancel()
		}()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if flagRates {
			interval := cfg.RatesInterval()
			if flagRatesInterval > 0 {
				interval = time.Duration(flagRatesInterval) * time.Second
			}
			go ratesLoop(ctx, rates.New(cfg.RatesURL, 0), interval)
		}

		waitErr := mgr.Wait(handle, token.Cancelled)
		if errors.Is(waitErr, inhibit.ErrExited) {
			ui.Warn("Inhibitor process exited on its own")
			log.Warn("inhibitor exited", "pid", handle.PID)
			if bcast != nil {
				bcast.OnTerminal(scheduler.Failed, "inhibitor process exited on its own")
			}
		}

		if err := mgr.Stop(handle); err != nil {
			ui.Warn("Error stopping sleep prevention: %v", err)
			log.Warn("stop escalated", "error", err)
		} else {
			ui.Success("Sleep prevention deactivated")
		}
		if bcast != nil && !errors.Is(waitErr, inhibit.ErrExited) {
			bcast.OnTerminal(scheduler.Completed, "sleep prevention deactivated")
		}
		log.Info("sleep prevention stopped", "pid", handle.PID)
		return nil
	},
}

// ratesLoop fetches the exchange rate immediately and then on every tick
// until ctx is cancelled.
func ratesLoop(ctx context.Context, client *rates.Client, interval time.Duration) {
	fetch := func() {
		rate, err := client.Fetch(ctx)
		if err != nil {
			if ctx.Err() == nil {
				ui.Warn("Exchange rate fetch failed: %v", err)
			}
			return
		}
		ui.Info("USD → INR: ₹%.4f", rate)
	}

	fetch()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fetch()
		}
	}
}
