package cmd

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/systemsleep/sleepctl/internal/config"
	"github.com/systemsleep/sleepctl/internal/monitor"
	"github.com/systemsleep/sleepctl/internal/protocol"
	"github.com/systemsleep/sleepctl/internal/ui"
)

const defaultWatchAddr = "127.0.0.1:7878"

var (
	flagWatchAddr   string
	flagWatchConfig string
)

func init() {
	watchCmd.Flags().StringVar(&flagWatchAddr, "addr", "", "Address of a run started with --listen (host:port)")
	watchCmd.Flags().StringVar(&flagWatchConfig, "config", "", "Path to config file")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a running sleep schedule from another terminal",
	Long: `Connects to a ` + "`sleepctl sleep --listen`" + ` run and renders its live
countdown. Reconnects with backoff if the run is briefly unreachable
(for example across the machine's own suspend).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagWatchConfig)
		if err != nil {
			return err
		}

		addr := flagWatchAddr
		if addr == "" {
			addr = cfg.ListenAddr
		}
		if addr == "" {
			addr = defaultWatchAddr
		}
		wsURL := "ws://" + addr + "/ws"

		ui.Banner(version)
		ui.KeyValue("Endpoint", wsURL)
		ui.Separator()

		stop := make(chan struct{})
		var once sync.Once
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			<-sigCh
			once.Do(func() { close(stop) })
		}()

		r := &watchRenderer{}
		monitor.Watch(stop, wsURL, r.render, func(connected bool, err error) {
			r.endCountdownLine()
			if connected {
				ui.Success("Connected")
			} else if err != nil {
				ui.Warn("Connection lost: %v", err)
				ui.Info("Reconnecting...")
			}
		})
		return nil
	},
}

// watchRenderer mirrors consoleObserver for the event stream.
type watchRenderer struct {
	ticking bool
}

func (r *watchRenderer) render(ev protocol.Event) {
	switch ev.Type {
	case protocol.EventTick:
		r.ticking = true
		ui.Countdown(ev.Cycle, time.Duration(ev.RemainingSeconds)*time.Second, ev.Percent)
	case protocol.EventPhase:
		r.endCountdownLine()
		ui.Info("%s", ev.Message)
	case protocol.EventTerminal:
		r.endCountdownLine()
		switch ev.Phase {
		case "completed":
			ui.Success("%s", ev.Message)
		case "cancelled":
			ui.Warn("%s", ev.Message)
		default:
			ui.Error("%s", ev.Message)
		}
	}
}

func (r *watchRenderer) endCountdownLine() {
	if r.ticking {
		ui.EndCountdown()
		r.ticking = false
	}
}
