package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/angristan/camp-tui/internal/camp"
	"github.com/angristan/camp-tui/internal/config"
	"github.com/angristan/camp-tui/internal/logging"
	"github.com/angristan/camp-tui/internal/observability"
	"github.com/angristan/camp-tui/internal/schedule"
	"github.com/angristan/camp-tui/internal/tui"
	"github.com/angristan/camp-tui/internal/tui/screens"
)

// options shared by every command that starts a session
type runOptions struct {
	seed        uint64
	metricsAddr string
	logLevel    string
}

func main() {
	var opts runOptions

	rootCmd := &cobra.Command{
		Use:          "camp",
		Short:        "Campsite energy, lighting, weather and navigation dashboard",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
	rootCmd.PersistentFlags().Uint64Var(&opts.seed, "seed", 0, "random seed for the simulators (0 uses the config, then the clock)")
	rootCmd.PersistentFlags().StringVar(&opts.metricsAddr, "metrics-addr", "", "HTTP address for Prometheus /metrics (empty uses the config)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(headlessCmd(&opts))
	rootCmd.AddCommand(initConfigCmd())
	rootCmd.AddCommand(deviceCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies command-line overrides
func loadConfig(opts runOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.seed != 0 {
		cfg.Seed = opts.seed
	}
	if opts.metricsAddr != "" {
		cfg.MetricsAddr = opts.metricsAddr
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, nil
}

// openLog opens the log file. The TUI owns the terminal, so logs never go
// to stderr while it runs.
func openLog(cfg *config.Config) (io.WriteCloser, error) {
	path := os.Getenv("LOG_PATH")
	if path == "" {
		var err error
		if path, err = cfg.LogPath(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// startSession creates the loop and session and binds metrics when enabled.
// The returned cleanup stops everything in reverse order.
func startSession(ctx context.Context, cfg *config.Config, log logging.Logger) (*schedule.Loop, *camp.Session, func(), error) {
	loop := schedule.NewLoop(0)

	var session *camp.Session
	var err error
	// Construction registers tasks, so it runs on the loop like everything else.
	loop.Do(func() {
		session, err = camp.NewSession(ctx, loop, cfg, log)
	})
	if err != nil {
		loop.Stop()
		return nil, nil, nil, err
	}

	var metricsSrv *http.Server
	var collector *observability.CampCollector
	if cfg.MetricsAddr != "" {
		collector, err = observability.NewCampCollector(nil)
		if err != nil {
			session.Close()
			loop.Stop()
			return nil, nil, nil, fmt.Errorf("metrics: %w", err)
		}
		loop.Do(func() { collector.Bind(session) })
		metricsSrv = serveMetrics(cfg.MetricsAddr, collector, log)
	}

	cleanup := func() {
		if metricsSrv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}
		loop.Do(func() {
			if collector != nil {
				collector.Unbind()
			}
			session.Close()
		})
		loop.Stop()
	}
	return loop, session, cleanup, nil
}

func serveMetrics(addr string, collector *observability.CampCollector, log logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}

func runTUI(ctx context.Context, opts runOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logFile, err := openLog(cfg)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer logFile.Close()
	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: logFile})

	loop, session, cleanup, err := startSession(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	p := tea.NewProgram(
		tui.NewModel(session, loop),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	var unsubscribe func()
	loop.Do(func() { unsubscribe = tui.Subscribe(session, p.Send) })
	defer loop.Do(unsubscribe)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running app: %w", err)
	}
	return nil
}

func headlessCmd(opts *runOptions) *cobra.Command {
	var every time.Duration
	var count int

	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run the simulators without the dashboard and print a status line periodically",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHeadless(cmd.Context(), cmd.OutOrStdout(), *opts, every, count)
		},
	}
	cmd.Flags().DurationVarP(&every, "every", "e", 5*time.Second, "interval between status lines")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "stop after this many lines (0 runs until interrupted)")
	return cmd
}

func runHeadless(ctx context.Context, out io.Writer, opts runOptions, every time.Duration, count int) error {
	if every <= 0 {
		return fmt.Errorf("interval must be positive, got %s", every)
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	loop, session, cleanup, err := startSession(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for printed := 0; count == 0 || printed < count; printed++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		var line string
		if !loop.Do(func() { line = session.Status().Summary() }) {
			return screens.ErrLoopStopped
		}
		fmt.Fprintf(out, "%s %s\n", time.Now().Format(time.TimeOnly), line)
	}
	return nil
}

func initConfigCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Default().Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
