package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/Therkelsen/introduction-to-drone-technology/internal/adapters/sink"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/app"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/config"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/decoder"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/engine/detectors"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/testlog"
	"github.com/Therkelsen/introduction-to-drone-technology/pkg/logger"
	"github.com/Therkelsen/introduction-to-drone-technology/pkg/metrics"
)

const version = "0.2.0"

const metricsReadHeaderTimeout = 5 * time.Second

// GlobalFlags holds persistent flags shared by all subcommands.
type GlobalFlags struct {
	ConfigPath string
	LogLevel   string
}

// ReplayFlags holds replay command overrides on top of the config file.
type ReplayFlags struct {
	LogFile      string
	StartSeconds float64
	EndSeconds   float64
	OutputDir    string
	Detectors    []string
	MetricsAddr  string
}

// GenFlags holds flags for the gen subcommand.
type GenFlags struct {
	OutPath         string
	DurationSeconds float64
	DropAtSeconds   float64
	KillAtSeconds   float64
	Seed            int64
}

func buildRoot() *cobra.Command {
	global := &GlobalFlags{}

	root := &cobra.Command{
		Use:           "uavdetect",
		Short:         "Replay UAV flight logs through a failure-detection engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&global.ConfigPath, "config", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&global.LogLevel, "log-level", "", "log verbosity: debug, info, warn, error")

	root.AddCommand(buildReplayCmd(global))
	root.AddCommand(buildGenCmd())
	root.AddCommand(buildVersionCmd())
	return root
}

func buildVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("uavdetect " + version)
		},
	}
}

func buildReplayCmd(global *GlobalFlags) *cobra.Command {
	flags := &ReplayFlags{}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay one flight log and report detections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReplay(cmd, global, flags)
		},
	}
	cmd.Flags().StringVar(&flags.LogFile, "log", "", "decoded flight log to replay (columnar JSON)")
	cmd.Flags().Float64Var(&flags.StartSeconds, "start", 0, "window lower bound in seconds")
	cmd.Flags().Float64Var(&flags.EndSeconds, "end", 0, "window upper bound in seconds")
	cmd.Flags().StringVar(&flags.OutputDir, "output", "", "directory for CSV exports (empty disables)")
	cmd.Flags().StringSliceVar(&flags.Detectors, "detectors", nil, "detectors to run (noop, pressure, killswitch)")
	cmd.Flags().StringVar(&flags.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while replaying")
	return cmd
}

func runReplay(cmd *cobra.Command, global *GlobalFlags, flags *ReplayFlags) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, cmd, global, flags)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log level; falling back to info", logger.String("log_level", cfg.LogLevel))
		_ = logger.SetLevelString("info")
	}

	detSet, err := detectors.Build(cfg.Detectors, detectors.Config{
		PressureDropPaPerS:  cfg.PressureDropPaPerS,
		MinPressureSamples:  cfg.MinPressureSamples,
		KillSwitchThreshold: cfg.KillSwitchThreshold,
	})
	if err != nil {
		return err
	}

	sinks := []sink.Sink{sink.NewConsole()}
	if cfg.OutputDir != "" {
		sinks = append(sinks, sink.NewCSV(cfg.OutputDir))
	}

	if flags.MetricsAddr != "" {
		go serveMetrics(ctx, flags.MetricsAddr, log)
	}

	svc := app.New(
		app.WithSource(decoder.NewJSONFileSource(cfg.LogFilePath)),
		app.WithWindow(cfg.StartSeconds, cfg.EndSeconds),
		app.WithDetectors(detSet...),
		app.WithSinks(sinks...),
		app.WithLogger(log),
	)

	report, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	log.Info(ctx, "replay complete",
		logger.String("run_id", report.RunID.String()),
		logger.Int("events", report.EventsMerged),
		logger.Int("pressure_samples", report.PressureSamples),
		logger.Int("kill_switch_samples", report.KillSwitchSamples),
		logger.Int("detections", len(report.Detections)),
	)
	return nil
}

// loadConfig layers the config file and env, then applies explicit CLI
// overrides and validates the result.
func loadConfig(ctx context.Context, cmd *cobra.Command, global *GlobalFlags, flags *ReplayFlags) (*config.Config, error) {
	cfg, err := config.Load(ctx, global.ConfigPath)
	if err != nil {
		return nil, err
	}

	if global.LogLevel != "" {
		cfg.LogLevel = global.LogLevel
	}
	if flags.LogFile != "" {
		cfg.LogFilePath = flags.LogFile
	}
	if cmd.Flags().Changed("start") {
		cfg.StartSeconds = flags.StartSeconds
	}
	if cmd.Flags().Changed("end") {
		cfg.EndSeconds = flags.EndSeconds
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = flags.OutputDir
	}
	if cmd.Flags().Changed("detectors") {
		cfg.Detectors = flags.Detectors
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// serveMetrics exposes the custom registry for scraping during long replays.
func serveMetrics(ctx context.Context, addr string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error(ctx, "metrics server failed", logger.Error(err))
	}
}

func buildGenCmd() *cobra.Command {
	flags := &GenFlags{}

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a synthetic flight log for testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := testlog.DefaultConfig()
			if flags.DurationSeconds > 0 {
				cfg.DurationSeconds = flags.DurationSeconds
			}
			cfg.DropAtSeconds = flags.DropAtSeconds
			cfg.KillAtSeconds = flags.KillAtSeconds
			if flags.Seed != 0 {
				cfg.Seed = flags.Seed
			}
			if err := testlog.WriteFile(flags.OutPath, cfg); err != nil {
				return err
			}
			cmd.Println("wrote " + flags.OutPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.OutPath, "out", "flight.json", "output path for the generated log")
	cmd.Flags().Float64Var(&flags.DurationSeconds, "duration", 0, "recording length in seconds")
	cmd.Flags().Float64Var(&flags.DropAtSeconds, "drop-at", 0, "start an uncontrolled descent at this time (0 = nominal)")
	cmd.Flags().Float64Var(&flags.KillAtSeconds, "kill-at", 0, "assert the kill switch at this time (0 = never)")
	cmd.Flags().Int64Var(&flags.Seed, "seed", 0, "noise seed (0 = default)")
	return cmd
}
