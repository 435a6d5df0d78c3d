// Package main is the CLI entry point for voxd.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"voxd/internal/config"
	"voxd/internal/daemon"
	"voxd/internal/domain"
	"voxd/internal/engine"
	"voxd/internal/hotkey"
	"voxd/internal/infra"
	"voxd/internal/output"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "voxd",
	Short: "Push-to-talk speech-to-text daemon",
	Long: `voxd listens for a global hotkey, records from the microphone while it
is held (or toggled), transcribes the audio, and types the result into
the focused application.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon",
	Long: `Starts the voxd daemon. By default it runs in the foreground; with
--background it spawns a detached process, waits for it to register,
and returns. If the background spawn cannot be confirmed the daemon
runs in the foreground instead.`,
	RunE: runStart,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	Long: `Asks the daemon to exit gracefully, waits up to five seconds, then
force-kills it. Stale registry entries are cleaned up along the way.`,
	RunE: runStop,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	RunE:  runStatus,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle recording in the running daemon",
	Long: `Flips the recording state of the running daemon, exactly as pressing
the hotkey would. Fails when no daemon is running or when the platform
has no toggle channel.`,
	RunE: runToggle,
}

// Foreground daemon process. This is what --background self-execs.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daemon in the foreground",
	Long: `Runs the daemon in the current process, logging to the daemon log file.
This is also what 'start --background' executes in the detached child.`,
	RunE: runDaemon,
}

var (
	background bool
	logLevel   string
)

func init() {
	startCmd.Flags().BoolVarP(&background, "background", "b", false, "Run the daemon in the background")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel(), "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(runCmd)
}

func defaultLogLevel() string {
	if lvl := os.Getenv("VOXD_LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "info"
}

func newControl(logger *zap.Logger) *daemon.Control {
	pm := infra.NewProcessManager()
	registry := infra.NewFileRegistry(config.Dir(), pm, logger)
	return daemon.NewControl(registry, infra.NewController(), logger)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger, err := createLogger(false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctl := newControl(logger)
	err = ctl.Start(background, func() error { return runForeground(logger) })
	if errors.Is(err, domain.ErrAlreadyRunning) {
		// Existing registry entry stays untouched.
		fmt.Println(err)
		return nil
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	if background {
		fmt.Println("voxd daemon started")
	}
	return nil
}

func runStop(cmd *cobra.Command, args []string) error {
	logger, err := createLogger(false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	err = newControl(logger).Stop()
	if errors.Is(err, domain.ErrNotRunning) {
		fmt.Println("voxd daemon is not running")
		return nil
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	fmt.Println("voxd daemon stopped")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	logger, err := createLogger(false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	st := newControl(logger).Status()

	fmt.Println("\n=== voxd Status ===")
	if st.Running {
		fmt.Printf("Status: RUNNING (pid %d)\n", st.PID)
		if st.Age > 0 {
			fmt.Printf("Uptime: %s\n", st.Age.Round(time.Second))
		}
	} else {
		fmt.Println("Status: NOT RUNNING")
	}
	fmt.Printf("Registry: %s\n", st.RegistryPath)
	fmt.Printf("Hotkey: %s (%s) - %s\n", cfg.Hotkey, cfg.Mode, hotkeyReadiness(cfg, st.Running, logger))
	fmt.Printf("Engine: %s (%s) - %s\n", cfg.Engine, cfg.EngineEndpoint, engineReadiness(cfg, logger))
	fmt.Printf("Output: %s - %s\n", cfg.OutputMode, outputReadiness(cfg, logger))
	fmt.Println("===================")
	return nil
}

// hotkeyReadiness probes whether the configured combination can be owned.
// While a daemon runs, the hook belongs to it; probing again would race two
// processes for the same global hotkey.
func hotkeyReadiness(cfg config.Config, daemonRunning bool, logger *zap.Logger) string {
	if daemonRunning {
		return "managed by daemon"
	}
	l, err := hotkey.NewListener(cfg.Hotkey, cfg.Mode, func() {}, func() {}, logger)
	if err != nil {
		return fmt.Sprintf("invalid (%v)", err)
	}
	if err := l.Start(); err != nil {
		return fmt.Sprintf("unavailable (%v)", err)
	}
	l.Stop()
	return "available"
}

func engineReadiness(cfg config.Config, logger *zap.Logger) string {
	eng, err := engine.Build(cfg, logger)
	if err != nil {
		return fmt.Sprintf("invalid (%v)", err)
	}
	if !eng.IsAvailable() {
		return "unreachable"
	}
	return "available"
}

func outputReadiness(cfg config.Config, logger *zap.Logger) string {
	injector, err := output.New(cfg.OutputMode, logger)
	if err != nil {
		return fmt.Sprintf("invalid (%v)", err)
	}
	if !injector.TestInjection() {
		return "clipboard only"
	}
	return "available"
}

func runToggle(cmd *cobra.Command, args []string) error {
	logger, err := createLogger(false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := newControl(logger).Toggle(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	fmt.Println("toggled")
	return nil
}

func runDaemon(cmd *cobra.Command, args []string) error {
	logger, err := createLogger(true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return runForeground(logger)
}

// runForeground builds the daemon from config and blocks until it exits.
func runForeground(logger *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pm := infra.NewProcessManager()
	registry := infra.NewFileRegistry(config.Dir(), pm, logger)

	d, err := daemon.New(cfg, registry, pm, logger)
	if err != nil {
		logger.Error("daemon setup failed", zap.Error(err))
		return err
	}
	return d.Run(context.Background())
}

// createLogger builds the zap logger. The daemon logs to the append-only
// file in the config directory; client invocations log to stderr.
func createLogger(toFile bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q", logLevel)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if toFile {
		if err := os.MkdirAll(config.Dir(), 0o755); err != nil {
			return nil, err
		}
		zcfg.OutputPaths = []string{config.LogPath()}
		zcfg.ErrorOutputPaths = []string{config.LogPath()}
	} else {
		zcfg.OutputPaths = []string{"stderr"}
		zcfg.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := zcfg.Build()
	if err != nil {
		// Fall back to stderr if the log file cannot be opened.
		return zap.NewProduction()
	}
	return logger, nil
}
