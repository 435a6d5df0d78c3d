// Package daemon implements the voxd daemon and its client-side control.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"voxd/internal/config"
	"voxd/internal/domain"
	"voxd/internal/engine"
	"voxd/internal/hotkey"
	"voxd/internal/notify"
	"voxd/internal/output"
	"voxd/internal/record"
)

// Daemon is the long-running process: it owns the hotkey listener, the
// recording pipeline, and the registry entry that makes it discoverable.
type Daemon struct {
	cfg      config.Config
	registry domain.Registry
	pm       domain.ProcessManager
	recorder domain.Recorder
	engine   domain.Engine
	injector domain.Injector
	notifier domain.Notifier
	listener *hotkey.Listener
	logger   *zap.Logger
}

// New wires the full recording pipeline from config. The hotkey is parsed
// here, so a bad combination fails before the daemon registers itself.
func New(cfg config.Config, registry domain.Registry, pm domain.ProcessManager, logger *zap.Logger) (*Daemon, error) {
	eng, err := engine.Build(cfg, logger)
	if err != nil {
		return nil, err
	}
	injector, err := output.New(cfg.OutputMode, logger)
	if err != nil {
		return nil, err
	}

	d := &Daemon{
		cfg:      cfg,
		registry: registry,
		pm:       pm,
		recorder: record.New(cfg.SampleRate, cfg.Channels, cfg.MaxRecordingSeconds, logger),
		engine:   eng,
		injector: injector,
		notifier: notify.NewDesktop(cfg.Notifications, logger),
		logger:   logger,
	}

	listener, err := hotkey.NewListener(cfg.Hotkey, cfg.Mode, d.startRecording, d.stopRecording, logger)
	if err != nil {
		return nil, err
	}
	d.listener = listener
	return d, nil
}

// Run registers the daemon, installs the hotkey hook, and blocks until a
// shutdown signal arrives. The registry entry is removed on every exit path.
func (d *Daemon) Run(ctx context.Context) error {
	pid := d.pm.CurrentPID()

	if entry, _ := d.registry.Read(); entry != nil {
		if !d.registry.IsStale(entry) && entry.PID != pid {
			return fmt.Errorf("%w (pid %d)", domain.ErrAlreadyRunning, entry.PID)
		}
		_ = d.registry.Delete()
	}

	if err := d.registry.Write(pid); err != nil {
		return fmt.Errorf("register daemon: %w", err)
	}
	defer func() { _ = d.registry.Delete() }()

	if err := d.listener.Start(); err != nil {
		return fmt.Errorf("install hotkey hook: %w", err)
	}
	defer d.listener.Stop()

	d.logger.Info("daemon started",
		zap.Int("pid", pid),
		zap.String("hotkey", d.cfg.Hotkey),
		zap.String("mode", string(d.cfg.Mode)),
		zap.String("engine", d.engine.Name()))

	sigChan := make(chan os.Signal, 4)
	signal.Notify(sigChan, notifySignals()...)
	defer signal.Stop(sigChan)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("context canceled, shutting down")
			return nil
		case sig := <-sigChan:
			if isToggleSignal(sig) {
				d.logger.Debug("toggle signal received")
				d.listener.Toggle()
				continue
			}
			d.logger.Info("received shutdown signal", zap.String("signal", sig.String()))
			return nil
		}
	}
}

func (d *Daemon) startRecording() {
	if err := d.recorder.Start(); err != nil {
		d.logger.Error("start recording failed", zap.Error(err))
		return
	}
	d.notifier.RecordingStarted()
	d.logger.Info("recording started")
}

func (d *Daemon) stopRecording() {
	samples := d.recorder.Stop()
	d.notifier.RecordingStopped()
	d.logger.Info("recording stopped", zap.Int("samples", len(samples)))

	text := d.engine.Transcribe(samples, d.cfg.SampleRate)
	if text == "" {
		d.notifier.Transcribed("")
		return
	}
	if err := d.injector.Deliver(text); err != nil {
		d.logger.Error("deliver text failed", zap.Error(err))
	}
	d.notifier.Transcribed(text)
	d.logger.Info("transcription delivered", zap.Int("chars", len(text)))
}
