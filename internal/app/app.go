// Package app wires configuration, storage, notifications and the
// scheduler into a reminder engine for the binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/notexe/reminders/internal/clock"
	"github.com/notexe/reminders/internal/config"
	"github.com/notexe/reminders/internal/notify"
	"github.com/notexe/reminders/internal/reminder"
	"github.com/notexe/reminders/internal/scheduler"
)

type Options struct {
	ConfigPath string
	NoColor    bool
	// Ephemeral keeps reminders in memory only.
	Ephemeral bool
	// Headless grants notifications when the permission mode is "ask",
	// since nobody can answer. Logs stay on stderr.
	Headless bool
	// ConsoleOut receives console notifications. Defaults to stdout.
	ConsoleOut io.Writer
	// Clock defaults to the system clock.
	Clock clock.Clock
}

type App struct {
	Config    *config.Config
	Engine    *reminder.Engine
	Gate      *notify.Gate
	Scheduler *scheduler.Scheduler
	Clock     clock.Clock

	closers []io.Closer
	logFile *os.File
}

func New(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.NoColor {
		cfg.UI.ColoredOutput = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Clock: opts.Clock}
	if a.Clock == nil {
		a.Clock = clock.System{}
	}

	if !opts.Headless && cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		log.SetOutput(f)
		a.logFile = f
	}

	store, err := a.openStore(opts.Ephemeral)
	if err != nil {
		a.Close()
		return nil, err
	}

	out := opts.ConsoleOut
	if out == nil {
		out = os.Stdout
	}
	a.Gate = notify.NewGate(newNotifier(cfg, out))
	switch cfg.Notify.Permission {
	case config.PermissionGranted:
		a.Gate.Set(notify.PermissionGranted)
	case config.PermissionDenied:
		a.Gate.Set(notify.PermissionDenied)
	default:
		if opts.Headless {
			a.Gate.RequestPermission(ctx, nil)
		}
	}

	a.Scheduler = scheduler.New(a.Clock, a.Gate)
	a.Engine = reminder.NewEngine(ctx, store, a.Scheduler, a.Clock)

	log.Printf("[app] Loaded %d reminders (%d scheduled), notifications %s",
		a.Engine.Len(), a.Scheduler.Active(), a.Gate.Permission())

	return a, nil
}

func (a *App) openStore(ephemeral bool) (reminder.Store, error) {
	if ephemeral {
		return reminder.NewMemoryStore(nil), nil
	}

	sc := a.Config.Storage
	switch sc.Driver {
	case config.DriverRedis:
		store, err := reminder.NewRedisStore(sc.Redis.Addr, sc.Redis.Password, sc.Redis.DB, sc.Key)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store)
		return store, nil
	default:
		store, err := reminder.NewSQLiteStore(sc.Path, sc.Key)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store)
		return store, nil
	}
}

// newNotifier fans out to every enabled channel.
func newNotifier(cfg *config.Config, out io.Writer) notify.Notifier {
	var channels notify.Multi
	if cfg.Notify.Console {
		channels = append(channels, notify.NewConsole(out, cfg.UI.ColoredOutput))
	}
	if tg := cfg.Notify.Telegram; tg.Enabled() {
		channels = append(channels, notify.NewTelegram(tg.BotToken, tg.ChatID, tg.BaseURL, tg.TimeoutDuration()))
	}
	return channels
}

// Close stops all timers and releases the store and log file.
func (a *App) Close() error {
	if a.Engine != nil {
		a.Engine.Close()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if a.logFile != nil {
		log.SetOutput(os.Stderr)
		if err := a.logFile.Close(); err != nil {
			errs = append(errs, err)
		}
		a.logFile = nil
	}
	return errors.Join(errs...)
}
