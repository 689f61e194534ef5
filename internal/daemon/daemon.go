package daemon

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/gofrs/flock"

	"github.com/nanobar-io/nanobar/internal/config"
	"github.com/nanobar-io/nanobar/internal/daemon/server"
	"github.com/nanobar-io/nanobar/internal/daemon/watcher"
	"github.com/nanobar-io/nanobar/internal/models"
)

// ErrAlreadyRunning means another daemon holds the instance lock.
var ErrAlreadyRunning = errors.New("another nanobar daemon is already running")

// Options configures a Daemon.
type Options struct {
	Paths    config.Paths
	Settings *models.Settings
	Host     Host
	Logger   *slog.Logger

	// SettingsPath is watched for changes; empty disables hot reload.
	SettingsPath string
	// HandleSignals turns SIGINT and SIGTERM into a stop command.
	HandleSignals bool
	// Exit terminates the process; defaults to os.Exit.
	Exit func(code int)
}

// Daemon owns the indicator, the command channel, and the runtime files.
type Daemon struct {
	paths        config.Paths
	settings     *models.Settings
	settingsPath string
	host         Host
	logger       *slog.Logger
	exit         func(code int)
	signals      bool

	ctx        Context
	dispatcher *Dispatcher
	look       atomic.Pointer[models.DividerConfig]

	lock    *flock.Flock
	server  *server.Server
	watcher *watcher.Watcher
	sigCh   chan os.Signal

	stopOnce sync.Once
}

// New constructs a daemon. Nothing is touched on disk until Listen.
func New(opts Options) (*Daemon, error) {
	if opts.Host == nil {
		return nil, errors.New("daemon requires a host")
	}
	if opts.Settings == nil {
		opts.Settings = models.NewSettings()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Exit == nil {
		opts.Exit = os.Exit
	}

	d := &Daemon{
		paths:        opts.Paths,
		settings:     opts.Settings,
		settingsPath: opts.SettingsPath,
		host:         opts.Host,
		logger:       opts.Logger,
		exit:         opts.Exit,
		signals:      opts.HandleSignals,
		lock:         flock.New(opts.Paths.Lock),
	}
	look := opts.Settings.Divider
	d.look.Store(&look)

	m := &machine{
		ctx:    &d.ctx,
		look:   d.currentLook,
		stop:   d.shutdown,
		logger: d.logger.With("component", "machine"),
	}
	d.dispatcher = NewDispatcher(&d.ctx, d.host, m.apply)
	return d, nil
}

// Listen takes the instance lock, binds the command channel and writes the
// PID record. A second daemon fails here with ErrAlreadyRunning, before it
// can disturb the first one's socket or PID record.
func (d *Daemon) Listen() error {
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	srv, err := server.New(d.paths.Socket, d, d.settings.Daemon.ReadTimeout, d.logger)
	if err != nil {
		_ = d.lock.Unlock()
		return err
	}

	if err := config.WritePID(d.paths.PID, os.Getpid()); err != nil {
		_ = srv.Close()
		_ = d.lock.Unlock()
		return err
	}

	d.server = srv
	d.logger.Info("daemon listening", "socket", d.paths.Socket, "pid", os.Getpid())
	return nil
}

// Run blocks on the host's UI loop. Listen must have succeeded.
func (d *Daemon) Run() {
	d.host.Run(func() {
		d.host.Post(d.launch)
	})
}

// Submit implements server.Control.
func (d *Daemon) Submit(cmd models.Command) {
	d.dispatcher.Submit(cmd)
}

// Visibility implements server.Control.
func (d *Daemon) Visibility() models.Visibility {
	return d.ctx.Visibility()
}

// Reload swaps in new divider settings and re-renders the indicator.
func (d *Daemon) Reload(look models.DividerConfig) {
	d.look.Store(&look)
	d.host.Post(d.refresh)
}

func (d *Daemon) currentLook() models.DividerConfig {
	return *d.look.Load()
}

// launch runs on the UI thread once the host loop is live.
func (d *Daemon) launch() {
	look := d.currentLook()
	ind, err := d.host.NewIndicator(look, d.Submit)
	if err != nil {
		d.logger.Error("failed to create indicator", "error", err)
		d.cleanup()
		d.exit(1)
		return
	}

	ind.SetTooltip(look.Tooltip)
	ind.SetExtent(0)
	ind.SetGlyph(look.VisibleGlyph)
	d.ctx.setVisibility(models.Visible)
	d.ctx.publish(newHandle(ind))

	go func() {
		if err := d.server.Serve(); err != nil && !errors.Is(err, server.ErrServerClosed) {
			d.logger.Error("command channel stopped", "error", err)
		}
	}()

	if d.signals {
		d.sigCh = make(chan os.Signal, 1)
		signal.Notify(d.sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func(ch <-chan os.Signal) {
			sig, ok := <-ch
			if !ok {
				return
			}
			d.logger.Info("received signal, shutting down", "signal", sig.String())
			d.Submit(models.CommandStop)
		}(d.sigCh)
	}

	d.startWatcher()
	d.logger.Info("daemon started")
}

func (d *Daemon) startWatcher() {
	if d.settingsPath == "" {
		return
	}
	w, err := watcher.New(d.settingsPath, d.onSettingsChanged, d.logger)
	if err != nil {
		d.logger.Warn("settings watcher unavailable", "error", err)
		return
	}
	if err := w.Start(); err != nil {
		d.logger.Warn("settings watcher unavailable", "path", d.settingsPath, "error", err)
		w.Stop()
		return
	}
	d.watcher = w
}

func (d *Daemon) onSettingsChanged(path string) {
	s, err := config.LoadSettingsFrom(path)
	if err != nil {
		d.logger.Warn("ignoring unreadable settings", "path", path, "error", err)
		return
	}
	d.logger.Info("settings reloaded", "path", path)
	d.Reload(s.Divider)
}

// refresh re-renders the current state with the current look. UI thread.
func (d *Daemon) refresh() {
	h := d.ctx.current()
	if !h.Valid() {
		return
	}
	look := d.currentLook()
	h.indicator.SetTooltip(look.Tooltip)
	if d.ctx.Visibility() == models.Hidden {
		h.indicator.SetExtent(look.HiddenExtent)
		h.indicator.SetGlyph(look.HiddenGlyph)
		return
	}
	h.indicator.SetExtent(0)
	h.indicator.SetGlyph(look.VisibleGlyph)
}

// shutdown runs on the UI thread for the stop command.
func (d *Daemon) shutdown() {
	d.stopOnce.Do(func() {
		d.cleanup()
		d.logger.Info("daemon stopped")
		d.exit(0)
	})
}

func (d *Daemon) cleanup() {
	if d.sigCh != nil {
		signal.Stop(d.sigCh)
		close(d.sigCh)
		d.sigCh = nil
	}
	if d.watcher != nil {
		d.watcher.Stop()
	}
	if d.server != nil {
		// Waits for the response in flight, then unlinks the socket.
		_ = d.server.Close()
	}
	if err := config.RemovePID(d.paths.PID); err != nil {
		d.logger.Warn("failed to remove PID file", "path", d.paths.PID, "error", err)
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release instance lock", "error", err)
	}
}
