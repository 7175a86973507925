// Package app provides the geoedit terminal application. It wires the
// configuration, logging, the terminal viewport, the editing session and
// the script engine together and runs the event loop.
package app

import (
	"context"
	"io"
	"math"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/geoedit/internal/config"
	"github.com/dshills/geoedit/internal/editable"
	"github.com/dshills/geoedit/internal/event"
	"github.com/dshills/geoedit/internal/feature"
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/host/terminal"
	"github.com/dshills/geoedit/internal/logging"
	"github.com/dshills/geoedit/internal/script"
)

// Application is the central coordinator for all geoedit components.
type Application struct {
	mu sync.Mutex

	// Core infrastructure
	loader  *config.Loader
	config  *config.Config
	watcher *config.Watcher
	log     *logging.Logger
	logFile io.Closer
	metrics *Metrics

	// Editing components
	view    *terminal.Viewport
	session *editable.Session
	script  *script.Engine
	sub     event.Subscription

	// current is the feature key bindings act on.
	current feature.Layer
	message string

	bindings *Bindings

	// State
	running   atomic.Bool
	done      chan struct{}
	closeOnce sync.Once

	// Options
	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// ScriptPath is a Lua file run at startup. It overrides script.path
	// from the configuration.
	ScriptPath string

	// LogFile receives log output. Empty discards it, since the terminal
	// owns stdout and stderr.
	LogFile string

	// Debug forces debug logging.
	Debug bool

	// Watch reloads the configuration file when it changes.
	Watch bool

	// Screen replaces the controlling terminal. It must already be
	// initialised.
	Screen tcell.Screen
}

// New creates a new application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:     opts,
		done:     make(chan struct{}),
		metrics:  NewMetrics(),
		bindings: DefaultBindings(),
	}

	if err := app.bootstrap(); err != nil {
		app.close()
		return nil, err
	}

	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Configuration
	app.loader = config.NewLoader(app.opts.ConfigPath)
	cfg, err := app.loader.Load()
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.config = cfg

	// 2. Logging
	var out io.Writer = io.Discard
	if app.opts.LogFile != "" {
		f, err := os.OpenFile(app.opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return &InitError{Component: "logging", Err: err}
		}
		app.logFile = f
		out = f
	}
	app.log = logging.New(cfg.LoggingConfig(out))
	if app.opts.Debug {
		app.log.SetLevel(logging.LevelDebug)
	}
	log := app.log.WithComponent("app")

	// 3. Terminal viewport
	center := geo.Position{Lat: cfg.Terminal.CenterLat, Lng: cfg.Terminal.CenterLng}
	if app.opts.Screen != nil {
		app.opts.Screen.EnableMouse(tcell.MouseMotionEvents)
		app.view, err = terminal.New(app.opts.Screen, center, cfg.Terminal.Scale, cfg.PointerConfig())
	} else {
		app.view, err = terminal.Open(center, cfg.Terminal.Scale, cfg.PointerConfig())
	}
	if err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	app.applyViewConfig(cfg)

	// 4. Editing session
	app.session = editable.NewSession(app.view, sessionOptions(cfg, app.log)...)
	app.sub = app.view.Events().Listen("**", app.trackFeature)

	// 5. Scripting
	app.script = script.New(app.session, script.WithLogger(app.log))
	path := app.opts.ScriptPath
	if path == "" {
		path = cfg.Script.Path
	}
	if path != "" {
		if err := app.script.RunFile(context.Background(), path); err != nil {
			return &InitError{Component: "script", Err: err}
		}
		log.Info("ran script %s", path)
	}

	// 6. Config watcher
	if app.opts.Watch && app.opts.ConfigPath != "" {
		app.watcher, err = config.NewWatcher(app.loader)
		if err != nil {
			// Non-fatal; the editor works without live reload.
			log.Warn("config watcher disabled: %v", err)
			app.watcher = nil
		}
	}

	app.updateStatus()
	return nil
}

// sessionOptions returns the editing options for cfg. Handles are never
// smaller than a terminal cell.
func sessionOptions(cfg *config.Config, log *logging.Logger) []editable.Option {
	opts := cfg.EditableOptions()
	return append(opts,
		editable.WithVertexSize(
			math.Max(cfg.Editing.VertexSize, terminal.VertexSize),
			math.Max(cfg.Editing.TouchVertexSize, terminal.VertexSize),
		),
		editable.WithLogger(log),
	)
}

func (app *Application) applyViewConfig(cfg *config.Config) {
	e := cfg.Editing
	app.view.SetTouch(cfg.Input.Touch)
	app.view.SetClasses(e.VertexClass, e.MiddleClass, e.PendingClass, e.GuideClass)
}

// trackFeature follows the feature most recently shown, created or
// edited so that key bindings have something to act on.
func (app *Application) trackFeature(ev *event.Event) {
	l, ok := ev.Layer.(feature.Layer)
	if !ok {
		return
	}
	app.mu.Lock()
	defer app.mu.Unlock()
	switch ev.Type {
	case event.TopicDisable:
	case event.TopicLayerRemove:
		if app.current == l || (app.current != nil && app.current.Group() == l) {
			app.current = nil
		}
	default:
		app.current = l
	}
}

// Run starts the application main loop.
// Blocks until the user quits or Shutdown is called.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	return app.eventLoop()
}

// Shutdown stops the event loop and releases every component. It is safe
// to call more than once.
func (app *Application) Shutdown() {
	app.close()
}

// close releases components in reverse initialization order.
func (app *Application) close() {
	app.closeOnce.Do(func() {
		close(app.done)

		if app.watcher != nil {
			if err := app.watcher.Close(); err != nil {
				app.log.Warn("closing config watcher: %v", err)
			}
		}
		if app.script != nil {
			app.script.Close()
		}
		if app.session != nil {
			if app.sub != nil {
				_ = app.view.Events().Off(app.sub)
			}
			app.session.Close()
		}
		if app.view != nil {
			app.view.Close()
		}
		if app.logFile != nil {
			_ = app.logFile.Close()
		}
	})
}

// IsRunning returns true if the event loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.config
}

// Viewport returns the terminal viewport.
func (app *Application) Viewport() *terminal.Viewport {
	return app.view
}

// Session returns the editing session.
func (app *Application) Session() *editable.Session {
	return app.session
}

// Script returns the script engine.
func (app *Application) Script() *script.Engine {
	return app.script
}

// Metrics returns the event loop metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Bindings returns the key bindings.
func (app *Application) Bindings() *Bindings {
	return app.bindings
}

// Current returns the feature key bindings act on, or nil.
func (app *Application) Current() feature.Layer {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.current
}

// SetCurrent selects the feature key bindings act on.
func (app *Application) SetCurrent(l feature.Layer) {
	app.mu.Lock()
	app.current = l
	app.mu.Unlock()
	app.updateStatus()
}

// Message returns the last status message.
func (app *Application) Message() string {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.message
}

func (app *Application) setMessage(msg string) {
	app.mu.Lock()
	app.message = msg
	app.mu.Unlock()
}
