package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/geoedit/internal/config"
	"github.com/dshills/geoedit/internal/feature"
	"github.com/dshills/geoedit/internal/logging"
)

// eventLoop is the main application loop. Screen events are polled on a
// separate goroutine; everything else happens here.
func (app *Application) eventLoop() error {
	screen := app.view.Screen()
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-app.done:
				return
			}
		}
	}()

	var reloads <-chan config.Reload
	if app.watcher != nil {
		reloads = app.watcher.Reloads()
	}

	app.redraw()
	for {
		select {
		case <-app.done:
			return nil

		case ev := <-events:
			start := time.Now()
			err := app.HandleEvent(ev)
			app.metrics.RecordEvent(time.Since(start))
			if errors.Is(err, ErrQuit) {
				return nil
			}

		case r, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			app.applyReload(r)
		}

		if app.view.Dirty() {
			app.redraw()
		}
	}
}

// HandleEvent processes a screen event and routes it appropriately.
// Returns ErrQuit if the application should exit. Binding failures are
// shown on the status line rather than returned.
func (app *Application) HandleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		app.view.Resize(w, h)
		app.view.Screen().Sync()
	case *tcell.EventMouse:
		app.view.HandleMouse(ev)
	case *tcell.EventKey:
		return app.handleKeyEvent(ev)
	}
	app.updateStatus()
	return nil
}

// handleKeyEvent runs the action bound to a key.
func (app *Application) handleKeyEvent(ev *tcell.EventKey) error {
	a, ok := app.bindings.Lookup(ev)
	if !ok {
		return nil
	}

	app.setMessage("")
	if err := a.Run(app); err != nil {
		if errors.Is(err, ErrQuit) {
			return err
		}
		err = &ActionError{Action: a.Name, Err: err}
		app.metrics.RecordActionError()
		app.log.WithComponent("app").Debug("%v", err)
		app.setMessage(err.Error())
	}
	app.updateStatus()
	return nil
}

// applyReload applies a reloaded configuration to the running components.
func (app *Application) applyReload(r config.Reload) {
	log := app.log.WithComponent("app")
	if r.Err != nil {
		app.metrics.RecordReload(false)
		log.Warn("config reload failed: %v", r.Err)
		app.setMessage("config: " + r.Err.Error())
		app.updateStatus()
		return
	}
	app.metrics.RecordReload(true)

	cfg := r.Config
	app.mu.Lock()
	prev := app.config
	app.config = cfg
	app.mu.Unlock()

	if app.opts.Debug {
		app.log.SetLevel(logging.LevelDebug)
	} else {
		app.log.SetLevel(cfg.LogLevel())
	}
	app.log.SetFormat(cfg.LogFormat())
	app.view.Input().SetConfig(cfg.PointerConfig())
	if cfg.Terminal.Scale != prev.Terminal.Scale {
		app.view.SetScale(cfg.Terminal.Scale)
	}
	app.applyViewConfig(cfg)
	app.session.Configure(sessionOptions(cfg, app.log)...)

	log.Info("config reloaded")
	app.setMessage("config reloaded")
	app.updateStatus()
}

// redraw draws the viewport and records the time taken.
func (app *Application) redraw() {
	start := time.Now()
	app.view.Draw()
	app.metrics.RecordRender(time.Since(start))
}

// updateStatus refreshes the bottom line.
func (app *Application) updateStatus() {
	app.view.SetStatus(app.statusLine())
}

// statusLine describes the current feature and view.
func (app *Application) statusLine() string {
	var parts []string

	if ed := app.session.ActiveDrawer(); ed != nil {
		parts = append(parts, fmt.Sprintf("%s %s", ed.Feature().Kind(), ed.State()))
	} else if l := app.Current(); l != nil {
		state := "view"
		if feature.EditEnabled(l) {
			state = "edit"
		}
		parts = append(parts, fmt.Sprintf("%s %s", l.Kind(), state))
	} else {
		parts = append(parts, "idle")
	}

	parts = append(parts,
		fmt.Sprintf("layers:%d", len(app.view.Layers())),
		fmt.Sprintf("scale:%g", app.view.Scale()),
	)
	if app.view.Touch() {
		parts = append(parts, "touch")
	}
	if msg := app.Message(); msg != "" {
		parts = append(parts, msg)
	}
	return " " + strings.Join(parts, "  ")
}
