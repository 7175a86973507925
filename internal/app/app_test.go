package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/geoedit/internal/config"
	"github.com/dshills/geoedit/internal/editable"
	"github.com/dshills/geoedit/internal/feature"
	"github.com/dshills/geoedit/internal/geo"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	screen.SetSize(80, 24)
	return screen
}

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	if opts.Screen == nil {
		opts.Screen = newScreen(t)
	}
	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(app.Shutdown)
	return app
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

// click sends the mouse events of a primary click on a cell.
func click(t *testing.T, app *Application, x, y int) {
	t.Helper()
	for _, b := range []tcell.ButtonMask{tcell.ButtonNone, tcell.Button1, tcell.ButtonNone} {
		if err := app.HandleEvent(tcell.NewEventMouse(x, y, b, tcell.ModNone)); err != nil {
			t.Fatalf("HandleEvent(mouse) error = %v", err)
		}
	}
}

func press(t *testing.T, app *Application, ev *tcell.EventKey) {
	t.Helper()
	if err := app.HandleEvent(ev); err != nil {
		t.Fatalf("HandleEvent(%v) error = %v", ev.Name(), err)
	}
}

func TestNewApplication(t *testing.T) {
	app := newTestApp(t, Options{})

	if app.Viewport() == nil || app.Session() == nil || app.Script() == nil {
		t.Fatal("components not initialized")
	}
	if app.IsRunning() {
		t.Error("IsRunning() = true before Run()")
	}
	if app.Config().Terminal.Scale != 2 {
		t.Errorf("scale = %v, want default 2", app.Config().Terminal.Scale)
	}
	if got := app.Session().Options().VertexSize; got < 16 {
		t.Errorf("vertex size = %v, want at least one cell", got)
	}
	if !strings.Contains(app.Viewport().Status(), "idle") {
		t.Errorf("status = %q, want idle", app.Viewport().Status())
	}
}

func TestNewInitErrors(t *testing.T) {
	tests := []struct {
		name      string
		opts      func(t *testing.T) Options
		component string
	}{
		{
			name: "invalid config",
			opts: func(t *testing.T) Options {
				return Options{ConfigPath: writeFile(t, "geoedit.toml", "[editing]\nvertex_size = -1\n")}
			},
			component: "config",
		},
		{
			name: "failing script",
			opts: func(t *testing.T) Options {
				return Options{ScriptPath: writeFile(t, "init.lua", `error("boom")`)}
			},
			component: "script",
		},
		{
			name: "missing script",
			opts: func(t *testing.T) Options {
				return Options{ScriptPath: filepath.Join(t.TempDir(), "missing.lua")}
			},
			component: "script",
		},
		{
			name: "unwritable log file",
			opts: func(t *testing.T) Options {
				return Options{LogFile: filepath.Join(t.TempDir(), "missing", "geoedit.log")}
			},
			component: "logging",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts(t)
			opts.Screen = newScreen(t)
			app, err := New(opts)
			if err == nil {
				app.Shutdown()
				t.Fatal("New() error = nil")
			}
			var ie *InitError
			if !errors.As(err, &ie) {
				t.Fatalf("error = %T, want *InitError", err)
			}
			if ie.Component != tt.component {
				t.Errorf("component = %q, want %q", ie.Component, tt.component)
			}
		})
	}
}

func TestStartupScriptAndLogFile(t *testing.T) {
	script := writeFile(t, "init.lua", `
		geoedit.polyline({{0, 0}, {1, 1}})
		print("ready")
	`)
	logPath := filepath.Join(t.TempDir(), "geoedit.log")
	app := newTestApp(t, Options{ScriptPath: script, LogFile: logPath})

	if n := len(app.Viewport().Layers()); n != 1 {
		t.Fatalf("layers = %d, want 1", n)
	}
	if _, ok := app.Current().(*feature.Polyline); !ok {
		t.Errorf("Current() = %T, want the scripted polyline", app.Current())
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "ready") {
		t.Errorf("log file does not contain script output:\n%s", data)
	}
}

func TestScriptPathFromConfig(t *testing.T) {
	script := writeFile(t, "init.lua", `geoedit.marker(1, 2)`)
	cfg := writeFile(t, "geoedit.toml", "[script]\npath = \""+filepath.ToSlash(script)+"\"\n")
	app := newTestApp(t, Options{ConfigPath: cfg})

	if _, ok := app.Current().(*feature.Marker); !ok {
		t.Errorf("Current() = %T, want marker", app.Current())
	}
}

func TestDrawPolylineWithKeysAndMouse(t *testing.T) {
	app := newTestApp(t, Options{})

	press(t, app, key('l'))
	if app.Session().ActiveDrawer() == nil {
		t.Fatal("'l' did not start drawing")
	}
	if !strings.Contains(app.Viewport().Status(), "polyline drawing-forward") {
		t.Errorf("status = %q", app.Viewport().Status())
	}

	click(t, app, 30, 12)
	click(t, app, 50, 12)
	press(t, app, tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))

	if app.Session().ActiveDrawer() != nil {
		t.Fatal("Enter did not finish drawing")
	}
	line, ok := app.Current().(*feature.Polyline)
	if !ok {
		t.Fatalf("Current() = %T, want polyline", app.Current())
	}
	want := []geo.Position{app.Viewport().PositionAt(30, 12), app.Viewport().PositionAt(50, 12)}
	got := line.Ring().Coords()
	if len(got) != len(want) {
		t.Fatalf("coords = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("coord %d = %v, want %v", i, got[i], want[i])
		}
	}
	if !strings.Contains(app.Viewport().Status(), "polyline edit") {
		t.Errorf("status = %q, want polyline edit", app.Viewport().Status())
	}

	// Continue from the end and add a third vertex.
	press(t, app, key('c'))
	click(t, app, 50, 6)
	press(t, app, tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	if n := line.Ring().Len(); n != 3 {
		t.Errorf("vertices after continue = %d, want 3", n)
	}
}

func TestHoleBinding(t *testing.T) {
	app := newTestApp(t, Options{})
	vp := app.Viewport()
	poly := app.Session().CreatePolygon(vp.PositionAt(10, 2), vp.PositionAt(70, 2), vp.PositionAt(70, 20), vp.PositionAt(10, 20))
	vp.AddLayer(poly)

	press(t, app, key('h'))
	if app.Session().ActiveDrawer() == nil {
		t.Fatal("'h' did not start drawing a hole")
	}
	if n := len(poly.Holes()); n != 1 {
		t.Fatalf("holes = %d, want 1", n)
	}

	press(t, app, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if app.Session().ActiveDrawer() != nil {
		t.Error("Esc did not cancel drawing")
	}
}

func TestToggleEditAndDelete(t *testing.T) {
	app := newTestApp(t, Options{})
	vp := app.Viewport()
	poly := app.Session().CreatePolygon(vp.PositionAt(10, 2), vp.PositionAt(30, 2), vp.PositionAt(30, 10))
	vp.AddLayer(poly)

	press(t, app, key('e'))
	if !feature.EditEnabled(poly) {
		t.Fatal("'e' did not enable editing")
	}
	press(t, app, key('e'))
	if feature.EditEnabled(poly) {
		t.Fatal("second 'e' did not disable editing")
	}
	if app.Current() != poly {
		t.Error("disabling editing lost the current feature")
	}

	press(t, app, key('x'))
	if vp.HasLayer(poly) {
		t.Error("'x' did not remove the feature")
	}
	if app.Current() != nil {
		t.Errorf("Current() = %v after removal, want nil", app.Current())
	}
}

func TestDeleteGroupMember(t *testing.T) {
	app := newTestApp(t, Options{})
	vp := app.Viewport()
	m := feature.NewMulti(feature.KindPolyline)
	vp.AddLayer(m)
	a := app.Session().CreatePolyline(geo.Position{}, geo.Position{Lat: 1})
	if err := m.Add(a); err != nil {
		t.Fatal(err)
	}
	app.SetCurrent(a)

	press(t, app, key('x'))
	if m.Len() != 0 {
		t.Errorf("group members = %d, want 0", m.Len())
	}
	if vp.HasLayer(m) {
		t.Error("empty group still shown")
	}
}

func TestBindingErrorsShownInStatus(t *testing.T) {
	app := newTestApp(t, Options{})

	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
	}{
		{"hole without polygon", key('h'), "draw.hole: no current feature"},
		{"finish while idle", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "draw.finish: not drawing"},
		{"toggle without feature", key('e'), "edit.toggle: no current feature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			press(t, app, tt.ev)
			if !strings.Contains(app.Message(), tt.want) {
				t.Errorf("Message() = %q, want %q", app.Message(), tt.want)
			}
			if !strings.Contains(app.Viewport().Status(), tt.want) {
				t.Errorf("status = %q, want %q", app.Viewport().Status(), tt.want)
			}
		})
	}
	if n := app.Metrics().Snapshot().ActionErrors; n != uint64(len(tests)) {
		t.Errorf("ActionErrors = %d, want %d", n, len(tests))
	}

	// A successful binding clears the message.
	press(t, app, key('+'))
	if app.Message() != "" {
		t.Errorf("Message() = %q after success", app.Message())
	}
}

func TestContinueOnPolygonFails(t *testing.T) {
	app := newTestApp(t, Options{})
	poly := app.Session().CreatePolygon(geo.Position{}, geo.Position{Lat: 1}, geo.Position{Lng: 1})
	app.Viewport().AddLayer(poly)

	press(t, app, key('c'))
	if !strings.Contains(app.Message(), "select a line") {
		t.Errorf("Message() = %q", app.Message())
	}
}

func TestViewBindings(t *testing.T) {
	app := newTestApp(t, Options{})
	vp := app.Viewport()

	press(t, app, key('+'))
	if vp.Scale() != 4 {
		t.Errorf("scale after '+' = %v, want 4", vp.Scale())
	}
	press(t, app, key('-'))
	if vp.Scale() != 2 {
		t.Errorf("scale after '-' = %v, want 2", vp.Scale())
	}

	// Four columns at 16 screen units per degree is two degrees.
	press(t, app, tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	if c := vp.Center(); c.Lng != 2 || c.Lat != 0 {
		t.Errorf("center after pan = %v, want (0, 2)", c)
	}

	press(t, app, key('t'))
	if !vp.Touch() {
		t.Error("'t' did not enable touch")
	}
	if !strings.Contains(vp.Status(), "touch") {
		t.Errorf("status = %q, want touch", vp.Status())
	}
}

func TestQuitBindings(t *testing.T) {
	app := newTestApp(t, Options{})
	for _, ev := range []*tcell.EventKey{key('q'), tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)} {
		if err := app.HandleEvent(ev); !errors.Is(err, ErrQuit) {
			t.Errorf("HandleEvent(%s) error = %v, want ErrQuit", ev.Name(), err)
		}
	}
}

func TestUnboundKeyIgnored(t *testing.T) {
	app := newTestApp(t, Options{})
	press(t, app, key('z'))
	if app.Message() != "" {
		t.Errorf("Message() = %q", app.Message())
	}
}

func TestResize(t *testing.T) {
	app := newTestApp(t, Options{})
	if err := app.HandleEvent(tcell.NewEventResize(100, 40)); err != nil {
		t.Fatal(err)
	}
	if w, h := app.Viewport().Size(); w != 100 || h != 40 {
		t.Errorf("Size() = (%d, %d), want (100, 40)", w, h)
	}
}

func TestApplyReload(t *testing.T) {
	app := newTestApp(t, Options{})

	cfg := config.DefaultConfig()
	cfg.Input.Touch = true
	cfg.Input.DragThreshold = 7
	cfg.Editing.VertexSize = 30
	cfg.Terminal.Scale = 3
	app.applyReload(config.Reload{Config: cfg, Time: time.Now()})

	if app.Config() != cfg {
		t.Error("Config() not replaced")
	}
	if !app.Viewport().Touch() {
		t.Error("touch not applied")
	}
	if got := app.Viewport().Input().Config().DragThreshold; got != 7 {
		t.Errorf("drag threshold = %v, want 7", got)
	}
	if got := app.Session().Options().VertexSize; got != 30 {
		t.Errorf("vertex size = %v, want 30", got)
	}
	if app.Viewport().Scale() != 3 {
		t.Errorf("scale = %v, want 3", app.Viewport().Scale())
	}

	app.applyReload(config.Reload{Err: errors.New("bad toml"), Time: time.Now()})
	if !strings.Contains(app.Message(), "config: bad toml") {
		t.Errorf("Message() = %q", app.Message())
	}
	if app.Config() != cfg {
		t.Error("failed reload replaced the config")
	}

	s := app.Metrics().Snapshot()
	if s.Reloads != 2 || s.ReloadErrors != 1 {
		t.Errorf("reloads = %d/%d, want 2/1", s.Reloads, s.ReloadErrors)
	}
}

func TestRunQuitsOnKey(t *testing.T) {
	screen := newScreen(t)
	app := newTestApp(t, Options{Screen: screen})

	done := make(chan error, 1)
	go func() { done <- app.Run() }()

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after 'q'")
	}
	if app.Metrics().Snapshot().RenderCount == 0 {
		t.Error("Run() never drew")
	}
}

func TestShutdownStopsRun(t *testing.T) {
	app := newTestApp(t, Options{})

	done := make(chan error, 1)
	go func() { done <- app.Run() }()

	// Wait for the loop to start.
	deadline := time.Now().Add(5 * time.Second)
	for !app.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	app.Shutdown()
	app.Shutdown()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after Shutdown()")
	}
}

func TestBindings(t *testing.T) {
	b := DefaultBindings()

	if err := b.Bind(tcell.KeyF1, 0, "no.such.action"); err == nil {
		t.Error("Bind() to an unknown action succeeded")
	}
	if err := b.Bind(tcell.KeyF1, 'x', "app.quit"); err != nil {
		t.Fatal(err)
	}
	a, ok := b.Lookup(tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone))
	if !ok || a.Name != "app.quit" {
		t.Errorf("Lookup(F1) = %q, %v", a.Name, ok)
	}
	if _, ok := b.Lookup(key('Z')); ok {
		t.Error("Lookup('Z') found a binding")
	}

	actions := b.Actions()
	for i := 1; i < len(actions); i++ {
		if actions[i-1].Name >= actions[i].Name {
			t.Fatalf("Actions() not sorted at %d", i)
		}
	}
	for _, a := range actions {
		if a.Help == "" || a.Run == nil {
			t.Errorf("action %q is incomplete", a.Name)
		}
	}
	if got := b.KeysFor("view.zoom.in"); len(got) != 2 || got[0] != "+" || got[1] != "=" {
		t.Errorf("KeysFor(view.zoom.in) = %v, want [+ =]", got)
	}
	if got := b.KeysFor("draw.finish"); len(got) != 1 || got[0] != "Enter" {
		t.Errorf("KeysFor(draw.finish) = %v, want [Enter]", got)
	}
	if _, ok := b.Action("draw.hole"); !ok {
		t.Error("draw.hole not registered")
	}
}

func TestSessionOptionsRespectCellSize(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Editing.VertexSize = 4
	cfg.Editing.TouchVertexSize = 40

	o := editable.DefaultOptions()
	for _, opt := range sessionOptions(cfg, nil) {
		opt(&o)
	}
	if o.VertexSize != 16 {
		t.Errorf("VertexSize = %v, want 16", o.VertexSize)
	}
	if o.TouchVertexSize != 40 {
		t.Errorf("TouchVertexSize = %v, want 40", o.TouchVertexSize)
	}
}
