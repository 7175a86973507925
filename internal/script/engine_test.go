package script

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/geoedit/internal/editable"
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/input/pointer"
	"github.com/dshills/geoedit/internal/logging"
	"github.com/dshills/geoedit/internal/viewport"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *viewport.Headless) {
	t.Helper()
	vp := viewport.NewHeadlessWith(viewport.Linear{ScaleX: 100, ScaleY: 100}, geo.Position{}, pointer.DefaultConfig())
	s := editable.NewSession(vp)
	e := New(s, opts...)
	t.Cleanup(func() {
		e.Close()
		s.Close()
	})
	return e, vp
}

func run(t *testing.T, e *Engine, code string) {
	t.Helper()
	if err := e.Run(context.Background(), "test", code); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func globalNumber(t *testing.T, e *Engine, name string) float64 {
	t.Helper()
	n, ok := e.L.GetGlobal(name).(lua.LNumber)
	if !ok {
		t.Fatalf("global %s = %v, want a number", name, e.L.GetGlobal(name))
	}
	return float64(n)
}

func globalString(e *Engine, name string) string {
	return lua.LVAsString(e.L.GetGlobal(name))
}

func TestRunDrawsPolyline(t *testing.T) {
	e, vp := newTestEngine(t)
	run(t, e, `
		id = geoedit.start_polyline()
		active = geoedit.drawing()
		geoedit.click(0, 0)
		geoedit.click(1, 1)
		geoedit.click(1, 1)
		after = geoedit.drawing()
		local c = geoedit.coords(id)
		n = #c
		lat2, lng2 = c[2][1], c[2][2]
		kind = geoedit.kind(id)
	`)

	if got := globalNumber(t, e, "n"); got != 2 {
		t.Errorf("vertex count = %v, want 2", got)
	}
	if globalNumber(t, e, "lat2") != 1 || globalNumber(t, e, "lng2") != 1 {
		t.Error("second vertex is not (1, 1)")
	}
	if globalString(e, "active") != globalString(e, "id") {
		t.Error("drawing() did not name the new polyline")
	}
	if e.L.GetGlobal("after") != lua.LNil {
		t.Error("drawing() not nil after finishing")
	}
	if globalString(e, "kind") != "polyline" {
		t.Errorf("kind = %q", globalString(e, "kind"))
	}
	if len(vp.Layers()) != 1 {
		t.Errorf("layers = %d, want 1", len(vp.Layers()))
	}
}

func TestHooksReceiveNotifications(t *testing.T) {
	e, _ := newTestEngine(t)
	run(t, e, `
		deleted = 0
		geoedit.on("editable.vertex.deleted", function(ev)
			deleted = deleted + 1
			lat, lng, layer, vtype = ev.lat, ev.lng, ev.layer, ev.type
		end)
		id = geoedit.polyline({{0, 0}, {0, 1}, {0, 2}})
		geoedit.enable(id)
		state = geoedit.state(id)
		geoedit.click(0, 1)
		n = #geoedit.coords(id)
	`)

	if globalNumber(t, e, "deleted") != 1 {
		t.Fatalf("deleted = %v, want 1", globalNumber(t, e, "deleted"))
	}
	if globalNumber(t, e, "lat") != 0 || globalNumber(t, e, "lng") != 1 {
		t.Error("hook did not receive the deleted position")
	}
	if globalString(e, "layer") != globalString(e, "id") {
		t.Error("hook did not receive the layer ID")
	}
	if globalString(e, "vtype") != "editable.vertex.deleted" {
		t.Errorf("type = %q", globalString(e, "vtype"))
	}
	if globalString(e, "state") != "idle" {
		t.Errorf("state = %q, want idle", globalString(e, "state"))
	}
	if globalNumber(t, e, "n") != 2 {
		t.Errorf("vertex count = %v, want 2", globalNumber(t, e, "n"))
	}
}

func TestHookOff(t *testing.T) {
	e, _ := newTestEngine(t)
	run(t, e, `
		created = 0
		local h = geoedit.on("editable.created", function() created = created + 1 end)
		geoedit.polyline({{0, 0}, {1, 1}})
		removed = geoedit.off(h)
		again = geoedit.off(h)
		geoedit.polyline({{0, 0}, {1, 1}})
	`)
	if globalNumber(t, e, "created") != 1 {
		t.Errorf("created = %v, want 1", globalNumber(t, e, "created"))
	}
	if e.L.GetGlobal("removed") != lua.LTrue || e.L.GetGlobal("again") != lua.LFalse {
		t.Error("off() results wrong")
	}
	if e.HookCount() != 0 {
		t.Errorf("HookCount() = %d", e.HookCount())
	}
}

func TestHookScopedToLayer(t *testing.T) {
	e, _ := newTestEngine(t)
	run(t, e, `
		seen = {}
		local a = geoedit.polyline({{0, 0}, {0, 1}})
		local b = geoedit.polyline({{1, 0}, {1, 1}})
		first = a
		geoedit.on("editable.enable", function(ev) table.insert(seen, ev.layer) end, a)
		geoedit.enable(a)
		geoedit.enable(b)
		n = #seen
		got = seen[1]
	`)
	if globalNumber(t, e, "n") != 1 {
		t.Fatalf("scoped hook calls = %v, want 1", globalNumber(t, e, "n"))
	}
	if globalString(e, "got") != globalString(e, "first") {
		t.Error("scoped hook saw another layer")
	}
}

func TestHookOnceAndPause(t *testing.T) {
	e, _ := newTestEngine(t)
	run(t, e, `
		once, muted = 0, 0
		geoedit.once("editable.created", function() once = once + 1 end)
		local h = geoedit.on("editable.created", function() muted = muted + 1 end)
		paused = geoedit.pause(h)
		geoedit.polyline({{0, 0}, {1, 1}})
		resumed = geoedit.resume(h)
		geoedit.polyline({{0, 0}, {1, 1}})
		unknown = geoedit.pause("hook_99")
	`)
	if globalNumber(t, e, "once") != 1 {
		t.Errorf("once hook calls = %v, want 1", globalNumber(t, e, "once"))
	}
	if globalNumber(t, e, "muted") != 1 {
		t.Errorf("paused hook calls = %v, want 1", globalNumber(t, e, "muted"))
	}
	if e.L.GetGlobal("paused") != lua.LTrue || e.L.GetGlobal("resumed") != lua.LTrue || e.L.GetGlobal("unknown") != lua.LFalse {
		t.Error("pause/resume results wrong")
	}
	if e.HookCount() != 1 {
		t.Errorf("HookCount() = %d, want 1 after the once hook fired", e.HookCount())
	}
}

func TestHookErrorsReturnedFromRun(t *testing.T) {
	e, _ := newTestEngine(t)
	err := e.Run(context.Background(), "test", `
		geoedit.on("editable.created", function() error("boom") end)
		geoedit.polyline({{0, 0}, {1, 1}})
	`)
	if err == nil {
		t.Fatal("Run() error = nil, want hook failure")
	}
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("error %T is not a *script.Error", err)
	}
	if serr.Chunk != "hook editable.created" {
		t.Errorf("Chunk = %q", serr.Chunk)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q does not carry the Lua message", err)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"syntax", `geoedit.click(`, "test"},
		{"unknown layer", `geoedit.coords("nope")`, "unknown layer"},
		{"bad coordinates", `geoedit.polyline({{0}})`, "not a {lat, lng} pair"},
		{"bad group kind", `geoedit.multi("marker")`, "cannot group"},
		{"extend non group", `geoedit.extend(geoedit.polyline({{0, 0}, {1, 1}}))`, "not a group"},
		{"continue polygon", `geoedit.continue(geoedit.polygon({{0, 0}, {0, 1}, {1, 1}}))`, "not supported"},
		{"bad direction", `geoedit.continue(geoedit.polyline({{0, 0}, {1, 1}}), "up")`, "unknown direction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t)
			err := e.Run(context.Background(), "test", tt.code)
			if err == nil {
				t.Fatal("Run() error = nil")
			}
			var serr *Error
			if !errors.As(err, &serr) || serr.Chunk != "test" {
				t.Errorf("error %v is not a script error for the chunk", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestSandbox(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"os", `os.exit(1)`},
		{"io", `io.open("/etc/passwd")`},
		{"require os", `require("os")`},
		{"require io", `require("io")`},
		{"dofile", `dofile("x.lua")`},
		{"loadstring", `loadstring("return 1")()`},
		{"debug", `debug.getinfo(1)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t)
			if err := e.Run(context.Background(), "test", tt.code); err == nil {
				t.Errorf("%s was allowed", tt.code)
			}
		})
	}

	e, _ := newTestEngine(t)
	run(t, e, `
		local g = require("geoedit")
		same = g == geoedit
		local s = require("string")
		upper = s.upper("ok")
	`)
	if e.L.GetGlobal("same") != lua.LTrue {
		t.Error(`require("geoedit") is not the global module`)
	}
	if globalString(e, "upper") != "OK" {
		t.Error("string library unavailable")
	}
}

func TestRunTimeout(t *testing.T) {
	e, _ := newTestEngine(t, WithTimeout(50*time.Millisecond))
	err := e.Run(context.Background(), "spin", `while true do end`)
	if err == nil {
		t.Fatal("Run() error = nil, want timeout")
	}

	// The state stays usable.
	run(t, e, `x = 1`)
}

type plainViewport struct {
	viewport.Viewport
}

func TestNoDriver(t *testing.T) {
	vp := viewport.NewHeadless()
	s := editable.NewSession(plainViewport{vp})
	defer s.Close()
	e := New(s)
	defer e.Close()

	err := e.Run(context.Background(), "test", `geoedit.click(0, 0)`)
	if err == nil || !strings.Contains(err.Error(), ErrNoDriver.Error()) {
		t.Errorf("Run() error = %v, want %v", err, ErrNoDriver)
	}
}

func TestClosedEngine(t *testing.T) {
	e, vp := newTestEngine(t)
	before := vp.Events().Len()
	run(t, e, `geoedit.on("editable.**", function() end)`)
	if vp.Events().Len() != before+1 {
		t.Fatalf("hook not subscribed")
	}

	e.Close()
	e.Close()
	if vp.Events().Len() != before {
		t.Error("Close() left hooks subscribed")
	}
	if err := e.Run(context.Background(), "test", `x = 1`); !errors.Is(err, ErrClosed) {
		t.Errorf("Run() after Close error = %v, want ErrClosed", err)
	}
}

func TestPrintLogs(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelInfo, Output: &buf})
	e, _ := newTestEngine(t, WithLogger(log))
	run(t, e, `print("hello", 42)`)

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "42") {
		t.Errorf("print output missing: %q", out)
	}
	if !strings.Contains(out, "component=script") {
		t.Errorf("print output not tagged: %q", out)
	}
}

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		in   string
		want pointer.Modifier
	}{
		{"", pointer.ModNone},
		{"ctrl", pointer.ModCtrl},
		{"Ctrl+Shift", pointer.ModCtrl | pointer.ModShift},
		{"alt, meta", pointer.ModAlt | pointer.ModMeta},
		{"control+option+cmd", pointer.ModCtrl | pointer.ModAlt | pointer.ModMeta},
		{"hyper", pointer.ModNone},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseModifiers(tt.in); got != tt.want {
				t.Errorf("ParseModifiers(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
