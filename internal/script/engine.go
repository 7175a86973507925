package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/geoedit/internal/editable"
	"github.com/dshills/geoedit/internal/event"
	"github.com/dshills/geoedit/internal/geo"
	"github.com/dshills/geoedit/internal/input/pointer"
	"github.com/dshills/geoedit/internal/logging"
)

// DefaultTimeout bounds a single Run.
const DefaultTimeout = 5 * time.Second

// ModuleName is the name scripts require.
const ModuleName = "geoedit"

// Driver feeds synthetic pointer input to a viewport.
// viewport.Headless implements it.
type Driver interface {
	Move(p geo.Position)
	Click(p geo.Position, mods pointer.Modifier)
	Drag(from, to geo.Position)
	ContextMenu(p geo.Position)
}

// Engine is a sandboxed Lua state bound to an editing session.
type Engine struct {
	L *lua.LState

	session *editable.Session
	driver  Driver
	log     *logging.Logger
	timeout time.Duration

	mod     *lua.LTable
	closed  bool
	running bool
	hooks   map[string]*hook
	nextID  int

	// hookErrs collects hook failures during the current Run.
	hookErrs []error
}

type hook struct {
	id      string
	pattern string
	fn      *lua.LFunction
	sub     event.Subscription
	once    bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger that receives print output and hook failures.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithTimeout bounds every Run. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithDriver sets the input driver. By default the session's viewport is
// used when it implements Driver.
func WithDriver(d Driver) Option {
	return func(e *Engine) {
		e.driver = d
	}
}

// New creates an engine for s.
func New(s *editable.Session, opts ...Option) *Engine {
	e := &Engine{
		session: s,
		log:     logging.Nop(),
		timeout: DefaultTimeout,
		hooks:   make(map[string]*hook),
	}
	if d, ok := s.Viewport().(Driver); ok {
		e.driver = d
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithComponent("script")

	e.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(e.L)
	e.mod = e.module(e.L)
	e.L.PreloadModule(ModuleName, func(L *lua.LState) int {
		L.Push(e.mod)
		return 1
	})
	e.L.SetGlobal(ModuleName, e.mod)
	installSandbox(e.L)
	e.L.SetGlobal("print", e.L.NewFunction(e.print))
	return e
}

// openSafeLibraries opens the libraries that cannot reach the host.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

var safeModules = map[string]bool{
	"string":   true,
	"table":    true,
	"math":     true,
	ModuleName: true,
}

// installSandbox removes the loaders and narrows require.
func installSandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	if pkg, ok := L.GetGlobal("package").(*lua.LTable); ok {
		L.SetField(pkg, "path", lua.LString(""))
		L.SetField(pkg, "cpath", lua.LString(""))
	}

	require := L.GetGlobal("require")
	L.SetGlobal("require", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !safeModules[name] {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(require)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}

// Session returns the bound session.
func (e *Engine) Session() *editable.Session { return e.session }

// HookCount returns the number of live hooks.
func (e *Engine) HookCount() int { return len(e.hooks) }

// Run executes code as a chunk called name.
func (e *Engine) Run(ctx context.Context, name, code string) error {
	return e.exec(ctx, name, func(L *lua.LState) error {
		fn, err := L.Load(strings.NewReader(code), name)
		if err != nil {
			return err
		}
		L.Push(fn)
		return L.PCall(0, lua.MultRet, nil)
	})
}

// RunFile executes the Lua file at path.
func (e *Engine) RunFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return e.Run(ctx, path, string(data))
}

func (e *Engine) exec(ctx context.Context, name string, fn func(L *lua.LState) error) (err error) {
	if e.closed {
		return ErrClosed
	}
	if e.running {
		return &Error{Chunk: name, Err: errors.New("nested run")}
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	top := e.L.GetTop()
	e.L.SetContext(ctx)
	e.hookErrs = nil
	e.running = true
	defer func() {
		e.running = false
		e.L.RemoveContext()
		e.L.SetTop(top)
		if r := recover(); r != nil {
			err = &Error{Chunk: name, Err: fmt.Errorf("panic: %v", r)}
		}
		if len(e.hookErrs) > 0 {
			err = errors.Join(append([]error{err}, e.hookErrs...)...)
			e.hookErrs = nil
		}
	}()

	if rerr := fn(e.L); rerr != nil {
		return &Error{Chunk: name, Err: rerr}
	}
	return nil
}

// Close cancels every hook and closes the Lua state. Closing twice is a
// no-op.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	for id := range e.hooks {
		e.removeHook(id)
	}
	e.L.Close()
}

// addHook subscribes fn to pattern. A once hook is dropped after its first
// call; a non-empty layer restricts it to that feature or group.
func (e *Engine) addHook(pattern string, fn *lua.LFunction, once bool, layer string) (string, error) {
	e.nextID++
	h := &hook{
		id:      fmt.Sprintf("hook_%d", e.nextID),
		pattern: pattern,
		fn:      fn,
		once:    once,
	}
	var opts []event.SubscriptionOption
	if once {
		opts = append(opts, event.WithOnce())
	}
	if layer != "" {
		opts = append(opts, event.WithFilter(event.ForLayer(layer)))
	}
	sub, err := e.session.Viewport().Events().On(pattern, event.HandlerFunc(func(ev *event.Event) error {
		return e.callHook(h, ev)
	}), opts...)
	if err != nil {
		return "", fmt.Errorf("hook %q: %w", pattern, err)
	}
	h.sub = sub
	e.hooks[h.id] = h
	return h.id, nil
}

func (e *Engine) removeHook(id string) bool {
	h, ok := e.hooks[id]
	if !ok {
		return false
	}
	delete(e.hooks, id)
	_ = e.session.Viewport().Events().Off(h.sub)
	return true
}

func (e *Engine) callHook(h *hook, ev *event.Event) error {
	if e.closed {
		return nil
	}
	if h.once {
		delete(e.hooks, h.id)
	}
	err := e.L.CallByParam(lua.P{Fn: h.fn, NRet: 0, Protect: true}, eventTable(e.L, ev))
	if err == nil {
		return nil
	}
	herr := &Error{Chunk: "hook " + h.pattern, Err: err}
	e.log.WithError(herr).Warn("hook failed on %s", ev.Type)
	if e.running {
		e.hookErrs = append(e.hookErrs, herr)
	}
	return herr
}

// print writes its arguments to the log at info level.
func (e *Engine) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	e.log.Info("%s", strings.Join(parts, "\t"))
	return 0
}
