package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/tickworld/server/internal/world"
)

// DefaultScenario is the global Lua function Populate calls.
const DefaultScenario = "populate"

// tickSuffix names a scenario's optional per-tick function, e.g. stress_tick.
const tickSuffix = "_tick"

// ErrScenarioNotFound is returned when the requested scenario function is not
// defined by any loaded script.
var ErrScenarioNotFound = errors.New("scenario function not defined")

// Engine wraps a single gopher-lua VM for scenario setup.
// Single-goroutine access only.
type Engine struct {
	vm  *lua.LState
	dir string
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file in dir, in name
// order.
func NewEngine(dir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, dir: dir, log: log}
	n, err := e.loadDir(dir)
	if err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scenario scripts: %w", err)
	}
	log.Info("scenario scripts loaded", zap.String("dir", dir), zap.Int("files", n))
	return e, nil
}

// loadDir loads all .lua files in a directory and returns how many it ran.
func (e *Engine) loadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return n, fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
		n++
	}
	return n, nil
}

// Has reports whether a scenario function with the given name is defined.
func (e *Engine) Has(scenario string) bool {
	_, ok := e.vm.GetGlobal(scenario).(*lua.LFunction)
	return ok
}

// Populate runs the default scenario against w.
func (e *Engine) Populate(w *world.State) error {
	return e.Run(w, DefaultScenario)
}

// Run binds the world API to w and calls the named global scenario function.
// The world is synced afterwards, so everything the script created is visible
// to the first tick.
func (e *Engine) Run(w *world.State, scenario string) error {
	fn, ok := e.vm.GetGlobal(scenario).(*lua.LFunction)
	if !ok {
		return fmt.Errorf("%s in %s: %w", scenario, e.dir, ErrScenarioNotFound)
	}

	e.vm.SetGlobal("world", newWorldAPI(e.vm, w))
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}); err != nil {
		return fmt.Errorf("run scenario %s: %w", scenario, err)
	}
	w.Sync()

	e.log.Info("scenario populated",
		zap.String("scenario", scenario),
		zap.Int("mobs", w.Mobs.Len()),
		zap.Int("sprites", w.Sprites.Len()),
		zap.Stringer("player", w.Player),
	)
	return nil
}

// TickHook returns a function that calls the scenario's per-tick global
// (scenario + "_tick") with the completed tick number, or nil when the
// scenario defines none. A script error is logged once and disables the hook.
// The engine must stay open while the hook is in use.
func (e *Engine) TickHook(w *world.State, scenario string) func(tick int) {
	name := scenario + tickSuffix
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return nil
	}
	api := newWorldAPI(e.vm, w)
	failed := false
	return func(tick int) {
		if failed {
			return
		}
		e.vm.SetGlobal("world", api)
		if err := e.vm.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		}, lua.LNumber(tick)); err != nil {
			failed = true
			e.log.Warn("scenario tick hook disabled",
				zap.String("function", name),
				zap.Int("tick", tick),
				zap.Error(err),
			)
		}
	}
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
