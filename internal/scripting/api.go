package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/core/event"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/display"
	"github.com/tickworld/server/internal/geom"
	"github.com/tickworld/server/internal/world"
)

// newWorldAPI builds the `world` module table exposed to scenario scripts.
// Mob and entity ids cross into Lua as plain numbers.
func newWorldAPI(L *lua.LState, w *world.State) *lua.LTable {
	api := &worldAPI{w: w}
	t := L.NewTable()
	L.SetFuncs(t, map[string]lua.LGFunction{
		"bounds":        api.bounds,
		"set_ground":    api.setGround,
		"fill_ground":   api.fillGround,
		"spawn_mob":     api.spawnMob,
		"create_sprite": api.createSprite,
		"set_player":    api.setPlayer,
		"kill_mob":      api.killMob,
		"mobs":          api.mobs,
		"rand_int":      api.randInt,
		"species":       api.species,
		"sync":          api.sync,
	})
	return t
}

type worldAPI struct {
	w *world.State
}

// bounds() -> {left, top, width, height, right, bottom}
func (a *worldAPI) bounds(L *lua.LState) int {
	b := a.w.Bounds
	t := L.NewTable()
	t.RawSetString("left", lua.LNumber(b.Left))
	t.RawSetString("top", lua.LNumber(b.Top))
	t.RawSetString("width", lua.LNumber(b.Width))
	t.RawSetString("height", lua.LNumber(b.Height))
	t.RawSetString("right", lua.LNumber(b.Right()))
	t.RawSetString("bottom", lua.LNumber(b.Bottom()))
	L.Push(t)
	return 1
}

func checkTile(L *lua.LState, n int) rune {
	s := []rune(L.CheckString(n))
	if len(s) != 1 {
		L.ArgError(n, "tile must be a single character")
	}
	return s[0]
}

// set_ground(x, y, ch)
func (a *worldAPI) setGround(L *lua.LState) int {
	a.w.Terrain.Set(geom.V(L.CheckInt(1), L.CheckInt(2)), checkTile(L, 3))
	return 0
}

// fill_ground(ch)
func (a *worldAPI) fillGround(L *lua.LState) int {
	a.w.Terrain.Fill(checkTile(L, 1))
	return 0
}

// spawn_mob(type, x, y) -> mob id, or nil for an unknown species
func (a *worldAPI) spawnMob(L *lua.LState) int {
	mt := data.MobType(L.CheckString(1))
	m, ok := a.w.CreateMob(mt, geom.V(L.CheckInt(2), L.CheckInt(3)))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(m.ID))
	return 1
}

// create_sprite{frames, animated, frame_rate, fg, bg, x, y, layer, life} -> entity id
func (a *worldAPI) createSprite(L *lua.LState) int {
	t := L.CheckTable(1)

	frames := lStr(t, "frames")
	if frames == "" {
		L.ArgError(1, "frames is required")
	}
	fg, err := display.ParseColor(lStr(t, "fg"))
	if err != nil {
		L.ArgError(1, err.Error())
	}
	bg, err := display.ParseColor(lStr(t, "bg"))
	if err != nil {
		L.ArgError(1, err.Error())
	}
	layer := display.LayerGroundCover
	if name := lStr(t, "layer"); name != "" {
		if layer, err = display.ParseLayer(name); err != nil {
			L.ArgError(1, err.Error())
		}
	}

	spec := world.SpriteSpec{
		Frames:    frames,
		Animated:  lua.LVAsBool(t.RawGetString("animated")),
		FrameRate: lInt(t, "frame_rate"),
		FG:        fg,
		BG:        bg,
	}
	_, e := a.w.CreateSprite(spec, geom.V(lInt(t, "x"), lInt(t, "y")), layer)
	e.Life = lInt(t, "life")
	L.Push(lua.LNumber(e.ID))
	return 1
}

func checkID(L *lua.LState, n int) ecs.ID {
	return ecs.ID(uint64(L.CheckNumber(n)))
}

// set_player(mob_id)
func (a *worldAPI) setPlayer(L *lua.LState) int {
	m, ok := a.w.Mob(checkID(L, 1))
	if !ok {
		L.ArgError(1, "not a mob id")
	}
	a.w.SetPlayer(m.Entity, m.Position)
	return 0
}

// kill_mob(mob_id) queues a KillMob for the first tick.
func (a *worldAPI) killMob(L *lua.LState) int {
	a.w.QueueEvent(event.KillMob{Mob: checkID(L, 1)})
	return 0
}

// mobs() -> list of live mob ids, as of the last sync
func (a *worldAPI) mobs(L *lua.LState) int {
	t := L.NewTable()
	for _, id := range a.w.Mobs.IDs() {
		t.Append(lua.LNumber(id))
	}
	L.Push(t)
	return 1
}

// rand_int(lo, hi) -> uniform integer in [lo, hi], from the world's RNG
func (a *worldAPI) randInt(L *lua.LState) int {
	L.Push(lua.LNumber(a.w.RandInt(L.CheckInt(1), L.CheckInt(2))))
	return 1
}

// species() -> list of mob type names
func (a *worldAPI) species(L *lua.LState) int {
	t := L.NewTable()
	for _, mt := range a.w.Species.Types() {
		t.Append(lua.LString(mt))
	}
	L.Push(t)
	return 1
}

func (a *worldAPI) sync(L *lua.LState) int {
	a.w.Sync()
	return 0
}

// --- Lua helpers ---

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}
