// Package scripting wraps a single gopher-lua VM that holds the tunable
// numbers loot generation and the raid boss don't want hard-coded in Go:
// rarity-roll thresholds and the boss's per-phase enrage multiplier. Go
// still decides *when* to roll and *which* phase the boss is in; Lua only
// supplies the numbers, the same split the teacher draws between its
// combat-formula bridge and the rest of the server.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only — it is
// only ever called from inside engine.Transact, so no locking is needed.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script under scriptsDir.
// A missing directory is not an error: callers fall back to the Go-side
// defaults in internal/loot and internal/ai when no tuning script is present.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// RarityThresholds holds the cumulative-percent cutoffs rarityFor rolls
// against for one loot source bucket ("raid_boss", "shield_knight",
// "default"). A zero value means "not overridden, use the Go default".
type RarityThresholds struct {
	LegendaryBelow int
	EpicBelow      int
	RareBelow      int
}

// RarityTable calls Lua loot_rarity_table(source) and returns the override
// for that bucket, or ok=false if no Lua override is loaded.
func (e *Engine) RarityTable(source string) (RarityThresholds, bool) {
	fn := e.vm.GetGlobal("loot_rarity_table")
	if fn == lua.LNil {
		return RarityThresholds{}, false
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(source)); err != nil {
		e.log.Error("lua loot_rarity_table error", zap.Error(err), zap.String("source", source))
		return RarityThresholds{}, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return RarityThresholds{}, false
	}
	return RarityThresholds{
		LegendaryBelow: lInt(rt, "legendary_below"),
		EpicBelow:      lInt(rt, "epic_below"),
		RareBelow:      lInt(rt, "rare_below"),
	}, true
}

// BossEnrageMult calls Lua raid_boss_enrage_mult(phase) for the boss's
// damage multiplier in that phase. Returns ok=false when no script
// overrides it, so the caller keeps its own default rather than silently
// enraging at 1.0x.
func (e *Engine) BossEnrageMult(phase uint32) (mult float32, ok bool) {
	fn := e.vm.GetGlobal("raid_boss_enrage_mult")
	if fn == lua.LNil {
		return 0, false
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(phase)); err != nil {
		e.log.Error("lua raid_boss_enrage_mult error", zap.Error(err), zap.Uint32("phase", phase))
		return 0, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	mult = float32(lua.LVAsNumber(result))
	if mult <= 0 {
		return 0, false
	}
	return mult, true
}

func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
