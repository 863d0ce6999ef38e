// Package engine assembles every store.Table into the single aggregate the
// rest of the simulation core operates on, and provides the Transact
// helper that is this repository's answer to spec.md §5's concurrency
// model: command handlers and tick handlers never interleave.
//
// There is no undo log. Transact does not roll back partial writes on
// error — instead, by convention, every handler in internal/command and
// internal/ai validates its preconditions completely before making its
// first store write, the same way the source reducers this was distilled
// from return Err before touching ctx.db. A handler that mutates and then
// later discovers an error is a bug in the handler, not in Transact.
package engine

import (
	"sync"

	"github.com/ashfallmmo/dungeoncore/internal/event"
	"github.com/ashfallmmo/dungeoncore/internal/model"
	"github.com/ashfallmmo/dungeoncore/internal/scripting"
	"github.com/ashfallmmo/dungeoncore/internal/store"
	"go.uber.org/zap"
)

// Engine is the complete in-memory simulation state: every table, the
// auto-increment counters for synthetic-key tables, and the event bus
// tables publish row changes on.
type Engine struct {
	mu  sync.Mutex
	log *zap.Logger
	Bus *event.Bus

	// Scripts is the optional Lua tuning VM for loot rarity and raid-boss
	// enrage multipliers. Nil means every caller falls back to its Go-side
	// default table.
	Scripts *scripting.Engine

	Players             *store.Table[model.PlayerID, model.Player]
	ActiveDungeons      *store.Table[uint64, model.ActiveDungeon]
	DungeonEnemies      *store.Table[uint64, model.DungeonEnemy]
	PlayerPositions     *store.Table[model.PlayerID, model.PlayerPosition]
	LootDrops           *store.Table[uint64, model.LootDrop]
	InventoryItems      *store.Table[uint64, model.InventoryItem]
	DungeonParticipants *store.Table[DungeonPlayerKey, model.DungeonParticipant]
	ThreatEntries       *store.Table[ThreatKey, model.ThreatEntry]
	AbilityStates       *store.Table[model.PlayerID, model.PlayerAbilityState]
	HealingZones        *store.Table[uint64, model.ActiveHealingZone]
	GameModes           *store.Table[model.PlayerID, model.PlayerGameMode]

	OpenWorldInstances *store.Table[uint64, model.OpenWorldInstance]
	OpenWorldEnemies   *store.Table[uint64, model.OpenWorldEnemy]
	OpenWorldPlayers   *store.Table[model.PlayerID, model.OpenWorldPlayer]

	DungeonQueue    *store.Table[model.PlayerID, model.DungeonQueue]
	RaidQueue       *store.Table[model.PlayerID, model.RaidQueue]
	RaidInstances   *store.Table[uint64, model.RaidInstance]
	RaidParticipants *store.Table[RaidParticipantKey, model.RaidParticipant]
	RaidCooldowns   *store.Table[model.PlayerID, model.RaidCooldown]
	DailyRaidClears *store.Table[model.PlayerID, model.DailyRaidClear]

	PlayerMessages *store.Table[uint64, model.PlayerMessage]

	// MatchmakingArm wakes the matchmaking scheduler when it has gone idle
	// (both queues empty) and a player joins a queue again. Buffered by one
	// so an arm signal raised while the scheduler is mid-tick is never lost
	// but never piles up either.
	MatchmakingArm chan struct{}

	DungeonIDs    store.AutoInc
	EnemyIDs      store.AutoInc
	LootIDs       store.AutoInc
	InventoryIDs  store.AutoInc
	HealingZoneIDs store.AutoInc
	ShardIDs      store.AutoInc
	OWEnemyIDs    store.AutoInc
	RaidIDs       store.AutoInc
	RaidPartIDs   store.AutoInc
	MessageIDs    store.AutoInc
}

// New builds an empty Engine with every table wired to bus.
func New(log *zap.Logger) *Engine {
	bus := event.NewBus()
	return &Engine{
		log:                 log,
		Bus:                 bus,
		Players:             store.NewTable[model.PlayerID, model.Player]("player", bus),
		ActiveDungeons:      store.NewTable[uint64, model.ActiveDungeon]("active_dungeon", bus),
		DungeonEnemies:      store.NewTable[uint64, model.DungeonEnemy]("dungeon_enemy", bus),
		PlayerPositions:     store.NewTable[model.PlayerID, model.PlayerPosition]("player_position", bus),
		LootDrops:           store.NewTable[uint64, model.LootDrop]("loot_drop", bus),
		InventoryItems:      store.NewTable[uint64, model.InventoryItem]("inventory_item", bus),
		DungeonParticipants: store.NewTable[DungeonPlayerKey, model.DungeonParticipant]("dungeon_participant", bus),
		ThreatEntries:       store.NewTable[ThreatKey, model.ThreatEntry]("threat_entry", bus),
		AbilityStates:       store.NewTable[model.PlayerID, model.PlayerAbilityState]("player_ability_state", bus),
		HealingZones:        store.NewTable[uint64, model.ActiveHealingZone]("active_healing_zone", bus),
		GameModes:           store.NewTable[model.PlayerID, model.PlayerGameMode]("player_game_mode", bus),

		OpenWorldInstances: store.NewTable[uint64, model.OpenWorldInstance]("open_world_instance", bus),
		OpenWorldEnemies:   store.NewTable[uint64, model.OpenWorldEnemy]("open_world_enemy", bus),
		OpenWorldPlayers:   store.NewTable[model.PlayerID, model.OpenWorldPlayer]("open_world_player", bus),

		DungeonQueue:     store.NewTable[model.PlayerID, model.DungeonQueue]("dungeon_queue", bus),
		RaidQueue:        store.NewTable[model.PlayerID, model.RaidQueue]("raid_queue", bus),
		RaidInstances:    store.NewTable[uint64, model.RaidInstance]("raid_instance", bus),
		RaidParticipants: store.NewTable[RaidParticipantKey, model.RaidParticipant]("raid_participant", bus),
		RaidCooldowns:    store.NewTable[model.PlayerID, model.RaidCooldown]("raid_cooldown", bus),
		DailyRaidClears:  store.NewTable[model.PlayerID, model.DailyRaidClear]("daily_raid_clear", bus),

		PlayerMessages: store.NewTable[uint64, model.PlayerMessage]("player_message", bus),

		MatchmakingArm: make(chan struct{}, 1),
	}
}

// SetScripts attaches the Lua tuning VM after construction, once main has
// loaded it from disk.
func (e *Engine) SetScripts(s *scripting.Engine) {
	e.Scripts = s
}

// ArmMatchmaking wakes an idle matchmaking scheduler. Safe to call whether
// or not anything is listening.
func (e *Engine) ArmMatchmaking() {
	select {
	case e.MatchmakingArm <- struct{}{}:
	default:
	}
}

// Transact runs fn under the engine's single process-wide lock, then swaps
// and dispatches the event bus so subscribers observe the committed writes.
// This is the only path by which command handlers and tick handlers may
// touch the store — it is what guarantees no two handlers ever interleave.
func (e *Engine) Transact(fn func(e *Engine) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := fn(e)
	e.Bus.SwapBuffers()
	e.Bus.DispatchAll()
	return err
}
