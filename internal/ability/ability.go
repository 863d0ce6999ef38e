// Package ability implements the per-player ability cooldown record and
// effects (C5): taunt, knockback, healing zones, dash, and the healer
// passive aura, plus the per-tick cooldown/zone decay that runs alongside
// enemy AI every 50ms.
package ability

import (
	"math"

	"github.com/ashfallmmo/dungeoncore/internal/command"
	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
	"github.com/ashfallmmo/dungeoncore/internal/threat"
)

const dt = model.AITickDT

// EnsureState creates a zeroed PlayerAbilityState for identity in dungeonID
// if one does not already exist.
func EnsureState(e *engine.Engine, identity model.PlayerID, dungeonID uint64) {
	if _, ok := e.AbilityStates.Find(identity); ok {
		return
	}
	e.AbilityStates.Insert(identity, model.PlayerAbilityState{
		Identity:  identity,
		DungeonID: dungeonID,
	})
}

func decay(v float32) float32 {
	v -= dt
	if v < 0 {
		return 0
	}
	return v
}

// TickCooldowns decrements every player's ability cooldowns by one AI tick,
// clamped at zero. dash_cd is decremented here despite use_dash never
// consulting it — the cooldown is dead-coded by design (see DESIGN.md).
func TickCooldowns(e *engine.Engine) {
	e.AbilityStates.Scan(func(id model.PlayerID, st model.PlayerAbilityState) {
		st.TauntCD = decay(st.TauntCD)
		st.KnockbackCD = decay(st.KnockbackCD)
		st.HealingZoneCD = decay(st.HealingZoneCD)
		st.DashCD = decay(st.DashCD)
		st.PostDashBonusTimer = decay(st.PostDashBonusTimer)
		e.AbilityStates.Update(id, st)
	})
}

// TickHealingZones heals players standing inside each active zone, deletes
// zones whose duration has run out, and applies the healer passive aura.
func TickHealingZones(e *engine.Engine) {
	positions := e.PlayerPositions.Filter(func(model.PlayerPosition) bool { return true })

	var expired []uint64
	e.HealingZones.Scan(func(id uint64, zone model.ActiveHealingZone) {
		if zone.DurationRemaining <= 0 {
			expired = append(expired, id)
			return
		}
		for _, pos := range positions {
			if pos.DungeonID != zone.DungeonID {
				continue
			}
			if sqDist(pos.X, pos.Y, zone.X, zone.Y) <= zone.Radius*zone.Radius {
				heal(e, pos.Identity, int32(float32(zone.HealPerTick)*dt))
			}
		}
		zone.DurationRemaining -= dt
		e.HealingZones.Update(id, zone)
	})
	for _, id := range expired {
		e.HealingZones.Delete(id)
	}

	for _, pos := range positions {
		if pos.Class != model.ClassHealer {
			continue
		}
		for _, other := range positions {
			if other.Identity == pos.Identity || other.DungeonID != pos.DungeonID {
				continue
			}
			if sqDist(other.X, other.Y, pos.X, pos.Y) <= 40*40 {
				heal(e, other.Identity, int32(5.0*dt))
			}
		}
	}
}

func heal(e *engine.Engine, identity model.PlayerID, amount int32) {
	player, ok := e.Players.Find(identity)
	if !ok {
		return
	}
	player.HP += amount
	if player.HP > player.MaxHP {
		player.HP = player.MaxHP
	}
	e.Players.Update(identity, player)
}

func sqDist(ax, ay, bx, by float32) float32 {
	dx := ax - bx
	dy := ay - by
	return dx*dx + dy*dy
}

// UseTaunt applies an 8s-cooldown tank ability: forces targetEnemy to
// target caller for 4s and adds 100 threat.
func UseTaunt(e *engine.Engine, caller model.PlayerID, dungeonID, targetEnemy uint64) error {
	player, ok := e.Players.Find(caller)
	if !ok {
		return command.ErrNotFound
	}
	if player.Class != model.ClassTank {
		return command.ErrNotTank
	}
	EnsureState(e, caller, dungeonID)
	state := e.AbilityStates.MustFind(caller)
	if state.TauntCD > 0 {
		return command.ErrOnCooldown
	}
	enemy, ok := e.DungeonEnemies.Find(targetEnemy)
	if !ok {
		return command.ErrNotFound
	}
	if enemy.DungeonID != dungeonID || !enemy.IsAlive {
		return command.ErrInvalidTarget
	}

	enemy.IsTaunted = true
	enemy.TauntedBy = caller
	enemy.TauntTimer = 4.0
	enemy.CurrentTarget = caller
	e.DungeonEnemies.Update(targetEnemy, enemy)

	state.TauntCD = 8.0
	e.AbilityStates.Update(caller, state)

	threat.Add(e, dungeonID, targetEnemy, caller, 100)
	return nil
}

// UseKnockback applies a 12s-cooldown tank ability: pushes every alive
// enemy within 60px of caller out by 100px and stuns it for 0.5s.
func UseKnockback(e *engine.Engine, caller model.PlayerID, dungeonID uint64) error {
	player, ok := e.Players.Find(caller)
	if !ok {
		return command.ErrNotFound
	}
	pos, ok := e.PlayerPositions.Find(caller)
	if !ok {
		return command.ErrNotFound
	}
	if player.Class != model.ClassTank {
		return command.ErrNotTank
	}
	EnsureState(e, caller, dungeonID)
	state := e.AbilityStates.MustFind(caller)
	if state.KnockbackCD > 0 {
		return command.ErrOnCooldown
	}

	const radius, distance = 60.0, 100.0
	enemies := e.DungeonEnemies.Filter(func(en model.DungeonEnemy) bool {
		return en.DungeonID == dungeonID && en.IsAlive
	})
	for _, en := range enemies {
		dx := en.X - pos.X
		dy := en.Y - pos.Y
		dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		if dist <= radius && dist > 0.1 {
			nx, ny := dx/dist, dy/dist
			en.X = clampf(en.X+nx*distance, model.TileSize, model.RoomW-model.TileSize)
			en.Y = clampf(en.Y+ny*distance, model.TileSize, model.RoomH-model.TileSize)
			en.AIState = model.StateStunned
			en.StateTimer = 0.5
			e.DungeonEnemies.Update(en.ID, en)
		}
	}

	state.KnockbackCD = 12.0
	e.AbilityStates.Update(caller, state)
	return nil
}

// PlaceHealingZone applies a 15s-cooldown healer ability: a radius-60, 5
// HP/s zone lasting 8s centered at (x, y).
func PlaceHealingZone(e *engine.Engine, caller model.PlayerID, dungeonID uint64, x, y float32) error {
	player, ok := e.Players.Find(caller)
	if !ok {
		return command.ErrNotFound
	}
	if player.Class != model.ClassHealer {
		return command.ErrNotHealer
	}
	EnsureState(e, caller, dungeonID)
	state := e.AbilityStates.MustFind(caller)
	if state.HealingZoneCD > 0 {
		return command.ErrOnCooldown
	}

	id := e.HealingZoneIDs.Next()
	e.HealingZones.Insert(id, model.ActiveHealingZone{
		ID:                id,
		DungeonID:         dungeonID,
		OwnerIdentity:     caller,
		X:                 x,
		Y:                 y,
		Radius:            60.0,
		HealPerTick:       5,
		DurationRemaining: 8.0,
	})

	state.HealingZoneCD = 15.0
	e.AbilityStates.Update(caller, state)
	return nil
}

// UseDash teleports caller 150px along (dirX, dirY). Dash has no enforced
// cooldown — dash_cd decrements every tick but is never read here; this
// matches the source's dead-coded dash cooldown exactly (see DESIGN.md).
// DPS callers get a 0.5s post-dash damage-bonus window.
func UseDash(e *engine.Engine, caller model.PlayerID, dungeonID uint64, dirX, dirY float32) error {
	player, ok := e.Players.Find(caller)
	if !ok {
		return command.ErrNotFound
	}
	pos, ok := e.PlayerPositions.Find(caller)
	if !ok {
		return command.ErrNotFound
	}

	const dashDistance = 150.0
	pos.X += dirX * dashDistance
	pos.Y += dirY * dashDistance
	pos.FacingX, pos.FacingY = dirX, dirY
	e.PlayerPositions.Update(caller, pos)

	if player.Class == model.ClassDPS {
		EnsureState(e, caller, dungeonID)
		state := e.AbilityStates.MustFind(caller)
		state.PostDashBonusTimer = 0.5
		e.AbilityStates.Update(caller, state)
	}
	return nil
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
