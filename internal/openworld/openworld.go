// Package openworld implements the persistent shared-world shard (C8): a
// fixed 10x10 grid of rooms, per-room enemy leveling by distance from the
// town-center hub, hotspot rooms with faster respawns, and the 50ms tick
// that chases, attacks, and respawns its fixed-spawn-point enemies.
package openworld

import (
	"math"
	"time"

	"github.com/ashfallmmo/dungeoncore/internal/command"
	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
)

const dt = model.AITickDT

// levelForRoom maps a room's Chebyshev distance from the town-center hub
// (5,5) to an enemy level band: center rooms are trivial, the outer ring
// is endgame.
func levelForRoom(roomX, roomY int32) uint32 {
	center := model.OpenWorldGridSize / 2
	dx, dy := roomX-center, roomY-center
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	dist := dx
	if dy > dist {
		dist = dy
	}
	switch {
	case dist <= 1:
		return uint32(1 + dist)
	case dist == 2:
		return 5
	case dist == 3:
		return 10
	case dist == 4:
		return 15
	default:
		return 20
	}
}

// IsHotspot reports whether a room is one of the four cardinal hotspot
// rooms (faster respawn, denser spawns).
func IsHotspot(roomX, roomY int32) bool {
	center := model.OpenWorldGridSize / 2
	return (roomX == center && (roomY == 1 || roomY == model.OpenWorldGridSize-2)) ||
		(roomY == center && (roomX == 1 || roomX == model.OpenWorldGridSize-2))
}

func enemyTypeForZone(level uint32) string {
	idx := int(level) % 3
	switch {
	case level <= 5:
		return [3]string{"slime", "bat", "skeleton"}[idx]
	case level <= 10:
		return [3]string{"skeleton", "archer", "wolf"}[idx]
	case level <= 15:
		return [3]string{"charger", "bomber", "shield_knight"}[idx]
	default:
		return [3]string{"necromancer", "charger", "shield_knight"}[idx]
	}
}

// spawnEnemies populates every non-hub room in a fresh instance: 8 enemies
// per normal room, 12 per hotspot, ringed around room center.
func spawnEnemies(e *engine.Engine, instanceID uint64) {
	center := model.OpenWorldGridSize / 2
	for rx := int32(0); rx < model.OpenWorldGridSize; rx++ {
		for ry := int32(0); ry < model.OpenWorldGridSize; ry++ {
			if rx == center && ry == center {
				continue
			}
			level := levelForRoom(rx, ry)
			numSpawns := 8
			if IsHotspot(rx, ry) {
				numSpawns = 12
			}
			for i := 0; i < numSpawns; i++ {
				et := enemyTypeForZone(level)
				hp, atk := model.EnemyStats(et, level)
				angle := float32(i) / float32(numSpawns) * 2 * math.Pi
				radius := 150.0 + float32(int(float32(i)*17)%80)
				x := model.RoomW/2 + float32(math.Cos(float64(angle)))*radius
				y := model.RoomH/2 + float32(math.Sin(float64(angle)))*radius

				id := e.OWEnemyIDs.Next()
				e.OpenWorldEnemies.Insert(id, model.OpenWorldEnemy{
					ID:            id,
					InstanceID:    instanceID,
					RoomX:         rx,
					RoomY:         ry,
					SpawnPointIdx: uint32(i),
					EnemyType:     et,
					HP:            hp,
					MaxHP:         hp,
					ATK:           atk,
					X:             x,
					Y:             y,
					IsAlive:       true,
					AIState:       model.StateChase,
					TargetX:       x,
					TargetY:       y,
					FacingAngle:   angle,
				})
			}
		}
	}
}

func cleanupInstance(e *engine.Engine, instanceID uint64) {
	for _, en := range e.OpenWorldEnemies.Filter(func(en model.OpenWorldEnemy) bool { return en.InstanceID == instanceID }) {
		e.OpenWorldEnemies.Delete(en.ID)
	}
	e.OpenWorldInstances.Delete(instanceID)
}

// Enter places a player into a shard with spare capacity, creating a new
// shard (and spawning its enemies) if every existing shard is full.
func Enter(e *engine.Engine, now time.Time, caller model.PlayerID) error {
	player, ok := e.Players.Find(caller)
	if !ok {
		return command.ErrNotFound
	}

	var instanceID uint64
	found := false
	e.OpenWorldInstances.Scan(func(id uint64, inst model.OpenWorldInstance) {
		if found || inst.PlayerCount >= model.OpenWorldMaxPlayersPerShard {
			return
		}
		instanceID, found = id, true
	})
	if found {
		inst := e.OpenWorldInstances.MustFind(instanceID)
		inst.PlayerCount++
		e.OpenWorldInstances.Update(instanceID, inst)
	} else {
		instanceID = e.ShardIDs.Next()
		e.OpenWorldInstances.Insert(instanceID, model.OpenWorldInstance{
			ID:          instanceID,
			CreatedAt:   now.UnixMilli(),
			PlayerCount: 1,
		})
		spawnEnemies(e, instanceID)
	}

	center := model.OpenWorldGridSize / 2
	e.OpenWorldPlayers.Insert(caller, model.OpenWorldPlayer{
		Identity:   caller,
		InstanceID: instanceID,
		RoomX:      center,
		RoomY:      center,
		X:          model.RoomW / 2,
		Y:          model.RoomH / 2,
		FacingX:    0,
		FacingY:    -1,
		Name:       player.Name,
		Level:      player.Level,
		Class:      player.Class,
	})

	gm, ok := e.GameModes.Find(caller)
	if !ok {
		gm = model.PlayerGameMode{Identity: caller}
	}
	gm.Mode = model.ModeOpenWorld
	gm.InstanceID = &instanceID
	if ok {
		e.GameModes.Update(caller, gm)
	} else {
		e.GameModes.Insert(caller, gm)
	}
	return nil
}

// Leave removes a player from their shard, tearing the shard down once
// its last occupant departs.
func Leave(e *engine.Engine, caller model.PlayerID) error {
	owp, ok := e.OpenWorldPlayers.Find(caller)
	if !ok {
		return command.ErrNotFound
	}
	instanceID := owp.InstanceID
	e.OpenWorldPlayers.Delete(caller)

	if inst, ok := e.OpenWorldInstances.Find(instanceID); ok {
		if inst.PlayerCount <= 1 {
			cleanupInstance(e, instanceID)
		} else {
			inst.PlayerCount--
			e.OpenWorldInstances.Update(instanceID, inst)
		}
	}

	if gm, ok := e.GameModes.Find(caller); ok {
		gm.Mode = model.ModeHub
		gm.InstanceID = nil
		e.GameModes.Update(caller, gm)
	}
	return nil
}

// UpdatePosition records a shard player's latest room and coordinates.
func UpdatePosition(e *engine.Engine, caller model.PlayerID, roomX, roomY int32, x, y, facingX, facingY float32, weapon, armor, accessory string) error {
	owp, ok := e.OpenWorldPlayers.Find(caller)
	if !ok {
		return command.ErrNotFound
	}
	if roomX < 0 || roomX >= model.OpenWorldGridSize || roomY < 0 || roomY >= model.OpenWorldGridSize {
		return command.ErrOutOfBounds
	}
	owp.RoomX, owp.RoomY = roomX, roomY
	owp.X, owp.Y = x, y
	owp.FacingX, owp.FacingY = facingX, facingY
	owp.WeaponIcon, owp.ArmorIcon, owp.AccessoryIcon = weapon, armor, accessory
	e.OpenWorldPlayers.Update(caller, owp)
	return nil
}

// Attack damages a shard enemy, awarding level-scaled XP and scheduling a
// respawn (fast for hotspots) on kill.
func Attack(e *engine.Engine, now time.Time, caller model.PlayerID, enemyID uint64) error {
	player, ok := e.Players.Find(caller)
	if !ok {
		return command.ErrNotFound
	}
	owp, ok := e.OpenWorldPlayers.Find(caller)
	if !ok {
		return command.ErrNotFound
	}
	enemy, ok := e.OpenWorldEnemies.Find(enemyID)
	if !ok {
		return command.ErrNotFound
	}
	if !enemy.IsAlive {
		return command.ErrAlreadyDead
	}
	if enemy.RoomX != owp.RoomX || enemy.RoomY != owp.RoomY {
		return command.ErrWrongRoom
	}
	dx, dy := owp.X-enemy.X, owp.Y-enemy.Y
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if dist > model.AttackRange {
		return command.ErrOutOfRange
	}

	damage := player.ATK
	if damage < 1 {
		damage = 1
	}
	newHP := enemy.HP - damage

	level := levelForRoom(enemy.RoomX, enemy.RoomY)
	levelDiff := int32(level) - int32(player.Level)
	xpMult := float32(1.0)
	switch {
	case levelDiff <= -5:
		xpMult = 0.25
	case levelDiff >= 5:
		xpMult = 1.5
	}

	if newHP <= 0 {
		delay := model.OpenWorldBaseRespawnMS
		if IsHotspot(enemy.RoomX, enemy.RoomY) {
			delay = model.OpenWorldHotspotRespawnMS
		}
		enemy.HP = 0
		enemy.IsAlive = false
		enemy.RespawnAt = now.UnixMilli() + delay
		e.OpenWorldEnemies.Update(enemyID, enemy)

		scaledXP := uint64(float32(model.EnemyXP(enemy.EnemyType)) * xpMult)
		newXP := player.XP + scaledXP
		newLevel, newMaxHP, newATK, newDEF := model.CheckLevelUp(player.Level, newXP, player.MaxHP, player.ATK, player.DEF)
		player.XP = newXP
		player.Level = newLevel
		player.MaxHP = newMaxHP
		player.ATK = newATK
		player.DEF = newDEF
		e.Players.Update(caller, player)
	} else {
		enemy.HP = newHP
		e.OpenWorldEnemies.Update(enemyID, enemy)
	}
	return nil
}

// Tick runs one 50ms step: every alive enemy chases/attacks the nearest
// same-room player, and every respawn-due corpse is restored to full
// health at its zone's level.
func Tick(e *engine.Engine, now time.Time) {
	players := e.OpenWorldPlayers.Filter(func(model.OpenWorldPlayer) bool { return true })

	e.OpenWorldEnemies.Scan(func(id uint64, enemy model.OpenWorldEnemy) {
		if !enemy.IsAlive {
			return
		}
		if enemy.StateTimer > 0 {
			enemy.StateTimer -= dt
		}

		var target model.OpenWorldPlayer
		bestDist := float32(math.MaxFloat32)
		found := false
		for _, p := range players {
			if p.InstanceID != enemy.InstanceID || p.RoomX != enemy.RoomX || p.RoomY != enemy.RoomY {
				continue
			}
			dx, dy := p.X-enemy.X, p.Y-enemy.Y
			d := dx*dx + dy*dy
			if !found || d < bestDist {
				target, bestDist, found = p, d, true
			}
		}
		if !found {
			e.OpenWorldEnemies.Update(id, enemy)
			return
		}

		dx, dy := target.X-enemy.X, target.Y-enemy.Y
		dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		var nx, ny float32
		if dist > 0.1 {
			nx, ny = dx/dist, dy/dist
		}
		enemy.FacingAngle = float32(math.Atan2(float64(ny), float64(nx)))
		speed := model.EnemySpeed(enemy.EnemyType) * dt * 60.0

		if dist > model.EnemyAttackRange {
			enemy.X = clampf(enemy.X+nx*speed, 20, model.RoomW-20)
			enemy.Y = clampf(enemy.Y+ny*speed, 20, model.RoomH-20)
			enemy.TargetX, enemy.TargetY = target.X, target.Y
			enemy.AIState = model.StateChase
		} else if enemy.StateTimer <= 0 {
			enemy.StateTimer = 1.2
			enemy.AIState = model.AIState("attack")
			if p, ok := e.Players.Find(target.Identity); ok {
				damage := enemy.ATK - p.DEF/2
				if damage < 1 {
					damage = 1
				}
				p.HP -= damage
				if p.HP < 0 {
					p.HP = 0
				}
				e.Players.Update(target.Identity, p)
			}
		}
		e.OpenWorldEnemies.Update(id, enemy)
	})

	nowMS := now.UnixMilli()
	for _, enemy := range e.OpenWorldEnemies.Filter(func(en model.OpenWorldEnemy) bool {
		return !en.IsAlive && en.RespawnAt > 0 && en.RespawnAt <= nowMS
	}) {
		level := levelForRoom(enemy.RoomX, enemy.RoomY)
		hp, atk := model.EnemyStats(enemy.EnemyType, level)
		enemy.HP, enemy.MaxHP, enemy.ATK = hp, hp, atk
		enemy.IsAlive = true
		enemy.RespawnAt = 0
		enemy.AIState = model.StateChase
		enemy.StateTimer = 0
		e.OpenWorldEnemies.Update(enemy.ID, enemy)
	}
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
