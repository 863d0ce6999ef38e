// Package dungeon implements the co-op dungeon lifecycle (C7): starting or
// joining a run, entering rooms, completing a run with rewards, and
// cleaning up every row a dungeon owns once it ends.
package dungeon

import (
	"math"
	"time"

	"github.com/ashfallmmo/dungeoncore/internal/command"
	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
	"github.com/ashfallmmo/dungeoncore/internal/threat"
)

const spawnRoomX, spawnRoomY = 270.0, 360.0

// SpawnRoom creates every enemy a room's fixed spawn table calls for,
// scaled to the dungeon's depth, spread in a ring around room center.
// Wolves share a pack_id (the dungeon's own ID, matching the source)
// so ai.wolfAI can find its packmates.
func SpawnRoom(e *engine.Engine, dungeonID uint64, roomIndex uint32, depth uint32, seed uint64) {
	types := model.DefaultRoomEnemies
	if int(roomIndex) < len(model.RoomEnemyTable) {
		types = model.RoomEnemyTable[roomIndex]
	}

	for i, et := range types {
		hp, atk := model.EnemyStats(et, depth)
		angle := float64(i) / float64(len(types)) * 2 * math.Pi
		radius := 150.0 + float64(i)*20.0
		x := float32(270.0 + math.Cos(angle)*radius)
		y := float32(360.0 + math.Sin(angle)*radius)

		state, isPack := model.InitialAIState(et)
		var packID *uint64
		if isPack {
			id := dungeonID
			packID = &id
		}

		id := e.EnemyIDs.Next()
		e.DungeonEnemies.Insert(id, model.DungeonEnemy{
			ID:          id,
			DungeonID:   dungeonID,
			RoomIndex:   roomIndex,
			EnemyType:   et,
			X:           x,
			Y:           y,
			HP:          hp,
			MaxHP:       hp,
			ATK:         atk,
			IsAlive:     true,
			AIState:     state,
			TargetX:     x,
			TargetY:     y,
			FacingAngle: float32(angle),
			PackID:      packID,
		})
	}
}

func resetPosition(e *engine.Engine, identity model.PlayerID, dungeonID uint64, player model.Player) {
	if old, ok := e.PlayerPositions.Find(identity); ok {
		e.PlayerPositions.Update(identity, model.PlayerPosition{
			Identity:      identity,
			DungeonID:     dungeonID,
			X:             spawnRoomX,
			Y:             spawnRoomY,
			FacingX:       1.0,
			FacingY:       0.0,
			Name:          player.Name,
			Level:         player.Level,
			Class:         player.Class,
			WeaponIcon:    old.WeaponIcon,
			ArmorIcon:     old.ArmorIcon,
			AccessoryIcon: old.AccessoryIcon,
		})
		return
	}
	e.PlayerPositions.Insert(identity, model.PlayerPosition{
		Identity:  identity,
		DungeonID: dungeonID,
		X:         spawnRoomX,
		Y:         spawnRoomY,
		FacingX:   1.0,
		FacingY:   0.0,
		Name:      player.Name,
		Level:     player.Level,
		Class:     player.Class,
	})
}

// Start either joins the newest dungeon that has participants other than
// the caller, or creates a fresh 4-room dungeon owned by the caller. A
// player whose HP had hit zero is first cleaned out of every dungeon they
// participated in (solo dungeons are torn down entirely, shared ones just
// drop the caller) so a respawn never leaves a ghost participant behind.
func Start(e *engine.Engine, now time.Time, caller model.PlayerID) error {
	player, ok := e.Players.Find(caller)
	if !ok {
		return command.ErrNotFound
	}

	wasDead := player.HP <= 0
	if player.HP < player.MaxHP {
		player.HP = player.MaxHP
		e.Players.Update(caller, player)
	}

	if wasDead {
		dungeonIDs := map[uint64]bool{}
		for _, p := range e.DungeonParticipants.Filter(func(p model.DungeonParticipant) bool { return p.Identity == caller }) {
			dungeonIDs[p.DungeonID] = true
		}
		for dungeonID := range dungeonIDs {
			count := len(e.DungeonParticipants.Filter(func(p model.DungeonParticipant) bool { return p.DungeonID == dungeonID }))
			if count <= 1 {
				Cleanup(e, dungeonID)
				e.ActiveDungeons.Delete(dungeonID)
			} else {
				e.DungeonParticipants.Delete(engine.DungeonPlayerKey{DungeonID: dungeonID, Identity: caller})
			}
		}
	}

	var latest model.ActiveDungeon
	haveLatest := false
	e.ActiveDungeons.Scan(func(id uint64, d model.ActiveDungeon) {
		if !haveLatest || d.ID > latest.ID {
			latest, haveLatest = d, true
		}
	})
	if haveLatest {
		hasOthers := len(e.DungeonParticipants.Filter(func(p model.DungeonParticipant) bool {
			return p.DungeonID == latest.ID && p.Identity != caller
		})) > 0
		if hasOthers {
			if _, already := e.DungeonParticipants.Find(engine.DungeonPlayerKey{DungeonID: latest.ID, Identity: caller}); !already {
				e.DungeonParticipants.Insert(engine.DungeonPlayerKey{DungeonID: latest.ID, Identity: caller}, model.DungeonParticipant{
					DungeonID: latest.ID,
					Identity:  caller,
				})
			}
			resetPosition(e, caller, latest.ID, player)
			return nil
		}
	}

	seed := uint64(now.UnixMicro())
	depth := player.DungeonsCleared + 1
	dungeonID := e.DungeonIDs.Next()
	e.ActiveDungeons.Insert(dungeonID, model.ActiveDungeon{
		ID:            dungeonID,
		OwnerIdentity: caller,
		Depth:         depth,
		CurrentRoom:   0,
		TotalRooms:    4,
		Seed:          seed,
	})
	e.DungeonParticipants.Insert(engine.DungeonPlayerKey{DungeonID: dungeonID, Identity: caller}, model.DungeonParticipant{
		DungeonID: dungeonID,
		Identity:  caller,
	})
	SpawnRoom(e, dungeonID, 0, depth, seed)
	resetPosition(e, caller, dungeonID, player)
	return nil
}

// EnterRoom moves a participant's dungeon into room_index, spawning the
// room's enemies on first entry and resetting every participant's
// position to the room's fixed spawn point.
func EnterRoom(e *engine.Engine, caller model.PlayerID, dungeonID uint64, roomIndex uint32) error {
	d, ok := e.ActiveDungeons.Find(dungeonID)
	if !ok {
		return command.ErrNotFound
	}
	if _, ok := e.DungeonParticipants.Find(engine.DungeonPlayerKey{DungeonID: dungeonID, Identity: caller}); !ok {
		return command.ErrNotParticipant
	}
	if roomIndex >= d.TotalRooms {
		return command.ErrInvalidRoom
	}

	d.CurrentRoom = roomIndex
	e.ActiveDungeons.Update(dungeonID, d)

	existing := e.DungeonEnemies.Filter(func(en model.DungeonEnemy) bool {
		return en.DungeonID == dungeonID && en.RoomIndex == roomIndex
	})
	if len(existing) == 0 {
		SpawnRoom(e, dungeonID, roomIndex, d.Depth, d.Seed)
	}

	for _, p := range e.DungeonParticipants.Filter(func(p model.DungeonParticipant) bool { return p.DungeonID == dungeonID }) {
		if pos, ok := e.PlayerPositions.Find(p.Identity); ok {
			pos.X, pos.Y = spawnRoomX, spawnRoomY
			e.PlayerPositions.Update(p.Identity, pos)
		}
	}
	return nil
}

// Complete awards the dungeon's XP/gold reward (client-supplied override
// or the 50*depth/20*depth default), applies level-ups, fully heals the
// caller, and tears the dungeon down.
func Complete(e *engine.Engine, caller model.PlayerID, dungeonID uint64, clientGold, clientXP *uint64) error {
	d, ok := e.ActiveDungeons.Find(dungeonID)
	if !ok {
		return command.ErrNotFound
	}
	if _, ok := e.DungeonParticipants.Find(engine.DungeonPlayerKey{DungeonID: dungeonID, Identity: caller}); !ok {
		return command.ErrNotParticipant
	}
	player, ok := e.Players.Find(caller)
	if !ok {
		return command.ErrNotFound
	}

	xpReward := uint64(50) * uint64(d.Depth)
	if clientXP != nil {
		xpReward = *clientXP
	}
	goldReward := uint64(20) * uint64(d.Depth)
	if clientGold != nil {
		goldReward = *clientGold
	}

	newXP := player.XP + xpReward
	newLevel, newMaxHP, newATK, newDEF := model.CheckLevelUp(player.Level, newXP, player.MaxHP, player.ATK, player.DEF)

	player.XP = newXP
	player.Gold += goldReward
	player.DungeonsCleared++
	player.Level = newLevel
	player.MaxHP = newMaxHP
	player.HP = newMaxHP
	player.ATK = newATK
	player.DEF = newDEF
	e.Players.Update(caller, player)

	Cleanup(e, dungeonID)
	e.ActiveDungeons.Delete(dungeonID)
	return nil
}

// Cleanup deletes every row a dungeon owns: enemies, loot, participants,
// positions, messages, and accumulated threat.
func Cleanup(e *engine.Engine, dungeonID uint64) {
	for _, en := range e.DungeonEnemies.Filter(func(en model.DungeonEnemy) bool { return en.DungeonID == dungeonID }) {
		e.DungeonEnemies.Delete(en.ID)
	}
	for _, l := range e.LootDrops.Filter(func(l model.LootDrop) bool { return l.DungeonID == dungeonID }) {
		e.LootDrops.Delete(l.ID)
	}
	for _, p := range e.DungeonParticipants.Filter(func(p model.DungeonParticipant) bool { return p.DungeonID == dungeonID }) {
		e.DungeonParticipants.Delete(engine.DungeonPlayerKey{DungeonID: dungeonID, Identity: p.Identity})
	}
	for _, pos := range e.PlayerPositions.Filter(func(pos model.PlayerPosition) bool { return pos.DungeonID == dungeonID }) {
		e.PlayerPositions.Delete(pos.Identity)
	}
	for _, m := range e.PlayerMessages.Filter(func(m model.PlayerMessage) bool { return m.DungeonID == dungeonID }) {
		e.PlayerMessages.Delete(m.ID)
	}
	threat.CleanupDungeon(e, dungeonID)
}
