// Package matchmaking implements dungeon and raid queueing (C9): grouping
// queued players by tier/difficulty or by role, and the 1Hz tick that
// starts a run once a group is ready or has waited long enough.
package matchmaking

import (
	"math"
	"time"

	"github.com/ashfallmmo/dungeoncore/internal/command"
	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
)

const queueTimeoutMS = 30_000

// cancelAny removes caller from whichever queue they were in, enforcing
// the single-queue-at-a-time rule every entry point relies on.
func cancelAny(e *engine.Engine, caller model.PlayerID) {
	e.DungeonQueue.Delete(caller)
	e.RaidQueue.Delete(caller)
}

// QueueDungeon enrolls caller in the co-op dungeon queue for (tier,
// difficulty), replacing any queue entry they already held.
func QueueDungeon(e *engine.Engine, now time.Time, caller model.PlayerID, tier, difficulty uint32) error {
	if _, ok := e.Players.Find(caller); !ok {
		return command.ErrNotFound
	}
	if tier < 1 || tier > 3 {
		return command.ErrInvalidTier
	}
	if difficulty < 1 || difficulty > 5 {
		return command.ErrInvalidDifficulty
	}

	cancelAny(e, caller)
	e.DungeonQueue.Insert(caller, model.DungeonQueue{
		Identity:    caller,
		DungeonTier: tier,
		Difficulty:  difficulty,
		QueuedAtMS:  now.UnixMilli(),
	})
	e.ArmMatchmaking()
	return nil
}

// QueueRaid enrolls caller in the role-balanced raid queue, rejecting
// players still serving a post-wipe cooldown.
func QueueRaid(e *engine.Engine, now time.Time, caller model.PlayerID) error {
	player, ok := e.Players.Find(caller)
	if !ok {
		return command.ErrNotFound
	}
	if cd, ok := e.RaidCooldowns.Find(caller); ok && now.UnixMilli() < cd.CooldownUntilMS {
		return command.ErrOnCooldown
	}

	cancelAny(e, caller)
	e.RaidQueue.Insert(caller, model.RaidQueue{
		Identity:   caller,
		Class:      player.Class,
		QueuedAtMS: now.UnixMilli(),
	})
	e.ArmMatchmaking()
	return nil
}

// CancelQueue removes caller from any queue they are in. Never errors —
// cancelling with no active queue entry is a no-op.
func CancelQueue(e *engine.Engine, caller model.PlayerID) {
	cancelAny(e, caller)
}

func statMult(difficulty uint32, partySize int) float32 {
	diffMult := 1.0 + float32(difficulty-1)*0.15
	sizeMult := 1.0 + float32(partySize-1)*0.1
	return diffMult * sizeMult
}

func initPosition(e *engine.Engine, identity model.PlayerID, dungeonID uint64) {
	player, ok := e.Players.Find(identity)
	if !ok {
		return
	}
	e.PlayerPositions.Insert(identity, model.PlayerPosition{
		Identity:  identity,
		DungeonID: dungeonID,
		X:         270.0,
		Y:         360.0,
		FacingX:   0,
		FacingY:   -1,
		Name:      player.Name,
		Level:     player.Level,
		Class:     player.Class,
	})
}

func setDungeonGameMode(e *engine.Engine, identity model.PlayerID, dungeonID uint64) {
	gm, ok := e.GameModes.Find(identity)
	if !ok {
		return
	}
	gm.Mode = model.ModeDungeon
	gm.InstanceID = &dungeonID
	e.GameModes.Update(identity, gm)
}

// TickDungeonQueues groups every queued player by (tier, difficulty) and
// starts a co-op run for any group that has reached two players or has
// been waiting queueTimeoutMS, whichever comes first. Enemy stats
// scale by both difficulty (+15% per star) and party size (+10% per
// extra player).
func TickDungeonQueues(e *engine.Engine, now time.Time) {
	nowMS := now.UnixMilli()
	type key struct {
		tier, difficulty uint32
	}
	groups := map[key][]model.DungeonQueue{}
	e.DungeonQueue.Scan(func(_ model.PlayerID, q model.DungeonQueue) {
		k := key{q.DungeonTier, q.Difficulty}
		groups[k] = append(groups[k], q)
	})

	for k, players := range groups {
		shouldStart := len(players) >= 2
		if !shouldStart {
			for _, p := range players {
				if nowMS-p.QueuedAtMS >= queueTimeoutMS {
					shouldStart = true
					break
				}
			}
		}
		if !shouldStart || len(players) == 0 {
			continue
		}

		seed := uint64(nowMS)
		mult := statMult(k.difficulty, len(players))
		dungeonID := e.DungeonIDs.Next()
		e.ActiveDungeons.Insert(dungeonID, model.ActiveDungeon{
			ID:            dungeonID,
			OwnerIdentity: players[0].Identity,
			Depth:         k.tier,
			CurrentRoom:   0,
			TotalRooms:    1,
			Seed:          seed,
		})

		for _, p := range players {
			e.DungeonParticipants.Insert(engine.DungeonPlayerKey{DungeonID: dungeonID, Identity: p.Identity}, model.DungeonParticipant{
				DungeonID: dungeonID,
				Identity:  p.Identity,
			})
			initPosition(e, p.Identity, dungeonID)
			e.DungeonQueue.Delete(p.Identity)
			setDungeonGameMode(e, p.Identity, dungeonID)
		}
		spawnTier(e, dungeonID, k.tier, mult)
	}
}

// spawnTier spawns a tiered solo/co-op dungeon's fixed single-room roster,
// scaled by statMult rather than the room-table depth scaling EnterRoom
// uses — tiered runs have one room, not a four-room progression.
func spawnTier(e *engine.Engine, dungeonID uint64, tier uint32, mult float32) {
	var types []string
	switch tier {
	case 1:
		types = []string{"slime", "slime", "skeleton", "bat"}
	case 2:
		types = []string{"archer", "charger", "skeleton", "shield_knight"}
	case 3:
		types = []string{"wolf", "wolf", "necromancer", "bomber"}
	default:
		types = []string{"slime", "skeleton"}
	}

	for i, et := range types {
		baseHP, baseATK := model.EnemyStats(et, tier)
		hp := int32(float32(baseHP) * mult)
		atk := int32(float32(baseATK) * mult)

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
			RoomIndex:   0,
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

// StartSolo begins a tiered dungeon immediately for a single player,
// bypassing the queue timeout.
func StartSolo(e *engine.Engine, now time.Time, caller model.PlayerID, tier, difficulty uint32) error {
	if _, ok := e.Players.Find(caller); !ok {
		return command.ErrNotFound
	}
	if tier < 1 || tier > 3 {
		return command.ErrInvalidTier
	}
	e.DungeonQueue.Delete(caller)

	seed := uint64(now.UnixMicro())
	mult := 1.0 + float32(difficulty-1)*0.15
	dungeonID := e.DungeonIDs.Next()
	e.ActiveDungeons.Insert(dungeonID, model.ActiveDungeon{
		ID:            dungeonID,
		OwnerIdentity: caller,
		Depth:         tier,
		CurrentRoom:   0,
		TotalRooms:    1,
		Seed:          seed,
	})
	e.DungeonParticipants.Insert(engine.DungeonPlayerKey{DungeonID: dungeonID, Identity: caller}, model.DungeonParticipant{
		DungeonID: dungeonID,
		Identity:  caller,
	})
	spawnTier(e, dungeonID, tier, mult)
	initPosition(e, caller, dungeonID)
	setDungeonGameMode(e, caller, dungeonID)
	return nil
}

// TickRaidQueues forms a 4-player raid (1 tank, 1 healer, 2 dps) as soon
// as each role has enough queued players; excess queued players of a
// satisfied role simply wait for the next tick.
func TickRaidQueues(e *engine.Engine, now time.Time) {
	var tanks, healers, dps []model.RaidQueue
	e.RaidQueue.Scan(func(_ model.PlayerID, q model.RaidQueue) {
		switch q.Class {
		case model.ClassTank:
			tanks = append(tanks, q)
		case model.ClassHealer:
			healers = append(healers, q)
		case model.ClassDPS:
			dps = append(dps, q)
		}
	})
	if len(tanks) < 1 || len(healers) < 1 || len(dps) < 2 {
		return
	}

	party := []model.RaidQueue{tanks[0], healers[0], dps[0], dps[1]}
	bossHP, _ := model.EnemyStats("raid_boss", 1)
	raidID := e.RaidIDs.Next()
	e.RaidInstances.Insert(raidID, model.RaidInstance{
		ID:          raidID,
		StartedAtMS: now.UnixMilli(),
		BossHP:      bossHP,
		BossMaxHP:   bossHP,
		BossPhase:   1,
	})

	for _, q := range party {
		player, ok := e.Players.Find(q.Identity)
		if !ok {
			continue
		}
		partID := e.RaidPartIDs.Next()
		e.RaidParticipants.Insert(engine.RaidParticipantKey{RaidID: raidID, Identity: q.Identity}, model.RaidParticipant{
			ID:       partID,
			RaidID:   raidID,
			Identity: q.Identity,
			Class:    player.Class,
		})
		e.RaidQueue.Delete(q.Identity)
		if gm, ok := e.GameModes.Find(q.Identity); ok {
			gm.Mode = model.ModeRaid
			gm.InstanceID = &raidID
			e.GameModes.Update(q.Identity, gm)
		}
	}
}
