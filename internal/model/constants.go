package model

// World geometry. Room bounds match a client tile size of 36px over a
// 15x20 tile room.
const (
	TileSize float32 = 36.0
	RoomW    float32 = 15.0 * TileSize // 540
	RoomH    float32 = 20.0 * TileSize // 720

	AttackRange      float32 = 100.0
	EnemyAttackRange float32 = 40.0
	EnemyMoveSpeed   float32 = 2.0
	LootPickupRange  float32 = 50.0

	BaseXPPerLevel uint64 = 100

	// AITickDT is the fixed timestep every AI tick advances state_timer and
	// cooldowns by, independent of wall-clock scheduling jitter.
	AITickDT float32 = 0.05
)

// Charger archetype tuning.
const (
	ChargerTelegraphTime    float32 = 0.8
	ChargerChargeSpeedMult  float32 = 5.0
	ChargerChargeDuration   float32 = 1.5
	ChargerStunTime         float32 = 1.0
	ChargerDetectRange      float32 = 200.0
)

// Wolf pack archetype tuning.
const (
	WolfOrbitRadius   float32 = 50.0
	WolfPackAttackCD  float32 = 1.0
)

// Bomber archetype tuning.
const (
	BomberFuseTime        float32 = 1.5
	BomberExplosionRadius float32 = 80.0
	BomberTriggerRange    float32 = 60.0
)

// Necromancer archetype tuning.
const (
	NecroFleeDistance float32 = 80.0
	NecroTeleportCD   float32 = 3.0
	NecroSummonCD     float32 = 5.0
)

// Shield knight archetype tuning.
const (
	ShieldBashCD      float32 = 4.0
	ShieldRecoverTime float32 = 0.5
)

// Archer archetype tuning.
const (
	ArcherKiteDistance float32 = 120.0
	ArcherShootCD      float32 = 2.0
	ArcherShootRange   float32 = 180.0
)

// Open world sharding/respawn tuning.
const (
	OpenWorldGridSize             int32  = 10 // 10x10 grid of rooms
	OpenWorldSpawnPointsPerRoom   uint32 = 10
	OpenWorldBaseRespawnMS        int64  = 45000
	OpenWorldHotspotRespawnMS     int64  = 20000
	OpenWorldMaxPlayersPerShard   uint32 = 50
)

// Dungeon tier level bands (highest player level per tier). Matchmaking
// groups queued players by the tier and difficulty they asked for and does
// not read these bands.
const (
	DungeonTier1MaxLevel uint32 = 5
	DungeonTier2MaxLevel uint32 = 10
	DungeonTier3MaxLevel uint32 = 15
)

// Raid timing.
const (
	RaidReconnectWindowMS int64 = 60000
	RaidWipeCooldownMS    int64 = 120000
)

// ClassStats returns (maxHP, atk, def, speed) for a player class. Unknown
// classes fall back to a generic (100, 10, 5, 5) line.
func ClassStats(class PlayerClass) (maxHP, atk, def, speed int32) {
	switch class {
	case ClassTank:
		return 130, 8, 7, 4
	case ClassHealer:
		return 100, 9, 5, 5
	case ClassDPS:
		return 80, 12, 4, 6
	default:
		return 100, 10, 5, 5
	}
}

// enemyBaseStats is (baseHP, baseATK) before depth scaling.
var enemyBaseStats = map[string][2]int32{
	"skeleton":      {60, 12},
	"slime":         {40, 8},
	"charger":       {40, 20},
	"necromancer":   {60, 5},
	"bat":           {15, 6},
	"wolf":          {20, 8},
	"bomber":        {25, 30},
	"shield_knight": {70, 12},
	"archer":        {35, 10},
	"boss":          {300, 18},
	"raid_boss":     {800, 25},
}

// OverrideEnemyBaseStats replaces one archetype's (baseHP, baseATK) pair,
// called once at boot from a loaded data.ArchetypeTable so an operator can
// retune enemy strength without a rebuild.
func OverrideEnemyBaseStats(enemyType string, baseHP, baseATK int32) {
	enemyBaseStats[enemyType] = [2]int32{baseHP, baseATK}
}

// EnemyScale is the per-depth stat multiplier: +15% per depth above 1.
func EnemyScale(depth uint32) float32 {
	return 1.0 + (float32(depth)-1.0)*0.15
}

// EnemyStats returns (hp, atk) for an enemy type scaled to the dungeon's
// depth. Unknown types fall back to a weak generic enemy.
func EnemyStats(enemyType string, depth uint32) (hp, atk int32) {
	base, ok := enemyBaseStats[enemyType]
	if !ok {
		base = [2]int32{20, 5}
	}
	scale := EnemyScale(depth)
	return int32(float32(base[0]) * scale), int32(float32(base[1]) * scale)
}

// enemySpeedMult scales EnemyMoveSpeed per archetype.
var enemySpeedMult = map[string]float32{
	"charger":       2.5,
	"bat":           1.5,
	"wolf":          1.8,
	"necromancer":   0.5,
	"bomber":        0.8,
	"shield_knight": 0.7,
	"archer":        0.6,
}

// EnemySpeed returns an enemy type's movement speed in pixels per 60 fps
// frame; AI callers multiply it by dt*60 to get the distance for one tick.
func EnemySpeed(enemyType string) float32 {
	mult, ok := enemySpeedMult[enemyType]
	if !ok {
		mult = 1.0
	}
	return EnemyMoveSpeed * mult
}

// enemyXP is the XP reward for killing an enemy type.
var enemyXP = map[string]uint64{
	"skeleton":      15,
	"slime":         10,
	"charger":       25,
	"necromancer":   50,
	"bat":           8,
	"wolf":          12,
	"bomber":        20,
	"shield_knight": 35,
	"archer":        18,
	"boss":          100,
}

// EnemyXP returns the XP a player gains for killing an enemy type. Unknown
// types award a small default.
func EnemyXP(enemyType string) uint64 {
	xp, ok := enemyXP[enemyType]
	if !ok {
		return 10
	}
	return xp
}

// RoomEnemyTable is the fixed four-room dungeon structure: room 0 is basic,
// room 1 is tactical with a shield_knight mini-boss, room 2 is a complex
// room with necromancer/bomber/wolf pack, room 3 is the raid-boss arena.
// No player-count check is made before room 3 is spawned.
var RoomEnemyTable = [][]string{
	0: {"slime", "slime", "skeleton", "bat"},
	1: {"archer", "charger", "skeleton", "shield_knight"},
	2: {"wolf", "wolf", "necromancer", "bomber"},
	3: {"raid_boss"},
}

// DefaultRoomEnemies is the fallback spawn list for a room index beyond the
// fixed table.
var DefaultRoomEnemies = []string{"slime", "skeleton"}

// OverrideRoomEnemies replaces one room index's fixed enemy roster, called
// once at boot from a loaded data.RoomTable.
func OverrideRoomEnemies(roomIndex uint32, enemies []string) {
	for uint32(len(RoomEnemyTable)) <= roomIndex {
		RoomEnemyTable = append(RoomEnemyTable, nil)
	}
	RoomEnemyTable[roomIndex] = enemies
}

// CheckLevelUp applies every level-up a player's current xp total has
// earned: +10 max HP, +2 atk, +1 def per level, looping while xp is still
// at least level*BaseXPPerLevel.
func CheckLevelUp(level uint32, xp uint64, maxHP, atk, def int32) (newLevel uint32, newMaxHP, newAtk, newDef int32) {
	newLevel, newMaxHP, newAtk, newDef = level, maxHP, atk, def
	for xp >= uint64(newLevel)*BaseXPPerLevel {
		newLevel++
		newMaxHP += 10
		newAtk += 2
		newDef++
	}
	return
}

// InitialAIState returns an enemy type's starting AI state and whether it
// belongs to a wolf pack (pack_id is assigned by the caller).
func InitialAIState(enemyType string) (state AIState, isPack bool) {
	switch enemyType {
	case "charger":
		return StateIdle, false
	case "wolf":
		return StateOrbit, true
	case "bomber":
		return StateChase, false
	case "necromancer":
		return StateFlee, false
	case "shield_knight":
		return StateAdvance, false
	case "archer":
		return StateKite, false
	default: // skeleton, slime, bat
		return StateChase, false
	}
}
