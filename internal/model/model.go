// Package model holds the simulation core's data model: every row shape a
// table in internal/store can hold, plus the tuning constants and stat
// tables enemy AI, command validation, and loot generation are grounded on.
package model

// PlayerID identifies a player across every table. It is a typed alias over
// the external auth identity string rather than a raw string, so a dungeon
// enemy's taunted_by/current_target can't be confused with an item ID or a
// room index at compile time.
type PlayerID string

// PlayerClass is one of the three party roles. Abilities, threat multipliers,
// and matchmaking composition all switch on this value.
type PlayerClass string

const (
	ClassTank   PlayerClass = "tank"
	ClassHealer PlayerClass = "healer"
	ClassDPS    PlayerClass = "dps"
)

// Player is the persistent account row: level, stats, and lifetime progress.
// Position while in a dungeon lives separately in PlayerPosition since it is
// written every AI tick and does not belong in the slow-changing account row.
type Player struct {
	Identity        PlayerID
	Name            string
	Class           PlayerClass
	Level           uint32
	XP              uint64
	HP              int32
	MaxHP           int32
	ATK             int32
	DEF             int32
	Speed           int32
	Gold            uint64
	DungeonsCleared uint32
}

// ActiveDungeon is one co-op instance: depth controls enemy scaling, and
// current/total rooms drive the four-room progression to the raid-boss room.
type ActiveDungeon struct {
	ID            uint64
	OwnerIdentity PlayerID
	Depth         uint32
	CurrentRoom   uint32
	TotalRooms    uint32
	Seed          uint64
}

// AIState is one of an enemy's behavior-tree state labels. Each archetype
// only ever visits a subset of these.
type AIState string

const (
	StateIdle      AIState = "idle"
	StateChase     AIState = "chase"
	StateTelegraph AIState = "telegraph"
	StateCharge    AIState = "charge"
	StateStunned   AIState = "stunned"
	StateOrbit     AIState = "orbit"
	StateFlee      AIState = "flee"
	StateFuse      AIState = "fuse"
	StateExplode   AIState = "explode"
	StateAdvance   AIState = "advance"
	StateKite      AIState = "kite"
	StateShield    AIState = "shield_bash"
	StateRecover   AIState = "recover"
)

// DungeonEnemy is one hostile actor inside a room. TargetX/TargetY is
// overloaded per archetype (charger's locked charge direction, wolf's
// pack-attack cooldown in TargetX, necromancer's teleport X, archer's
// locked shot target) rather than given one field per archetype,
// matching the packed layout of the table this was distilled from.
type DungeonEnemy struct {
	ID          uint64
	DungeonID   uint64
	RoomIndex   uint32
	EnemyType   string
	X, Y        float32
	HP, MaxHP   int32
	ATK         int32
	IsAlive     bool

	AIState      AIState
	StateTimer   float32
	TargetX      float32
	TargetY      float32
	FacingAngle  float32
	PackID       *uint64

	CurrentTarget PlayerID // empty means "nearest"
	IsTaunted     bool
	TauntedBy     PlayerID
	TauntTimer    float32

	IsBoss    bool
	BossPhase uint32 // 1, 2, or 3; 0 if not a boss
}

// PlayerPosition is the real-time position and render-facing appearance of
// a player inside a dungeon, refreshed every AI tick by movement commands.
type PlayerPosition struct {
	Identity                                     PlayerID
	DungeonID                                    uint64
	X, Y                                          float32
	FacingX, FacingY                              float32
	Name                                          string
	Level                                         uint32
	Class                                         PlayerClass
	WeaponIcon, ArmorIcon, AccessoryIcon          string
}

// LootDrop is ground loot waiting for pickup. ItemDataJSON is an opaque blob
// a transport/client renders; the core never parses it back out.
type LootDrop struct {
	ID           uint64
	DungeonID    uint64
	RoomIndex    uint32
	X, Y         float32
	ItemDataJSON string
	Rarity       Rarity
	PickedUp     bool
}

// InventoryItem is one owned item, optionally equipped into a slot.
type InventoryItem struct {
	ID           uint64
	OwnerIdentity PlayerID
	ItemDataJSON string
	EquippedSlot string // empty if unequipped
	CardDataJSON string // empty if no socketed card
}

// DungeonParticipant links a player to the dungeon instance they are
// currently inside, keyed directly by the composite (DungeonID, Identity)
// pair rather than by a separate auto-increment ID.
type DungeonParticipant struct {
	DungeonID uint64
	Identity  PlayerID
}

// ThreatEntry is one player's accumulated aggro against one enemy, keyed by
// the composite (DungeonID, EnemyID, Identity) triple.
type ThreatEntry struct {
	DungeonID uint64
	EnemyID   uint64
	Identity  PlayerID
	Threat    int32
}

// PlayerAbilityState tracks a player's per-dungeon ability cooldowns. Note
// that DashCD decrements every tick but UseDash never reads or resets it —
// Dash has no enforced cooldown. This is intentional, not a bug.
type PlayerAbilityState struct {
	Identity          PlayerID
	DungeonID         uint64
	TauntCD           float32
	KnockbackCD       float32
	HealingZoneCD     float32
	DashCD            float32
	PostDashBonusTimer float32
}

// ActiveHealingZone is a healer-placed AoE that heals everyone standing
// inside its radius once per tick until DurationRemaining expires.
type ActiveHealingZone struct {
	ID                uint64
	DungeonID         uint64
	OwnerIdentity     PlayerID
	X, Y              float32
	Radius            float32
	HealPerTick       int32
	DurationRemaining float32
}

// GameMode is which top-level activity a player is currently in.
type GameMode string

const (
	ModeHub       GameMode = "hub"
	ModeOpenWorld GameMode = "open_world"
	ModeDungeon   GameMode = "dungeon"
	ModeRaid      GameMode = "raid"
)

// PlayerGameMode routes a player's commands to the right instance.
type PlayerGameMode struct {
	Identity   PlayerID
	Mode       GameMode
	InstanceID *uint64
}

// OpenWorldInstance is one shard of the persistent shared world.
type OpenWorldInstance struct {
	ID          uint64
	CreatedAt   int64
	PlayerCount uint32
}

// OpenWorldEnemy is a fixed spawn-point enemy that respawns on a timer
// instead of being cleaned up with an instance.
type OpenWorldEnemy struct {
	ID            uint64
	InstanceID    uint64
	RoomX, RoomY  int32
	SpawnPointIdx uint32
	EnemyType     string
	HP, MaxHP     int32
	ATK           int32
	X, Y          float32
	IsAlive       bool
	RespawnAt     int64 // unix ms; 0 while alive
	AIState       AIState
	StateTimer    float32
	TargetX       float32
	TargetY       float32
	FacingAngle   float32
}

// OpenWorldPlayer mirrors PlayerPosition for the open world.
type OpenWorldPlayer struct {
	Identity                             PlayerID
	InstanceID                           uint64
	RoomX, RoomY                         int32
	X, Y                                 float32
	FacingX, FacingY                     float32
	Name                                 string
	Level                                uint32
	Class                                PlayerClass
	WeaponIcon, ArmorIcon, AccessoryIcon string
}

// DungeonQueue is one player waiting for a co-op dungeon group.
type DungeonQueue struct {
	Identity     PlayerID
	DungeonTier  uint32 // 1, 2, or 3
	Difficulty   uint32 // star rating 1-5
	QueuedAtMS   int64
}

// RaidQueue is one player waiting for a role-balanced raid group.
type RaidQueue struct {
	Identity   PlayerID
	Class      PlayerClass
	QueuedAtMS int64
}

// RaidInstance is an active 4-player raid fight against the 3-phase boss.
type RaidInstance struct {
	ID          uint64
	StartedAtMS int64
	BossHP      int32
	BossMaxHP   int32
	BossPhase   uint32
	WipeCount   uint32
}

// RaidParticipant links a player to a raid instance. DisconnectedAtMS is nil
// while connected; a non-nil value starts the reconnect window.
type RaidParticipant struct {
	ID               uint64
	RaidID           uint64
	Identity         PlayerID
	Class            PlayerClass
	DisconnectedAtMS *int64
}

// RaidCooldown blocks a player from re-queueing for RaidWipeCooldownMS after
// a wipe.
type RaidCooldown struct {
	Identity        PlayerID
	CooldownUntilMS int64
}

// DailyRaidClear tracks the last UTC day number a player cleared a raid, so
// loot generation can grant at most one bonus legendary roll per day.
type DailyRaidClear struct {
	Identity     PlayerID
	LastClearDay uint32
}

// MessageType distinguishes emotes from chat for a transport to render
// differently.
type MessageType string

const (
	MessageEmote MessageType = "emote"
	MessageChat  MessageType = "chat"
)

// PlayerMessage is one co-op chat line or emote.
type PlayerMessage struct {
	ID             uint64
	DungeonID      uint64
	SenderIdentity PlayerID
	SenderName     string
	Type           MessageType
	Content        string
	CreatedAtMS    int64
}

// Rarity is a loot drop's quality tier.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)
