package command

import (
	"math"
	"strings"
	"time"

	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/loot"
	"github.com/ashfallmmo/dungeoncore/internal/model"
	"github.com/ashfallmmo/dungeoncore/internal/threat"
	"golang.org/x/text/width"
)

// RegisterPlayer creates a new account row with class-derived starting
// stats. A second registration for the same identity is rejected rather
// than silently resetting progress.
func RegisterPlayer(e *engine.Engine, caller model.PlayerID, name, class string) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, ok := e.Players.Find(caller); ok {
		return ErrAlreadyRegistered
	}
	class = strings.ToLower(class)
	pc := model.PlayerClass(class)
	if pc != model.ClassTank && pc != model.ClassHealer && pc != model.ClassDPS {
		return ErrInvalidClass
	}

	maxHP, atk, def, speed := model.ClassStats(pc)
	e.Players.Insert(caller, model.Player{
		Identity: caller,
		Name:     name,
		Class:    pc,
		Level:    1,
		HP:       maxHP,
		MaxHP:    maxHP,
		ATK:      atk,
		DEF:      def,
		Speed:    speed,
	})
	return nil
}

// Login only verifies the caller has an account; the client subscribes
// to its own row afterward.
func Login(e *engine.Engine, caller model.PlayerID) error {
	if _, ok := e.Players.Find(caller); !ok {
		return ErrNotRegistered
	}
	return nil
}

// UpdatePosition upserts a player's real-time position, preserving the
// name/level/class snapshot already on file and always overwriting the
// cosmetic equipment icons.
func UpdatePosition(e *engine.Engine, caller model.PlayerID, dungeonID uint64, x, y, facingX, facingY float32, weapon, armor, accessory string) error {
	if pos, ok := e.PlayerPositions.Find(caller); ok {
		pos.DungeonID = dungeonID
		pos.X, pos.Y = x, y
		pos.FacingX, pos.FacingY = facingX, facingY
		pos.WeaponIcon, pos.ArmorIcon, pos.AccessoryIcon = weapon, armor, accessory
		e.PlayerPositions.Update(caller, pos)
		return nil
	}
	player, ok := e.Players.Find(caller)
	if !ok {
		return ErrNotFound
	}
	e.PlayerPositions.Insert(caller, model.PlayerPosition{
		Identity:      caller,
		DungeonID:     dungeonID,
		X:             x,
		Y:             y,
		FacingX:       facingX,
		FacingY:       facingY,
		Name:          player.Name,
		Level:         player.Level,
		Class:         player.Class,
		WeaponIcon:    weapon,
		ArmorIcon:     armor,
		AccessoryIcon: accessory,
	})
	return nil
}

// Attack validates range against a dungeon enemy and applies damage with
// the DPS backstab (+50% from behind) and post-dash (+25% for 0.5s)
// bonuses, generating threat (2x for tanks) and routing a kill through
// loot drop + XP award + level-up.
func Attack(e *engine.Engine, now time.Time, caller model.PlayerID, dungeonID, targetEnemyID uint64) error {
	player, ok := e.Players.Find(caller)
	if !ok {
		return ErrNotFound
	}
	pos, ok := e.PlayerPositions.Find(caller)
	if !ok {
		return ErrNotFound
	}
	enemy, ok := e.DungeonEnemies.Find(targetEnemyID)
	if !ok {
		return ErrNotFound
	}
	if enemy.DungeonID != dungeonID || !enemy.IsAlive {
		return ErrInvalidTarget
	}

	dx, dy := pos.X-enemy.X, pos.Y-enemy.Y
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if dist > model.AttackRange {
		return ErrOutOfRange
	}

	damage := player.ATK
	if damage < 1 {
		damage = 1
	}
	if player.Class == model.ClassDPS {
		attackAngle := float32(math.Atan2(float64(pos.Y-enemy.Y), float64(pos.X-enemy.X)))
		angleDiff := float32(math.Abs(float64(attackAngle - enemy.FacingAngle)))
		if angleDiff > math.Pi {
			angleDiff = 2*math.Pi - angleDiff
		}
		if angleDiff > math.Pi*2/3 {
			damage = int32(float32(damage) * 1.5)
		}
		if st, ok := e.AbilityStates.Find(caller); ok && st.PostDashBonusTimer > 0 {
			damage = int32(float32(damage) * 1.25)
		}
	}

	threatMult := int32(1)
	if player.Class == model.ClassTank {
		threatMult = 2
	}
	threat.Add(e, dungeonID, targetEnemyID, caller, damage*threatMult)

	newHP := enemy.HP - damage
	if newHP <= 0 {
		enemy.HP = 0
		enemy.IsAlive = false
		e.DungeonEnemies.Update(targetEnemyID, enemy)

		loot.DropForDeadEnemy(e, now, enemy.EnemyType, enemy.DungeonID, enemy.RoomIndex, enemy.X, enemy.Y, enemy.ATK, enemy.MaxHP)

		newXP := player.XP + model.EnemyXP(enemy.EnemyType)
		newLevel, newMaxHP, newATK, newDEF := model.CheckLevelUp(player.Level, newXP, player.MaxHP, player.ATK, player.DEF)
		player.XP = newXP
		player.Level = newLevel
		player.MaxHP = newMaxHP
		player.ATK = newATK
		player.DEF = newDEF
		e.Players.Update(caller, player)
	} else {
		enemy.HP = newHP
		e.DungeonEnemies.Update(targetEnemyID, enemy)
	}
	return nil
}

// PickupLoot validates proximity and ownership-freshness before moving a
// ground drop into the caller's inventory.
func PickupLoot(e *engine.Engine, caller model.PlayerID, lootID uint64) error {
	pos, ok := e.PlayerPositions.Find(caller)
	if !ok {
		return ErrNotFound
	}
	drop, ok := e.LootDrops.Find(lootID)
	if !ok {
		return ErrNotFound
	}
	if drop.PickedUp {
		return ErrAlreadyPickedUp
	}
	dx, dy := pos.X-drop.X, pos.Y-drop.Y
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if dist > model.LootPickupRange {
		return ErrOutOfRange
	}

	drop.PickedUp = true
	e.LootDrops.Update(lootID, drop)

	id := e.InventoryIDs.Next()
	e.InventoryItems.Insert(id, model.InventoryItem{
		ID:            id,
		OwnerIdentity: caller,
		ItemDataJSON:  drop.ItemDataJSON,
	})
	return nil
}

// AddInventoryItem inserts a client-authoritative item directly, used for
// content the server doesn't itself roll (starter kits, vendor purchases).
func AddInventoryItem(e *engine.Engine, caller model.PlayerID, itemDataJSON string) error {
	if _, ok := e.Players.Find(caller); !ok {
		return ErrNotFound
	}
	id := e.InventoryIDs.Next()
	e.InventoryItems.Insert(id, model.InventoryItem{
		ID:            id,
		OwnerIdentity: caller,
		ItemDataJSON:  itemDataJSON,
	})
	return nil
}

// EquipItem moves itemID into slot, first unequipping anything the caller
// already had equipped there.
func EquipItem(e *engine.Engine, caller model.PlayerID, itemID uint64, slot string) error {
	item, ok := e.InventoryItems.Find(itemID)
	if !ok {
		return ErrNotFound
	}
	if item.OwnerIdentity != caller {
		return ErrNotOwner
	}
	for _, existing := range e.InventoryItems.Filter(func(i model.InventoryItem) bool {
		return i.OwnerIdentity == caller && i.EquippedSlot == slot
	}) {
		existing.EquippedSlot = ""
		e.InventoryItems.Update(existing.ID, existing)
	}
	item.EquippedSlot = slot
	e.InventoryItems.Update(itemID, item)
	return nil
}

// UnequipItem clears an item's equipped slot.
func UnequipItem(e *engine.Engine, caller model.PlayerID, itemID uint64) error {
	item, ok := e.InventoryItems.Find(itemID)
	if !ok {
		return ErrNotFound
	}
	if item.OwnerIdentity != caller {
		return ErrNotOwner
	}
	item.EquippedSlot = ""
	e.InventoryItems.Update(itemID, item)
	return nil
}

// DiscardItem permanently deletes an owned inventory item.
func DiscardItem(e *engine.Engine, caller model.PlayerID, itemID uint64) error {
	item, ok := e.InventoryItems.Find(itemID)
	if !ok {
		return ErrNotFound
	}
	if item.OwnerIdentity != caller {
		return ErrNotOwner
	}
	e.InventoryItems.Delete(itemID)
	return nil
}

func sendMessage(e *engine.Engine, now time.Time, caller model.PlayerID, dungeonID uint64, msgType model.MessageType, content string) error {
	if _, ok := e.DungeonParticipants.Find(engine.DungeonPlayerKey{DungeonID: dungeonID, Identity: caller}); !ok {
		return ErrNotParticipant
	}
	player, ok := e.Players.Find(caller)
	if !ok {
		return ErrNotFound
	}
	id := e.MessageIDs.Next()
	e.PlayerMessages.Insert(id, model.PlayerMessage{
		ID:             id,
		DungeonID:      dungeonID,
		SenderIdentity: caller,
		SenderName:     player.Name,
		Type:           msgType,
		Content:        content,
		CreatedAtMS:    now.UnixMilli(),
	})
	return nil
}

// SendEmote posts a quick-phrase emote to the dungeon's chat log.
func SendEmote(e *engine.Engine, now time.Time, caller model.PlayerID, dungeonID uint64, content string) error {
	return sendMessage(e, now, caller, dungeonID, model.MessageEmote, content)
}

// SendChat posts a free-text chat line, capped at 100 characters after
// folding fullwidth CJK punctuation down to its halfwidth form so a client
// typing in an IME can't dodge the cap by switching character width.
func SendChat(e *engine.Engine, now time.Time, caller model.PlayerID, dungeonID uint64, text string) error {
	folded := width.Narrow.String(text)
	if len([]rune(folded)) > 100 {
		return ErrTooLong
	}
	return sendMessage(e, now, caller, dungeonID, model.MessageChat, folded)
}

// SetGameMode routes a player's commands to a new top-level activity.
func SetGameMode(e *engine.Engine, caller model.PlayerID, mode string) error {
	if _, ok := e.Players.Find(caller); !ok {
		return ErrNotFound
	}
	gm := model.GameMode(mode)
	switch gm {
	case model.ModeHub, model.ModeOpenWorld, model.ModeDungeon, model.ModeRaid:
	default:
		return ErrInvalidMode
	}

	if existing, ok := e.GameModes.Find(caller); ok {
		existing.Mode = gm
		existing.InstanceID = nil
		e.GameModes.Update(caller, existing)
	} else {
		e.GameModes.Insert(caller, model.PlayerGameMode{Identity: caller, Mode: gm})
	}
	return nil
}
