package persist

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// PlayerRow is the durable half of model.Player: everything that must
// survive a process restart. PlayerPosition, ability cooldowns, and
// everything else in an active dungeon stay in-memory only — a restart
// drops whoever was mid-dungeon, the same tradeoff the source's in-process
// SpacetimeDB module makes by keeping all of that in reducer-local state.
type PlayerRow struct {
	Identity        string
	Name            string
	Class           string
	Level           uint32
	XP              uint64
	MaxHP           int32
	ATK             int32
	DEF             int32
	Speed           int32
	Gold            uint64
	DungeonsCleared uint32
}

type PlayerRepo struct {
	db *DB
}

func NewPlayerRepo(db *DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

// Load returns nil, nil if identity has no account row yet.
func (r *PlayerRepo) Load(ctx context.Context, identity string) (*PlayerRow, error) {
	row := &PlayerRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT identity, name, class, level, xp, max_hp, atk, def, speed, gold, dungeons_cleared
		 FROM players WHERE identity = $1`, identity,
	).Scan(
		&row.Identity, &row.Name, &row.Class, &row.Level, &row.XP,
		&row.MaxHP, &row.ATK, &row.DEF, &row.Speed, &row.Gold, &row.DungeonsCleared,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// LoadAll is used once at boot to warm the in-memory engine from durable
// storage before the scheduler starts ticking.
func (r *PlayerRepo) LoadAll(ctx context.Context) ([]PlayerRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT identity, name, class, level, xp, max_hp, atk, def, speed, gold, dungeons_cleared FROM players`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PlayerRow
	for rows.Next() {
		var row PlayerRow
		if err := rows.Scan(
			&row.Identity, &row.Name, &row.Class, &row.Level, &row.XP,
			&row.MaxHP, &row.ATK, &row.DEF, &row.Speed, &row.Gold, &row.DungeonsCleared,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Upsert persists the current snapshot of a player's durable fields. The
// server calls it once per player in the shutdown flush.
func (r *PlayerRepo) Upsert(ctx context.Context, row PlayerRow) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO players (identity, name, class, level, xp, max_hp, atk, def, speed, gold, dungeons_cleared)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (identity) DO UPDATE SET
		   name = EXCLUDED.name, class = EXCLUDED.class, level = EXCLUDED.level,
		   xp = EXCLUDED.xp, max_hp = EXCLUDED.max_hp, atk = EXCLUDED.atk, def = EXCLUDED.def,
		   speed = EXCLUDED.speed, gold = EXCLUDED.gold, dungeons_cleared = EXCLUDED.dungeons_cleared`,
		row.Identity, row.Name, row.Class, row.Level, row.XP,
		row.MaxHP, row.ATK, row.DEF, row.Speed, row.Gold, row.DungeonsCleared,
	)
	return err
}

// InventoryRow is one persisted owned item.
type InventoryRow struct {
	ID           uint64
	OwnerIdentity string
	ItemDataJSON string
	EquippedSlot string
	CardDataJSON string
}

type InventoryRepo struct {
	db *DB
}

func NewInventoryRepo(db *DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

func (r *InventoryRepo) LoadByOwner(ctx context.Context, owner string) ([]InventoryRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, owner_identity, item_data_json, equipped_slot, card_data_json
		 FROM inventory_items WHERE owner_identity = $1`, owner,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []InventoryRow
	for rows.Next() {
		var it InventoryRow
		if err := rows.Scan(&it.ID, &it.OwnerIdentity, &it.ItemDataJSON, &it.EquippedSlot, &it.CardDataJSON); err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	return result, rows.Err()
}

func (r *InventoryRepo) Upsert(ctx context.Context, row InventoryRow) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO inventory_items (id, owner_identity, item_data_json, equipped_slot, card_data_json)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		   equipped_slot = EXCLUDED.equipped_slot, card_data_json = EXCLUDED.card_data_json`,
		row.ID, row.OwnerIdentity, row.ItemDataJSON, row.EquippedSlot, row.CardDataJSON,
	)
	return err
}

func (r *InventoryRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	return err
}

// RaidCooldownRepo persists the post-wipe raid queue cooldown.
type RaidCooldownRepo struct {
	db *DB
}

func NewRaidCooldownRepo(db *DB) *RaidCooldownRepo {
	return &RaidCooldownRepo{db: db}
}

func (r *RaidCooldownRepo) Upsert(ctx context.Context, identity string, cooldownUntilMS int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO raid_cooldowns (identity, cooldown_until_ms) VALUES ($1, $2)
		 ON CONFLICT (identity) DO UPDATE SET cooldown_until_ms = EXCLUDED.cooldown_until_ms`,
		identity, cooldownUntilMS,
	)
	return err
}

func (r *RaidCooldownRepo) Load(ctx context.Context, identity string) (int64, bool, error) {
	var until int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT cooldown_until_ms FROM raid_cooldowns WHERE identity = $1`, identity,
	).Scan(&until)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	return until, err == nil, err
}

// DailyRaidClearRepo persists the once-per-UTC-day legendary bonus gate.
type DailyRaidClearRepo struct {
	db *DB
}

func NewDailyRaidClearRepo(db *DB) *DailyRaidClearRepo {
	return &DailyRaidClearRepo{db: db}
}

func (r *DailyRaidClearRepo) Upsert(ctx context.Context, identity string, lastClearDay uint32) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO daily_raid_clears (identity, last_clear_day) VALUES ($1, $2)
		 ON CONFLICT (identity) DO UPDATE SET last_clear_day = EXCLUDED.last_clear_day`,
		identity, lastClearDay,
	)
	return err
}

func (r *DailyRaidClearRepo) Load(ctx context.Context, identity string) (uint32, bool, error) {
	var day uint32
	err := r.db.Pool.QueryRow(ctx,
		`SELECT last_clear_day FROM daily_raid_clears WHERE identity = $1`, identity,
	).Scan(&day)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	return day, err == nil, err
}
