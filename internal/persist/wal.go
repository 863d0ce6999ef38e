package persist

import (
	"context"
	"fmt"
)

// WALEntry represents one economic write-ahead log entry: a gold/XP/item
// change the in-memory engine already applied, recorded durably ahead of
// the PlayerRepo snapshot taken at shutdown so a crash between the two
// never loses the fact that a reward was granted. WriteWAL has no caller
// in this repository; the server only marks rows processed.
type WALEntry struct {
	TxType   string // "dungeon_complete", "raid_complete", "loot_pickup"
	Identity string
	GoldDelta int64
	XPDelta   int64
	ItemID    uint64
}

type WALRepo struct {
	db *DB
}

func NewWALRepo(db *DB) *WALRepo {
	return &WALRepo{db: db}
}

// WriteWAL atomically writes a batch of WAL entries in a single transaction.
func (r *WALRepo) WriteWAL(ctx context.Context, entries []WALEntry) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("wal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO economic_wal (tx_type, identity, gold_delta, xp_delta, item_id)
			 VALUES ($1, $2, $3, $4, $5)`,
			e.TxType, e.Identity, e.GoldDelta, e.XPDelta, e.ItemID,
		); err != nil {
			return fmt.Errorf("wal insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// MarkProcessed marks all WAL entries as processed, called after a
// PlayerRepo.Upsert snapshot has durably absorbed them.
func (r *WALRepo) MarkProcessed(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE economic_wal SET processed = TRUE WHERE processed = FALSE`,
	)
	return err
}
