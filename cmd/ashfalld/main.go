package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ashfallmmo/dungeoncore/internal/config"
	"github.com/ashfallmmo/dungeoncore/internal/data"
	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/model"
	"github.com/ashfallmmo/dungeoncore/internal/persist"
	"github.com/ashfallmmo/dungeoncore/internal/scheduler"
	"github.com/ashfallmmo/dungeoncore/internal/scripting"
	"github.com/ashfallmmo/dungeoncore/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             Ashfall  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m   dungeon simulation core · Go server     \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mshard:\033[0m %s \033[90m(id: %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("ASHFALL_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	// 3. Connect to PostgreSQL and run migrations
	printSection("database")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("postgres connected")

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK("migrations applied")
	fmt.Println()

	// 4. Create repositories
	playerRepo := persist.NewPlayerRepo(db)
	invRepo := persist.NewInventoryRepo(db)
	raidCDRepo := persist.NewRaidCooldownRepo(db)
	dailyClearRepo := persist.NewDailyRaidClearRepo(db)
	walRepo := persist.NewWALRepo(db)

	// 5. Create the simulation engine
	e := engine.New(log)

	// 5a. Load tuning tables (optional — missing files fall back to
	// internal/model's baked-in defaults)
	printSection("tuning data")

	archetypes, err := data.LoadArchetypeTable("data/archetypes.yaml")
	if err != nil {
		log.Info("no archetype overrides loaded", zap.Error(err))
	} else {
		for _, enemyType := range []string{"skeleton", "slime", "charger", "necromancer", "bat", "wolf", "bomber", "shield_knight", "archer", "boss", "raid_boss"} {
			if stats, ok := archetypes.Get(enemyType); ok {
				model.OverrideEnemyBaseStats(enemyType, stats.BaseHP, stats.BaseATK)
			}
		}
		printStat("archetype overrides", archetypes.Count())
	}

	rooms, err := data.LoadRoomTable("data/rooms.yaml")
	if err != nil {
		log.Info("no room overrides loaded", zap.Error(err))
	} else {
		for roomIndex := uint32(0); roomIndex < 4; roomIndex++ {
			if enemies, ok := rooms.Get(roomIndex); ok {
				model.OverrideRoomEnemies(roomIndex, enemies)
			}
		}
	}

	// 5b. Initialize Lua scripting engine (optional)
	scripts, err := scripting.NewEngine("scripts", log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer scripts.Close()
	e.SetScripts(scripts)
	printOK("lua tuning scripts loaded")
	fmt.Println()

	// 5c. Warm the engine from durable storage
	printSection("player state")

	playerRows, err := playerRepo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}
	for _, row := range playerRows {
		identity := model.PlayerID(row.Identity)
		e.Players.Insert(identity, model.Player{
			Identity:        identity,
			Name:            row.Name,
			Class:           model.PlayerClass(row.Class),
			Level:           row.Level,
			XP:              row.XP,
			HP:              row.MaxHP,
			MaxHP:           row.MaxHP,
			ATK:             row.ATK,
			DEF:             row.DEF,
			Speed:           row.Speed,
			Gold:            row.Gold,
			DungeonsCleared: row.DungeonsCleared,
		})

		items, err := invRepo.LoadByOwner(ctx, row.Identity)
		if err != nil {
			return fmt.Errorf("load inventory for %s: %w", row.Identity, err)
		}
		for _, item := range items {
			id := e.InventoryIDs.Next()
			e.InventoryItems.Insert(id, model.InventoryItem{
				ID:            id,
				OwnerIdentity: identity,
				ItemDataJSON:  item.ItemDataJSON,
				EquippedSlot:  item.EquippedSlot,
				CardDataJSON:  item.CardDataJSON,
			})
		}

		if until, ok, err := raidCDRepo.Load(ctx, row.Identity); err == nil && ok {
			e.RaidCooldowns.Insert(identity, model.RaidCooldown{Identity: identity, CooldownUntilMS: until})
		}
		if day, ok, err := dailyClearRepo.Load(ctx, row.Identity); err == nil && ok {
			e.DailyRaidClears.Insert(identity, model.DailyRaidClear{Identity: identity, LastClearDay: day})
		}
	}
	printStat("players restored", len(playerRows))
	fmt.Println()

	// 6. Start the tick scheduler
	sched := scheduler.New(e, log)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- sched.Run(runCtx) }()

	printSection("server ready")
	printReady(fmt.Sprintf("ai tick every %s", scheduler.AITickInterval))
	printReady(fmt.Sprintf("open world tick every %s", scheduler.OpenWorldTickInterval))
	printReady("matchmaking self-arms on first queued player")
	fmt.Println()

	select {
	case <-runCtx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error("scheduler stopped with error", zap.Error(err))
		}
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer flushCancel()
	if err := flushPlayers(flushCtx, e, playerRepo, invRepo, raidCDRepo, dailyClearRepo); err != nil {
		log.Error("flush on shutdown failed", zap.Error(err))
	} else if err := walRepo.MarkProcessed(flushCtx); err != nil {
		log.Error("mark wal processed failed", zap.Error(err))
	}
	log.Info("server stopped")
	return nil
}

func allRows[K comparable, T any](t *store.Table[K, T]) []T {
	return t.Filter(func(T) bool { return true })
}

// flushPlayers persists every in-memory player's durable fields, owned
// items, and cooldown rows back to Postgres before the process exits. Once
// it succeeds, run marks every outstanding economic WAL row processed.
func flushPlayers(ctx context.Context, e *engine.Engine, playerRepo *persist.PlayerRepo, invRepo *persist.InventoryRepo, raidCDRepo *persist.RaidCooldownRepo, dailyClearRepo *persist.DailyRaidClearRepo) error {
	var firstErr error
	note := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for _, p := range allRows(e.Players) {
		note(playerRepo.Upsert(ctx, persist.PlayerRow{
			Identity:        string(p.Identity),
			Name:            p.Name,
			Class:           string(p.Class),
			Level:           p.Level,
			XP:              p.XP,
			MaxHP:           p.MaxHP,
			ATK:             p.ATK,
			DEF:             p.DEF,
			Speed:           p.Speed,
			Gold:            p.Gold,
			DungeonsCleared: p.DungeonsCleared,
		}))
	}
	for _, item := range allRows(e.InventoryItems) {
		note(invRepo.Upsert(ctx, persist.InventoryRow{
			ID:            item.ID,
			OwnerIdentity: string(item.OwnerIdentity),
			ItemDataJSON:  item.ItemDataJSON,
			EquippedSlot:  item.EquippedSlot,
			CardDataJSON:  item.CardDataJSON,
		}))
	}
	for _, cd := range allRows(e.RaidCooldowns) {
		note(raidCDRepo.Upsert(ctx, string(cd.Identity), cd.CooldownUntilMS))
	}
	for _, clear := range allRows(e.DailyRaidClears) {
		note(dailyClearRepo.Upsert(ctx, string(clear.Identity), clear.LastClearDay))
	}
	return firstErr
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
