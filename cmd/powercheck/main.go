package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/udisondev/powercore/internal/config"
	"github.com/udisondev/powercore/internal/content"
	"github.com/udisondev/powercore/internal/data"
	"github.com/udisondev/powercore/internal/db"
	"github.com/udisondev/powercore/internal/game/geo"
	"github.com/udisondev/powercore/internal/game/power"
	"github.com/udisondev/powercore/internal/model"
	"github.com/udisondev/powercore/internal/telemetry"
)

const ConfigPath = "config/powercore.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	fromDB := flag.Bool("db", false, "read definitions from the content database")
	strict := flag.Bool("strict", false, "exit non-zero when schema problems were found")
	list := flag.Bool("list", false, "print every loaded power")
	try := flag.Int("try", 0, "activate a power id on a test map and report what it emitted")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		// Not fatal: variables may be set directly
		slog.Debug(".env file not loaded", "err", err)
	}

	cfgPath := ConfigPath
	if p := os.Getenv("POWERCORE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadEngine(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			return fmt.Errorf("setting up telemetry: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Warn("telemetry shutdown", "err", err)
			}
		}()
	}

	var repo *db.RecordRepository
	if *fromDB || cfg.FromDB {
		dsn := cfg.Database.DSN()
		if addr := os.Getenv("DB_ADDR"); addr != "" {
			dsn = addr
		}
		database, err := db.New(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		repo = database.Records()
	}

	sets, err := content.ReadRecords(ctx, repo, content.Files(cfg, flag.Args()...))
	if err != nil {
		return err
	}

	store, report := content.Load(ctx, cfg, sets, slog.Default())

	if *list {
		store.Each(func(p data.PowerDef) {
			fmt.Printf("%5d  %-10s %s\n", p.ID, p.Type, p.Name)
		})
	}

	if *try > 0 {
		tryPower(store, cfg, *try)
	}

	if *strict && report.Problems > 0 {
		return fmt.Errorf("%d schema problems", report.Problems)
	}
	return nil
}

// tryPower activates id for a hero in the middle of an open map and logs the queued output.
func tryPower(store *data.Store, cfg config.Engine, id int) {
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rnd := rand.New(rand.NewPCG(seed, seed>>1))

	grid := geo.NewGrid(32, 32, rnd)
	hero := model.NewStatBlock("hero", geo.FPoint{X: 16.5, Y: 16.5}, 100, 100)
	hero.Hero = true
	hero.SpeedDefault = 4
	grid.Block(hero.Pos.X, hero.Pos.Y)

	mgr := power.NewManager(store, power.Collaborators{Collider: grid},
		power.WithRand(rnd),
		power.WithFramesPerSecond(cfg.FramesPerSecond),
		power.WithLogger(slog.Default()))

	target := geo.FPoint{X: 20.5, Y: 16.5}
	ok := mgr.Activate(id, hero, target)
	slog.Info("activation",
		"power", id,
		"ok", ok,
		"msg", mgr.LogMsg(),
		"hero_mp", hero.MP,
		"hero_hp", hero.HP,
		"effects", hero.Effects.Len())

	for _, h := range mgr.TakeHazards() {
		slog.Info("hazard",
			"id", h.ID,
			"power", h.PowerID,
			"pos", fmt.Sprintf("%.2f,%.2f", h.Pos.X, h.Pos.Y),
			"lifespan", h.Lifespan,
			"delay", h.DelayFrames,
			"dmg", fmt.Sprintf("%d-%d", h.DmgMin, h.DmgMax))
	}
	for _, s := range mgr.TakeSpawns() {
		slog.Info("spawn", "id", s.ID, "type", s.Type, "pos", fmt.Sprintf("%.2f,%.2f", s.Pos.X, s.Pos.Y))
	}
	for _, l := range mgr.TakeLoot() {
		slog.Info("loot", "item", l.Entry.ItemID, "x", l.Pos.X, "y", l.Pos.Y)
	}
}
