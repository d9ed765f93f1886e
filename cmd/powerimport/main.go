package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/udisondev/powercore/internal/config"
	"github.com/udisondev/powercore/internal/content"
	"github.com/udisondev/powercore/internal/data"
	"github.com/udisondev/powercore/internal/db"
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
	dryRun := flag.Bool("dry-run", false, "validate the files without writing to the database")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
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

	files := content.Files(cfg, flag.Args()...)
	sets, err := content.ReadRecords(ctx, nil, files)
	if err != nil {
		return err
	}

	// Validate before touching the database
	_, report := content.Load(ctx, cfg, sets, slog.Default())
	if report.Problems > 0 {
		slog.Warn("importing definitions with schema problems", "problems", report.Problems)
	}

	if *dryRun {
		return nil
	}

	dsn := cfg.Database.DSN()
	if addr := os.Getenv("DB_ADDR"); addr != "" {
		dsn = addr
	}

	if err := db.RunMigrations(ctx, dsn); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	database, err := db.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	repo := database.Records()
	for i, file := range files {
		fp := fileFingerprint(ctx, sets[i])
		if err := repo.Replace(ctx, file, fp, sets[i]); err != nil {
			return err
		}
		slog.Info("imported definition file", "file", file, "records", len(sets[i]), "fingerprint", fp)
	}

	return nil
}

// fileFingerprint hashes a single record set through a throwaway load.
func fileFingerprint(ctx context.Context, recs []data.Record) string {
	store, _ := data.Load(ctx, data.LoadOptions{
		Powers: []data.RecordSource{data.NewSliceSource(recs)},
		Logger: slog.New(slog.DiscardHandler),
	})
	return store.Fingerprint()
}
