// Package content resolves definition record sources for the command line tools.
package content

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/powercore/internal/config"
	"github.com/udisondev/powercore/internal/data"
	"github.com/udisondev/powercore/internal/db"
)

// Files lists the effect file followed by power files in override order.
func Files(cfg config.Engine, extraPowers ...string) []string {
	files := []string{cfg.EffectsFile, cfg.PowersFile}
	return append(files, extraPowers...)
}

// ReadRecords reads records for files from disk, or from the content database
// when repo is non-nil.
func ReadRecords(ctx context.Context, repo *db.RecordRepository, files []string) ([][]data.Record, error) {
	if repo != nil {
		recs, err := repo.LoadMany(ctx, files...)
		if err != nil {
			return nil, fmt.Errorf("loading records from database: %w", err)
		}
		return recs, nil
	}

	recs, err := data.ReadFiles(ctx, files...)
	if err != nil {
		return nil, fmt.Errorf("reading definition files: %w", err)
	}
	return recs, nil
}

// Load builds a Store from the record sets returned by ReadRecords.
// The first set holds effects, the rest are power sources.
func Load(ctx context.Context, cfg config.Engine, sets [][]data.Record, logger *slog.Logger) (*data.Store, data.LoadReport) {
	opts := data.LoadOptions{
		Elements: cfg.Elements,
		StatKeys: cfg.StatKeys,
		Logger:   logger,
	}
	if len(sets) > 0 {
		opts.Effects = data.NewSliceSource(sets[0])
	}
	for _, recs := range sets[min(len(sets), 1):] {
		opts.Powers = append(opts.Powers, data.NewSliceSource(recs))
	}
	return data.Load(ctx, opts)
}
