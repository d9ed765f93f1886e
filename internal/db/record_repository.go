package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/powercore/internal/data"
)

// ImportInfo describes the last import of a definition file.
type ImportInfo struct {
	File        string
	Records     int
	Fingerprint string
	ImportedAt  time.Time
}

// RecordRepository stores definition records keyed by logical file name.
// Record order within a file is preserved through seq.
type RecordRepository struct {
	db *pgxpool.Pool
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(db *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{db: db}
}

// Replace overwrites all records of file in one transaction.
func (r *RecordRepository) Replace(ctx context.Context, file, fingerprint string, records []data.Record) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		// Rollback after commit is expected to fail
		_ = tx.Rollback(ctx)
	}()

	if err := r.replaceTx(ctx, tx, file, fingerprint, records); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing records of %s: %w", file, err)
	}

	slog.Debug("replaced definition records",
		"file", file,
		"count", len(records))

	return nil
}

func (r *RecordRepository) replaceTx(ctx context.Context, tx pgx.Tx, file, fingerprint string, records []data.Record) error {
	if _, err := tx.Exec(ctx, `DELETE FROM definition_records WHERE file = $1`, file); err != nil {
		return fmt.Errorf("deleting old records of %s: %w", file, err)
	}

	if len(records) > 0 {
		rows := make([][]any, 0, len(records))
		for i, rec := range records {
			rows = append(rows, []any{file, int32(i), int32(rec.Line), rec.Section, rec.NewSection, rec.Key, rec.Val})
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"definition_records"},
			[]string{"file", "seq", "line", "section", "new_section", "key", "value"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("inserting records of %s: %w", file, err)
		}
	}

	query := `
		INSERT INTO definition_imports (file, records, fingerprint, imported_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (file) DO UPDATE
		SET records = EXCLUDED.records,
		    fingerprint = EXCLUDED.fingerprint,
		    imported_at = EXCLUDED.imported_at
	`
	if _, err := tx.Exec(ctx, query, file, len(records), fingerprint); err != nil {
		return fmt.Errorf("recording import of %s: %w", file, err)
	}
	return nil
}

// Load returns the records of file in their original order.
// An unknown file yields no records.
func (r *RecordRepository) Load(ctx context.Context, file string) ([]data.Record, error) {
	query := `
		SELECT line, section, new_section, key, value
		FROM definition_records
		WHERE file = $1
		ORDER BY seq
	`

	rows, err := r.db.Query(ctx, query, file)
	if err != nil {
		return nil, fmt.Errorf("querying records of %s: %w", file, err)
	}
	defer rows.Close()

	records := make([]data.Record, 0, 256)
	for rows.Next() {
		rec := data.Record{File: file}
		var line int32
		if err := rows.Scan(&line, &rec.Section, &rec.NewSection, &rec.Key, &rec.Val); err != nil {
			return nil, fmt.Errorf("scanning record row: %w", err)
		}
		rec.Line = int(line)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating record rows: %w", err)
	}

	return records, nil
}

// LoadMany loads several files, preserving order.
func (r *RecordRepository) LoadMany(ctx context.Context, files ...string) ([][]data.Record, error) {
	out := make([][]data.Record, 0, len(files))
	for _, f := range files {
		recs, err := r.Load(ctx, f)
		if err != nil {
			return nil, err
		}
		out = append(out, recs)
	}
	return out, nil
}

// Imports lists the recorded imports ordered by file name.
func (r *RecordRepository) Imports(ctx context.Context) ([]ImportInfo, error) {
	rows, err := r.db.Query(ctx,
		`SELECT file, records, fingerprint, imported_at FROM definition_imports ORDER BY file`)
	if err != nil {
		return nil, fmt.Errorf("querying imports: %w", err)
	}
	defer rows.Close()

	var result []ImportInfo
	for rows.Next() {
		var (
			info ImportInfo
			n    int32
		)
		if err := rows.Scan(&info.File, &n, &info.Fingerprint, &info.ImportedAt); err != nil {
			return nil, fmt.Errorf("scanning import row: %w", err)
		}
		info.Records = int(n)
		result = append(result, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating import rows: %w", err)
	}

	return result, nil
}
