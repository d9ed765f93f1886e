package content

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/powercore/internal/config"
)

func TestFiles(t *testing.T) {
	cfg := config.DefaultEngine()
	assert.Equal(t,
		[]string{cfg.EffectsFile, cfg.PowersFile, "mods/extra.txt"},
		Files(cfg, "mods/extra.txt"))
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultEngine()
	cfg.EffectsFile = filepath.Join(dir, "effects.txt")
	cfg.PowersFile = filepath.Join(dir, "powers.txt")
	mod := filepath.Join(dir, "mod.txt")

	require.NoError(t, os.WriteFile(cfg.EffectsFile, []byte("[effect]\nid=barrier\ntype=shield\n"), 0o644))
	require.NoError(t, os.WriteFile(cfg.PowersFile, []byte("id=1\ntype=fixed\nname=Guard\npost_effect=barrier,5\n"), 0o644))
	require.NoError(t, os.WriteFile(mod, []byte("id=1\nname=Modded Guard\n"), 0o644))

	ctx := context.Background()
	sets, err := ReadRecords(ctx, nil, Files(cfg, mod))
	require.NoError(t, err)
	require.Len(t, sets, 3)

	store, report := Load(ctx, cfg, sets, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Zero(t, report.Problems)
	assert.Equal(t, 1, report.Effects)

	p, ok := store.Power(1)
	require.True(t, ok)
	assert.Equal(t, "Modded Guard", p.Name)
	assert.Len(t, p.PostEffects, 1)
}

func TestReadRecords_MissingFile(t *testing.T) {
	_, err := ReadRecords(context.Background(), nil, []string{filepath.Join(t.TempDir(), "gone.txt")})
	require.Error(t, err)
}

func TestLoad_NoSets(t *testing.T) {
	store, report := Load(context.Background(), config.DefaultEngine(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Zero(t, report.Powers)
	assert.Zero(t, store.Len())
}

func TestShippedDefinitionsLoadClean(t *testing.T) {
	cfg := config.DefaultEngine()
	cfg.EffectsFile = filepath.Join("..", "..", cfg.EffectsFile)
	cfg.PowersFile = filepath.Join("..", "..", cfg.PowersFile)

	ctx := context.Background()
	sets, err := ReadRecords(ctx, nil, Files(cfg))
	require.NoError(t, err)

	store, report := Load(ctx, cfg, sets, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Zero(t, report.Problems)
	assert.Equal(t, 5, report.Effects)
	assert.Equal(t, 15, report.Powers)

	p, ok := store.Power(13)
	require.True(t, ok)
	assert.Equal(t, 14, p.PostPower)
}
