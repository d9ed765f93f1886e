package power

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/powercore/internal/data"
	"github.com/udisondev/powercore/internal/game/geo"
	"github.com/udisondev/powercore/internal/model"
)

const testEffects = `
[effect]
id=barrier
type=shield

[effect]
id=mend
type=heal

[effect]
id=shove
type=knockback

[effect]
id=haste
type=speed
`

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

// loadStore parses effect and power definitions from text.
func loadStore(t *testing.T, powers string) *data.Store {
	t.Helper()

	effects, err := data.ParseRecords("effects.txt", strings.NewReader(testEffects))
	require.NoError(t, err)
	recs, err := data.ParseRecords("powers.txt", strings.NewReader(powers))
	require.NoError(t, err)

	store, report := data.Load(context.Background(), data.LoadOptions{
		Effects:  data.NewSliceSource(effects),
		Powers:   []data.RecordSource{data.NewSliceSource(recs)},
		Elements: []string{"fire", "ice"},
		StatKeys: []string{"hp", "accuracy", "crit"},
		Logger:   quietLog,
	})
	require.Zero(t, report.Problems, "fixture must load cleanly")
	return store
}

type fakeSound struct{ played []string }

func (f *fakeSound) Play(id string) { f.played = append(f.played, id) }

type fakeInput struct{ locks, unlocks int }

func (f *fakeInput) LockActionBar()   { f.locks++ }
func (f *fakeInput) UnlockActionBar() { f.unlocks++ }

type combatMsg struct {
	text string
	pos  geo.FPoint
}

type fakeCombatLog struct{ msgs []combatMsg }

func (f *fakeCombatLog) AddMessage(text string, pos geo.FPoint, _ CombatMessageKind) {
	f.msgs = append(f.msgs, combatMsg{text: text, pos: pos})
}

type fixture struct {
	m      *Manager
	grid   *geo.Grid
	sound  *fakeSound
	input  *fakeInput
	combat *fakeCombatLog
}

// newFixture builds a manager over a grid parsed from rows at 60 fps.
func newFixture(t *testing.T, powers string, rows ...string) *fixture {
	t.Helper()

	if len(rows) == 0 {
		rows = []string{
			"..........",
			"..........",
			"..........",
			"..........",
			"..........",
			"..........",
			"..........",
			"..........",
			"..........",
			"..........",
		}
	}

	rnd := rand.New(rand.NewPCG(1, 2))
	f := &fixture{
		grid:   geo.ParseGrid(rows, rnd),
		sound:  &fakeSound{},
		input:  &fakeInput{},
		combat: &fakeCombatLog{},
	}
	f.m = NewManager(loadStore(t, powers), Collaborators{
		Collider:  f.grid,
		Sound:     f.sound,
		Input:     f.input,
		CombatLog: f.combat,
	}, WithRand(rnd), WithFramesPerSecond(60), WithLogger(quietLog))
	return f
}

// hero creates a hero standing on (x, y) and blocks its tile.
func (f *fixture) hero(x, y float64) *model.StatBlock {
	sb := model.NewStatBlock("hero", geo.FPoint{X: x, Y: y}, 100, 50)
	sb.Hero = true
	sb.SpeedDefault = 4
	f.grid.Block(x, y)
	return sb
}
