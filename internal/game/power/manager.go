// Package power activates power definitions against live actors and emits
// the hazards, spawns, loot and effects they produce.
package power

import (
	"log/slog"
	"math/rand/v2"

	"github.com/udisondev/powercore/internal/data"
	"github.com/udisondev/powercore/internal/game/effect"
	"github.com/udisondev/powercore/internal/game/geo"
	"github.com/udisondev/powercore/internal/model"
)

// maxChainDepth bounds post_power recursion for powers without hazards.
const maxChainDepth = 16

// Manager is the activation dispatcher.
// Not safe for concurrent use: called from the simulation loop once per event.
type Manager struct {
	store *data.Store

	collider Collider
	sound    SoundPlayer
	msgs     MessageCatalog
	input    InputLock
	combat   CombatLog

	rnd *rand.Rand
	fps int
	log *slog.Logger

	// simulation clock for cooldowns
	nowMs     int64
	cooldowns map[*model.StatBlock]map[int]int64

	chainDepth int
	logMsg     string

	// Output queues, drained by external systems.
	hazards           []*Hazard
	spawns            []SpawnRequest
	loot              []LootDrop
	usedItems         []int
	usedEquippedItems []int
	partyBuffs        []int
}

// Option configures a Manager.
type Option func(*Manager)

// WithRand sets the random source used for variance, visual rows and spawn facing.
func WithRand(r *rand.Rand) Option {
	return func(m *Manager) { m.rnd = r }
}

// WithFramesPerSecond sets the simulation frame rate used to convert durations and speeds.
func WithFramesPerSecond(fps int) Option {
	return func(m *Manager) {
		if fps > 0 {
			m.fps = fps
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// NewManager creates a Manager over a loaded definition store.
func NewManager(store *data.Store, collab Collaborators, opts ...Option) *Manager {
	collab = collab.withDefaults()
	m := &Manager{
		store:     store,
		collider:  collab.Collider,
		sound:     collab.Sound,
		msgs:      collab.Messages,
		input:     collab.Input,
		combat:    collab.CombatLog,
		fps:       60,
		log:       slog.Default(),
		cooldowns: make(map[*model.StatBlock]map[int]int64),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rnd == nil {
		m.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return m
}

// Store returns the definition store.
func (m *Manager) Store() *data.Store {
	return m.store
}

// Activate runs power id for actor aimed at target.
// Returns false if the power is unknown, a precondition fails, or the strategy refused.
func (m *Manager) Activate(id int, actor *model.StatBlock, target geo.FPoint) bool {
	p, ok := m.store.Power(id)
	if !ok || p.Type == data.PowerTypeNone {
		return false
	}
	ensureEffects(actor)

	// 1. Blocking actors can't start another block
	if p.Type == data.PowerTypeBlock && actor.Effects.Triggers.Block {
		return false
	}

	// 2. Resource and cooldown checks
	if !m.CanActivate(&p, actor) {
		return false
	}

	// 3. Target checks
	if p.RequiresEmptyTarget && !m.collider.IsEmpty(target.X, target.Y) {
		return false
	}
	if p.RequiresLOS && !m.HasLineOfSight(actor.Pos, target) {
		return false
	}

	// 4. Dispatch
	var activated bool
	switch p.Type {
	case data.PowerTypeFixed:
		activated = m.fixed(&p, actor, target)
	case data.PowerTypeMissile:
		activated = m.missile(&p, actor, target)
	case data.PowerTypeRepeater:
		activated = m.repeater(&p, actor, target)
	case data.PowerTypeSpawn:
		activated = m.spawn(&p, actor, target)
	case data.PowerTypeTransform:
		activated = m.transform(&p, actor, target)
	case data.PowerTypeBlock:
		activated = m.block(&p, actor)
	}

	if !activated {
		return false
	}

	// 5. Start cooldown
	m.startCooldown(actor, &p)

	m.log.Debug("power activated",
		"power", p.ID,
		"name", p.Name,
		"type", p.Type,
		"actor", actor.Name,
		"target_x", target.X,
		"target_y", target.Y)

	return true
}

// HasLineOfSight reports whether nothing blocks the straight line from a to b.
func (m *Manager) HasLineOfSight(a, b geo.FPoint) bool {
	return m.collider.LineOfSight(a, b)
}

// HasValidTarget reports whether target is acceptable for power id.
// Teleport powers need a standable destination; requires_empty_target powers an empty tile.
func (m *Manager) HasValidTarget(id int, actor *model.StatBlock, target geo.FPoint) bool {
	p, ok := m.store.Power(id)
	if !ok {
		return false
	}

	if p.BuffTeleport && p.TargetNeighbor < 1 {
		dest := geo.LimitRange(p.TargetRange, actor.Pos, target)
		if !m.collider.IsValidPosition(dest.X, dest.Y, actor.Movement, true) {
			return false
		}
	}
	if p.RequiresEmptyTarget && !m.collider.IsEmpty(target.X, target.Y) {
		return false
	}
	if p.RequiresLOS && !m.HasLineOfSight(actor.Pos, target) {
		return false
	}
	return true
}

// LogMsg returns the last user-facing failure message.
func (m *Manager) LogMsg() string {
	return m.logMsg
}

// ClearLogMsg resets the user-facing message after it was shown.
func (m *Manager) ClearLogMsg() {
	m.logMsg = ""
}

// TakeHazards returns queued hazards and empties the queue.
func (m *Manager) TakeHazards() []*Hazard {
	out := m.hazards
	m.hazards = nil
	return out
}

// TakeSpawns returns queued spawn requests and empties the queue.
func (m *Manager) TakeSpawns() []SpawnRequest {
	out := m.spawns
	m.spawns = nil
	return out
}

// TakeLoot returns queued loot drops and empties the queue.
func (m *Manager) TakeLoot() []LootDrop {
	out := m.loot
	m.loot = nil
	return out
}

// TakePartyBuffs returns power ids to apply to the party and empties the queue.
func (m *Manager) TakePartyBuffs() []int {
	out := m.partyBuffs
	m.partyBuffs = nil
	return out
}

// UsedItems returns carried item ids pending consumption.
func (m *Manager) UsedItems() []int {
	return m.usedItems
}

// UsedEquippedItems returns equipped item ids pending consumption.
func (m *Manager) UsedEquippedItems() []int {
	return m.usedEquippedItems
}

// ResetUsedItems clears both item consumption queues after the inventory applied them.
func (m *Manager) ResetUsedItems() {
	m.usedItems = nil
	m.usedEquippedItems = nil
}

// frames converts milliseconds to simulation frames.
func (m *Manager) frames(ms int) int {
	return data.Frames(ms, m.fps)
}

// perFrame converts a per-second speed into map units per frame.
func (m *Manager) perFrame(speed float64) float64 {
	return speed / float64(m.fps)
}

func (m *Manager) playSound(p *data.PowerDef) {
	if p.SoundFX != "" {
		m.sound.Play(p.SoundFX)
	}
}

// randBetween returns a uniform int in [lo, hi].
func (m *Manager) randBetween(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + m.rnd.IntN(hi-lo+1)
}

func ensureEffects(actor *model.StatBlock) {
	if actor.Effects == nil {
		actor.Effects = effect.NewStack()
	}
}
