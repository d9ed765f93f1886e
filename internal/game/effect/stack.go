package effect

import (
	"log/slog"

	"github.com/udisondev/powercore/internal/data"
)

const maxEffects = 64

// Stack holds the active effects of one actor.
// Not safe for concurrent use: owned by the simulation loop.
type Stack struct {
	effects  []Instance
	Triggers Triggers
}

// NewStack creates an empty Stack.
func NewStack() *Stack {
	return &Stack{effects: make([]Instance, 0, 8)}
}

// Add pushes an effect onto the stack.
// Returns true if the effect was added or refreshed, false if rejected.
//
// Stacking rules (same ID, CanStack false):
//   - Same passive source and trigger → rejected, the passive is already applied
//   - Otherwise the existing entry is refreshed with the larger duration and magnitude
//
// If the stack is full, the oldest timed effect is removed.
func (s *Stack) Add(in Instance) bool {
	in.RemainingMs = in.DurationMs
	if in.MagnitudeMax == 0 {
		in.MagnitudeMax = in.Magnitude
	}

	if !in.CanStack {
		for i := range s.effects {
			existing := &s.effects[i]
			if existing.ID != in.ID {
				continue
			}
			if in.PassiveID != 0 && existing.PassiveID == in.PassiveID && existing.Trigger == in.Trigger {
				return false
			}
			existing.DurationMs = max(existing.DurationMs, in.DurationMs)
			existing.RemainingMs = max(existing.RemainingMs, in.RemainingMs)
			existing.Magnitude = max(existing.Magnitude, in.Magnitude)
			existing.MagnitudeMax = max(existing.MagnitudeMax, in.MagnitudeMax)
			return true
		}
	}

	if len(s.effects) >= maxEffects {
		if !s.dropOldestTimed() {
			slog.Debug("effect stack full, rejecting", "effect", in.ID)
			return false
		}
	}

	s.effects = append(s.effects, in)
	return true
}

func (s *Stack) dropOldestTimed() bool {
	for i := range s.effects {
		if !s.effects[i].Permanent() {
			slog.Debug("effect limit reached, removed oldest", "effect", s.effects[i].ID)
			s.effects = append(s.effects[:i], s.effects[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveByTrigger removes every effect that was added under trigger.
// Block effects are cleared this way when the block ends.
func (s *Stack) RemoveByTrigger(trigger data.Trigger) int {
	return s.removeIf(func(in *Instance) bool { return in.Trigger == trigger })
}

// RemovePassive removes every effect granted by the passive power id.
func (s *Stack) RemovePassive(powerID int) int {
	return s.removeIf(func(in *Instance) bool { return in.PassiveID == powerID })
}

// RemoveID removes every effect with the given id.
func (s *Stack) RemoveID(id string) int {
	return s.removeIf(func(in *Instance) bool { return in.ID == id })
}

func (s *Stack) removeIf(match func(*Instance) bool) int {
	n := 0
	for i := range s.effects {
		if match(&s.effects[i]) {
			continue
		}
		s.effects[n] = s.effects[i]
		n++
	}
	removed := len(s.effects) - n
	s.effects = s.effects[:n]
	return removed
}

// Tick decrements timers on all active effects by deltaMs and drops expired ones.
// Returns true if any effect was removed.
func (s *Stack) Tick(deltaMs int) bool {
	return s.removeIf(func(in *Instance) bool { return !in.Tick(deltaMs) }) > 0
}

// Absorb spends shield magnitude against dmg and returns the damage left over.
// Depleted shields are removed.
func (s *Stack) Absorb(dmg int) int {
	for i := range s.effects {
		in := &s.effects[i]
		if in.Type != data.EffectTypeShield || in.Magnitude <= 0 || dmg <= 0 {
			continue
		}
		spent := min(in.Magnitude, dmg)
		in.Magnitude -= spent
		dmg -= spent
	}
	s.removeIf(func(in *Instance) bool { return in.Type == data.EffectTypeShield && in.Magnitude <= 0 })
	return dmg
}

// Bonus returns the summed magnitude of all effects whose type is stat.
func (s *Stack) Bonus(stat string) int {
	total := 0
	for i := range s.effects {
		if s.effects[i].Type == stat {
			total += s.effects[i].Magnitude
		}
	}
	return total
}

// Has reports whether an effect with id is active.
func (s *Stack) Has(id string) bool {
	for i := range s.effects {
		if s.effects[i].ID == id {
			return true
		}
	}
	return false
}

// Len returns the number of active effects.
func (s *Stack) Len() int {
	return len(s.effects)
}

// Active returns a copy of the active effects.
func (s *Stack) Active() []Instance {
	out := make([]Instance, len(s.effects))
	copy(out, s.effects)
	return out
}
