// Package effect tracks the timed modifiers applied to an actor.
package effect

import "github.com/udisondev/powercore/internal/data"

// Instance is one active effect on an actor.
type Instance struct {
	ID          string
	Type        string
	Icon        int
	Animation   string
	CanStack    bool
	RenderAbove bool

	Magnitude    int
	MagnitudeMax int

	// DurationMs is the initial duration; 0 means until removed.
	DurationMs  int
	RemainingMs int

	Trigger    data.Trigger
	PassiveID  int
	SourceType data.SourceType
	Item       bool
}

// Permanent reports whether the effect never expires on its own.
func (in *Instance) Permanent() bool {
	return in.DurationMs <= 0
}

// Tick decrements the remaining time by deltaMs.
// Returns false once the effect has expired.
func (in *Instance) Tick(deltaMs int) bool {
	if in.Permanent() {
		return true
	}
	in.RemainingMs -= deltaMs
	return in.RemainingMs > 0
}

// Triggers holds the one-shot event flags read by the passive scanner.
type Triggers struct {
	Block      bool
	Hit        bool
	HalfDeath  bool
	JoinCombat bool
	Death      bool
	// Others is set once the unconditional passives were applied.
	Others bool
}
