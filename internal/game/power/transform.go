package power

import (
	"github.com/udisondev/powercore/internal/data"
	"github.com/udisondev/powercore/internal/game/geo"
	"github.com/udisondev/powercore/internal/model"
)

// User-facing transform failures.
const (
	msgAlreadyTransformed = "You are already transformed, untransform first."
	msgNotTransformed     = "You are not transformed."
	msgCannotUntransform  = "Could not untransform at this position."
)

// transform records a transformation (or its reversal) for the external transform system.
func (m *Manager) transform(p *data.PowerDef, actor *model.StatBlock, target geo.FPoint) bool {
	// no power use until the transition is applied
	m.input.LockActionBar()

	untransform := p.IsUntransform()

	if actor.Transformed && !untransform {
		m.logMsg = m.msgs.Get(msgAlreadyTransformed)
		m.input.UnlockActionBar()
		return false
	}
	if !actor.Transformed && untransform {
		m.logMsg = m.msgs.Get(msgNotTransformed)
		m.input.UnlockActionBar()
		return false
	}

	if untransform {
		// the actor's own tile must be free of itself to test normal placement
		m.collider.Unblock(actor.Pos.X, actor.Pos.Y)
		valid := m.collider.IsValidPosition(actor.Pos.X, actor.Pos.Y, geo.MovementNormal, true)
		m.collider.Block(actor.Pos.X, actor.Pos.Y)

		if !valid {
			m.logMsg = m.msgs.Get(msgCannotUntransform)
			m.input.UnlockActionBar()
			return false
		}

		actor.TransformDurationMs = 0
		actor.TransformType = data.SpawnTypeUntransform
	} else {
		switch {
		case p.TransformDurationMs == 0:
			actor.TransformDurationMs = -1
		case p.TransformDurationMs > 0:
			actor.TransformDurationMs = p.TransformDurationMs
		}
		actor.TransformType = p.SpawnType
	}

	m.buff(p, actor, target)

	actor.ManualUntransform = p.ManualUntransform
	actor.TransformWithEquipment = p.KeepEquipment
	actor.UntransformOnHit = p.UntransformOnHit

	m.playSound(p)
	m.PayCost(p, actor)
	return true
}
