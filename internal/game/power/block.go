package power

import (
	"github.com/udisondev/powercore/internal/data"
	"github.com/udisondev/powercore/internal/model"
)

// block starts a stationary block. Its effects are tagged with the block
// trigger so EndBlock can remove exactly them.
func (m *Manager) block(p *data.PowerDef, actor *model.StatBlock) bool {
	if actor.Effects.Triggers.Block {
		return false
	}
	actor.Effects.Triggers.Block = true

	m.ApplyEffects(actor, actor, p, data.TriggerBlock, data.SourceTypeHero)

	m.playSound(p)
	m.PayCost(p, actor)
	return true
}

// EndBlock clears the block guard and the effects the block added.
func (m *Manager) EndBlock(actor *model.StatBlock) {
	ensureEffects(actor)
	actor.Effects.Triggers.Block = false
	actor.Effects.RemoveByTrigger(data.TriggerBlock)
	actor.RefreshStats = true
}
