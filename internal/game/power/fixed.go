package power

import (
	"github.com/udisondev/powercore/internal/data"
	"github.com/udisondev/powercore/internal/game/geo"
	"github.com/udisondev/powercore/internal/model"
)

// fixed creates static hazards with an optional stagger, then buffs.
func (m *Manager) fixed(p *data.PowerDef, actor *model.StatBlock, target geo.FPoint) bool {
	if p.UseHazard {
		delay := 0
		for range p.Count {
			h := m.newHazard(p, actor, target)
			h.DelayFrames = delay
			delay += m.frames(p.DelayMs)
			m.hazards = append(m.hazards, h)
		}
	}

	m.buff(p, actor, target)
	m.playSound(p)
	m.PayCost(p, actor)
	return true
}
