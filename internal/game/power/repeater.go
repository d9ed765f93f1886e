package power

import (
	"math"

	"github.com/udisondev/powercore/internal/data"
	"github.com/udisondev/powercore/internal/game/geo"
	"github.com/udisondev/powercore/internal/model"
)

// repeater places hazards along the line to target, one per speed step,
// stopping at the first step that lands in a wall.
func (m *Manager) repeater(p *data.PowerDef, actor *model.StatBlock, target geo.FPoint) bool {
	m.PayCost(p, actor)
	m.playSound(p)

	theta := geo.Theta(actor.Pos.X, actor.Pos.Y, target.X, target.Y)
	step := m.perFrame(p.Speed)
	dx := step * math.Cos(theta)
	dy := step * math.Sin(theta)

	loc := actor.Pos
	delay := 0
	for range p.Count {
		loc.X += dx
		loc.Y += dy

		if m.collider.IsWall(loc.X, loc.Y) {
			break
		}

		h := m.newHazard(p, actor, target)
		h.Pos = loc
		h.DelayFrames = delay
		delay += m.frames(p.DelayMs)

		m.hazards = append(m.hazards, h)
	}

	return true
}
