package power

import (
	"math"

	"github.com/udisondev/powercore/internal/data"
	"github.com/udisondev/powercore/internal/game/geo"
	"github.com/udisondev/powercore/internal/model"
)

// missile fires count travelling hazards in a symmetric fan around the aim bearing.
func (m *Manager) missile(p *data.PowerDef, actor *model.StatBlock, target geo.FPoint) bool {
	src := actor.Pos
	if p.StartingPos == data.StartingPosTarget {
		src = target
	}
	theta := geo.Theta(src.X, src.Y, target.X, target.Y)
	spread := float64(p.MissileAngle) * math.Pi / 180

	delay := 0
	for i := range p.Count {
		h := m.newHazard(p, actor, target)

		offset := ((1-float64(p.Count))/2 + float64(i)) * spread

		variance := 0.0
		if p.AngleVariance > 0 {
			sign := 1.0
			if m.rnd.IntN(2) == 0 {
				sign = -1
			}
			variance = sign * float64(m.rnd.IntN(p.AngleVariance)) * math.Pi / 180
		}

		if p.SpeedVariance != 0 {
			v := p.SpeedVariance
			h.BaseSpeed += m.perFrame(m.rnd.Float64()*2*v - v)
		}
		h.SetAngle(theta + offset + variance)

		h.DelayFrames = delay
		delay += m.frames(p.DelayMs)

		m.hazards = append(m.hazards, h)
	}

	m.PayCost(p, actor)
	m.playSound(p)
	return true
}
