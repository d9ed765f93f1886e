package power

import (
	"github.com/udisondev/powercore/internal/data"
	"github.com/udisondev/powercore/internal/game/effect"
	"github.com/udisondev/powercore/internal/model"
)

// ApplyEffects pushes the post effects of p cast by caster onto target.
// trigger tags every instance so trigger-sourced effects can be removed later.
func (m *Manager) ApplyEffects(target, caster *model.StatBlock, p *data.PowerDef, trigger data.Trigger, source data.SourceType) {
	ensureEffects(target)

	passiveID := 0
	if p.Passive {
		passiveID = p.ID
	}

	for _, pe := range p.PostEffects {
		magnitude := pe.Magnitude
		def, known := m.store.Effect(pe.ID)

		if known {
			switch def.Type {
			case data.EffectTypeShield:
				magnitude = m.shieldMagnitude(p, caster)
				m.combat.AddMessage(m.msgs.Get("+%d Shield", magnitude), target.Pos, CombatMessageBuff)

			case data.EffectTypeHeal:
				magnitude = m.healMagnitude(p, caster)
				m.combat.AddMessage(m.msgs.Get("+%d HP", magnitude), target.Pos, CombatMessageBuff)
				target.Heal(magnitude)

			case data.EffectTypeKnockback:
				// immobile actors can't be pushed
				if target.SpeedDefault == 0 {
					continue
				}
				target.KnockbackSrc = caster.Pos
				target.KnockbackDest = target.Pos
			}
		} else {
			def = data.EffectDef{ID: pe.ID, Type: pe.ID}
		}

		target.Effects.Add(effect.Instance{
			ID:          def.ID,
			Type:        def.Type,
			Icon:        def.Icon,
			Animation:   def.Animation,
			CanStack:    def.CanStack,
			RenderAbove: def.RenderAbove,
			Magnitude:   magnitude,
			DurationMs:  pe.DurationMs,
			Trigger:     trigger,
			PassiveID:   passiveID,
			SourceType:  source,
		})
	}
}

// shieldMagnitude charges a shield from the caster's max mental damage.
func (m *Manager) shieldMagnitude(p *data.PowerDef, caster *model.StatBlock) int {
	base := caster.Get(model.StatDmgMentalMax)
	switch p.ModDamageMode {
	case data.StatModifierMultiply:
		return base * p.ModDamageMin / 100
	case data.StatModifierAdd:
		return base + p.ModDamageMin
	case data.StatModifierAbsolute:
		return m.randBetween(p.ModDamageMin, p.ModDamageMax)
	default:
		return base
	}
}

// healMagnitude rolls a heal from the caster's mental damage range.
func (m *Manager) healMagnitude(p *data.PowerDef, caster *model.StatBlock) int {
	roll := m.randBetween(caster.Get(model.StatDmgMentalMin), caster.Get(model.StatDmgMentalMax))
	switch p.ModDamageMode {
	case data.StatModifierMultiply:
		return roll * p.ModDamageMin / 100
	case data.StatModifierAdd:
		return roll + p.ModDamageMin
	case data.StatModifierAbsolute:
		return m.randBetween(p.ModDamageMin, p.ModDamageMax)
	default:
		return roll
	}
}
