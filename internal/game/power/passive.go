package power

import (
	"github.com/udisondev/powercore/internal/data"
	"github.com/udisondev/powercore/internal/model"
)

// ActivatePassives fires the actor's passive powers whose trigger is live.
// Unlocked powers are scanned before item powers.
//
// Unconditional passives fire in the first scan after Triggers.Others is cleared
// and not again until it is cleared. Hit and death flags are consumed by the scan;
// the block flag is owned by the blocking logic.
func (m *Manager) ActivatePassives(actor *model.StatBlock) {
	ensureEffects(actor)

	firedOthers := false
	scan := func(ids []int) {
		for _, id := range ids {
			p, ok := m.store.Power(id)
			if !ok || !p.Passive {
				continue
			}
			if !m.passiveReady(&p, actor, &firedOthers) {
				continue
			}
			m.Activate(id, actor, actor.Pos)
			actor.RefreshStats = true
		}
	}

	scan(actor.PowersPassive)
	scan(actor.PowersListItems)

	t := &actor.Effects.Triggers
	if firedOthers {
		t.Others = true
	}
	t.Hit = false
	t.Death = false
}

// passiveReady decides whether p fires in this scan, latching one-time triggers.
func (m *Manager) passiveReady(p *data.PowerDef, actor *model.StatBlock, firedOthers *bool) bool {
	t := &actor.Effects.Triggers

	switch p.PassiveTrigger {
	case data.TriggerUnconditional:
		if t.Others {
			return false
		}
		*firedOthers = true
		return true
	case data.TriggerBlock:
		return t.Block
	case data.TriggerHit:
		return t.Hit
	case data.TriggerHalfDeath:
		if t.HalfDeath || actor.HP > actor.Get(model.StatHPMax)/2 {
			return false
		}
		t.HalfDeath = true
		return true
	case data.TriggerJoinCombat:
		if t.JoinCombat || !actor.InCombat {
			return false
		}
		t.JoinCombat = true
		return true
	case data.TriggerDeath:
		return t.Death
	default:
		return false
	}
}

// ActivateSinglePassive applies one newly unlocked unconditional passive.
// Passives with any other trigger wait for ActivatePassives.
func (m *Manager) ActivateSinglePassive(actor *model.StatBlock, id int) bool {
	p, ok := m.store.Power(id)
	if !ok || !p.Passive || p.PassiveTrigger != data.TriggerUnconditional {
		return false
	}
	ensureEffects(actor)

	activated := m.Activate(id, actor, actor.Pos)
	actor.RefreshStats = true
	actor.Effects.Triggers.Others = true
	return activated
}
