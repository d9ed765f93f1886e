package data

// EffectDef describes an effect that post_effect entries can reference by id.
// Type "shield", "heal" and "knockback" get special handling on application;
// anything else is a generic named effect.
type EffectDef struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Icon        int    `json:"icon"`
	Animation   string `json:"animation,omitempty"`
	CanStack    bool   `json:"can_stack"`
	RenderAbove bool   `json:"render_above"`
}

// Semantic effect types with special application rules.
const (
	EffectTypeShield    = "shield"
	EffectTypeHeal      = "heal"
	EffectTypeKnockback = "knockback"
)

// loadEffects consumes [effect] sections. Entries without an id are dropped.
func (l *loader) loadEffects(src RecordSource) {
	var effects []EffectDef

	dropIncomplete := func() {
		if len(effects) > 0 && effects[len(effects)-1].ID == "" {
			effects = effects[:len(effects)-1]
		}
	}

	for {
		rec, ok := src.Next()
		if !ok {
			break
		}
		l.consume(rec)

		if rec.NewSection && rec.Section == "effect" {
			dropIncomplete()
			effects = append(effects, EffectDef{})
		}

		if len(effects) == 0 || rec.Section != "effect" {
			continue
		}

		e := &effects[len(effects)-1]
		switch rec.Key {
		case "id":
			e.ID = rec.Val
		case "type":
			e.Type = rec.Val
		case "icon":
			e.Icon = l.intVal(rec, e.Icon)
		case "animation":
			e.Animation = rec.Val
		case "can_stack":
			e.CanStack = ParseBool(rec.Val)
		case "render_above":
			e.RenderAbove = ParseBool(rec.Val)
		default:
			l.errorf(rec, "%q is not a valid key", rec.Key)
		}
	}

	dropIncomplete()

	l.store.effects = effects
	l.store.effectIndex = make(map[string]int, len(effects))
	for i, e := range effects {
		if _, dup := l.store.effectIndex[e.ID]; dup {
			l.log.Warn("duplicate effect id, keeping first", "id", e.ID)
			continue
		}
		l.store.effectIndex[e.ID] = i
	}
}
