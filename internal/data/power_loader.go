package data

import "math"

// listState tracks whether a list field was already reset by the current source.
type listState int8

const (
	listFresh    listState = iota // next line clears the list first
	listAppended                  // list already cleared by this source, append
)

// idLists holds per-id list states for one power source.
type idLists struct {
	postEffects listState
	loot        listState
}

// powerGroup is the parser state for the id block being read.
// Records are grouped by repetitions of the "id" key.
type powerGroup struct {
	id       int
	hasID    bool
	skipping bool
	lists    map[int]*idLists
}

// enter starts a new id block.
func (g *powerGroup) enter(id int) {
	g.id = id
	g.hasID = true
	g.skipping = id < 1
	if g.skipping {
		return
	}
	if _, ok := g.lists[id]; !ok {
		g.lists[id] = &idLists{}
	}
}

// loadPowers consumes one powers source. Sources are applied in order,
// so later files override fields of ids introduced earlier (last write wins per field).
// A source that lists post_effect or loot for an id replaces the list inherited
// from earlier sources; multiple lines within one source append.
func (l *loader) loadPowers(src RecordSource) {
	g := powerGroup{lists: make(map[int]*idLists)}

	for {
		rec, ok := src.Next()
		if !ok {
			break
		}
		l.consume(rec)

		if rec.Key == "id" {
			id := ParseInt(rec.Val, 0)
			g.enter(id)
			if g.skipping {
				l.errorf(rec, "power index out of bounds 1-%d, skipping power", math.MaxInt32)
				continue
			}
			l.store.growPowers(id)
			continue
		}

		if g.skipping {
			continue
		}
		if !g.hasID {
			l.errorf(rec, "%q appears before any power id", rec.Key)
			continue
		}

		l.applyPowerKey(&l.store.powers[g.id], rec, g.lists[g.id])
	}
}

// chainRef identifies the record that set a chained power reference.
type chainRef struct {
	id  int
	key string
}

// verifyChains resets post_power/wall_power references that point outside the table.
func (l *loader) verifyChains() {
	for i := range l.store.powers {
		p := &l.store.powers[i]
		p.WallPower = l.verifyChain(p.ID, "wall_power", p.WallPower)
		p.PostPower = l.verifyChain(p.ID, "post_power", p.PostPower)
	}
}

func (l *loader) verifyChain(id int, key string, ref int) int {
	if l.store.validID(ref, true) {
		return ref
	}
	l.errorf(l.chainRecs[chainRef{id, key}], "%d is not a valid power id, table size %d", ref, len(l.store.powers))
	return 0
}

func (l *loader) applyPowerKey(p *PowerDef, rec Record, lists *idLists) {
	switch rec.Key {
	case "type":
		if t, ok := ParsePowerType(rec.Val); ok {
			p.Type = t
		} else {
			l.errorf(rec, "unknown type %q", rec.Val)
		}
	case "name":
		p.Name = rec.Val
	case "description":
		p.Description = rec.Val
	case "icon":
		p.Icon = l.intVal(rec, p.Icon)
	case "new_state":
		if rec.Val == "instant" {
			p.NewState = PowerStateInstant
		} else {
			p.NewState = PowerStateAttack
			p.AttackAnim = rec.Val
		}
	case "face":
		p.Face = ParseBool(rec.Val)
	case "source_type":
		if st, ok := ParseSourceType(rec.Val); ok {
			p.SourceType = st
		} else {
			l.errorf(rec, "unknown source_type %q", rec.Val)
		}
	case "beacon":
		p.Beacon = ParseBool(rec.Val)
	case "count":
		p.Count = l.nonNegInt(rec, p.Count)
	case "passive":
		p.Passive = ParseBool(rec.Val)
	case "passive_trigger":
		if t, ok := ParseTrigger(rec.Val); ok {
			p.PassiveTrigger = t
		} else {
			l.errorf(rec, "unknown passive trigger %q", rec.Val)
		}
	case "meta_power":
		p.MetaPower = ParseBool(rec.Val)

	// requirements
	case "requires_flags":
		p.RequiresFlags = make(map[string]struct{})
		toks := NewTokens(rec.Val)
		for flag := toks.PopString(); flag != ""; flag = toks.PopString() {
			p.RequiresFlags[flag] = struct{}{}
		}
	case "requires_mp":
		p.RequiresMP = l.nonNegInt(rec, p.RequiresMP)
	case "requires_hp":
		p.RequiresHP = l.nonNegInt(rec, p.RequiresHP)
	case "sacrifice":
		p.Sacrifice = ParseBool(rec.Val)
	case "requires_los":
		p.RequiresLOS = ParseBool(rec.Val)
	case "requires_empty_target":
		p.RequiresEmptyTarget = ParseBool(rec.Val)
	case "requires_item":
		toks := NewTokens(rec.Val)
		p.RequiresItem = toks.PopInt(0)
		p.RequiresItemQuantity = toks.PopInt(1)
	case "requires_equipped_item":
		toks := NewTokens(rec.Val)
		p.RequiresEquippedItem = toks.PopInt(0)
		p.RequiresEquippedItemQuantity = toks.PopInt(0)
		if p.RequiresEquippedItemQuantity > 1 {
			l.errorf(rec, "only 1 equipped item can be consumed at a time")
			p.RequiresEquippedItemQuantity = 1
		}
	case "requires_targeting":
		p.RequiresTargeting = ParseBool(rec.Val)
	case "cooldown":
		p.CooldownMs = l.duration(rec, p.CooldownMs)

	// animation info
	case "animation":
		p.Animation = rec.Val
	case "soundfx":
		p.SoundFX = rec.Val
	case "directional":
		p.Directional = ParseBool(rec.Val)
	case "visual_random":
		p.VisualRandom = l.nonNegInt(rec, p.VisualRandom)
	case "visual_option":
		p.VisualOption = l.intVal(rec, p.VisualOption)
	case "aim_assist":
		p.AimAssist = ParseBool(rec.Val)
	case "speed":
		p.Speed = l.nonNegFloat(rec, p.Speed)
	case "lifespan":
		p.LifespanMs = l.duration(rec, p.LifespanMs)
	case "floor":
		p.Floor = ParseBool(rec.Val)
	case "complete_animation":
		p.CompleteAnimation = ParseBool(rec.Val)

	// hazard traits
	case "use_hazard":
		p.UseHazard = ParseBool(rec.Val)
	case "no_attack":
		p.NoAttack = ParseBool(rec.Val)
	case "radius":
		p.Radius = l.nonNegFloat(rec, p.Radius)
	case "base_damage":
		if bd, ok := ParseBaseDamage(rec.Val); ok {
			p.BaseDamage = bd
		} else {
			l.errorf(rec, "unknown base_damage %q", rec.Val)
		}
	case "starting_pos":
		if sp, ok := ParseStartingPos(rec.Val); ok {
			p.StartingPos = sp
		} else {
			l.errorf(rec, "unknown starting_pos %q", rec.Val)
		}
	case "multitarget":
		p.Multitarget = ParseBool(rec.Val)
	case "trait_armor_penetration":
		p.TraitArmorPenetration = ParseBool(rec.Val)
	case "trait_avoidance_ignore":
		p.TraitAvoidanceIgnore = ParseBool(rec.Val)
	case "trait_crits_impaired":
		p.TraitCritsImpaired = l.intVal(rec, p.TraitCritsImpaired)
	case "trait_elemental":
		if idx := l.store.elementIndex(rec.Val); idx >= 0 {
			p.TraitElemental = idx
		} else {
			l.errorf(rec, "unknown element %q", rec.Val)
		}
	case "target_range":
		first := rec
		first.Val = NewTokens(rec.Val).PopString()
		p.TargetRange = l.nonNegFloat(first, p.TargetRange)
	case "hp_steal":
		p.HPSteal = l.nonNegInt(rec, p.HPSteal)
	case "mp_steal":
		p.MPSteal = l.nonNegInt(rec, p.MPSteal)

	// missile modifiers
	case "missile_angle":
		p.MissileAngle = l.intVal(rec, p.MissileAngle)
	case "angle_variance":
		p.AngleVariance = l.nonNegInt(rec, p.AngleVariance)
	case "speed_variance":
		p.SpeedVariance = l.nonNegFloat(rec, p.SpeedVariance)

	// repeater modifiers
	case "delay":
		p.DelayMs = l.duration(rec, p.DelayMs)

	// transform
	case "transform_duration":
		p.TransformDurationMs = l.duration(rec, p.TransformDurationMs)
	case "manual_untransform":
		p.ManualUntransform = ParseBool(rec.Val)
	case "keep_equipment":
		p.KeepEquipment = ParseBool(rec.Val)
	case "untransform_on_hit":
		p.UntransformOnHit = ParseBool(rec.Val)

	// buffs
	case "buff":
		p.Buff = ParseBool(rec.Val)
	case "buff_teleport":
		p.BuffTeleport = ParseBool(rec.Val)
	case "buff_party":
		p.BuffParty = ParseBool(rec.Val)
	case "buff_party_power_id":
		p.BuffPartyPowerID = l.intVal(rec, p.BuffPartyPowerID)
	case "post_effect":
		if lists.postEffects == listFresh {
			p.PostEffects = nil
			lists.postEffects = listAppended
		}
		toks := NewTokens(rec.Val)
		pe := PostEffect{ID: toks.PopString()}
		if !l.store.IsValidEffect(pe.ID) {
			l.errorf(rec, "unknown effect %q", pe.ID)
			return
		}
		pe.Magnitude = toks.PopInt(0)
		if dur := toks.PopString(); dur != "" {
			ms, ok := parseDuration(dur)
			if !ok {
				l.errorf(rec, "%q is not a valid duration", dur)
			}
			pe.DurationMs = ms
		}
		p.PostEffects = append(p.PostEffects, pe)

	// chained powers
	case "post_power":
		p.PostPower = l.intVal(rec, p.PostPower)
		l.chainRecs[chainRef{p.ID, rec.Key}] = rec
	case "wall_power":
		p.WallPower = l.intVal(rec, p.WallPower)
		l.chainRecs[chainRef{p.ID, rec.Key}] = rec

	// spawn info
	case "spawn_type":
		p.SpawnType = rec.Val
	case "target_neighbor":
		p.TargetNeighbor = l.nonNegInt(rec, p.TargetNeighbor)
	case "spawn_limit":
		l.parseSpawnLimit(p, rec)
	case "spawn_level":
		l.parseSpawnLevel(p, rec)

	// targeting
	case "target_party":
		p.TargetParty = ParseBool(rec.Val)
	case "target_categories":
		p.TargetCategories = nil
		toks := NewTokens(rec.Val)
		for cat := toks.PopString(); cat != ""; cat = toks.PopString() {
			p.TargetCategories = append(p.TargetCategories, cat)
		}
	case "target_movement_normal":
		p.TargetMovementNormal = ParseBool(rec.Val)
	case "target_movement_flying":
		p.TargetMovementFlying = ParseBool(rec.Val)
	case "target_movement_intangible":
		p.TargetMovementIntangible = ParseBool(rec.Val)
	case "walls_block_aoe":
		p.WallsBlockAOE = ParseBool(rec.Val)

	// stat modifiers
	case "modifier_accuracy":
		toks := NewTokens(rec.Val)
		p.ModAccuracyMode = l.parseModifierMode(rec, toks.PopString())
		p.ModAccuracyValue = toks.PopInt(0)
	case "modifier_damage":
		toks := NewTokens(rec.Val)
		p.ModDamageMode = l.parseModifierMode(rec, toks.PopString())
		p.ModDamageMin = toks.PopInt(0)
		p.ModDamageMax = toks.PopInt(0)
	case "modifier_critical":
		toks := NewTokens(rec.Val)
		p.ModCritMode = l.parseModifierMode(rec, toks.PopString())
		p.ModCritValue = toks.PopInt(0)

	case "loot":
		if lists.loot == listFresh {
			p.Loot = nil
			lists.loot = listAppended
		}
		p.Loot = append(p.Loot, l.parseLoot(rec)...)

	default:
		l.errorf(rec, "%q is not a valid key", rec.Key)
	}
}

func (l *loader) parseModifierMode(rec Record, tok string) StatModifierMode {
	mode, ok := ParseStatModifierMode(tok)
	if !ok {
		l.errorf(rec, "unknown stat_modifier_mode %q", tok)
	}
	return mode
}

// parseSpawnLimit handles "mode[,qty[,every,stat]]".
func (l *loader) parseSpawnLimit(p *PowerDef, rec Record) {
	toks := NewTokens(rec.Val)
	mode := toks.PopString()
	if m, ok := ParseSpawnLimitMode(mode); ok {
		p.SpawnLimitMode = m
	} else {
		l.errorf(rec, "unknown spawn_limit_mode %q", mode)
	}

	if p.SpawnLimitMode == SpawnLimitUnlimited {
		return
	}
	p.SpawnLimitQty = toks.PopInt(0)

	if p.SpawnLimitMode == SpawnLimitStat {
		p.SpawnLimitEvery = toks.PopInt(1)
		stat := toks.PopString()
		if s, ok := ParsePrimaryStat(stat); ok {
			p.SpawnLimitStat = s
		} else {
			l.errorf(rec, "unknown spawn_limit_stat %q", stat)
		}
	}
}

// parseSpawnLevel handles "mode[,qty[,every[,stat]]]".
func (l *loader) parseSpawnLevel(p *PowerDef, rec Record) {
	toks := NewTokens(rec.Val)
	mode := toks.PopString()
	if m, ok := ParseSpawnLevelMode(mode); ok {
		p.SpawnLevelMode = m
	} else {
		l.errorf(rec, "unknown spawn_level_mode %q", mode)
	}

	if p.SpawnLevelMode == SpawnLevelDefault {
		return
	}
	p.SpawnLevelQty = toks.PopInt(0)

	if p.SpawnLevelMode == SpawnLevelFixed {
		return
	}
	p.SpawnLevelEvery = toks.PopInt(1)

	if p.SpawnLevelMode == SpawnLevelStat {
		stat := toks.PopString()
		if s, ok := ParsePrimaryStat(stat); ok {
			p.SpawnLevelStat = s
		} else {
			l.errorf(rec, "unknown spawn_level_stat %q", stat)
		}
	}
}

// parseLoot reads repeated "item,chance,min,max" groups.
// chance is "fixed" or a percentage; min defaults to 1, max to min.
func (l *loader) parseLoot(rec Record) []LootEntry {
	var out []LootEntry
	toks := NewTokens(rec.Val)
	for !toks.Empty() {
		item := toks.PopString()
		if item == "" {
			break
		}
		entry := LootEntry{ItemID: item}

		chance := toks.PopString()
		switch chance {
		case "fixed", "":
			entry.Chance = 0
		default:
			entry.Chance = ParseInt(chance, 0)
			if entry.Chance <= 0 || entry.Chance > 100 {
				l.errorf(rec, "loot chance %q out of range 1-100", chance)
				entry.Chance = max(min(entry.Chance, 100), 1)
			}
		}

		entry.QuantityMin = max(toks.PopInt(1), 1)
		entry.QuantityMax = toks.PopInt(entry.QuantityMin)
		if entry.QuantityMax < entry.QuantityMin {
			entry.QuantityMax = entry.QuantityMin
		}
		out = append(out, entry)
	}
	return out
}
