package data

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureHandler records log entries for assertions.
type captureHandler struct {
	mu      sync.Mutex
	entries []captured
}

type captured struct {
	level slog.Level
	msg   string
	attrs map[string]any
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	c := captured{level: r.Level, msg: r.Message, attrs: make(map[string]any)}
	r.Attrs(func(a slog.Attr) bool {
		c.attrs[a.Key] = a.Value.Any()
		return true
	})
	h.mu.Lock()
	h.entries = append(h.entries, c)
	h.mu.Unlock()
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) errors() []captured {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []captured
	for _, e := range h.entries {
		if e.level == slog.LevelError {
			out = append(out, e)
		}
	}
	return out
}

const sampleEffects = `
# effect table
[effect]
id=barrier
type=shield
icon=12
can_stack=false

[effect]
id=regen
type=heal
render_above=true
animation=sparkle

[effect]
type=orphan

[effect]
id=slow
type=speed
can_stack=yes
`

func records(t *testing.T, name, text string) RecordSource {
	t.Helper()
	recs, err := ParseRecords(name, strings.NewReader(text))
	require.NoError(t, err)
	return NewSliceSource(recs)
}

func load(t *testing.T, powers ...string) (*Store, LoadReport, *captureHandler) {
	t.Helper()

	h := &captureHandler{}
	opts := LoadOptions{
		Effects:  records(t, "effects.txt", sampleEffects),
		Elements: []string{"fire", "ice"},
		StatKeys: []string{"hp", "crit"},
		Logger:   slog.New(h),
	}
	for i, text := range powers {
		opts.Powers = append(opts.Powers, records(t, fmt.Sprintf("powers%d.txt", i), text))
	}

	store, report := Load(context.Background(), opts)
	return store, report, h
}

func TestLoadEffects(t *testing.T) {
	store, report, h := load(t)

	assert.Equal(t, 3, report.Effects, "entry without id dropped")
	assert.Equal(t, 3, store.Effects())
	assert.Empty(t, h.errors())

	barrier, ok := store.Effect("barrier")
	require.True(t, ok)
	assert.Equal(t, EffectTypeShield, barrier.Type)
	assert.Equal(t, 12, barrier.Icon)
	assert.False(t, barrier.CanStack)

	regen, ok := store.Effect("regen")
	require.True(t, ok)
	assert.True(t, regen.RenderAbove)
	assert.Equal(t, "sparkle", regen.Animation)

	slow, _ := store.Effect("slow")
	assert.True(t, slow.CanStack)

	_, ok = store.Effect("orphan")
	assert.False(t, ok)
}

func TestLoadEffects_UnknownKeyIsRecoverable(t *testing.T) {
	h := &captureHandler{}
	store, report := Load(context.Background(), LoadOptions{
		Effects: records(t, "effects.txt", "[effect]\nid=a\nwobble=3\ntype=heal\n[effect]\nid=b\n"),
		Logger:  slog.New(h),
	})

	assert.Equal(t, 2, report.Effects)
	assert.Equal(t, 1, report.Problems)
	require.Len(t, h.errors(), 1)
	assert.Equal(t, "wobble", h.errors()[0].attrs["key"])
	assert.Equal(t, int64(3), h.errors()[0].attrs["line"])

	a, _ := store.Effect("a")
	assert.Equal(t, "heal", a.Type, "keys after the bad one still apply")
}

func TestLoadEffects_TrailingEmptySectionDropped(t *testing.T) {
	store, report := Load(context.Background(), LoadOptions{
		Effects: records(t, "effects.txt", "[effect]\nid=a\n[effect]\ntype=heal\n"),
		Logger:  slog.New(&captureHandler{}),
	})
	assert.Equal(t, 1, report.Effects)
	_, ok := store.Effect("")
	assert.False(t, ok)
}

const fullPower = `
id=4
type=missile
name=Ice Shard
description=A shard of ice
icon=33
new_state=swing
face=true
source_type=enemy
beacon=true
count=3
passive=true
passive_trigger=on_halfdeath
meta_power=true
requires_flags=melee,shield
requires_mp=12
requires_hp=4
sacrifice=true
requires_los=true
requires_empty_target=true
requires_item=1001
requires_equipped_item=2002,3
requires_targeting=true
cooldown=1500ms
animation=shard
soundfx=crack
directional=true
visual_random=2
visual_option=1
aim_assist=true
speed=300
lifespan=2s
floor=true
complete_animation=true
use_hazard=true
no_attack=true
radius=0.75
base_damage=ment
starting_pos=melee
multitarget=true
trait_armor_penetration=true
trait_avoidance_ignore=true
trait_crits_impaired=25
trait_elemental=ice
target_range=6.5
hp_steal=3
mp_steal=4
missile_angle=15
angle_variance=5
speed_variance=1.5
delay=250
transform_duration=10s
manual_untransform=true
keep_equipment=true
untransform_on_hit=true
buff=true
buff_teleport=true
buff_party=true
buff_party_power_id=2
post_effect=barrier,10,5s
post_effect=ice_resist,20
post_power=1
wall_power=2
spawn_type=wolf
target_neighbor=2
spawn_limit=stat,1,3,mental
spawn_level=stat,2,4,offense
target_party=true
target_categories=undead,beast
target_movement_normal=false
target_movement_flying=false
target_movement_intangible=true
walls_block_aoe=true
modifier_accuracy=multiply,120
modifier_damage=absolute,5,9
modifier_critical=add,10
loot=gold,fixed,5,10,gem,25

id=1
type=fixed

id=2
type=fixed
`

func TestLoadPowers_AllFields(t *testing.T) {
	store, report, h := load(t, fullPower)

	// requires_equipped_item quantity clamp is the only expected problem
	require.Len(t, h.errors(), 1, "%v", h.errors())
	assert.Equal(t, 1, report.Problems)
	assert.Equal(t, 3, report.Powers)
	assert.Equal(t, 5, store.Len())

	p, ok := store.Power(4)
	require.True(t, ok)

	assert.Equal(t, PowerDef{
		ID:                           4,
		Type:                         PowerTypeMissile,
		Name:                         "Ice Shard",
		Description:                  "A shard of ice",
		Icon:                         33,
		NewState:                     PowerStateAttack,
		AttackAnim:                   "swing",
		Face:                         true,
		SourceType:                   SourceTypeEnemy,
		Beacon:                       true,
		Count:                        3,
		MetaPower:                    true,
		Passive:                      true,
		PassiveTrigger:               TriggerHalfDeath,
		RequiresFlags:                map[string]struct{}{"melee": {}, "shield": {}},
		RequiresMP:                   12,
		RequiresHP:                   4,
		Sacrifice:                    true,
		RequiresLOS:                  true,
		RequiresEmptyTarget:          true,
		RequiresItem:                 1001,
		RequiresItemQuantity:         1,
		RequiresEquippedItem:         2002,
		RequiresEquippedItemQuantity: 1,
		RequiresTargeting:            true,
		CooldownMs:                   1500,
		Animation:                    "shard",
		SoundFX:                      "crack",
		Directional:                  true,
		VisualRandom:                 2,
		VisualOption:                 1,
		AimAssist:                    true,
		Speed:                        300,
		LifespanMs:                   2000,
		Floor:                        true,
		CompleteAnimation:            true,
		UseHazard:                    true,
		NoAttack:                     true,
		Radius:                       0.75,
		BaseDamage:                   BaseDamageMental,
		StartingPos:                  StartingPosMelee,
		Multitarget:                  true,
		TraitArmorPenetration:        true,
		TraitAvoidanceIgnore:         true,
		TraitCritsImpaired:           25,
		TraitElemental:               1,
		TargetRange:                  6.5,
		HPSteal:                      3,
		MPSteal:                      4,
		MissileAngle:                 15,
		AngleVariance:                5,
		SpeedVariance:                1.5,
		DelayMs:                      250,
		TransformDurationMs:          10_000,
		ManualUntransform:            true,
		KeepEquipment:                true,
		UntransformOnHit:             true,
		Buff:                         true,
		BuffTeleport:                 true,
		BuffParty:                    true,
		BuffPartyPowerID:             2,
		PostEffects: []PostEffect{
			{ID: "barrier", Magnitude: 10, DurationMs: 5000},
			{ID: "ice_resist", Magnitude: 20},
		},
		PostPower:                1,
		WallPower:                2,
		SpawnType:                "wolf",
		TargetNeighbor:           2,
		SpawnLimitMode:           SpawnLimitStat,
		SpawnLimitQty:            1,
		SpawnLimitEvery:          3,
		SpawnLimitStat:           PrimaryStatMental,
		SpawnLevelMode:           SpawnLevelStat,
		SpawnLevelQty:            2,
		SpawnLevelEvery:          4,
		SpawnLevelStat:           PrimaryStatOffense,
		TargetParty:              true,
		TargetCategories:         []string{"undead", "beast"},
		TargetMovementNormal:     false,
		TargetMovementFlying:     false,
		TargetMovementIntangible: true,
		WallsBlockAOE:            true,
		ModAccuracyMode:          StatModifierMultiply,
		ModAccuracyValue:         120,
		ModDamageMode:            StatModifierAbsolute,
		ModDamageMin:             5,
		ModDamageMax:             9,
		ModCritMode:              StatModifierAdd,
		ModCritValue:             10,
		Loot: []LootEntry{
			{ItemID: "gold", Chance: 0, QuantityMin: 5, QuantityMax: 10},
			{ItemID: "gem", Chance: 25, QuantityMin: 1, QuantityMax: 1},
		},
	}, p)
}

func TestLoadPowers_Defaults(t *testing.T) {
	store, _, _ := load(t, "id=3\ntype=fixed\n")

	p, ok := store.Power(3)
	require.True(t, ok)
	assert.Equal(t, 1, p.Count)
	assert.Equal(t, -1, p.RequiresItem)
	assert.Equal(t, -1, p.RequiresEquippedItem)
	assert.Equal(t, -1, p.TraitElemental)
	assert.Equal(t, TriggerUnconditional, p.PassiveTrigger)
	assert.True(t, p.TargetMovementNormal)

	gap, ok := store.Power(2)
	require.True(t, ok, "table grows to the highest id")
	assert.Equal(t, PowerTypeNone, gap.Type)

	_, ok = store.Power(0)
	assert.False(t, ok)
	_, err := store.Lookup(4)
	assert.ErrorIs(t, err, ErrInvalidPowerID)
}

func TestLoadPowers_LastWriteWinsPerField(t *testing.T) {
	store, _, _ := load(t, `
id=1
type=fixed
name=First
requires_mp=5

id=2
type=missile

id=1
name=Second
count=4
`, `
id=1
requires_mp=9
`)

	p, _ := store.Power(1)
	assert.Equal(t, PowerTypeFixed, p.Type)
	assert.Equal(t, "Second", p.Name)
	assert.Equal(t, 4, p.Count)
	assert.Equal(t, 9, p.RequiresMP, "later source overrides")
}

func TestLoadPowers_PostEffectsAccumulateAcrossBlocks(t *testing.T) {
	store, _, _ := load(t, `
id=1
type=fixed
post_effect=barrier,1,1s

id=2
type=fixed
post_effect=regen,1

id=1
post_effect=slow,2,2s
loot=gold
`)

	p, _ := store.Power(1)
	require.Len(t, p.PostEffects, 2)
	assert.Equal(t, "barrier", p.PostEffects[0].ID)
	assert.Equal(t, "slow", p.PostEffects[1].ID)

	p2, _ := store.Power(2)
	assert.Equal(t, []PostEffect{{ID: "regen", Magnitude: 1}}, p2.PostEffects)
}

func TestLoadPowers_LaterSourceReplacesLists(t *testing.T) {
	store, _, _ := load(t, `
id=1
type=fixed
post_effect=barrier,1
post_effect=regen,1
loot=gold
`, `
id=1
post_effect=slow,3
post_effect=crit,4
`)

	p, _ := store.Power(1)
	assert.Equal(t, []PostEffect{{ID: "slow", Magnitude: 3}, {ID: "crit", Magnitude: 4}}, p.PostEffects)
	assert.Equal(t, []LootEntry{{ItemID: "gold", QuantityMin: 1, QuantityMax: 1}}, p.Loot, "loot untouched by the second source")
}

func TestLoadPowers_BadIDSkipsBlock(t *testing.T) {
	store, report, h := load(t, `
id=1
type=fixed
id=0
type=missile
name=Lost
id=-3
name=AlsoLost
id=1
name=Kept
`)

	p, _ := store.Power(1)
	assert.Equal(t, PowerTypeFixed, p.Type)
	assert.Equal(t, "Kept", p.Name)
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, 2, report.Problems)
	for _, e := range h.errors() {
		assert.Contains(t, e.msg, "power index out of bounds")
	}
}

func TestLoadPowers_RecoverableErrors(t *testing.T) {
	store, report, h := load(t, `
name=Before
id=1
type=laser
type=fixed
source_type=martian
base_damage=psychic
starting_pos=sky
passive_trigger=on_sneeze
trait_elemental=plasma
post_effect=nonsense,1
post_effect=barrier,2
modifier_damage=double,2
spawn_limit=sometimes
spawn_level=random
loot=gold,150
frobnicate=1
count=abc
angle_variance=-5
missile_angle=xx
`)

	assert.Equal(t, 16, report.Problems)
	assert.Len(t, h.errors(), 16)

	p, _ := store.Power(1)
	assert.Equal(t, PowerTypeFixed, p.Type)
	assert.Equal(t, []PostEffect{{ID: "barrier", Magnitude: 2}}, p.PostEffects)
	assert.Equal(t, 100, p.Loot[0].Chance)
	assert.Equal(t, -1, p.TraitElemental)
	assert.Equal(t, 1, p.Count)
	assert.Zero(t, p.AngleVariance)
}

func TestLoadPowers_ChainsVerified(t *testing.T) {
	store, report, h := load(t, `
id=1
type=fixed
post_power=7
wall_power=2

id=2
type=fixed
post_power=0
wall_power=-1
`)

	p1, _ := store.Power(1)
	assert.Zero(t, p1.PostPower)
	assert.Equal(t, 2, p1.WallPower)

	p2, _ := store.Power(2)
	assert.Zero(t, p2.PostPower)
	assert.Zero(t, p2.WallPower)

	errs := h.errors()
	require.Len(t, errs, 2, "one error per invalid reference, none for 0")
	assert.Equal(t, 2, report.Problems)

	assert.Equal(t, "post_power", errs[0].attrs["key"])
	assert.Equal(t, int64(4), errs[0].attrs["line"])
	assert.Equal(t, "powers0.txt", errs[0].attrs["file"])
	assert.Equal(t, "wall_power", errs[1].attrs["key"])
	assert.Equal(t, int64(10), errs[1].attrs["line"])
}

func TestLoadPowers_ChainCheckedAgainstFinalTable(t *testing.T) {
	// post_power names an id introduced by a later source
	_, report, h := load(t, "id=1\ntype=fixed\npost_power=5\n", "id=5\ntype=fixed\n")

	assert.Zero(t, report.Problems)
	assert.Empty(t, h.errors())
}

func TestLoadPowers_MalformedNumbers(t *testing.T) {
	store, report, h := load(t, `
id=2
type=missile
count=abc
angle_variance=-5
missile_angle=xx
radius=-1
speed=fast
lifespan=soon
cooldown=-2s
target_neighbor=-1
hp_steal=lots
target_range=-3,1
post_effect=barrier,4,later
icon=7
requires_mp=3
`)

	assert.Equal(t, 11, report.Problems)
	assert.Len(t, h.errors(), 11)

	p, ok := store.Power(2)
	require.True(t, ok)
	assert.Equal(t, 1, p.Count, "default kept")
	assert.Zero(t, p.AngleVariance)
	assert.Zero(t, p.MissileAngle)
	assert.Zero(t, p.Radius)
	assert.Zero(t, p.Speed)
	assert.Zero(t, p.LifespanMs)
	assert.Zero(t, p.CooldownMs)
	assert.Zero(t, p.TargetNeighbor)
	assert.Zero(t, p.HPSteal)
	assert.Zero(t, p.TargetRange)
	assert.Equal(t, []PostEffect{{ID: "barrier", Magnitude: 4}}, p.PostEffects)
	assert.Equal(t, 7, p.Icon, "valid lines after bad ones still apply")
	assert.Equal(t, 3, p.RequiresMP)
}

func TestLoadPowers_MalformedNumberKeepsEarlierValue(t *testing.T) {
	store, report, _ := load(t, "id=1\ntype=fixed\ncount=3\n", "id=1\ncount=-2\n")

	assert.Equal(t, 1, report.Problems)
	p, _ := store.Power(1)
	assert.Equal(t, 3, p.Count)
}

func TestVerifyID(t *testing.T) {
	store, _, _ := load(t, "id=3\ntype=fixed\n")

	tests := []struct {
		name      string
		id        int
		allowZero bool
		want      int
		errors    int
	}{
		{"valid", 2, false, 2, 0},
		{"highest", 3, false, 3, 0},
		{"zero rejected", 0, false, 0, 1},
		{"zero allowed", 0, true, 0, 0},
		{"negative", -1, false, 0, 1},
		{"negative with zero allowed", -1, true, 0, 1},
		{"table size", 4, false, 0, 1},
		{"beyond", 40, true, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &captureHandler{}
			store.log = slog.New(h)

			assert.Equal(t, tt.want, store.VerifyID(tt.id, tt.allowZero))
			assert.Len(t, h.errors(), tt.errors)
		})
	}
}

func TestIsValidEffect(t *testing.T) {
	store, _, _ := load(t)

	for _, id := range []string{
		"speed", "physical", "mental", "offense", "defense",
		"hp", "crit",
		"fire_resist", "ice_resist",
		"barrier", "regen", "slow",
	} {
		assert.True(t, store.IsValidEffect(id), id)
	}

	for _, id := range []string{"", "orphan", "poison_resist", "fire", "xyzzy"} {
		assert.False(t, store.IsValidEffect(id), id)
	}
}

func TestFingerprint(t *testing.T) {
	a, _, _ := load(t, fullPower)
	b, _, _ := load(t, fullPower)
	c, _, _ := load(t, "id=1\ntype=fixed\n")

	assert.Len(t, a.Fingerprint(), 64)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestEach(t *testing.T) {
	store, _, _ := load(t, "id=1\ntype=fixed\nid=3\ntype=spawn\n")

	var ids []int
	store.Each(func(p PowerDef) { ids = append(ids, p.ID) })
	assert.Equal(t, []int{1, 3}, ids)
}
