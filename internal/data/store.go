package data

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/powercore/internal/telemetry"
)

// ErrInvalidPowerID is returned by Lookup for ids outside the power table.
var ErrInvalidPowerID = errors.New("invalid power id")

// Stat-like effect keywords that are always valid post_effect ids.
var builtinEffectKeys = []string{"speed", "physical", "mental", "offense", "defense"}

// Store holds the loaded effect and power tables.
// Read-only after Load returns.
type Store struct {
	effects     []EffectDef
	effectIndex map[string]int

	// powers is indexed by power id; slot 0 is never a valid power.
	powers []PowerDef

	elements    []string
	validEffect map[string]struct{}
	fingerprint string

	log *slog.Logger
}

// LoadOptions configures a definition load.
type LoadOptions struct {
	Effects RecordSource
	// Powers are applied in order; later sources override earlier ones.
	Powers []RecordSource

	Elements []string
	StatKeys []string

	// Logger receives load-time schema errors. Defaults to slog.Default().
	Logger *slog.Logger
}

// LoadReport summarizes a load.
type LoadReport struct {
	Effects     int
	Powers      int
	Records     int
	Problems    int
	Fingerprint string
}

// loader carries per-load state.
type loader struct {
	store    *Store
	log      *slog.Logger
	hash     hash.Hash
	records  int
	problems int

	// last record that set each chained power reference
	chainRecs map[chainRef]Record
}

// Load builds a Store from effect and power record streams.
// Schema problems are logged and counted; they never abort the load.
func Load(ctx context.Context, opts LoadOptions) (*Store, LoadReport) {
	_, span := telemetry.Tracer("data").Start(ctx, "data.Load")
	defer span.End()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		elements:    opts.Elements,
		validEffect: make(map[string]struct{}),
		log:         logger,
	}
	for _, k := range builtinEffectKeys {
		s.validEffect[k] = struct{}{}
	}
	for _, k := range opts.StatKeys {
		s.validEffect[k] = struct{}{}
	}
	for _, el := range opts.Elements {
		s.validEffect[el+"_resist"] = struct{}{}
	}

	h, _ := blake2b.New256(nil) // only fails for oversized keys
	l := &loader{store: s, log: logger, hash: h, chainRecs: make(map[chainRef]Record)}

	if opts.Effects != nil {
		l.loadEffects(opts.Effects)
	}
	for _, src := range opts.Powers {
		if src != nil {
			l.loadPowers(src)
		}
	}
	l.verifyChains()

	s.fingerprint = hex.EncodeToString(l.hash.Sum(nil))

	report := LoadReport{
		Effects:     len(s.effects),
		Powers:      s.countPowers(),
		Records:     l.records,
		Problems:    l.problems,
		Fingerprint: s.fingerprint,
	}

	span.SetAttributes(
		attribute.Int("effects", report.Effects),
		attribute.Int("powers", report.Powers),
		attribute.Int("problems", report.Problems),
	)

	logger.Info("loaded power definitions",
		"effects", report.Effects,
		"powers", report.Powers,
		"records", report.Records,
		"problems", report.Problems,
		"fingerprint", report.Fingerprint)

	return s, report
}

// consume feeds a record into the content fingerprint.
func (l *loader) consume(rec Record) {
	l.records++
	fmt.Fprintf(l.hash, "%s\x00%s\x00%s\n", rec.Section, rec.Key, rec.Val)
}

// errorf reports a recoverable schema problem for rec.
func (l *loader) errorf(rec Record, format string, args ...any) {
	l.problems++
	l.log.Error(fmt.Sprintf(format, args...),
		"file", rec.File,
		"line", rec.Line,
		"key", rec.Key)
}

// growPowers makes id addressable, filling new slots with defaults.
func (s *Store) growPowers(id int) {
	for len(s.powers) < id+1 {
		s.powers = append(s.powers, newPowerDef(len(s.powers)))
	}
}

func (s *Store) countPowers() int {
	n := 0
	for i := 1; i < len(s.powers); i++ {
		if s.powers[i].Type != PowerTypeNone {
			n++
		}
	}
	return n
}

func (s *Store) elementIndex(id string) int {
	for i, el := range s.elements {
		if el == id {
			return i
		}
	}
	return -1
}

// Len returns the size of the power table (highest id + 1).
func (s *Store) Len() int {
	return len(s.powers)
}

// Power returns a snapshot of the power with the given id.
// Returns false for ids outside 1..Len()-1.
func (s *Store) Power(id int) (PowerDef, bool) {
	if id < 1 || id >= len(s.powers) {
		return PowerDef{}, false
	}
	return s.powers[id], true
}

// Lookup is Power with an error result.
func (s *Store) Lookup(id int) (PowerDef, error) {
	p, ok := s.Power(id)
	if !ok {
		return PowerDef{}, fmt.Errorf("power %d: %w", id, ErrInvalidPowerID)
	}
	return p, nil
}

// Effect returns the effect definition with the given id.
func (s *Store) Effect(id string) (EffectDef, bool) {
	i, ok := s.effectIndex[id]
	if !ok {
		return EffectDef{}, false
	}
	return s.effects[i], true
}

// Effects returns the number of loaded effect definitions.
func (s *Store) Effects() int {
	return len(s.effects)
}

// Elements returns the element ids in index order.
func (s *Store) Elements() []string {
	return s.elements
}

// VerifyID returns id if it addresses the power table, otherwise logs one error and returns 0.
// With allowZero, 0 is accepted as "no power".
func (s *Store) VerifyID(id int, allowZero bool) int {
	if s.validID(id, allowZero) {
		return id
	}
	s.log.Error("not a valid power id", "id", id, "table_size", len(s.powers))
	return 0
}

func (s *Store) validID(id int, allowZero bool) bool {
	if allowZero && id == 0 {
		return true
	}
	return id >= 1 && id < len(s.powers)
}

// IsValidEffect reports whether a post_effect id is known: a built-in stat keyword,
// a declared stat key, an element resistance or a loaded effect definition.
func (s *Store) IsValidEffect(id string) bool {
	if _, ok := s.validEffect[id]; ok {
		return true
	}
	_, ok := s.effectIndex[id]
	return ok
}

// Fingerprint returns the blake2b-256 hex digest of all loaded records.
func (s *Store) Fingerprint() string {
	return s.fingerprint
}

// Each calls fn for every typed power in id order.
func (s *Store) Each(fn func(PowerDef)) {
	for i := 1; i < len(s.powers); i++ {
		if s.powers[i].Type != PowerTypeNone {
			fn(s.powers[i])
		}
	}
}
