package data

import (
	"strconv"
	"strings"
)

// Tokens is a comma separated compound value consumed left to right.
type Tokens struct {
	rest string
	done bool
}

// NewTokens wraps a raw value for positional parsing.
func NewTokens(val string) *Tokens {
	return &Tokens{rest: val, done: val == ""}
}

// Empty reports whether all tokens were consumed.
func (t *Tokens) Empty() bool { return t.done }

// PopString returns the next token, "" when exhausted.
func (t *Tokens) PopString() string {
	if t.done {
		return ""
	}
	tok, rest, found := strings.Cut(t.rest, ",")
	if !found {
		t.done = true
		t.rest = ""
	} else {
		t.rest = rest
	}
	return strings.TrimSpace(tok)
}

// PopInt returns the next token as int, def when missing or malformed.
func (t *Tokens) PopInt(def int) int {
	return ParseInt(t.PopString(), def)
}

// PopFloat returns the next token as float64, 0 when missing or malformed.
func (t *Tokens) PopFloat() float64 {
	return ParseFloat(t.PopString())
}

// ParseInt parses a decimal integer, def on failure.
func ParseInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// ParseFloat parses a float, 0 on failure.
func ParseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// ParseBool accepts true/yes/1 (case-insensitive).
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}

// ParseDuration converts "250", "250ms" or "2s" into milliseconds.
// Malformed or negative values yield 0.
func ParseDuration(s string) int {
	ms, ok := parseDuration(s)
	if !ok {
		return 0
	}
	return ms
}

// parseDuration reports false for malformed or negative durations.
func parseDuration(s string) (int, bool) {
	s = strings.TrimSpace(s)

	var ms int
	switch {
	case strings.HasSuffix(s, "ms"):
		n, err := strconv.Atoi(strings.TrimSuffix(s, "ms"))
		if err != nil {
			return 0, false
		}
		ms = n
	case strings.HasSuffix(s, "s"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "s"), 64)
		if err != nil {
			return 0, false
		}
		ms = int(f * 1000)
	default:
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		ms = n
	}

	if ms < 0 {
		return 0, false
	}
	return ms, true
}

// Frames converts milliseconds into simulation frames at fps.
// Any positive duration lasts at least one frame.
func Frames(ms, fps int) int {
	if ms <= 0 || fps <= 0 {
		return 0
	}
	return max(ms*fps/1000, 1)
}
