package data

import (
	"strconv"
	"strings"
)

// Numeric field readers for the loaders. A malformed or out-of-range value is
// reported against rec and the field keeps cur.

func (l *loader) intVal(rec Record, cur int) int {
	n, err := strconv.Atoi(strings.TrimSpace(rec.Val))
	if err != nil {
		l.errorf(rec, "%q is not a valid integer", rec.Val)
		return cur
	}
	return n
}

func (l *loader) nonNegInt(rec Record, cur int) int {
	n, err := strconv.Atoi(strings.TrimSpace(rec.Val))
	if err != nil {
		l.errorf(rec, "%q is not a valid integer", rec.Val)
		return cur
	}
	if n < 0 {
		l.errorf(rec, "%s must not be negative, got %d", rec.Key, n)
		return cur
	}
	return n
}

func (l *loader) nonNegFloat(rec Record, cur float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(rec.Val), 64)
	if err != nil {
		l.errorf(rec, "%q is not a valid number", rec.Val)
		return cur
	}
	if f < 0 {
		l.errorf(rec, "%s must not be negative, got %g", rec.Key, f)
		return cur
	}
	return f
}

func (l *loader) duration(rec Record, cur int) int {
	ms, ok := parseDuration(rec.Val)
	if !ok {
		l.errorf(rec, "%q is not a valid duration", rec.Val)
		return cur
	}
	return ms
}
