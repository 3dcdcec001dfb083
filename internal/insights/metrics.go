// Package insights holds the derived financial metrics behind the dashboard:
// the 50/30/20 budget rule, investment allocation, goal alerts and the
// month-end projection. Everything here is a pure computation over data the
// caller already fetched; bad input degrades to defined defaults instead of
// returning errors.
package insights

import (
	"encoding/json"
	"math"
	"strconv"
)

// Percentage is current over target, in percent. A target of zero or less
// yields 0 so callers never divide by zero.
func Percentage(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return current / target * 100
}

// VariationKind discriminates the three outcomes of a period comparison.
type VariationKind int

const (
	// VariationNone means no comparison is possible (non-finite input).
	VariationNone VariationKind = iota
	// VariationNew means the value appeared this period (previous was zero).
	VariationNew
	// VariationPercent means Percent holds the signed relative change.
	VariationPercent
)

// Variation is the result of comparing a value against the prior period.
type Variation struct {
	Kind    VariationKind
	Percent float64
}

// VariationOf compares current against previous:
//   - either input non-finite → no comparison
//   - both exactly zero → 0% (no change, not "new")
//   - previous zero, current not → new (division by zero is undefined)
//   - otherwise the signed relative change, re-checked for finiteness
func VariationOf(current, previous float64) Variation {
	if !isFinite(current) || !isFinite(previous) {
		return Variation{Kind: VariationNone}
	}
	if current == 0 && previous == 0 {
		return Variation{Kind: VariationPercent, Percent: 0}
	}
	if previous == 0 {
		return Variation{Kind: VariationNew}
	}
	pct := (current - previous) / previous * 100
	if !isFinite(pct) {
		return Variation{Kind: VariationNone}
	}
	return Variation{Kind: VariationPercent, Percent: pct}
}

// String renders the variation the way the dashboard shows it.
func (v Variation) String() string {
	switch v.Kind {
	case VariationNew:
		return "Novo"
	case VariationPercent:
		return strconv.FormatFloat(v.Percent, 'f', 1, 64) + "%"
	default:
		return "—"
	}
}

// MarshalJSON emits null for "no comparison", the string "novo" for a new
// value, and a bare number otherwise.
func (v Variation) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case VariationNew:
		return json.Marshal("novo")
	case VariationPercent:
		return json.Marshal(v.Percent)
	default:
		return []byte("null"), nil
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
