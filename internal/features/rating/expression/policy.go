package expression

import "math"

// DefaultMaxDepth is the group nesting limit used when none is configured.
const DefaultMaxDepth = 64

// Policy holds the fail-open numeric rules of the evaluator in one place.
// Rules are authored by users, so none of these situations may abort rating.
type Policy struct {
	// MissingField is the value a field resolves to when absent from the context.
	MissingField float64
	// DivideByZero is the result of x / 0.
	DivideByZero float64
	// MaxDepth caps group nesting. A group deeper than this evaluates to false.
	MaxDepth int
}

// FailOpen is the policy the rating engine runs with.
var FailOpen = Policy{
	MissingField: 0,
	DivideByZero: 0,
	MaxDepth:     DefaultMaxDepth,
}

// Resolve looks up name in ctx, falling back to MissingField.
func (p Policy) Resolve(ctx Context, name string) float64 {
	v, ok := ctx[name]
	if !ok {
		return p.MissingField
	}
	return p.Sanitize(v)
}

// Divide returns a / b, or DivideByZero when b is zero.
func (p Policy) Divide(a, b float64) float64 {
	if b == 0 {
		return p.DivideByZero
	}
	return p.Sanitize(a / b)
}

// Sanitize maps NaN and ±Inf to 0 so they never leak into fee amounts.
func (p Policy) Sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// TooDeep reports whether depth exceeds the configured cap.
func (p Policy) TooDeep(depth int) bool {
	limit := p.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	return depth > limit
}
