package shared

// ══════════════════════════════════════════════════════════════════════════════
// PREDICATE COMBINATORS
// Composable boolean predicates for filtering in-memory entity snapshots.
// Plain function values compose the same way a specification hierarchy would,
// without the type ceremony.
// ══════════════════════════════════════════════════════════════════════════════

// Predicate is a composable boolean test over T.
type Predicate[T any] func(T) bool

// And returns a predicate satisfied when both p and other hold.
func (p Predicate[T]) And(other Predicate[T]) Predicate[T] {
	return func(v T) bool {
		return p(v) && other(v)
	}
}

// Or returns a predicate satisfied when either p or other holds.
func (p Predicate[T]) Or(other Predicate[T]) Predicate[T] {
	return func(v T) bool {
		return p(v) || other(v)
	}
}

// Not returns the negation of p.
func (p Predicate[T]) Not() Predicate[T] {
	return func(v T) bool {
		return !p(v)
	}
}

// AllOf combines predicates with AND. An empty list matches everything.
func AllOf[T any](preds ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range preds {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

// AnyOf combines predicates with OR. An empty list matches nothing.
func AnyOf[T any](preds ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range preds {
			if p(v) {
				return true
			}
		}
		return false
	}
}

// Filter returns the items satisfying p, preserving order.
func Filter[T any](items []T, p Predicate[T]) []T {
	var out []T
	for _, item := range items {
		if p(item) {
			out = append(out, item)
		}
	}
	return out
}

// Count returns the number of items satisfying p.
func Count[T any](items []T, p Predicate[T]) int {
	n := 0
	for _, item := range items {
		if p(item) {
			n++
		}
	}
	return n
}
