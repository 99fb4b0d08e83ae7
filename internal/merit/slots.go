package merit

import "strings"

// Optional is a value that is either present or absent.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the value is present.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Or returns the value when present, fallback otherwise.
func (o Optional[T]) Or(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

// Prefer returns o when present, otherwise other.
func (o Optional[T]) Prefer(other Optional[T]) Optional[T] {
	if o.set {
		return o
	}
	return other
}

// Text returns a present Optional for s after trimming, or None when s is blank.
func Text(s string) Optional[string] {
	s = strings.TrimSpace(s)
	if s == "" {
		return None[string]()
	}
	return Some(s)
}

// Slots is the partial extraction result for one utterance.
// Each slot is independently present or absent.
type Slots struct {
	University Optional[string]
	Campus     Optional[string]
	Department Optional[string]
	Program    Optional[string]
	Year       Optional[int]
}

// IsEmpty reports whether no slot is present.
func (s Slots) IsEmpty() bool {
	return !s.University.IsSet() && !s.Campus.IsSet() && !s.Department.IsSet() &&
		!s.Program.IsSet() && !s.Year.IsSet()
}

// Merge returns s with every absent slot filled from fallback.
// Slots present in s are authoritative.
func (s Slots) Merge(fallback Slots) Slots {
	return Slots{
		University: s.University.Prefer(fallback.University),
		Campus:     s.Campus.Prefer(fallback.Campus),
		Department: s.Department.Prefer(fallback.Department),
		Program:    s.Program.Prefer(fallback.Program),
		Year:       s.Year.Prefer(fallback.Year),
	}
}
