package types

// Set is a generic hash set implementation for comparable types.
//
// It provides membership tests and insertion using a map[T]struct{}
// internally. This type is mutable: Add and TryAdd modify the set in place.
type Set[T comparable] map[T]struct{}

// NewSet creates a new Set and optionally inserts the provided elements.
func NewSet[T comparable](data ...T) Set[T] {
	set := make(Set[T], len(data))
	for _, d := range data {
		set[d] = struct{}{}
	}

	return set
}

// Add inserts one or more elements into the set.
func (s Set[T]) Add(values ...T) {
	for _, val := range values {
		s[val] = struct{}{}
	}
}

// TryAdd inserts value and reports whether it was absent before the call.
func (s Set[T]) TryAdd(value T) bool {
	if s.Has(value) {
		return false
	}

	s[value] = struct{}{}
	return true
}

// Has reports whether value is in the set.
func (s Set[T]) Has(value T) bool {
	_, ok := s[value]
	return ok
}
