package names

import "strings"

// Set is an insertion-ordered collection of names deduplicated by their
// normalized form. The first spelling seen for a key is kept as its label.
type Set struct {
	order  []string
	labels map[string]string
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{labels: make(map[string]string)}
}

// Add records name unless an equivalent name is already present. Blank names
// are ignored. It reports whether the name was new.
func (s *Set) Add(name string) bool {
	key := Normalize(name)
	if key == "" {
		return false
	}
	if _, exists := s.labels[key]; exists {
		return false
	}
	s.labels[key] = strings.TrimSpace(name)
	s.order = append(s.order, key)
	return true
}

// Contains reports whether an equivalent name has been added.
func (s *Set) Contains(name string) bool {
	_, ok := s.labels[Normalize(name)]
	return ok
}

// Labels returns the display labels in insertion order.
func (s *Set) Labels() []string {
	out := make([]string, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.labels[key])
	}
	return out
}

// Len returns the number of distinct names.
func (s *Set) Len() int {
	return len(s.order)
}
