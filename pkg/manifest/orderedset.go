package manifest

// OrderedSet is an insertion-ordered string set. Duplicates collapse; the
// first occurrence fixes the position. Not safe for concurrent use.
type OrderedSet struct {
	seen   map[string]struct{}
	values []string
}

// NewOrderedSet creates an OrderedSet, optionally seeded with values.
func NewOrderedSet(values ...string) *OrderedSet {
	s := &OrderedSet{seen: make(map[string]struct{})}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts a value if not already present. Returns true if inserted.
func (s *OrderedSet) Add(v string) bool {
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
	return true
}

// Has reports whether the value is in the set.
func (s *OrderedSet) Has(v string) bool {
	_, ok := s.seen[v]
	return ok
}

// Values returns the members in insertion order. The returned slice is a
// copy.
func (s *OrderedSet) Values() []string {
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

// Len returns the number of members.
func (s *OrderedSet) Len() int {
	return len(s.values)
}
