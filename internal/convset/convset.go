package convset

// Entry marks one (command, position, alias) triple whose textual argument
// must be converted to a typed value before dispatch.
type Entry struct {
	Command string
	Index   int
	Alias   string
}

// Set is an insertion-ordered set of conversion entries. Order matters only
// for diagnostics: iterating a plain map would shuffle finding output
// between runs.
type Set struct {
	members map[Entry]struct{}
	order   []Entry
}

func New() *Set {
	return &Set{members: make(map[Entry]struct{})}
}

// Add inserts an entry, ignoring duplicates.
func (s *Set) Add(e Entry) {
	if _, ok := s.members[e]; ok {
		return
	}
	s.members[e] = struct{}{}
	s.order = append(s.order, e)
}

// Contains reports membership of the exact triple.
func (s *Set) Contains(e Entry) bool {
	_, ok := s.members[e]
	return ok
}

// Entries returns all entries in first-encounter order.
func (s *Set) Entries() []Entry {
	return s.order
}

// Len returns the number of distinct entries.
func (s *Set) Len() int {
	return len(s.order)
}
