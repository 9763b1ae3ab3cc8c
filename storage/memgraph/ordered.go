package memgraph

// orderedSet keeps insertion order for a set of identifiers.  Removal leaves a
// tombstone that is compacted once tombstones outnumber live members.
type orderedSet struct {
	ids  []string
	live []bool
	pos  map[string]int
	dead int
}

func newOrderedSet() *orderedSet {
	return &orderedSet{pos: make(map[string]int)}
}

// add returns false if id was already a member.
func (s *orderedSet) add(id string) bool {
	if _, found := s.pos[id]; found {
		return false
	}
	s.pos[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.live = append(s.live, true)
	return true
}

// remove returns false if id was not a member.
func (s *orderedSet) remove(id string) bool {
	i, found := s.pos[id]
	if !found {
		return false
	}
	delete(s.pos, id)
	s.live[i] = false
	s.ids[i] = ""
	s.dead++
	if s.dead > 16 && s.dead > len(s.pos) {
		s.compact()
	}
	return true
}

func (s *orderedSet) contains(id string) bool {
	_, found := s.pos[id]
	return found
}

func (s *orderedSet) len() int {
	return len(s.pos)
}

// snapshot returns the members in insertion order.  The returned slice is not
// shared with the set.
func (s *orderedSet) snapshot() []string {
	out := make([]string, 0, len(s.pos))
	for i, id := range s.ids {
		if s.live[i] {
			out = append(out, id)
		}
	}
	return out
}

func (s *orderedSet) compact() {
	ids := make([]string, 0, len(s.pos))
	for i, id := range s.ids {
		if s.live[i] {
			s.pos[id] = len(ids)
			ids = append(ids, id)
		}
	}
	s.ids = ids
	s.live = make([]bool, len(ids))
	for i := range s.live {
		s.live[i] = true
	}
	s.dead = 0
}
