package roads

// Streamlines stores the committed streamlines of one road class, split
// by direction. Lists are insertion-ordered; order only matters for
// deterministic output.
type Streamlines struct {
	major []Streamline
	minor []Streamline
}

// Add appends a streamline to the direction's list.
func (s *Streamlines) Add(line Streamline, dir Direction) {
	if dir == Major {
		s.major = append(s.major, line)
	} else {
		s.minor = append(s.minor, line)
	}
}

// Get returns the live list for a direction. The generator rewrites
// entries in place when joining endpoints; other callers treat the
// result as read-only.
func (s *Streamlines) Get(dir Direction) []Streamline {
	if dir == Major {
		return s.major
	}
	return s.minor
}

// Len returns the number of streamlines laid in the given direction.
func (s *Streamlines) Len(dir Direction) int {
	if dir == Major {
		return len(s.major)
	}
	return len(s.minor)
}

// Clear drops all streamlines.
func (s *Streamlines) Clear() {
	s.major = s.major[:0]
	s.minor = s.minor[:0]
}
