package classification

// state tracks the provisional class of every pixel and whether a rule has
// already closed it.
type state struct {
	codes    []uint8
	resolved []bool
}

func newState(n int) *state {
	s := &state{codes: make([]uint8, n), resolved: make([]bool, n)}
	for i := range s.codes {
		s.codes[i] = Unclassified
	}
	return s
}

// force assigns code to every pixel matching pred, resolved or not.
func (s *state) force(code uint8, pred func(i int) bool) int {
	n := 0
	for i := range s.codes {
		if pred(i) {
			s.codes[i] = code
			s.resolved[i] = true
			n++
		}
	}
	return n
}

// hold closes every pixel matching pred without changing its code.
func (s *state) hold(pred func(i int) bool) int {
	n := 0
	for i := range s.codes {
		if pred(i) {
			s.resolved[i] = true
			n++
		}
	}
	return n
}

// claim assigns code to the unresolved pixels matching pred and closes them.
func (s *state) claim(code uint8, pred func(i int) bool) int {
	n := 0
	for i := range s.codes {
		if !s.resolved[i] && pred(i) {
			s.codes[i] = code
			s.resolved[i] = true
			n++
		}
	}
	return n
}
