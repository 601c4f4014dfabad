package resolver

// scope tracks declarations for one lexical block. A name maps to false
// between its declaration and the end of its initializer.
type scope map[string]bool

type scopeStack []scope

func (s *scopeStack) push() {
	*s = append(*s, make(scope))
}

func (s *scopeStack) pop() {
	*s = (*s)[:len(*s)-1]
}

func (s scopeStack) empty() bool {
	return len(s) == 0
}

func (s scopeStack) innermost() scope {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

// distance returns the number of frames between the innermost scope and the
// one declaring name.
func (s scopeStack) distance(name string) (int, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if _, ok := s[i][name]; ok {
			return len(s) - 1 - i, true
		}
	}
	return 0, false
}
