package navigation

// Stack is the back stack of visited routes. The last entry is the visible screen.
// A Stack is not safe for concurrent use; the Navigator serialises access.
type Stack struct {
	entries []Route
}

// NewStack returns a stack holding the given routes, bottom first
func NewStack(routes ...Route) *Stack {
	return &Stack{entries: append([]Route(nil), routes...)}
}

// Push makes r the visible route
func (s *Stack) Push(r Route) {
	s.entries = append(s.entries, r)
}

// Pop removes the visible route
func (s *Stack) Pop() (Route, bool) {
	if len(s.entries) == 0 {
		return Route{}, false
	}
	top := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return top, true
}

// Replace swaps the visible route for r, or pushes r onto an empty stack
func (s *Stack) Replace(r Route) {
	if len(s.entries) == 0 {
		s.entries = append(s.entries, r)
		return
	}
	s.entries[len(s.entries)-1] = r
}

// PopUpTo removes every entry above the most recent route named name.
// With inclusive set, that route is removed as well. It returns false and
// leaves the stack untouched when no such route exists.
func (s *Stack) PopUpTo(name string, inclusive bool) bool {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Name != name {
			continue
		}
		cut := i + 1
		if inclusive {
			cut = i
		}
		s.entries = s.entries[:cut]
		return true
	}
	return false
}

// Clear empties the stack
func (s *Stack) Clear() {
	s.entries = s.entries[:0]
}

// Top returns the visible route
func (s *Stack) Top() (Route, bool) {
	if len(s.entries) == 0 {
		return Route{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Len returns the stack depth
func (s *Stack) Len() int {
	return len(s.entries)
}

// Contains reports whether any entry is named name
func (s *Stack) Contains(name string) bool {
	for _, r := range s.entries {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Entries returns a copy of the stack, bottom first
func (s *Stack) Entries() []Route {
	return append([]Route(nil), s.entries...)
}
