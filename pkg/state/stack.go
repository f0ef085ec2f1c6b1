package state

// Stack is a reversible append-only stack. Elements pushed after a mark
// disappear when the mark is restored. The backing slice is reused, so
// Push after a restore overwrites the rolled-back slots.
type Stack[T any] struct {
	size  *Int
	items []T
}

// NewStack creates an empty reversible stack owned by m.
func NewStack[T any](m Manager) *Stack[T] {
	return &Stack[T]{size: m.MakeInt(0)}
}

// Push appends v.
func (s *Stack[T]) Push(v T) {
	n := s.size.Value()
	if len(s.items) > n {
		var zero T
		for i := n; i < len(s.items); i++ {
			s.items[i] = zero
		}
		s.items = s.items[:n]
	}
	s.items = append(s.items, v)
	s.size.SetValue(n + 1)
}

// Size returns the number of live elements.
func (s *Stack[T]) Size() int { return s.size.Value() }

// Get returns the i-th element, 0 being the oldest.
func (s *Stack[T]) Get(i int) T {
	if i < 0 || i >= s.size.Value() {
		panic("state: stack index out of range")
	}
	return s.items[i]
}

// Each calls f for every live element, oldest first.
func (s *Stack[T]) Each(f func(T)) {
	n := s.size.Value()
	for i := 0; i < n; i++ {
		f(s.items[i])
	}
}
