package formula

// stack is the evaluator's bounded value stack.
type stack[T any] struct {
	vals []T
	max  int
}

func (s *stack[T]) reset() {
	clear(s.vals)
	s.vals = s.vals[:0]
}

func (s *stack[T]) len() int {
	return len(s.vals)
}

func (s *stack[T]) push(v T) error {
	if len(s.vals) >= s.max {
		return &OverflowError{Max: s.max}
	}
	s.vals = append(s.vals, v)
	return nil
}

func (s *stack[T]) pop() (T, error) {
	if len(s.vals) == 0 {
		var z T
		return z, ErrStackUnderflow
	}
	r := s.vals[len(s.vals)-1]
	s.vals = s.vals[:len(s.vals)-1]
	return r, nil
}

// popn removes the top n values and returns them, oldest first. The result
// aliases the stack's storage and is valid until the next push.
func (s *stack[T]) popn(n int) ([]T, error) {
	if len(s.vals) < n {
		return nil, ErrStackUnderflow
	}
	k := len(s.vals) - n
	r := s.vals[k:len(s.vals):len(s.vals)]
	s.vals = s.vals[:k]
	return r, nil
}
