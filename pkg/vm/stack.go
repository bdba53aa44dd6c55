package vm

import "github.com/agenthands/rpncalc/pkg/core/value"

// Stack is the LIFO value stack. The zero value is an empty stack.
type Stack struct {
	cells []value.Value
}

// Push adds a value to the top of the stack.
func (s *Stack) Push(v value.Value) {
	s.cells = append(s.cells, v)
}

// Pop removes and returns the top value. Panics on underflow; callers check
// Len first.
func (s *Stack) Pop() value.Value {
	n := len(s.cells)
	if n == 0 {
		panic(ErrStackUnderflow)
	}
	v := s.cells[n-1]
	s.cells[n-1] = value.Value{}
	s.cells = s.cells[:n-1]
	return v
}

// Len returns the number of cells on the stack.
func (s *Stack) Len() int {
	return len(s.cells)
}

// Peek returns the cell i positions below the top (0 is the top).
func (s *Stack) Peek(i int) value.Value {
	return s.cells[len(s.cells)-1-i]
}

// Values returns a copy of the stack, bottom first.
func (s *Stack) Values() []value.Value {
	out := make([]value.Value, len(s.cells))
	copy(out, s.cells)
	return out
}

// Clear empties the stack.
func (s *Stack) Clear() {
	// Zero out cells so variable names are not retained by the backing array.
	for i := range s.cells {
		s.cells[i] = value.Value{}
	}
	s.cells = s.cells[:0]
}
