package vm

import (
	"errors"
	"fmt"

	"github.com/agenthands/rpncalc/pkg/core/value"
)

var (
	ErrInvalidToken       = errors.New("vm: unrecognised token")
	ErrStackUnderflow     = errors.New("vm: stack underflow")
	ErrUnassignedVariable = errors.New("vm: variable not yet assigned")
	ErrInvalidOperands    = errors.New("vm: invalid operands")
	ErrUnknownOperator    = errors.New("vm: unknown operator")
)

// TokenError reports the token that aborted a line.
type TokenError struct {
	Index int // zero-based position of the token in the line
	Token string
	Err   error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token %d %q: %v", e.Index+1, e.Token, e.Err)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// Machine is the interpreter state carried from one line to the next: one
// value stack and one variable environment. The zero value is ready to use.
type Machine struct {
	Stack Stack
	Env   Env
}

// NewMachine returns an empty interpreter state.
func NewMachine() *Machine {
	return &Machine{}
}

// Reset clears both the stack and the environment.
func (m *Machine) Reset() {
	m.Stack.Clear()
	m.Env.Clear()
}

// Resolve returns the numeric value of a cell. Variables are looked up in the
// environment at call time.
func (m *Machine) Resolve(v value.Value) (float64, error) {
	if v.IsNumber() {
		return v.Num, nil
	}
	f, ok := m.Env.Get(v.Name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnassignedVariable, v.Name)
	}
	return f, nil
}

// need checks the stack holds at least n cells before op pops anything.
func (m *Machine) need(op Op, n int) error {
	if have := m.Stack.Len(); have < n {
		return fmt.Errorf("%w: insufficient values for %s (need %d, have %d)", ErrStackUnderflow, op, n, have)
	}
	return nil
}
