package vm

import (
	"fmt"
	"strconv"

	"fortio.org/log"

	"github.com/agenthands/rpncalc/pkg/core/value"
	"github.com/agenthands/rpncalc/pkg/lexer"
)

// MessageKind distinguishes results from diagnostics.
type MessageKind uint8

const (
	MsgResult MessageKind = iota
	MsgError
)

// Message is one line of user-facing output produced while processing input.
type Message struct {
	Kind  MessageKind
	Text  string
	Value value.Value // the printed cell, for MsgResult
	Err   error       // a *TokenError, for MsgError
}

// Output receives messages in the order they are produced.
type Output func(Message)

// ProcessLine executes every token of line against m, left to right. The
// first error emits one MsgError and abandons the rest of the line; effects
// of the tokens before it are kept. The returned bool is false once the exit
// keyword has been executed.
func ProcessLine(line string, m *Machine, out Output) (*Machine, bool) {
	if m == nil {
		m = NewMachine()
	}
	if out == nil {
		out = func(Message) {}
	}

	s := lexer.NewScanner(line)
	for i := 0; ; i++ {
		tok := s.Next()
		if tok.Kind == lexer.KindEOF {
			return m, true
		}
		text := s.Text(tok)
		log.LogVf("vm: token %d %q kind=%v depth=%d", i, text, tok.Kind, m.Stack.Len())

		running, err := m.step(tok.Kind, text, out)
		if err != nil {
			terr := &TokenError{Index: i, Token: text, Err: err}
			log.Warnf("vm: line aborted: %v", terr)
			out(Message{Kind: MsgError, Text: terr.Error(), Err: terr})
			return m, true
		}
		if !running {
			log.LogVf("vm: exit requested at token %d", i)
			return m, false
		}
	}
}

// step applies one classified token.
func (m *Machine) step(kind lexer.Kind, text string, out Output) (bool, error) {
	switch kind {
	case lexer.KindNumber:
		// Classification already validated the literal; out-of-range values
		// come back as ±Inf or 0 together with ErrRange.
		f, _ := strconv.ParseFloat(text, 64)
		m.Stack.Push(value.Number(f))
	case lexer.KindIdentifier:
		m.Stack.Push(value.Variable(text))
	case lexer.KindAssign:
		return true, m.assign()
	case lexer.KindBinaryOp:
		return true, m.binary(Lookup(text))
	case lexer.KindKeyword:
		return m.keyword(Lookup(text), out)
	case lexer.KindFold:
		return true, m.fold(Lookup(text))
	case lexer.KindInvalid:
		return true, ErrInvalidToken
	default:
		return true, fmt.Errorf("%w: token kind %v", ErrUnknownOperator, kind)
	}
	return true, nil
}

// assign handles `target value =`. On failure both cells go back in their
// original order.
func (m *Machine) assign() error {
	if err := m.need(OP_ASSIGN, 2); err != nil {
		return err
	}
	b := m.Stack.Pop()
	a := m.Stack.Pop()

	if !a.IsVariable() {
		m.Stack.Push(a)
		m.Stack.Push(b)
		return fmt.Errorf("%w: assignment target %s is not a variable", ErrInvalidOperands, a)
	}

	v := b.Num
	if b.IsVariable() {
		f, ok := m.Env.Get(b.Name)
		if !ok {
			m.Stack.Push(a)
			m.Stack.Push(b)
			return fmt.Errorf("%w: assigned value %s is not yet assigned", ErrInvalidOperands, b.Name)
		}
		v = f
	}
	m.Env.Set(a.Name, v)
	return nil
}

func (m *Machine) binary(op Op) error {
	if _, ok := op.apply(0, 0); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOperator, op)
	}
	if err := m.need(op, 2); err != nil {
		return err
	}
	b := m.Stack.Pop()
	a := m.Stack.Pop()

	x, err := m.Resolve(a)
	if err == nil {
		var y float64
		if y, err = m.Resolve(b); err == nil {
			r, _ := op.apply(x, y)
			m.Stack.Push(value.Number(r))
			return nil
		}
	}
	// Restore the operands so the line can be retried after an assignment.
	m.Stack.Push(a)
	m.Stack.Push(b)
	return err
}

func (m *Machine) keyword(op Op, out Output) (bool, error) {
	switch op {
	case OP_CLEAR:
		m.Stack.Clear()
	case OP_RESET:
		m.Reset()
	case OP_EXIT:
		return false, nil
	case OP_PRINT:
		if err := m.need(op, 1); err != nil {
			return true, err
		}
		v := m.Stack.Pop()
		// Assigned variables print their value, unassigned ones their name.
		if f, err := m.Resolve(v); err == nil {
			v = value.Number(f)
		}
		out(Message{Kind: MsgResult, Text: v.String(), Value: v})
	case OP_DROP:
		if err := m.need(op, 1); err != nil {
			return true, err
		}
		m.Stack.Pop()
	case OP_DUP:
		if err := m.need(op, 1); err != nil {
			return true, err
		}
		v := m.Stack.Pop()
		m.Stack.Push(v)
		m.Stack.Push(v)
	case OP_SWAP:
		if err := m.need(op, 2); err != nil {
			return true, err
		}
		top := m.Stack.Pop()
		second := m.Stack.Pop()
		m.Stack.Push(top)
		m.Stack.Push(second)
	default:
		return true, fmt.Errorf("%w: keyword %s", ErrUnknownOperator, op)
	}
	return true, nil
}

// fold reduces the whole stack bottom to top. Nothing is modified unless
// every cell resolves.
func (m *Machine) fold(op Op) error {
	var acc float64
	switch op {
	case OP_SUM:
		acc = 0
	case OP_PROD:
		acc = 1
	default:
		return fmt.Errorf("%w: fold %s", ErrUnknownOperator, op)
	}

	for _, c := range m.Stack.cells {
		f, err := m.Resolve(c)
		if err != nil {
			return err
		}
		if op == OP_SUM {
			acc += f
		} else {
			acc *= f
		}
	}

	m.Stack.Clear()
	m.Stack.Push(value.Number(acc))
	return nil
}
