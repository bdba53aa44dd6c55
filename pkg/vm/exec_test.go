package vm_test

import (
	"errors"
	"math"
	"testing"

	"github.com/agenthands/rpncalc/pkg/core/value"
	"github.com/agenthands/rpncalc/pkg/vm"
)

// process runs line against m and returns the messages it produced.
func process(m *vm.Machine, line string) ([]vm.Message, bool) {
	var msgs []vm.Message
	_, running := vm.ProcessLine(line, m, func(msg vm.Message) {
		msgs = append(msgs, msg)
	})
	return msgs, running
}

func stackString(m *vm.Machine) []string {
	var out []string
	for _, v := range m.Stack.Values() {
		out = append(out, v.String())
	}
	return out
}

func expectStack(t *testing.T, m *vm.Machine, want ...string) {
	t.Helper()
	got := stackString(m)
	if len(got) != len(want) {
		t.Fatalf("stack = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stack = %v, want %v", got, want)
		}
	}
}

func expectError(t *testing.T, msgs []vm.Message, target error) {
	t.Helper()
	if len(msgs) == 0 {
		t.Fatalf("expected %v, got no messages", target)
	}
	last := msgs[len(msgs)-1]
	if last.Kind != vm.MsgError || !errors.Is(last.Err, target) {
		t.Fatalf("expected %v, got %+v", target, last)
	}
}

func TestProcessLineArithmetic(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"2 3 / 1 + 3 *", "5.0"},
		{"1 200 + 10 /", "20.1"},
		{"10 4 -", "6.0"},
		{"1.5 -2 *", "-3.0"},
		{"1 0 /", "inf"},
		{"-1 0 /", "-inf"},
		{"0 0 /", "NaN"},
		{"1e400", "inf"},
	}

	for _, tt := range tests {
		m := vm.NewMachine()
		msgs, running := process(m, tt.line)
		if !running || len(msgs) != 0 {
			t.Errorf("%q: running=%v msgs=%v", tt.line, running, msgs)
		}
		if got := stackString(m); len(got) != 1 || got[0] != tt.want {
			t.Errorf("%q: stack = %v, want [%s]", tt.line, got, tt.want)
		}
	}
}

func TestProcessLineDivisionByZeroIsNotAnError(t *testing.T) {
	m := vm.NewMachine()
	msgs, _ := process(m, "5 0 / 0 0 /")
	if len(msgs) != 0 {
		t.Fatalf("unexpected messages %v", msgs)
	}
	if top := m.Stack.Peek(0); !math.IsNaN(top.Num) {
		t.Errorf("expected NaN, got %v", top)
	}
	if second := m.Stack.Peek(1); !math.IsInf(second.Num, 1) {
		t.Errorf("expected +Inf, got %v", second)
	}
}

func TestProcessLineAssignment(t *testing.T) {
	m := vm.NewMachine()
	process(m, "5 x = x x *")
	expectStack(t, m, "25.0")

	// Values are copied, not aliased.
	m = vm.NewMachine()
	process(m, "x 3 = y x = x 10 =")
	if v, _ := m.Env.Get("y"); v != 3 {
		t.Errorf("y = %v, want 3", v)
	}
	if v, _ := m.Env.Get("x"); v != 10 {
		t.Errorf("x = %v, want 10", v)
	}
	expectStack(t, m)
}

func TestProcessLineAssignmentErrors(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		err   error
		stack []string
	}{
		{"Underflow", "x =", vm.ErrStackUnderflow, []string{"x"}},
		{"Empty", "=", vm.ErrStackUnderflow, nil},
		{"NumberTarget", "1 2 =", vm.ErrInvalidOperands, []string{"1.0", "2.0"}},
		{"UnassignedSource", "x y =", vm.ErrInvalidOperands, []string{"x", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := vm.NewMachine()
			msgs, running := process(m, tt.line)
			if !running {
				t.Fatal("error must not stop the session")
			}
			expectError(t, msgs, tt.err)
			expectStack(t, m, tt.stack...)
			if m.Env.Len() != 0 {
				t.Errorf("env modified: %v", m.Env.Names())
			}
		})
	}
}

func TestProcessLineUnassignedVariableRestoresOperands(t *testing.T) {
	m := vm.NewMachine()
	msgs, _ := process(m, "2 x + 99")
	expectError(t, msgs, vm.ErrUnassignedVariable)
	expectStack(t, m, "2.0", "x")

	m = vm.NewMachine()
	msgs, _ = process(m, "x 2 -")
	expectError(t, msgs, vm.ErrUnassignedVariable)
	expectStack(t, m, "x", "2.0")

	// Retry once the variable is assigned.
	process(m, "x 5 = drop drop")
	process(m, "x 2 -")
	expectStack(t, m, "3.0")
}

func TestProcessLineKeywords(t *testing.T) {
	m := vm.NewMachine()
	process(m, "1 2 3 y 4 =")
	process(m, "clear")
	expectStack(t, m)
	if v, ok := m.Env.Get("y"); !ok || v != 4 {
		t.Errorf("clear touched the environment: %v %v", v, ok)
	}

	process(m, "1 2 reset")
	expectStack(t, m)
	if m.Env.Len() != 0 {
		t.Errorf("reset left bindings %v", m.Env.Names())
	}

	m = vm.NewMachine()
	process(m, "1 2 swap")
	expectStack(t, m, "2.0", "1.0")
	process(m, "swap swap")
	expectStack(t, m, "2.0", "1.0")

	process(m, "dup")
	expectStack(t, m, "2.0", "1.0", "1.0")
	process(m, "drop")
	expectStack(t, m, "2.0", "1.0")

	process(m, "a dup")
	expectStack(t, m, "2.0", "1.0", "a", "a")
}

func TestProcessLinePrint(t *testing.T) {
	m := vm.NewMachine()
	msgs, _ := process(m, "k 2 = 1 3 + print k print z print")
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %v", msgs)
	}
	want := []string{"4.0", "2.0", "z"}
	for i, msg := range msgs {
		if msg.Kind != vm.MsgResult || msg.Text != want[i] {
			t.Errorf("message %d = %+v, want %q", i, msg, want[i])
		}
	}
	if msgs[2].Value.Type != value.TypeVariable {
		t.Errorf("unassigned variable printed as %v", msgs[2].Value.Type)
	}
	expectStack(t, m)
}

func TestProcessLineKeywordUnderflow(t *testing.T) {
	for _, line := range []string{"print", "drop", "dup", "swap", "1 swap"} {
		m := vm.NewMachine()
		msgs, _ := process(m, line+" 7")
		expectError(t, msgs, vm.ErrStackUnderflow)
		if line == "1 swap" {
			expectStack(t, m, "1.0")
		} else {
			expectStack(t, m)
		}
	}
}

func TestProcessLineFold(t *testing.T) {
	m := vm.NewMachine()
	process(m, "2 3 4 sum")
	expectStack(t, m, "9.0")

	m = vm.NewMachine()
	process(m, "2 3 4 prod")
	expectStack(t, m, "24.0")

	m = vm.NewMachine()
	process(m, "w 2 = 1 w sum")
	expectStack(t, m, "3.0")

	m = vm.NewMachine()
	process(m, "sum")
	expectStack(t, m, "0.0")
	process(m, "clear prod")
	expectStack(t, m, "1.0")
}

func TestProcessLineFoldUnassignedLeavesStack(t *testing.T) {
	m := vm.NewMachine()
	msgs, _ := process(m, "1 q 2 sum 5")
	expectError(t, msgs, vm.ErrUnassignedVariable)
	expectStack(t, m, "1.0", "q", "2.0")
}

func TestProcessLineInvalidToken(t *testing.T) {
	m := vm.NewMachine()
	msgs, running := process(m, "1 2 @@ 3 +")
	if !running {
		t.Fatal("invalid token must not stop the session")
	}
	expectError(t, msgs, vm.ErrInvalidToken)
	expectStack(t, m, "1.0", "2.0")

	var terr *vm.TokenError
	if !errors.As(msgs[0].Err, &terr) || terr.Token != "@@" || terr.Index != 2 {
		t.Errorf("unexpected error detail %#v", msgs[0].Err)
	}
	if msgs[0].Text != `token 3 "@@": vm: unrecognised token` {
		t.Errorf("unexpected text %q", msgs[0].Text)
	}
}

func TestProcessLineExit(t *testing.T) {
	m := vm.NewMachine()
	msgs, running := process(m, "1 exit 2 print")
	if running {
		t.Fatal("exit must stop the session")
	}
	if len(msgs) != 0 {
		t.Errorf("tokens after exit were processed: %v", msgs)
	}
	expectStack(t, m, "1.0")
}

func TestProcessLinePersistsAcrossLines(t *testing.T) {
	m := vm.NewMachine()
	process(m, "3 4")
	msgs, _ := process(m, "@@")
	expectError(t, msgs, vm.ErrInvalidToken)
	process(m, "+")
	expectStack(t, m, "7.0")
}

func TestProcessLineNilArguments(t *testing.T) {
	m, running := vm.ProcessLine("1 2 + print", nil, nil)
	if m == nil || !running {
		t.Fatal("expected a fresh machine")
	}
	if m.Stack.Len() != 0 {
		t.Errorf("print did not pop: %v", stackString(m))
	}
}

func TestProcessLineBlank(t *testing.T) {
	m := vm.NewMachine()
	msgs, running := process(m, "   \t ")
	if !running || len(msgs) != 0 || m.Stack.Len() != 0 {
		t.Errorf("blank line changed state: %v %v", running, msgs)
	}
}
