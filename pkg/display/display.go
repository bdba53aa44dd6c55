// Package display renders the interpreter state as a two-column view: the
// stack on the left, top first, and the variables on the right.
package display

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/agenthands/rpncalc/pkg/core/value"
	"github.com/agenthands/rpncalc/pkg/vm"
)

const (
	DefaultWidth = 80
	separator    = " | "
)

// Options controls the layout.
type Options struct {
	Width     int // total columns; DefaultWidth when <= 0
	Rows      int // maximum body rows; unlimited when <= 0
	Precision int
	Color     bool
}

// TerminalWidth returns the width of the terminal on fd, or DefaultWidth if
// fd is not a terminal.
func TerminalWidth(fd int) int {
	if !term.IsTerminal(fd) {
		return DefaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// Render writes the stack and variable columns of m to w.
func Render(w io.Writer, m *vm.Machine, opts Options) error {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	col := (width - len(separator)) / 2
	if col < 8 {
		col = 8
	}

	left := stackLines(m, opts.Precision)
	right := varLines(m, opts.Precision)

	rows := max(len(left), len(right))
	hidden := 0
	if opts.Rows > 0 && rows > opts.Rows {
		hidden = rows - opts.Rows
		rows = opts.Rows
	}

	var b strings.Builder
	writeRow(&b, col, "stack", "variables")
	writeRow(&b, col, strings.Repeat("-", col), strings.Repeat("-", col))
	for i := 0; i < rows; i++ {
		writeRow(&b, col, at(left, i), at(right, i))
	}
	if hidden > 0 {
		fmt.Fprintf(&b, "... (%d more)\n", hidden)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatMessage renders one executor message for the console.
func FormatMessage(msg vm.Message, opts Options) string {
	if msg.Kind == vm.MsgError {
		s := "error: " + msg.Text
		if opts.Color {
			return "\x1b[31m" + s + "\x1b[0m"
		}
		return s
	}
	return msg.Value.Format(opts.Precision)
}

func stackLines(m *vm.Machine, prec int) []string {
	n := m.Stack.Len()
	lines := make([]string, n)
	for i := 0; i < n; i++ {
		v := m.Stack.Peek(i)
		s := v.Format(prec)
		if v.Type == value.TypeVariable {
			if f, ok := m.Env.Get(v.Name); ok {
				s += " (" + value.FormatFloat(f, prec) + ")"
			}
		}
		lines[i] = fmt.Sprintf("%d: %s", i, s)
	}
	return lines
}

func varLines(m *vm.Machine, prec int) []string {
	names := m.Env.Names()
	lines := make([]string, len(names))
	for i, name := range names {
		f, _ := m.Env.Get(name)
		lines[i] = name + " = " + value.FormatFloat(f, prec)
	}
	return lines
}

func writeRow(b *strings.Builder, col int, left, right string) {
	left = fit(left, col)
	row := left + strings.Repeat(" ", col-utf8.RuneCountInString(left)) + separator + fit(right, col)
	b.WriteString(strings.TrimRight(row, " "))
	b.WriteByte('\n')
}

// fit truncates s to n runes, marking the cut with "~".
func fit(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "~"
}

func at(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}
