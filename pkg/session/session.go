// Package session drives the read-process-render loop around the executor.
package session

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"fortio.org/log"
	"github.com/goforj/godump"
	"github.com/google/uuid"
	"github.com/peterh/liner"

	"github.com/agenthands/rpncalc/pkg/config"
	"github.com/agenthands/rpncalc/pkg/core/value"
	"github.com/agenthands/rpncalc/pkg/display"
	"github.com/agenthands/rpncalc/pkg/lexer"
	"github.com/agenthands/rpncalc/pkg/vm"
)

const helpText = `Enter whitespace-separated tokens in postfix order, e.g. "2 3 + print".

Operators:  + - * /        Assignment:  name value =
Keywords:   clear reset exit print dup drop swap
Folds:      sum prod

Commands:
  :help    Show this help
  :info    Show session id and state size
  :dump    Dump the interpreter state
  :quit    Exit
`

// Session owns the interpreter state for one interactive run.
type Session struct {
	ID      string
	Machine *vm.Machine
	Config  config.Config
	Source  LineSource
	Out     io.Writer
	Width   int // display width; display.DefaultWidth when zero
}

// New creates a session with a fresh machine and a random id.
func New(cfg config.Config, src LineSource, out io.Writer) *Session {
	return &Session{
		ID:      uuid.NewString(),
		Machine: vm.NewMachine(),
		Config:  cfg,
		Source:  src,
		Out:     out,
	}
}

// Run reads lines until exit, :quit or end of input.
func (s *Session) Run() error {
	log.S(log.Info, "session start", log.Str("session", s.ID))
	defer log.S(log.Info, "session end", log.Str("session", s.ID))

	for {
		line, err := s.Source.Prompt(s.Config.Prompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl+C discards the current input only.
			continue
		}
		if err != nil {
			return fmt.Errorf("session: read: %w", err)
		}
		if !s.Handle(line) {
			return nil
		}
	}
}

// Handle processes one input line and reports whether the session continues.
func (s *Session) Handle(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	s.Source.AppendHistory(trimmed)

	if strings.HasPrefix(trimmed, ":") {
		return s.command(trimmed)
	}

	var running bool
	s.Machine, running = vm.ProcessLine(line, s.Machine, s.emit)
	if running && s.Config.ShowState {
		if err := display.Render(s.Out, s.Machine, s.displayOptions()); err != nil {
			log.Errf("session: render: %v", err)
		}
	}
	return running
}

// Complete returns completions for the last word of line from the reserved
// words and the currently bound variable names.
func (s *Session) Complete(line string) []string {
	i := strings.LastIndexAny(line, " \t") + 1
	prefix, word := line[:i], line[i:]
	if word == "" {
		return nil
	}

	var out []string
	for _, cand := range append(lexer.Keywords(), s.Machine.Env.Names()...) {
		if strings.HasPrefix(cand, word) {
			out = append(out, prefix+cand)
		}
	}
	return out
}

func (s *Session) emit(msg vm.Message) {
	fmt.Fprintln(s.Out, display.FormatMessage(msg, s.displayOptions()))
}

func (s *Session) displayOptions() display.Options {
	return display.Options{
		Width:     s.Width,
		Rows:      s.Config.StackRows,
		Precision: s.Config.Precision,
		Color:     s.Config.Color,
	}
}

// snapshot is the shape printed by :dump.
type snapshot struct {
	Session string
	Stack   []value.Value
	Vars    map[string]float64
}

func (s *Session) command(cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return false
	case ":help":
		fmt.Fprint(s.Out, helpText)
	case ":info":
		fmt.Fprintf(s.Out, "session %s: %d stack cells, %d variables\n",
			s.ID, s.Machine.Stack.Len(), s.Machine.Env.Len())
	case ":dump":
		snap := snapshot{Session: s.ID, Stack: s.Machine.Stack.Values(), Vars: map[string]float64{}}
		for _, name := range s.Machine.Env.Names() {
			snap.Vars[name], _ = s.Machine.Env.Get(name)
		}
		godump.Fdump(s.Out, snap)
	default:
		fmt.Fprintf(s.Out, "unknown command %s. Type :help for a list of commands.\n", cmd)
	}
	return true
}
