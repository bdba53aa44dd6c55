package session

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"fortio.org/log"
	"github.com/peterh/liner"
)

// LineSource supplies input lines to a session. Prompt returns io.EOF when
// input is exhausted.
type LineSource interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// TerminalSource reads lines from an interactive terminal with editing,
// completion and a persistent history file.
type TerminalSource struct {
	*liner.State
	historyPath string
}

// NewTerminalSource opens the terminal. historyPath may be empty to disable
// history; complete may be nil.
func NewTerminalSource(historyPath string, complete liner.Completer) *TerminalSource {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	if complete != nil {
		ln.SetCompleter(complete)
	}

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			if _, err := ln.ReadHistory(f); err != nil {
				log.Warnf("session: read history %s: %v", historyPath, err)
			}
			f.Close()
		}
	}
	return &TerminalSource{State: ln, historyPath: historyPath}
}

// Close saves the history and restores the terminal.
func (t *TerminalSource) Close() error {
	var saveErr error
	if t.historyPath != "" {
		if f, err := os.Create(t.historyPath); err == nil {
			_, saveErr = t.WriteHistory(f)
			f.Close()
		} else {
			saveErr = err
		}
	}
	if err := t.State.Close(); err != nil {
		return err
	}
	if saveErr != nil {
		return fmt.Errorf("session: save history: %w", saveErr)
	}
	return nil
}

// ReaderSource reads lines from a non-interactive stream such as a pipe.
type ReaderSource struct {
	scanner *bufio.Scanner
}

func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{scanner: bufio.NewScanner(r)}
}

// Prompt returns the next line; the prompt is not echoed.
func (r *ReaderSource) Prompt(string) (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *ReaderSource) AppendHistory(string) {}

func (r *ReaderSource) Close() error { return nil }
