package lexer

import (
	"unicode"
	"unicode/utf8"
)

// Scanner splits one input line into whitespace-delimited tokens and
// classifies each of them.
type Scanner struct {
	source string
	cursor int
}

// NewScanner creates a new scanner for the given line.
func NewScanner(source string) *Scanner {
	return &Scanner{source: source}
}

// Reset re-initializes the scanner with a new line for reuse.
func (s *Scanner) Reset(source string) {
	s.source = source
	s.cursor = 0
}

// Next returns the next token of the line, or a KindEOF token once the line
// is exhausted.
func (s *Scanner) Next() Token {
	s.skipWhitespace()

	if s.cursor >= len(s.source) {
		return Token{Kind: KindEOF, Offset: uint32(s.cursor)}
	}

	start := s.cursor
	for s.cursor < len(s.source) {
		r, size := utf8.DecodeRuneInString(s.source[s.cursor:])
		if unicode.IsSpace(r) {
			break
		}
		s.cursor += size
	}

	return Token{
		Kind:   Classify(s.source[start:s.cursor]),
		Offset: uint32(start),
		Length: uint32(s.cursor - start),
	}
}

// Text returns the literal of tok as it appears in the line.
func (s *Scanner) Text(tok Token) string {
	return s.source[tok.Offset : tok.Offset+tok.Length]
}

func (s *Scanner) skipWhitespace() {
	for s.cursor < len(s.source) {
		r, size := utf8.DecodeRuneInString(s.source[s.cursor:])
		if !unicode.IsSpace(r) {
			break
		}
		s.cursor += size
	}
}
