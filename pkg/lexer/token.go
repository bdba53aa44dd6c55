package lexer

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Kind represents the class of a token identified by the lexer.
type Kind uint8

const (
	KindEOF Kind = iota
	KindInvalid
	KindNumber
	KindIdentifier
	KindBinaryOp // + - * /
	KindAssign   // =
	KindKeyword  // clear reset exit print dup drop swap
	KindFold     // sum prod
)

var kindNames = [...]string{
	KindEOF:        "EOF",
	KindInvalid:    "Invalid",
	KindNumber:     "Number",
	KindIdentifier: "Identifier",
	KindBinaryOp:   "BinaryOperator",
	KindAssign:     "AssignmentOperator",
	KindKeyword:    "Keyword",
	KindFold:       "FoldOperator",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Token represents a lexical unit pointing back to the source line.
type Token struct {
	Kind   Kind
	Offset uint32
	Length uint32
}

// reserved maps every operator and keyword literal to its kind.
var reserved = map[string]Kind{
	"+":     KindBinaryOp,
	"-":     KindBinaryOp,
	"*":     KindBinaryOp,
	"/":     KindBinaryOp,
	"=":     KindAssign,
	"clear": KindKeyword,
	"reset": KindKeyword,
	"exit":  KindKeyword,
	"print": KindKeyword,
	"dup":   KindKeyword,
	"drop":  KindKeyword,
	"swap":  KindKeyword,
	"sum":   KindFold,
	"prod":  KindFold,
}

// Classify returns the kind of a single token. It never fails: anything that
// is not an operator, keyword, number or alphanumeric name is KindInvalid.
func Classify(tok string) Kind {
	if k, ok := reserved[tok]; ok {
		return k
	}
	if IsNumber(tok) {
		return KindNumber
	}
	if IsName(tok) {
		return KindIdentifier
	}
	return KindInvalid
}

// IsNumber reports whether tok is a decimal floating-point literal.
// Hex floats and underscore separators are not part of the grammar.
func IsNumber(tok string) bool {
	if !maybeNumber(tok) || strings.ContainsAny(tok, "xX_") {
		return false
	}
	_, err := strconv.ParseFloat(tok, 64)
	// Out-of-range literals still denote a float (±Inf or 0).
	var ne *strconv.NumError
	return err == nil || errors.As(err, &ne) && ne.Err == strconv.ErrRange
}

// maybeNumber rejects most names before ParseFloat allocates an error for them.
func maybeNumber(tok string) bool {
	if tok != "" && (tok[0] == '+' || tok[0] == '-') {
		tok = tok[1:]
	}
	if tok == "" {
		return false
	}
	switch c := tok[0]; {
	case c >= '0' && c <= '9', c == '.':
		return true
	case c == 'i', c == 'I', c == 'n', c == 'N':
		return true
	}
	return false
}

// IsName reports whether every rune of tok is a letter or a number.
func IsName(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

// Reserved returns every operator and keyword literal, sorted.
func Reserved() []string {
	out := make([]string, 0, len(reserved))
	for lit := range reserved {
		out = append(out, lit)
	}
	sort.Strings(out)
	return out
}

// Keywords returns the reserved words (keywords and folds), sorted.
func Keywords() []string {
	var out []string
	for _, lit := range Reserved() {
		if k := reserved[lit]; k == KindKeyword || k == KindFold {
			out = append(out, lit)
		}
	}
	return out
}
