package value

import (
	"math"
	"strconv"
	"strings"
)

// Type represents the tag in the Value tagged union.
type Type uint8

const (
	TypeNumber Type = iota
	TypeVariable
)

func (t Type) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeVariable:
		return "variable"
	default:
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
}

// Value is a stack cell: either a resolved number or a reference to a
// variable by name. The tag is fixed at construction.
type Value struct {
	Type Type
	Num  float64 // valid when Type == TypeNumber
	Name string  // valid when Type == TypeVariable
}

// Number returns a resolved numeric cell.
func Number(f float64) Value {
	return Value{Type: TypeNumber, Num: f}
}

// Variable returns an unresolved reference to name.
func Variable(name string) Value {
	return Value{Type: TypeVariable, Name: name}
}

// IsNumber reports whether v holds a resolved number.
func (v Value) IsNumber() bool { return v.Type == TypeNumber }

// IsVariable reports whether v references a variable.
func (v Value) IsVariable() bool { return v.Type == TypeVariable }

// Format returns a string representation of the value. Numbers use prec
// significant digits, or the shortest exact form when prec < 0. Variables
// format as their name.
func (v Value) Format(prec int) string {
	if v.Type == TypeVariable {
		return v.Name
	}
	return FormatFloat(v.Num, prec)
}

func (v Value) String() string {
	return v.Format(-1)
}

// FormatFloat renders f so that it always reads as a float: 5 prints as
// "5.0", infinities as "inf"/"-inf" and not-a-number as "NaN".
func FormatFloat(f float64, prec int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', prec, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
