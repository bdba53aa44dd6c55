package vm

// Op identifies the operator or keyword named by a reserved token.
type Op uint8

const (
	OP_NONE Op = iota
	OP_ADD
	OP_SUB
	OP_MUL
	OP_DIV
	OP_ASSIGN
	OP_CLEAR
	OP_RESET
	OP_EXIT
	OP_PRINT
	OP_DUP
	OP_DROP
	OP_SWAP
	OP_SUM
	OP_PROD
)

var opcodes = map[string]Op{
	"+":     OP_ADD,
	"-":     OP_SUB,
	"*":     OP_MUL,
	"/":     OP_DIV,
	"=":     OP_ASSIGN,
	"clear": OP_CLEAR,
	"reset": OP_RESET,
	"exit":  OP_EXIT,
	"print": OP_PRINT,
	"dup":   OP_DUP,
	"drop":  OP_DROP,
	"swap":  OP_SWAP,
	"sum":   OP_SUM,
	"prod":  OP_PROD,
}

var opNames = [...]string{
	OP_NONE:   "?",
	OP_ADD:    "+",
	OP_SUB:    "-",
	OP_MUL:    "*",
	OP_DIV:    "/",
	OP_ASSIGN: "assignment",
	OP_CLEAR:  "clear",
	OP_RESET:  "reset",
	OP_EXIT:   "exit",
	OP_PRINT:  "print",
	OP_DUP:    "dup",
	OP_DROP:   "drop",
	OP_SWAP:   "swap",
	OP_SUM:    "sum",
	OP_PROD:   "prod",
}

// Lookup returns the opcode for a reserved literal, or OP_NONE.
func Lookup(literal string) Op {
	return opcodes[literal]
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return opNames[OP_NONE]
}

// apply evaluates a binary arithmetic opcode. Division follows IEEE-754, so
// x/0 yields ±Inf and 0/0 yields NaN.
func (op Op) apply(a, b float64) (float64, bool) {
	switch op {
	case OP_ADD:
		return a + b, true
	case OP_SUB:
		return a - b, true
	case OP_MUL:
		return a * b, true
	case OP_DIV:
		return a / b, true
	}
	return 0, false
}
