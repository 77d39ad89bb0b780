// Package langerr defines the closed taxonomy of errors that can be raised
// while lexing, parsing, compiling or executing a boxlang script, along with
// source-aware pretty-printing of those errors (kind, location, and a caret
// pointing at the offending byte).
package langerr

import (
	"fmt"
	"strings"

	"github.com/tiagotmartinez/boxlang/lang/token"
)

// Kind tags an Error with its place in the closed error taxonomy described
// by the language specification. It exists so callers can categorize errors
// (e.g. to decide whether a failure is a user mistake or an internal
// consistency bug) without parsing the message text.
type Kind uint8

//nolint:revive
const (
	// Lex errors
	SyntaxError Kind = iota
	UnexpectedEOF
	InvalidStringEscape

	// Parse errors
	UnexpectedToken
	ParseError
	InvalidAssignmentTarget
	NotEnoughArguments

	// Compile errors
	JumpTargetNotFound
	NotImplemented

	// Runtime errors
	StackUnderflow
	MemoryAccessOutOfRange
	InvalidMemoryAccess
	GlobalNotFound
	IncompatibleOperands
	IndexOutOfRange
	InvalidOpcode
	InvalidAppend
	ArithmeticFault
)

var kindNames = [...]string{
	SyntaxError:             "syntax error",
	UnexpectedEOF:           "unexpected end of source",
	InvalidStringEscape:     "invalid string escape",
	UnexpectedToken:         "unexpected token",
	ParseError:              "parsing error",
	InvalidAssignmentTarget: "invalid assignment target",
	NotEnoughArguments:      "not enough arguments",
	JumpTargetNotFound:      "jump target not found",
	NotImplemented:          "not implemented",
	StackUnderflow:          "stack underflow",
	MemoryAccessOutOfRange:  "memory access out of range",
	InvalidMemoryAccess:     "access to a freed heap slot",
	GlobalNotFound:          "global not found",
	IncompatibleOperands:    "incompatible operands",
	IndexOutOfRange:         "index out of range",
	InvalidOpcode:           "invalid opcode",
	InvalidAppend:           "append to non-list",
	ArithmeticFault:         "arithmetic fault",
}

func (k Kind) String() string { return kindNames[k] }

// Error is the single error type returned by every phase of the boxlang
// pipeline. Kind discriminates which member of the taxonomy this is; Span,
// when non-zero, anchors it to a position in the source for caret rendering.
type Error struct {
	Kind Kind
	Span token.Span
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// --- Lex errors ---

func NewSyntaxError(span token.Span) *Error {
	return &Error{Kind: SyntaxError, Span: span, Msg: "syntax error"}
}

func NewUnexpectedEOF(at int) *Error {
	return &Error{Kind: UnexpectedEOF, Span: token.Span{Start: at, End: at}, Msg: "unexpected end of source"}
}

func NewInvalidStringEscape(ch rune, at int) *Error {
	return &Error{
		Kind: InvalidStringEscape,
		Span: token.Span{Start: at, End: at + 1},
		Msg:  fmt.Sprintf("invalid escape '%c'", ch),
	}
}

// --- Parse errors ---

func NewUnexpectedToken(got token.Token, want []token.Kind) *Error {
	names := make([]string, len(want))
	for i, k := range want {
		names[i] = k.GoString()
	}
	var msg string
	if len(names) > 1 {
		msg = fmt.Sprintf("got %s, expected one of %s", got, strings.Join(names, ", "))
	} else {
		msg = fmt.Sprintf("got %s, expected %s", got, names[0])
	}
	return &Error{Kind: UnexpectedToken, Span: got.Span, Msg: msg}
}

func NewParseError(got token.Token) *Error {
	return &Error{Kind: ParseError, Span: got.Span, Msg: fmt.Sprintf("unexpected %s", got)}
}

func NewInvalidAssignmentTarget(desc string, span token.Span) *Error {
	return &Error{
		Kind: InvalidAssignmentTarget,
		Span: span,
		Msg:  fmt.Sprintf("%s is not a valid target for an assignment", desc),
	}
}

func NewNotEnoughArguments(name string, given, want int, span token.Span) *Error {
	return &Error{
		Kind: NotEnoughArguments,
		Span: span,
		Msg:  fmt.Sprintf("not enough arguments to %s (given %d, expected %d)", name, given, want),
	}
}

// --- Compile errors ---

func NewJumpTargetNotFound(id int) *Error {
	return &Error{Kind: JumpTargetNotFound, Msg: fmt.Sprintf("jump with unknown target %d", id)}
}

func NewNotImplemented(what string, span token.Span) *Error {
	return &Error{Kind: NotImplemented, Span: span, Msg: what + " is reserved but not implemented"}
}

// --- Runtime errors ---

func NewStackUnderflow() *Error {
	return &Error{Kind: StackUnderflow, Msg: "stack underflow"}
}

func NewMemoryAccessOutOfRange(ptr int) *Error {
	return &Error{Kind: MemoryAccessOutOfRange, Msg: fmt.Sprintf("memory access out of range at %d", ptr)}
}

func NewInvalidMemoryAccess(ptr int) *Error {
	return &Error{Kind: InvalidMemoryAccess, Msg: fmt.Sprintf("attempt to access empty heap slot %d", ptr)}
}

func NewGlobalNotFound(name string) *Error {
	return &Error{Kind: GlobalNotFound, Msg: fmt.Sprintf("global variable %q not found", name)}
}

func NewIncompatibleOperands(op, lhsType, rhsType string) *Error {
	return &Error{
		Kind: IncompatibleOperands,
		Msg:  fmt.Sprintf("cannot execute %s on %s and %s", op, lhsType, rhsType),
	}
}

func NewIndexOutOfRange(typeName string, idx int) *Error {
	return &Error{Kind: IndexOutOfRange, Msg: fmt.Sprintf("index %d out of range of %s", idx, typeName)}
}

func NewInvalidOpcode(pc int) *Error {
	return &Error{Kind: InvalidOpcode, Msg: fmt.Sprintf("invalid opcode at %d", pc)}
}

func NewInvalidAppend(typeName string) *Error {
	return &Error{Kind: InvalidAppend, Msg: fmt.Sprintf("cannot append to %s", typeName)}
}

// NewArithmeticFault reports an arithmetic fault: division or modulo by
// zero (checked explicitly by the VM before dividing), or a Go runtime
// panic recovered at the top of the VM's run loop.
func NewArithmeticFault(detail string) *Error {
	return &Error{Kind: ArithmeticFault, Msg: detail}
}

// location finds the 1-based (row, col) of byte offset at in source, plus
// the byte range of the line it falls on.
func location(source string, at int) (row, col, lineStart, lineEnd int) {
	row, col = 1, 1
	lineStart = 0
	found := false
	for i, r := range source {
		if i == at {
			found = true
		} else if r == '\n' {
			if found {
				lineEnd = i
				return row, col, lineStart, lineEnd
			}
			row++
			col = 1
			lineStart = i + 1
		} else if !found {
			col++
		}
	}
	return row, col, lineStart, len(source)
}

// Pretty renders e against source, producing a human-readable diagnostic
// with a source line excerpt and a caret pointing at the offending byte.
func (e *Error) Pretty(source string) string {
	header := e.Error()
	if e.Span == (token.Span{}) && e.Kind != UnexpectedEOF {
		return header
	}

	at := e.Span.Start
	if e.Kind == UnexpectedEOF {
		at = len(source)
	}
	row, col, lineStart, lineEnd := location(source, at)
	prefix := fmt.Sprintf("(%d, %d): ", row, col)
	line := source[lineStart:lineEnd]
	caret := strings.Repeat(" ", len(prefix)) + "| " + strings.Repeat(" ", col-1) + "^"
	return fmt.Sprintf("%s\n%s| %s\n%s", header, prefix, line, caret)
}
