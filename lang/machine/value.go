package machine

import (
	"strconv"
	"strings"

	"github.com/tiagotmartinez/boxlang/lang/langerr"
)

// Value is a runtime value boxed on the VM heap. The closed set of
// implementations below (IntValue, StrValue, *ListValue) is the entire
// value model the language supports.
type Value interface {
	isValue()
	TypeName() string
}

// IntValue is a 64-bit signed integer.
type IntValue int64

// StrValue is an immutable string, indexed and measured by Unicode code
// point rather than by byte.
type StrValue string

// ListValue is an ordered, mutable sequence of heap pointers. It is always
// held behind a pointer so that IndexStore can replace an element in place
// without re-allocating the list's own heap slot.
type ListValue struct {
	Elems []HeapPtr
}

func (IntValue) isValue()   {}
func (StrValue) isValue()   {}
func (*ListValue) isValue() {}

func (IntValue) TypeName() string   { return "integer" }
func (StrValue) TypeName() string   { return "string" }
func (*ListValue) TypeName() string { return "list" }

// IsFalse reports whether v is falsy. Only the integer 0 is falsy; strings
// and lists, including empty ones, are always truthy.
func IsFalse(v Value) bool {
	n, ok := v.(IntValue)
	return ok && n == 0
}

// Length returns the value returned by the `length` native: 0 for
// integers, code-point count for strings, element count for lists.
func Length(v Value) int64 {
	switch v := v.(type) {
	case IntValue:
		return 0
	case StrValue:
		return int64(len([]rune(string(v))))
	case *ListValue:
		return int64(len(v.Elems))
	default:
		return 0
	}
}

// mark appends to roots every heap pointer directly reachable from v.
func mark(v Value, roots []HeapPtr) []HeapPtr {
	if lst, ok := v.(*ListValue); ok {
		roots = append(roots, lst.Elems...)
	}
	return roots
}

// format renders v as text. Lists recurse through vm to format their
// elements and self-limit to three levels of nesting, collapsing anything
// deeper into "[...]" to guarantee termination on cyclic structures.
func format(vm *VM, v Value, depth int) (string, error) {
	switch v := v.(type) {
	case IntValue:
		return strconv.FormatInt(int64(v), 10), nil
	case StrValue:
		return string(v), nil
	case *ListValue:
		if depth > 3 {
			return "[...]", nil
		}
		var b strings.Builder
		b.WriteByte('[')
		for i, ptr := range v.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			elem, err := vm.get(ptr)
			if err != nil {
				return "", err
			}
			s, err := format(vm, elem, depth+1)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
		b.WriteByte(']')
		return b.String(), nil
	default:
		return "", nil
	}
}

// cmp compares a and b, recursing through vm to compare list elements.
// Returns -1, 0, or 1; incompatible types are an error.
func cmp(vm *VM, a, b Value) (int, error) {
	switch a := a.(type) {
	case IntValue:
		if b, ok := b.(IntValue); ok {
			switch {
			case a < b:
				return -1, nil
			case a > b:
				return 1, nil
			default:
				return 0, nil
			}
		}
	case StrValue:
		if b, ok := b.(StrValue); ok {
			return strings.Compare(string(a), string(b)), nil
		}
	case *ListValue:
		if b, ok := b.(*ListValue); ok {
			n := len(a.Elems)
			if len(b.Elems) < n {
				n = len(b.Elems)
			}
			for i := 0; i < n; i++ {
				av, err := vm.get(a.Elems[i])
				if err != nil {
					return 0, err
				}
				bv, err := vm.get(b.Elems[i])
				if err != nil {
					return 0, err
				}
				c, err := cmp(vm, av, bv)
				if err != nil {
					return 0, err
				}
				if c != 0 {
					return c, nil
				}
			}
			switch {
			case len(a.Elems) < len(b.Elems):
				return -1, nil
			case len(a.Elems) > len(b.Elems):
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	return 0, langerr.NewIncompatibleOperands("comparison", a.TypeName(), b.TypeName())
}

func add(a, b Value) (Value, error) {
	switch a := a.(type) {
	case IntValue:
		if b, ok := b.(IntValue); ok {
			return a + b, nil
		}
	case StrValue:
		if b, ok := b.(StrValue); ok {
			return a + b, nil
		}
	case *ListValue:
		if b, ok := b.(*ListValue); ok {
			elems := make([]HeapPtr, 0, len(a.Elems)+len(b.Elems))
			elems = append(elems, a.Elems...)
			elems = append(elems, b.Elems...)
			return &ListValue{Elems: elems}, nil
		}
	}
	return nil, langerr.NewIncompatibleOperands("+", a.TypeName(), b.TypeName())
}

func sub(a, b Value) (Value, error) {
	ai, aok := a.(IntValue)
	bi, bok := b.(IntValue)
	if aok && bok {
		return ai - bi, nil
	}
	return nil, langerr.NewIncompatibleOperands("-", a.TypeName(), b.TypeName())
}

func mul(a, b Value) (Value, error) {
	switch a := a.(type) {
	case IntValue:
		if b, ok := b.(IntValue); ok {
			return a * b, nil
		}
	case StrValue:
		if b, ok := b.(IntValue); ok && b >= 0 {
			return StrValue(strings.Repeat(string(a), int(b))), nil
		}
	case *ListValue:
		if b, ok := b.(IntValue); ok && b >= 0 {
			elems := make([]HeapPtr, 0, len(a.Elems)*int(b))
			for i := int64(0); i < int64(b); i++ {
				elems = append(elems, a.Elems...)
			}
			return &ListValue{Elems: elems}, nil
		}
	}
	return nil, langerr.NewIncompatibleOperands("*", a.TypeName(), b.TypeName())
}

// div and mod let Go's native integer division semantics (truncation
// toward zero) carry the arithmetic; a zero divisor is intercepted before
// it can trigger the runtime's own division-by-zero panic.
func div(a, b Value) (Value, error) {
	ai, aok := a.(IntValue)
	bi, bok := b.(IntValue)
	if !aok || !bok {
		return nil, langerr.NewIncompatibleOperands("/", a.TypeName(), b.TypeName())
	}
	if bi == 0 {
		return nil, langerr.NewArithmeticFault("division by zero")
	}
	return ai / bi, nil
}

func mod(a, b Value) (Value, error) {
	ai, aok := a.(IntValue)
	bi, bok := b.(IntValue)
	if !aok || !bok {
		return nil, langerr.NewIncompatibleOperands("%", a.TypeName(), b.TypeName())
	}
	if bi == 0 {
		return nil, langerr.NewArithmeticFault("modulo by zero")
	}
	return ai % bi, nil
}
