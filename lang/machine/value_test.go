package machine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsFalseOnlyZeroInt(t *testing.T) {
	require.True(t, IsFalse(IntValue(0)))
	require.False(t, IsFalse(IntValue(1)))
	require.False(t, IsFalse(IntValue(-1)))
	require.False(t, IsFalse(StrValue("")))
	require.False(t, IsFalse(&ListValue{}))
}

func TestLength(t *testing.T) {
	require.Equal(t, int64(0), Length(IntValue(42)))
	require.Equal(t, int64(3), Length(StrValue("abc")))
	require.Equal(t, int64(2), Length(&ListValue{Elems: []HeapPtr{0, 1}}))
}

func TestCmpReflexiveAndAntisymmetric(t *testing.T) {
	vm := New()
	values := []Value{IntValue(1), IntValue(2), StrValue("a"), StrValue("b")}
	for _, v := range values {
		c, err := cmp(vm, v, v)
		require.NoError(t, err)
		require.Equal(t, 0, c, "cmp(v, v) must be 0")
	}

	c1, err := cmp(vm, IntValue(1), IntValue(2))
	require.NoError(t, err)
	c2, err := cmp(vm, IntValue(2), IntValue(1))
	require.NoError(t, err)
	require.Equal(t, -c1, c2)
}

func TestCmpStringsAreCodePointOrdered(t *testing.T) {
	vm := New()
	c, err := cmp(vm, StrValue("a"), StrValue("b"))
	require.NoError(t, err)
	require.Equal(t, -1, c)
}

func TestCmpListsElementwiseThenLength(t *testing.T) {
	vm := New()
	aPtr := vm.pushValue(IntValue(1))
	bPtr := vm.pushValue(IntValue(1))
	a := &ListValue{Elems: []HeapPtr{aPtr}}
	b := &ListValue{Elems: []HeapPtr{bPtr, bPtr}}
	c, err := cmp(vm, a, b)
	require.NoError(t, err)
	require.Equal(t, -1, c, "shorter list with equal prefix is less")
}

func TestCmpIncompatibleTypes(t *testing.T) {
	vm := New()
	_, err := cmp(vm, IntValue(1), StrValue("a"))
	require.Error(t, err)
}

func TestArithAddVariants(t *testing.T) {
	v, err := add(IntValue(1), IntValue(2))
	require.NoError(t, err)
	require.Equal(t, IntValue(3), v)

	v, err = add(StrValue("a"), StrValue("b"))
	require.NoError(t, err)
	require.Equal(t, StrValue("ab"), v)

	v, err = add(&ListValue{Elems: []HeapPtr{0}}, &ListValue{Elems: []HeapPtr{1}})
	require.NoError(t, err)
	require.Equal(t, []HeapPtr{0, 1}, v.(*ListValue).Elems)
}

func TestArithMulRepetition(t *testing.T) {
	v, err := mul(StrValue("ab"), IntValue(3))
	require.NoError(t, err)
	require.Equal(t, StrValue("ababab"), v)

	v, err = mul(&ListValue{Elems: []HeapPtr{7}}, IntValue(2))
	require.NoError(t, err)
	require.Equal(t, []HeapPtr{7, 7}, v.(*ListValue).Elems)
}

func TestArithDivModTruncateTowardZero(t *testing.T) {
	v, err := div(IntValue(-7), IntValue(2))
	require.NoError(t, err)
	require.Equal(t, IntValue(-3), v)

	v, err = mod(IntValue(-7), IntValue(2))
	require.NoError(t, err)
	require.Equal(t, IntValue(-1), v)
}

func TestArithDivByZero(t *testing.T) {
	_, err := div(IntValue(1), IntValue(0))
	require.Error(t, err)
	require.Contains(t, err.Error(), "division by zero")
}

func TestArithModByZero(t *testing.T) {
	_, err := mod(IntValue(1), IntValue(0))
	require.Error(t, err)
	require.Contains(t, err.Error(), "modulo by zero")
}

func TestArithIncompatibleOperandsNamesOpcodeAndTypes(t *testing.T) {
	_, err := add(IntValue(1), StrValue("a"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "+")
	require.Contains(t, err.Error(), "integer")
	require.Contains(t, err.Error(), "string")
}

func TestFormatListDepthCap(t *testing.T) {
	// Five levels of nesting: the innermost list is reached at depth 4,
	// past the cap of 3, and collapses to "[...]" without looking at what
	// it actually contains.
	vm := New()
	inner := vm.pushValue(IntValue(1))
	l1 := vm.pushValue(&ListValue{Elems: []HeapPtr{inner}})
	l2 := vm.pushValue(&ListValue{Elems: []HeapPtr{l1}})
	l3 := vm.pushValue(&ListValue{Elems: []HeapPtr{l2}})
	l4 := vm.pushValue(&ListValue{Elems: []HeapPtr{l3}})
	l5 := &ListValue{Elems: []HeapPtr{l4}}

	s, err := format(vm, l5, 0)
	require.NoError(t, err)
	require.Equal(t, "[[[[[...]]]]]", s)
}
