// Package machine implements the boxed-value heap and stack VM that
// executes lang/compiler's opcode vectors, including the mark-and-sweep
// collector that reclaims heap slots no longer reachable from the stack
// or globals.
package machine

import (
	"fmt"
	"io"
	"runtime"

	"github.com/dolthub/swiss"
	"github.com/tiagotmartinez/boxlang/lang/compiler"
	"github.com/tiagotmartinez/boxlang/lang/langerr"
)

// HeapPtr is an opaque index into the VM's heap. Two pointers are equal
// iff they name the same slot.
type HeapPtr int

// GCStats reports what collection has done over a VM's lifetime, for the
// `--gc-stats` CLI flag and for tests that assert on collector behavior.
type GCStats struct {
	Collections int
	Reclaimed   int
	HeapSize    int
}

// VM executes compiled opcode vectors. Its heap, stack and globals persist
// across successive calls to Run, so a caller (e.g. the `repl` command)
// can feed it one top-level statement's code at a time.
type VM struct {
	heap     []Value
	stack    []HeapPtr
	globals  *swiss.Map[string, HeapPtr]
	freeList []int

	// Stdout receives output from `print` and `dump_stack`; a nil Stdout
	// discards output, so a zero-value-adjacent VM is always safe to Run.
	Stdout io.Writer

	stats GCStats
}

// New returns an empty VM ready to Run.
func New() *VM {
	return &VM{globals: swiss.NewMap[string, HeapPtr](8)}
}

// Grow pre-allocates n empty heap slots onto the free list, so the first
// n allocations after this call need neither a Collect nor a heap resize.
// Used by the `run`/`repl` commands to apply boxconfig.Config's
// InitialHeapSize before executing anything.
func (vm *VM) Grow(n int) {
	for i := 0; i < n; i++ {
		idx := len(vm.heap)
		vm.heap = append(vm.heap, nil)
		vm.freeList = append(vm.freeList, idx)
	}
	vm.stats.HeapSize = len(vm.heap)
}

// Stats returns a snapshot of garbage-collection counters accumulated
// across this VM's lifetime.
func (vm *VM) Stats() GCStats { return vm.stats }

// HeapLen reports the current size of the heap, including freed slots.
func (vm *VM) HeapLen() int { return len(vm.heap) }

// StackLen reports the current operand stack depth.
func (vm *VM) StackLen() int { return len(vm.stack) }

// Global looks up a bound global by name, reporting false if it is unbound.
func (vm *VM) Global(name string) (Value, bool, error) {
	ptr, ok := vm.globals.Get(name)
	if !ok {
		return nil, false, nil
	}
	v, err := vm.get(ptr)
	return v, true, err
}

// Collect runs a full mark-and-sweep pass: every heap pointer reachable
// from the stack or globals is marked live; everything else is freed and
// its slot added to the free list. Callers may invoke this directly; it
// also runs automatically whenever the VM needs a slot and the free list
// is empty.
func (vm *VM) Collect() {
	vm.stats.Collections++

	marked := make([]bool, len(vm.heap))
	roots := make([]HeapPtr, 0, len(vm.stack)+vm.globals.Count())
	roots = append(roots, vm.stack...)
	vm.globals.Iter(func(_ string, ptr HeapPtr) bool {
		roots = append(roots, ptr)
		return false
	})

	for len(roots) > 0 {
		ptr := roots[len(roots)-1]
		roots = roots[:len(roots)-1]
		if int(ptr) < 0 || int(ptr) >= len(vm.heap) {
			continue
		}
		if marked[ptr] || vm.heap[ptr] == nil {
			continue
		}
		marked[ptr] = true
		roots = mark(vm.heap[ptr], roots)
	}

	vm.freeList = vm.freeList[:0]
	reclaimed := 0
	for i, live := range marked {
		if !live {
			if vm.heap[i] != nil {
				reclaimed++
			}
			vm.heap[i] = nil
			vm.freeList = append(vm.freeList, i)
		}
	}
	vm.stats.Reclaimed += reclaimed
	vm.stats.HeapSize = len(vm.heap)
}

// findFreeSlot returns an index usable for a new value, collecting first
// if the free list is empty and growing the heap by one slot if collection
// still finds nothing. The returned slot is not yet occupied by the
// caller's value.
func (vm *VM) findFreeSlot() int {
	if n := len(vm.freeList); n > 0 {
		i := vm.freeList[n-1]
		vm.freeList = vm.freeList[:n-1]
		return i
	}

	vm.Collect()
	if n := len(vm.freeList); n > 0 {
		i := vm.freeList[n-1]
		vm.freeList = vm.freeList[:n-1]
		return i
	}

	i := len(vm.heap)
	vm.heap = append(vm.heap, nil)
	vm.stats.HeapSize = len(vm.heap)
	return i
}

// pushValue allocates a heap slot for v, stores it, and pushes the
// resulting pointer onto the operand stack.
func (vm *VM) pushValue(v Value) HeapPtr {
	i := vm.findFreeSlot()
	vm.heap[i] = v
	ptr := HeapPtr(i)
	vm.stack = append(vm.stack, ptr)
	return ptr
}

func (vm *VM) get(ptr HeapPtr) (Value, error) {
	if int(ptr) < 0 || int(ptr) >= len(vm.heap) {
		return nil, langerr.NewMemoryAccessOutOfRange(int(ptr))
	}
	v := vm.heap[ptr]
	if v == nil {
		return nil, langerr.NewInvalidMemoryAccess(int(ptr))
	}
	return v, nil
}

func (vm *VM) getMut(ptr HeapPtr) (Value, error) { return vm.get(ptr) }

// dup returns the pointer at depth i from the top of the stack (0 is the
// top) without popping it.
func (vm *VM) dup(i int) (HeapPtr, error) {
	if i < 0 || i >= len(vm.stack) {
		return 0, langerr.NewStackUnderflow()
	}
	return vm.stack[len(vm.stack)-i-1], nil
}

func (vm *VM) dupValue(i int) (Value, error) {
	ptr, err := vm.dup(i)
	if err != nil {
		return nil, err
	}
	return vm.get(ptr)
}

func (vm *VM) popPtr() (HeapPtr, error) {
	n := len(vm.stack)
	if n == 0 {
		return 0, langerr.NewStackUnderflow()
	}
	ptr := vm.stack[n-1]
	vm.stack = vm.stack[:n-1]
	return ptr, nil
}

func (vm *VM) popValue() (Value, error) {
	ptr, err := vm.popPtr()
	if err != nil {
		return nil, err
	}
	return vm.get(ptr)
}

func (vm *VM) stdout() io.Writer {
	if vm.Stdout == nil {
		return io.Discard
	}
	return vm.Stdout
}

// Run executes code from pc 0, keeping whatever heap/stack/globals state
// survived a previous call. Division and modulo by zero are checked
// explicitly and surface as ArithmeticFault; the recover below is a last
// line of defense against any other Go runtime panic, so a caller (e.g.
// an interactive repl) never takes the whole process down over a bad line.
func (vm *VM) Run(code []compiler.Op) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(runtime.Error); ok {
				err = langerr.NewArithmeticFault(re.Error())
				return
			}
			panic(r)
		}
	}()

	pc := 0
	for pc < len(code) {
		nextPC := pc + 1
		op := code[pc]

		switch op.Kind() {
		case compiler.Nop:
			// nothing

		case compiler.Target:
			return langerr.NewInvalidOpcode(pc)

		case compiler.PushI:
			vm.pushValue(IntValue(op.Int()))

		case compiler.PushS:
			vm.pushValue(StrValue(op.Str()))

		case compiler.Dup:
			ptr, err := vm.dup(int(op.Int()))
			if err != nil {
				return err
			}
			vm.stack = append(vm.stack, ptr)

		case compiler.Pop:
			if _, err := vm.popPtr(); err != nil {
				return err
			}

		case compiler.LoadG:
			ptr, ok := vm.globals.Get(op.Str())
			if !ok {
				return langerr.NewGlobalNotFound(op.Str())
			}
			vm.stack = append(vm.stack, ptr)

		case compiler.StoreG:
			ptr, err := vm.dup(0)
			if err != nil {
				return err
			}
			vm.globals.Put(op.Str(), ptr)

		case compiler.MoveG:
			ptr, err := vm.popPtr()
			if err != nil {
				return err
			}
			vm.globals.Put(op.Str(), ptr)

		case compiler.MakeList:
			k := int(op.Int())
			if k > len(vm.stack) {
				return langerr.NewStackUnderflow()
			}
			split := len(vm.stack) - k
			elems := make([]HeapPtr, k)
			copy(elems, vm.stack[split:])
			vm.stack = vm.stack[:split]
			vm.pushValue(&ListValue{Elems: elems})

		case compiler.JmpF:
			v, err := vm.popValue()
			if err != nil {
				return err
			}
			if IsFalse(v) {
				nextPC = int(op.Int())
			}

		case compiler.Jmp:
			nextPC = int(op.Int())

		case compiler.Native_:
			if err := vm.dispatchNative(int(op.Int()), op.NativeTag()); err != nil {
				return err
			}

		case compiler.Lt, compiler.Lte, compiler.Gt, compiler.Gte, compiler.Eq, compiler.Neq:
			if err := vm.execCompare(op.Kind()); err != nil {
				return err
			}

		case compiler.Add, compiler.Sub, compiler.Mul, compiler.Div, compiler.Mod:
			if err := vm.execArith(op.Kind()); err != nil {
				return err
			}

		case compiler.Index:
			if err := vm.execIndex(); err != nil {
				return err
			}

		case compiler.IndexStore:
			if err := vm.execIndexStore(); err != nil {
				return err
			}

		default:
			return langerr.NewInvalidOpcode(pc)
		}

		pc = nextPC
	}
	return nil
}

// execCompare implements Lt/Lte/Gt/Gte/Eq/Neq: pop two, push 1 or 0.
func (vm *VM) execCompare(kind fmt.Stringer) error {
	bptr, err := vm.popPtr()
	if err != nil {
		return err
	}
	aptr, err := vm.popPtr()
	if err != nil {
		return err
	}
	b, err := vm.get(bptr)
	if err != nil {
		return err
	}
	a, err := vm.get(aptr)
	if err != nil {
		return err
	}
	c, err := cmp(vm, a, b)
	if err != nil {
		return err
	}

	var result bool
	switch {
	case kind == compiler.Lt:
		result = c < 0
	case kind == compiler.Lte:
		result = c <= 0
	case kind == compiler.Gt:
		result = c > 0
	case kind == compiler.Gte:
		result = c >= 0
	case kind == compiler.Eq:
		result = c == 0
	case kind == compiler.Neq:
		result = c != 0
	}
	if result {
		vm.pushValue(IntValue(1))
	} else {
		vm.pushValue(IntValue(0))
	}
	return nil
}

// execArith implements Add/Sub/Mul/Div/Mod: pop two, push one result.
func (vm *VM) execArith(kind fmt.Stringer) error {
	bptr, err := vm.popPtr()
	if err != nil {
		return err
	}
	aptr, err := vm.popPtr()
	if err != nil {
		return err
	}
	b, err := vm.get(bptr)
	if err != nil {
		return err
	}
	a, err := vm.get(aptr)
	if err != nil {
		return err
	}

	var result Value
	switch {
	case kind == compiler.Add:
		result, err = add(a, b)
	case kind == compiler.Sub:
		result, err = sub(a, b)
	case kind == compiler.Mul:
		result, err = mul(a, b)
	case kind == compiler.Div:
		result, err = div(a, b)
	case kind == compiler.Mod:
		result, err = mod(a, b)
	}
	if err != nil {
		return err
	}
	vm.pushValue(result)
	return nil
}

// execIndex implements Index: (string, int) -> code point, (list, int) ->
// stored pointer.
func (vm *VM) execIndex() error {
	bptr, err := vm.popPtr()
	if err != nil {
		return err
	}
	aptr, err := vm.popPtr()
	if err != nil {
		return err
	}
	b, err := vm.get(bptr)
	if err != nil {
		return err
	}
	a, err := vm.get(aptr)
	if err != nil {
		return err
	}

	idx, ok := b.(IntValue)
	if !ok {
		return langerr.NewIncompatibleOperands("index", a.TypeName(), b.TypeName())
	}

	switch a := a.(type) {
	case StrValue:
		runes := []rune(string(a))
		if idx < 0 || int(idx) >= len(runes) {
			return langerr.NewIndexOutOfRange(a.TypeName(), int(idx))
		}
		vm.pushValue(IntValue(runes[idx]))
		return nil
	case *ListValue:
		if idx < 0 || int(idx) >= len(a.Elems) {
			return langerr.NewIndexOutOfRange(a.TypeName(), int(idx))
		}
		vm.stack = append(vm.stack, a.Elems[idx])
		return nil
	default:
		return langerr.NewIncompatibleOperands("index", a.TypeName(), b.TypeName())
	}
}

// execIndexStore implements IndexStore: pop target, pop index, store the
// value now on top (not popped) into target[index].
func (vm *VM) execIndexStore() error {
	targetPtr, err := vm.popPtr()
	if err != nil {
		return err
	}
	idxPtr, err := vm.popPtr()
	if err != nil {
		return err
	}
	valuePtr, err := vm.dup(0)
	if err != nil {
		return err
	}

	idxVal, err := vm.get(idxPtr)
	if err != nil {
		return err
	}
	idx, ok := idxVal.(IntValue)
	if !ok {
		return langerr.NewIncompatibleOperands("index-store", "list", idxVal.TypeName())
	}

	target, err := vm.getMut(targetPtr)
	if err != nil {
		return err
	}
	lst, ok := target.(*ListValue)
	if !ok {
		return langerr.NewIncompatibleOperands("index-store", target.TypeName(), idxVal.TypeName())
	}
	if idx < 0 || int(idx) >= len(lst.Elems) {
		return langerr.NewIndexOutOfRange(target.TypeName(), int(idx))
	}
	lst.Elems[idx] = valuePtr
	return nil
}

// dispatchNative executes one of the fixed built-ins. Arguments sit on the
// stack at depths [0, nargs): depth nargs-1 is the first source argument,
// depth 0 is the last. Every native pops all nargs arguments when it
// finishes (even ones it ignored) and pushes exactly one result.
func (vm *VM) dispatchNative(nargs int, tag compiler.Native) error {
	result, err := vm.evalNative(nargs, tag)
	if err != nil {
		return err
	}
	for i := 0; i < nargs; i++ {
		if _, err := vm.popPtr(); err != nil {
			return err
		}
	}
	vm.pushValue(result)
	return nil
}

func (vm *VM) evalNative(nargs int, tag compiler.Native) (Value, error) {
	switch tag {
	case compiler.NativePrint:
		for i := 0; i < nargs; i++ {
			v, err := vm.dupValue(nargs - i - 1)
			if err != nil {
				return nil, err
			}
			s, err := format(vm, v, 0)
			if err != nil {
				return nil, err
			}
			fmt.Fprint(vm.stdout(), s)
		}
		fmt.Fprintln(vm.stdout())
		return IntValue(nargs), nil

	case compiler.NativeLength:
		v, err := vm.dupValue(0)
		if err != nil {
			return nil, err
		}
		return IntValue(Length(v)), nil

	case compiler.NativeToString:
		v, err := vm.dupValue(0)
		if err != nil {
			return nil, err
		}
		s, err := format(vm, v, 0)
		if err != nil {
			return nil, err
		}
		return StrValue(s), nil

	case compiler.NativeAppend:
		var toAdd []HeapPtr
		for i := 1; i < nargs; i++ {
			ptr, err := vm.dup(nargs - i - 1)
			if err != nil {
				return nil, err
			}
			toAdd = append(toAdd, ptr)
		}
		target, err := vm.dupValue(nargs - 1)
		if err != nil {
			return nil, err
		}
		lst, ok := target.(*ListValue)
		if !ok {
			return nil, langerr.NewInvalidAppend(target.TypeName())
		}
		lst.Elems = append(lst.Elems, toAdd...)
		return IntValue(len(lst.Elems)), nil

	case compiler.NativeDumpStack:
		if nargs > 0 {
			v, err := vm.dupValue(0)
			if err != nil {
				return nil, err
			}
			s, err := format(vm, v, 0)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(vm.stdout(), "%s ", s)
		} else {
			fmt.Fprint(vm.stdout(), "STACK> ")
		}
		fmt.Fprintf(vm.stdout(), "%v\n", vm.stack)
		return IntValue(len(vm.stack)), nil

	default:
		return nil, langerr.NewInvalidOpcode(-1)
	}
}
