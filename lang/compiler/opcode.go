// Package compiler lowers a boxlang AST into a linear sequence of Opcodes
// that lang/machine can execute: literals and control flow are compiled
// statement-by-statement, and forward/backward jumps are resolved from
// symbolic Target markers to absolute addresses in a final pass.
package compiler

import "fmt"

// Native identifies a built-in function invoked directly by the VM rather
// than compiled from source.
type Native uint8

//nolint:revive
const (
	NativePrint Native = iota
	NativeLength
	NativeToString
	NativeAppend
	NativeDumpStack
)

var nativeNames = [...]string{
	NativePrint:     "print",
	NativeLength:    "length",
	NativeToString:  "to_string",
	NativeAppend:    "append",
	NativeDumpStack: "dump_stack",
}

func (n Native) String() string { return nativeNames[n] }

// Op is a tagged instruction in the opcode vocabulary. Each variant below
// documents its effect on the operand stack using a "before -- after"
// stack picture, top of stack rightmost.
type Op struct {
	kind  opKind
	i     int64  // PushI, Dup, MakeList(k), Jmp/JmpF(pc), Target(id), Native(k)
	s     string // PushS, LoadG/StoreG/MoveG(name)
	nat   Native // Native(_, tag)
}

type opKind uint8

//nolint:revive
const (
	Nop opKind = iota // -  Nop          -
	PushI            // -  PushI(n)     n
	PushS            // -  PushS(s)     s
	MakeList         // x1..xk  MakeList(k)  list
	Dup              // -  Dup(i)       stack[-i-1]
	Pop              // x  Pop          -
	LoadG            // -  LoadG(name)  value
	StoreG           // x  StoreG(name) x
	MoveG            // x  MoveG(name)  -
	Index            // a i  Index      a[i]
	IndexStore       // v i a  IndexStore  v     (pop a, pop i, store v into a[i]; v is not popped)
	Add
	Sub
	Mul
	Div
	Mod
	Lt
	Lte
	Gt
	Gte
	Eq
	Neq
	Jmp  // -  Jmp(pc)   -           unconditional
	JmpF // x  JmpF(pc)  -           jump iff x is falsy
	Native_
	Target // compile-time-only marker; must not appear in final code
)

func (k opKind) String() string {
	switch k {
	case Nop:
		return "Nop"
	case PushI:
		return "PushI"
	case PushS:
		return "PushS"
	case MakeList:
		return "MakeList"
	case Dup:
		return "Dup"
	case Pop:
		return "Pop"
	case LoadG:
		return "LoadG"
	case StoreG:
		return "StoreG"
	case MoveG:
		return "MoveG"
	case Index:
		return "Index"
	case IndexStore:
		return "IndexStore"
	case Add:
		return "Add"
	case Sub:
		return "Sub"
	case Mul:
		return "Mul"
	case Div:
		return "Div"
	case Mod:
		return "Mod"
	case Lt:
		return "Lt"
	case Lte:
		return "Lte"
	case Gt:
		return "Gt"
	case Gte:
		return "Gte"
	case Eq:
		return "Eq"
	case Neq:
		return "Neq"
	case Jmp:
		return "Jmp"
	case JmpF:
		return "JmpF"
	case Native_:
		return "Native"
	case Target:
		return "Target"
	default:
		return fmt.Sprintf("opKind(%d)", int(k))
	}
}

// Kind returns the opcode's tag.
func (o Op) Kind() opKind { return o.kind }

// Int returns the integer immediate (PushI's literal, Dup/MakeList/Native's
// count, Jmp/JmpF/Target's id-or-address).
func (o Op) Int() int64 { return o.i }

// Str returns the string immediate (PushS's literal, LoadG/StoreG/MoveG's
// global name).
func (o Op) Str() string { return o.s }

// NativeTag returns the Native tag for a Native opcode.
func (o Op) NativeTag() Native { return o.nat }

func (o Op) String() string {
	switch o.kind {
	case PushI, Dup, MakeList, Jmp, JmpF, Target:
		return fmt.Sprintf("%s(%d)", o.kind, o.i)
	case PushS, LoadG, StoreG, MoveG:
		return fmt.Sprintf("%s(%q)", o.kind, o.s)
	case Native_:
		return fmt.Sprintf("Native(%d, %s)", o.i, o.nat)
	default:
		return o.kind.String()
	}
}

// Constructors. Each builds the Op variant named in the doc comment above.

func OpNop() Op                     { return Op{kind: Nop} }
func OpPushI(n int64) Op            { return Op{kind: PushI, i: n} }
func OpPushS(s string) Op           { return Op{kind: PushS, s: s} }
func OpMakeList(k int) Op           { return Op{kind: MakeList, i: int64(k)} }
func OpDup(i int) Op                { return Op{kind: Dup, i: int64(i)} }
func OpPop() Op                     { return Op{kind: Pop} }
func OpLoadG(name string) Op        { return Op{kind: LoadG, s: name} }
func OpStoreG(name string) Op       { return Op{kind: StoreG, s: name} }
func OpMoveG(name string) Op        { return Op{kind: MoveG, s: name} }
func OpIndex() Op                   { return Op{kind: Index} }
func OpIndexStore() Op              { return Op{kind: IndexStore} }
func OpAdd() Op                     { return Op{kind: Add} }
func OpSub() Op                     { return Op{kind: Sub} }
func OpMul() Op                     { return Op{kind: Mul} }
func OpDiv() Op                     { return Op{kind: Div} }
func OpMod() Op                     { return Op{kind: Mod} }
func OpLt() Op                      { return Op{kind: Lt} }
func OpLte() Op                     { return Op{kind: Lte} }
func OpGt() Op                      { return Op{kind: Gt} }
func OpGte() Op                     { return Op{kind: Gte} }
func OpEq() Op                      { return Op{kind: Eq} }
func OpNeq() Op                     { return Op{kind: Neq} }
func OpJmp(pc int) Op               { return Op{kind: Jmp, i: int64(pc)} }
func OpJmpF(pc int) Op              { return Op{kind: JmpF, i: int64(pc)} }
func OpNative(k int, nat Native) Op { return Op{kind: Native_, i: int64(k), nat: nat} }
func OpTarget(id int) Op            { return Op{kind: Target, i: int64(id)} }
