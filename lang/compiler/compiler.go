package compiler

import (
	"github.com/tiagotmartinez/boxlang/lang/ast"
	"github.com/tiagotmartinez/boxlang/lang/langerr"
	"github.com/tiagotmartinez/boxlang/lang/token"
)

// nativeEntry is a built-in's dispatch tag together with its minimum arity.
type nativeEntry struct {
	tag   Native
	arity int
}

// Compiler accumulates opcodes across one or more top-level statements and,
// once fed everything, produces a final linear program via Build.
type Compiler struct {
	code        []Op
	targetCount int
	natives     map[string]nativeEntry
}

// New returns a Compiler with the fixed built-in table seeded.
func New() *Compiler {
	return &Compiler{
		natives: map[string]nativeEntry{
			"print":      {NativePrint, 0},
			"length":     {NativeLength, 1},
			"to_string":  {NativeToString, 1},
			"append":     {NativeAppend, 2},
			"dump_stack": {NativeDumpStack, 0},
		},
	}
}

func (c *Compiler) nextTarget() int {
	t := c.targetCount
	c.targetCount++
	return t
}

func (c *Compiler) emit(op Op) { c.code = append(c.code, op) }

func binOpcode(tok token.Token) (Op, error) {
	switch tok.Kind {
	case token.ADD:
		return OpAdd(), nil
	case token.SUB:
		return OpSub(), nil
	case token.MUL:
		return OpMul(), nil
	case token.DIV:
		return OpDiv(), nil
	case token.MOD:
		return OpMod(), nil
	case token.LT:
		return OpLt(), nil
	case token.LTE:
		return OpLte(), nil
	case token.GT:
		return OpGt(), nil
	case token.GTE:
		return OpGte(), nil
	case token.EQ:
		return OpEq(), nil
	case token.NOTEQ:
		return OpNeq(), nil
	default:
		return Op{}, langerr.NewParseError(tok)
	}
}

// Feed appends the opcodes for one top-level statement and reports how many
// were written. Statements must be fed in source order.
func (c *Compiler) Feed(s ast.Stmt) (int, error) {
	starting := len(c.code)
	if err := c.feedStmt(s); err != nil {
		return 0, err
	}
	return len(c.code) - starting, nil
}

func (c *Compiler) feedStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.ExprStmt:
		if err := c.feedExpr(n.X); err != nil {
			return err
		}
		c.emit(OpPop())
		return nil

	case *ast.Block:
		for _, stmt := range n.Stmts {
			if err := c.feedStmt(stmt); err != nil {
				return err
			}
		}
		return nil

	case *ast.Loop:
		if n.Init != nil {
			if err := c.feedExpr(n.Init); err != nil {
				return err
			}
		}
		start := c.nextTarget()
		end := c.nextTarget()
		c.emit(OpTarget(start))
		if n.Cond != nil {
			if err := c.feedExpr(n.Cond); err != nil {
				return err
			}
			c.emit(OpJmpF(end))
		}
		if err := c.feedStmt(n.Body); err != nil {
			return err
		}
		if n.Update != nil {
			if err := c.feedExpr(n.Update); err != nil {
				return err
			}
		}
		c.emit(OpJmp(start))
		c.emit(OpTarget(end))
		return nil

	case *ast.IfElse:
		end := c.nextTarget()
		elseTarget := end
		if n.Else != nil {
			elseTarget = c.nextTarget()
		}
		if err := c.feedExpr(n.Cond); err != nil {
			return err
		}
		c.emit(OpJmpF(elseTarget))
		if err := c.feedStmt(n.Then); err != nil {
			return err
		}
		if n.Else != nil {
			c.emit(OpJmp(end))
			c.emit(OpTarget(elseTarget))
			if err := c.feedStmt(n.Else); err != nil {
				return err
			}
		}
		c.emit(OpTarget(end))
		return nil

	default:
		return langerr.NewParseError(token.Token{})
	}
}

func (c *Compiler) feedExpr(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.IntLit:
		c.emit(OpPushI(n.Value))
		return nil

	case *ast.StrLit:
		c.emit(OpPushS(n.Value))
		return nil

	case *ast.ListLit:
		for _, elem := range n.Elems {
			if err := c.feedExpr(elem); err != nil {
				return err
			}
		}
		c.emit(OpMakeList(len(n.Elems)))
		return nil

	case *ast.VarExpr:
		c.emit(OpLoadG(n.Name))
		return nil

	case *ast.Index:
		if err := c.feedExpr(n.Target); err != nil {
			return err
		}
		if err := c.feedExpr(n.Idx); err != nil {
			return err
		}
		c.emit(OpIndex())
		return nil

	case *ast.Call:
		return c.feedCall(n)

	case *ast.BinOp:
		if n.Op.Kind == token.ASSIGN {
			return c.feedAssign(n)
		}
		if err := c.feedExpr(n.LHS); err != nil {
			return err
		}
		if err := c.feedExpr(n.RHS); err != nil {
			return err
		}
		op, err := binOpcode(n.Op)
		if err != nil {
			return err
		}
		c.emit(op)
		return nil

	default:
		return langerr.NewParseError(token.Token{})
	}
}

// feedAssign compiles `lhs = rhs`. Only Var and Index nodes are legal
// assignment targets; any other shape is rejected here, since the parser
// itself accepts an arbitrary expression on the left.
func (c *Compiler) feedAssign(n *ast.BinOp) error {
	switch lhs := n.LHS.(type) {
	case *ast.VarExpr:
		if err := c.feedExpr(n.RHS); err != nil {
			return err
		}
		c.emit(OpStoreG(lhs.Name))
		return nil

	case *ast.Index:
		// Stack order matches IndexStore's contract: value at the bottom,
		// then index, then target on top.
		if err := c.feedExpr(n.RHS); err != nil {
			return err
		}
		if err := c.feedExpr(lhs.Idx); err != nil {
			return err
		}
		if err := c.feedExpr(lhs.Target); err != nil {
			return err
		}
		c.emit(OpIndexStore())
		return nil

	default:
		return langerr.NewInvalidAssignmentTarget(lhs.Pretty(), lhs.Span())
	}
}

func (c *Compiler) feedCall(n *ast.Call) error {
	name, ok := n.Callee.(*ast.VarExpr)
	if !ok {
		return langerr.NewNotImplemented("calling a non-identifier expression", n.Span())
	}
	native, ok := c.natives[name.Name]
	if !ok {
		return langerr.NewNotImplemented("calling user-defined function "+name.Name, n.Span())
	}
	if len(n.Args) < native.arity {
		return langerr.NewNotEnoughArguments(name.Name, len(n.Args), native.arity, n.Span())
	}
	for _, arg := range n.Args {
		if err := c.feedExpr(arg); err != nil {
			return err
		}
	}
	c.emit(OpNative(len(n.Args), native.tag))
	return nil
}

// optimize runs the single peephole pass: StoreG(name) immediately
// followed by Pop collapses into MoveG(name).
func (c *Compiler) optimize() {
	out := c.code[:0:0]
	for i := 0; i < len(c.code); i++ {
		if c.code[i].Kind() == StoreG && i+1 < len(c.code) && c.code[i+1].Kind() == Pop {
			out = append(out, OpMoveG(c.code[i].Str()))
			i++
			continue
		}
		out = append(out, c.code[i])
	}
	c.code = out
}

// expandTargets resolves every Target(id) marker to the absolute address of
// the first non-Target opcode that follows it, verifies every jump refers to
// a known target, then strips the markers and rewrites jumps in place.
func (c *Compiler) expandTargets() ([]Op, error) {
	addr := make([]int, c.targetCount)
	for i := range addr {
		addr[i] = -1
	}

	pc := 0
	for _, op := range c.code {
		if op.Kind() == Target {
			addr[int(op.Int())] = pc
		} else {
			pc++
		}
	}

	for _, op := range c.code {
		var id int
		switch op.Kind() {
		case Jmp, JmpF:
			id = int(op.Int())
		default:
			continue
		}
		if addr[id] == -1 {
			return nil, langerr.NewJumpTargetNotFound(id)
		}
	}

	final := make([]Op, 0, len(c.code))
	for _, op := range c.code {
		switch op.Kind() {
		case Target:
			continue
		case Jmp:
			final = append(final, OpJmp(addr[int(op.Int())]))
		case JmpF:
			final = append(final, OpJmpF(addr[int(op.Int())]))
		default:
			final = append(final, op)
		}
	}
	return final, nil
}

// Build runs the peephole optimizer and target resolution, returning the
// final opcode vector ready for lang/machine to execute.
func (c *Compiler) Build() ([]Op, error) {
	c.optimize()
	return c.expandTargets()
}
