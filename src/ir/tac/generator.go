package tac

import (
	"fmt"

	"ararac/src/ir"
)

// opMap translates the operator symbol a parser binary-expression node
// carries in Node.Data into the matching TAC Opcode.
var opMap = map[string]Opcode{
	"+": ADD, "-": SUB, "*": MUL, "/": DIV,
	"==": EQ, "!=": NEQ, "<": LT, "<=": LE, ">": GT, ">=": GE,
	"&&": AND, "||": OR,
}

// Generator lowers an Arara syntax tree to a tac.Listing, implementing the
// algorithm of spec.md §4.1. It is a builder object: every piece of mutable
// state (the fresh temporary and label counters) lives on the struct, per
// spec.md §9 and §5 — there is no process-global counter, so two Generator
// values lowering two programs in the same process never interfere, and
// a fresh Generator per compiler invocation is all §5's "reset per
// invocation" requires.
type Generator struct {
	tempCount  int
	labelCount int
	code       Listing
}

// NewGenerator returns a Generator with its counters reset to zero.
func NewGenerator() *Generator {
	return &Generator{}
}

// newTemp allocates and returns a fresh temporary operand, named _t<k>.
func (g *Generator) newTemp() Operand {
	t := Temp(fmt.Sprintf("_t%d", g.tempCount))
	g.tempCount++
	return t
}

// newLabel allocates and returns a fresh label operand, named L<k>.
func (g *Generator) newLabel() Operand {
	l := Label(fmt.Sprintf("L%d", g.labelCount))
	g.labelCount++
	return l
}

func (g *Generator) emit(i Instruction) {
	g.code = append(g.code, i)
}

// Generate lowers the syntax tree rooted at root to three-address code and
// returns the resulting listing. root must be a PROGRAM node as produced by
// frontend.Parse.
func (g *Generator) Generate(root *ir.Node) (Listing, error) {
	if root == nil || root.Typ != ir.PROGRAM {
		return nil, &ir.InternalError{Construct: "tac.Generate called on a non-PROGRAM node"}
	}
	for _, c := range root.Children {
		if err := g.statement(c); err != nil {
			return nil, err
		}
	}
	return g.code, nil
}

// statement lowers a single command node per spec.md §4.1's per-command
// lowering rules.
func (g *Generator) statement(n *ir.Node) error {
	switch n.Typ {
	case ir.READ:
		g.emit(Instruction{Op: READ, Arg1: ID(n.Children[0].Data.(string))})
	case ir.WRITE:
		v, err := g.expr(n.Children[0])
		if err != nil {
			return err
		}
		g.emit(Instruction{Op: WRITE, Arg1: v})
	case ir.ASSIGN:
		v, err := g.expr(n.Children[1])
		if err != nil {
			return err
		}
		name := n.Children[0].Data.(string)
		g.emit(Instruction{Op: ASSIGN, Result: ID(name), Arg1: v})
	case ir.DECL:
		name := n.Children[0].Data.(string)
		g.emit(Instruction{Op: DECL, Arg1: ID(name)})
	case ir.IF:
		return g.ifStmt(n)
	case ir.WHILE:
		return g.whileStmt(n)
	default:
		return &ir.InternalError{Construct: fmt.Sprintf("unexpected command node %s", n.Type())}
	}
	return nil
}

// block lowers every command in a BLOCK node in order.
func (g *Generator) block(n *ir.Node) error {
	for _, c := range n.Children {
		if err := g.statement(c); err != nil {
			return err
		}
	}
	return nil
}

// ifStmt lowers: se (cond) entao then [senao else] fimse
//
// Without an else branch:
//
//	<cond>
//	IF_FALSE cond GOTO Lend
//	<then>
//	Lend:
//
// With an else branch:
//
//	<cond>
//	IF_FALSE cond GOTO Lelse
//	<then>
//	GOTO Lend
//	Lelse:
//	<else>
//	Lend:
func (g *Generator) ifStmt(n *ir.Node) error {
	cond, err := g.expr(n.Children[0])
	if err != nil {
		return err
	}
	if len(n.Children) == 3 {
		lelse := g.newLabel()
		lend := g.newLabel()
		g.emit(Instruction{Op: IF_FALSE_GOTO, Arg1: cond, Arg2: lelse})
		if err := g.block(n.Children[1]); err != nil {
			return err
		}
		g.emit(Instruction{Op: GOTO, Arg1: lend})
		g.emit(Instruction{Op: LABEL, Arg1: lelse})
		if err := g.block(n.Children[2]); err != nil {
			return err
		}
		g.emit(Instruction{Op: LABEL, Arg1: lend})
		return nil
	}
	lend := g.newLabel()
	g.emit(Instruction{Op: IF_FALSE_GOTO, Arg1: cond, Arg2: lend})
	if err := g.block(n.Children[1]); err != nil {
		return err
	}
	g.emit(Instruction{Op: LABEL, Arg1: lend})
	return nil
}

// whileStmt lowers: enquanto (cond) faca body fimenquanto
//
//	Lstart:
//	<cond>
//	IF_FALSE cond GOTO Lend
//	<body>
//	GOTO Lstart
//	Lend:
func (g *Generator) whileStmt(n *ir.Node) error {
	lstart := g.newLabel()
	lend := g.newLabel()
	g.emit(Instruction{Op: LABEL, Arg1: lstart})
	cond, err := g.expr(n.Children[0])
	if err != nil {
		return err
	}
	g.emit(Instruction{Op: IF_FALSE_GOTO, Arg1: cond, Arg2: lend})
	if err := g.block(n.Children[1]); err != nil {
		return err
	}
	g.emit(Instruction{Op: GOTO, Arg1: lstart})
	g.emit(Instruction{Op: LABEL, Arg1: lend})
	return nil
}

// expr lowers an expression node to an Operand, per spec.md §4.1's
// expression lowering algorithm. Literals and identifiers are returned as
// operands directly with nothing emitted; every operator node emits one
// instruction computing its value into a fresh temporary.
func (g *Generator) expr(n *ir.Node) (Operand, error) {
	switch n.Typ {
	case ir.INTEGER_DATA:
		return LitInt(n.Data.(int)), nil
	case ir.STRING_DATA:
		return LitStr(n.Data.(string)), nil
	case ir.IDENTIFIER_DATA:
		return ID(n.Data.(string)), nil
	case ir.FACTOR_NOT:
		v, err := g.expr(n.Children[0])
		if err != nil {
			return Operand{}, err
		}
		t := g.newTemp()
		g.emit(Instruction{Op: NOT, Result: t, Arg1: v})
		return t, nil
	case ir.LOGIC_EXPR, ir.CMP_EXPR, ir.SUM_EXPR, ir.TERM:
		sym, _ := n.Data.(string)
		op, ok := opMap[sym]
		if !ok {
			return Operand{}, &ir.InternalError{Construct: fmt.Sprintf("unknown binary operator %q", sym)}
		}
		left, err := g.expr(n.Children[0])
		if err != nil {
			return Operand{}, err
		}
		right, err := g.expr(n.Children[1])
		if err != nil {
			return Operand{}, err
		}
		t := g.newTemp()
		g.emit(Instruction{Op: op, Result: t, Arg1: left, Arg2: right})
		return t, nil
	default:
		return Operand{}, &ir.InternalError{Construct: fmt.Sprintf("unexpected expression node %s", n.Type())}
	}
}
