package lang

import (
	"fmt"
	"strings"
)

// Var names one storage slot by index.
type Var int

func (v Var) String() string {
	return fmt.Sprintf("v%d", int(v))
}

// Const is a signed integer literal.
type Const int64

// Label identifies a command node. Label 0 is the placeholder used by the
// free constructors.
type Label int

// BinOp is an arithmetic operator.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	default:
		return "?"
	}
}

// Rel is a relational operator of a condition.
type Rel int

const (
	RelLessEq Rel = iota
	RelGreater
)

func (r Rel) String() string {
	switch r {
	case RelLessEq:
		return "<="
	case RelGreater:
		return ">"
	default:
		return "?"
	}
}

// Negate returns the complementary relation.
func (r Rel) Negate() Rel {
	if r == RelLessEq {
		return RelGreater
	}
	return RelLessEq
}

// Holds reports whether left r right is true.
func (r Rel) Holds(left, right Const) bool {
	switch r {
	case RelLessEq:
		return left <= right
	case RelGreater:
		return left > right
	default:
		panic(fmt.Sprintf("lang: unknown relation %d", int(r)))
	}
}

// Expr is an arithmetic expression.
type Expr interface {
	isExpr()
	String() string
}

// ConstExpr is an integer literal.
type ConstExpr struct {
	Val Const
}

func (ConstExpr) isExpr() {}
func (e ConstExpr) String() string {
	return fmt.Sprintf("%d", int64(e.Val))
}

// VarExpr reads a variable.
type VarExpr struct {
	Var Var
}

func (VarExpr) isExpr() {}
func (e VarExpr) String() string {
	return e.Var.String()
}

// BinaryExpr applies Op to two sub-expressions.
type BinaryExpr struct {
	Op    BinOp
	Left  Expr
	Right Expr
}

func (BinaryExpr) isExpr() {}
func (e BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

// Cond compares a variable with a literal. Variable-to-variable comparisons
// are not part of the language.
type Cond struct {
	Rel   Rel
	Left  Var
	Right Const
}

// Negate returns the condition of the else branch.
func (c Cond) Negate() Cond {
	return Cond{Rel: c.Rel.Negate(), Left: c.Left, Right: c.Right}
}

func (c Cond) String() string {
	return fmt.Sprintf("%s %s %d", c.Left, c.Rel, int64(c.Right))
}

// Command is a statement of the language. Every node carries a label.
type Command interface {
	isCommand()
	Label() Label
	String() string
}

type labeled struct {
	L Label
}

func (l labeled) Label() Label { return l.L }

// SkipCmd does nothing.
type SkipCmd struct {
	labeled
}

// SeqCmd runs First then Second.
type SeqCmd struct {
	labeled
	First  Command
	Second Command
}

// AssignCmd stores the value of Expr into Var.
type AssignCmd struct {
	labeled
	Var  Var
	Expr Expr
}

// InputCmd stores an externally supplied value into Var.
type InputCmd struct {
	labeled
	Var Var
}

// IfCmd branches on Cond. Else is nil when the branch is absent.
type IfCmd struct {
	labeled
	Cond Cond
	Then Command
	Else Command
}

// WhileCmd repeats Body while Cond holds.
type WhileCmd struct {
	labeled
	Cond Cond
	Body Command
}

func (SkipCmd) isCommand()   {}
func (SeqCmd) isCommand()    {}
func (AssignCmd) isCommand() {}
func (InputCmd) isCommand()  {}
func (IfCmd) isCommand()     {}
func (WhileCmd) isCommand()  {}

func (SkipCmd) String() string { return "skip" }

func (c SeqCmd) String() string {
	return c.First.String() + "; " + c.Second.String()
}

func (c AssignCmd) String() string {
	return c.Var.String() + " := " + c.Expr.String()
}

func (c InputCmd) String() string {
	return "input(" + c.Var.String() + ")"
}

func (c IfCmd) String() string {
	var sb strings.Builder
	sb.WriteString("if ")
	sb.WriteString(c.Cond.String())
	sb.WriteString(" { ")
	sb.WriteString(c.Then.String())
	sb.WriteString(" }")
	if c.Else != nil {
		sb.WriteString(" else { ")
		sb.WriteString(c.Else.String())
		sb.WriteString(" }")
	}
	return sb.String()
}

func (c WhileCmd) String() string {
	return "while " + c.Cond.String() + " { " + c.Body.String() + " }"
}
