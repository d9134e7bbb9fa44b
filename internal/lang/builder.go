package lang

// Helper functions to construct AST nodes. Commands built here carry the
// placeholder label 0; use a Builder for distinct labels.

// C creates an integer literal expression.
func C(n int64) Expr {
	return ConstExpr{Val: Const(n)}
}

// V creates a variable reference expression.
func V(v Var) Expr {
	return VarExpr{Var: v}
}

// Binary creates a binary expression.
func Binary(op BinOp, left, right Expr) Expr {
	return BinaryExpr{Op: op, Left: left, Right: right}
}

// Add creates left + right.
func Add(left, right Expr) Expr {
	return Binary(OpAdd, left, right)
}

// Sub creates left - right.
func Sub(left, right Expr) Expr {
	return Binary(OpSub, left, right)
}

// Mul creates left * right.
func Mul(left, right Expr) Expr {
	return Binary(OpMul, left, right)
}

// LessEq creates the condition v <= n.
func LessEq(v Var, n int64) Cond {
	return Cond{Rel: RelLessEq, Left: v, Right: Const(n)}
}

// Greater creates the condition v > n.
func Greater(v Var, n int64) Cond {
	return Cond{Rel: RelGreater, Left: v, Right: Const(n)}
}

// Skip creates a skip command.
func Skip() Command {
	return SkipCmd{}
}

// Seq chains commands left to right. No commands yields skip, a single
// command is returned as is.
func Seq(cmds ...Command) Command {
	return seqWith(func() Label { return 0 }, cmds)
}

// Assign creates v := e.
func Assign(v Var, e Expr) Command {
	return AssignCmd{Var: v, Expr: e}
}

// AssignConst creates v := n.
func AssignConst(v Var, n int64) Command {
	return Assign(v, C(n))
}

// Input creates input(v).
func Input(v Var) Command {
	return InputCmd{Var: v}
}

// If creates a conditional without else branch.
func If(cond Cond, then Command) Command {
	return IfCmd{Cond: cond, Then: then}
}

// IfElse creates a conditional with both branches.
func IfElse(cond Cond, then, els Command) Command {
	return IfCmd{Cond: cond, Then: then, Else: els}
}

// While creates a loop.
func While(cond Cond, body Command) Command {
	return WhileCmd{Cond: cond, Body: body}
}

func seqWith(next func() Label, cmds []Command) Command {
	if len(cmds) == 0 {
		return SkipCmd{labeled{next()}}
	}
	if len(cmds) == 1 {
		return cmds[0]
	}
	result := cmds[len(cmds)-1]
	for i := len(cmds) - 2; i >= 0; i-- {
		result = SeqCmd{labeled: labeled{next()}, First: cmds[i], Second: result}
	}
	return result
}

// Builder allocates fresh variables and labels for one program.
// It is not safe for concurrent use.
type Builder struct {
	nextVar   Var
	nextLabel Label
	names     []string
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Var allocates a fresh variable.
func (b *Builder) Var() Var {
	return b.NamedVar("")
}

// NamedVar allocates a fresh variable with a display name.
func (b *Builder) NamedVar(name string) Var {
	v := b.nextVar
	b.nextVar++
	if name == "" {
		name = v.String()
	}
	b.names = append(b.names, name)
	return v
}

// NumVars returns the number of variables allocated so far.
func (b *Builder) NumVars() int {
	return int(b.nextVar)
}

// Name returns the display name of v.
func (b *Builder) Name(v Var) string {
	if int(v) < 0 || int(v) >= len(b.names) {
		return v.String()
	}
	return b.names[v]
}

// Label allocates a fresh label. Labels start at 1.
func (b *Builder) Label() Label {
	b.nextLabel++
	return b.nextLabel
}

func (b *Builder) Skip() Command {
	return SkipCmd{labeled{b.Label()}}
}

func (b *Builder) Seq(cmds ...Command) Command {
	return seqWith(b.Label, cmds)
}

func (b *Builder) Assign(v Var, e Expr) Command {
	return AssignCmd{labeled: labeled{b.Label()}, Var: v, Expr: e}
}

func (b *Builder) AssignConst(v Var, n int64) Command {
	return b.Assign(v, C(n))
}

func (b *Builder) Input(v Var) Command {
	return InputCmd{labeled: labeled{b.Label()}, Var: v}
}

func (b *Builder) If(cond Cond, then Command) Command {
	return IfCmd{labeled: labeled{b.Label()}, Cond: cond, Then: then}
}

func (b *Builder) IfElse(cond Cond, then, els Command) Command {
	return IfCmd{labeled: labeled{b.Label()}, Cond: cond, Then: then, Else: els}
}

func (b *Builder) While(cond Cond, body Command) Command {
	return WhileCmd{labeled: labeled{b.Label()}, Cond: cond, Body: body}
}
