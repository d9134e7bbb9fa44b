package lang

import "fmt"

// IndexError reports a variable outside the allocated slot range.
// Accessing such a slot is a programming error, not a domain condition.
type IndexError struct {
	Var      Var
	Capacity int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("variable %s out of range (capacity %d)", e.Var, e.Capacity)
}

// CheckIndex panics with an *IndexError when v does not fit into capacity slots.
func CheckIndex(v Var, capacity int) {
	if int(v) < 0 || int(v) >= capacity {
		panic(&IndexError{Var: v, Capacity: capacity})
	}
}

// Walk calls fn for every command in pre-order. Returning false from fn
// skips the children of that command.
func Walk(cmd Command, fn func(Command) bool) {
	if cmd == nil || !fn(cmd) {
		return
	}
	switch c := cmd.(type) {
	case SeqCmd:
		Walk(c.First, fn)
		Walk(c.Second, fn)
	case IfCmd:
		Walk(c.Then, fn)
		if c.Else != nil {
			Walk(c.Else, fn)
		}
	case WhileCmd:
		Walk(c.Body, fn)
	}
}

// ExprVars appends the variables read by e to dst.
func ExprVars(dst []Var, e Expr) []Var {
	switch x := e.(type) {
	case VarExpr:
		return append(dst, x.Var)
	case BinaryExpr:
		return ExprVars(ExprVars(dst, x.Left), x.Right)
	default:
		return dst
	}
}

// Vars returns the distinct variables mentioned by cmd in order of first
// appearance.
func Vars(cmd Command) []Var {
	var all []Var
	Walk(cmd, func(c Command) bool {
		switch x := c.(type) {
		case AssignCmd:
			all = append(all, x.Var)
			all = ExprVars(all, x.Expr)
		case InputCmd:
			all = append(all, x.Var)
		case IfCmd:
			all = append(all, x.Cond.Left)
		case WhileCmd:
			all = append(all, x.Cond.Left)
		}
		return true
	})
	seen := make(map[Var]bool, len(all))
	out := make([]Var, 0, len(all))
	for _, v := range all {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// MaxVar returns the largest variable index mentioned by cmd, or -1 when the
// program mentions none.
func MaxVar(cmd Command) Var {
	hi := Var(-1)
	for _, v := range Vars(cmd) {
		if v > hi {
			hi = v
		}
	}
	return hi
}

// Labels returns the labels of all commands in pre-order.
func Labels(cmd Command) []Label {
	var out []Label
	Walk(cmd, func(c Command) bool {
		out = append(out, c.Label())
		return true
	})
	return out
}
