package program

import "github.com/gnolang/signai/internal/lang"

// Examples returns the built-in scenario programs, each freshly built.
func Examples() []*Program {
	return []*Program{
		StraightLine(),
		Arithmetic(),
		ContradictoryElse(),
		MissingElse(),
		Countdown(),
		GuardedInput(),
	}
}

// StraightLine is x := 3; x := 4.
func StraightLine() *Program {
	b := lang.NewBuilder()
	x := b.NamedVar("x")
	return New("straight-line", b, b.Seq(
		b.AssignConst(x, 3),
		b.AssignConst(x, 4),
	))
}

// Arithmetic is x := 5; x := x + 3.
func Arithmetic() *Program {
	b := lang.NewBuilder()
	x := b.NamedVar("x")
	return New("arithmetic", b, b.Seq(
		b.AssignConst(x, 5),
		b.Assign(x, lang.Add(lang.V(x), lang.C(3))),
	))
}

// ContradictoryElse takes the else branch of a condition that can never hold
// and drives x negative. The abstract result has to admit Neg.
func ContradictoryElse() *Program {
	b := lang.NewBuilder()
	x := b.NamedVar("x")
	return New("contradictory-else", b, b.Seq(
		b.AssignConst(x, 5),
		b.IfElse(lang.LessEq(x, -1),
			b.Assign(x, lang.Add(lang.V(x), lang.C(3))),
			b.Assign(x, lang.Sub(lang.V(x), lang.C(20))),
		),
		b.Assign(x, lang.Add(lang.V(x), lang.C(3))),
	))
}

// MissingElse is x := 5; if x > 0 then x := x + 3; x := x + 3.
func MissingElse() *Program {
	b := lang.NewBuilder()
	x := b.NamedVar("x")
	return New("missing-else", b, b.Seq(
		b.AssignConst(x, 5),
		b.If(lang.Greater(x, 0),
			b.Assign(x, lang.Add(lang.V(x), lang.C(3))),
		),
		b.Assign(x, lang.Add(lang.V(x), lang.C(3))),
	))
}

// Countdown decrements x from 10 to 0 while accumulating into acc.
func Countdown() *Program {
	b := lang.NewBuilder()
	x := b.NamedVar("x")
	acc := b.NamedVar("acc")
	return New("countdown", b, b.Seq(
		b.AssignConst(x, 10),
		b.AssignConst(acc, 0),
		b.While(lang.Greater(x, 0), b.Seq(
			b.Assign(acc, lang.Add(lang.V(acc), lang.V(x))),
			b.Assign(x, lang.Sub(lang.V(x), lang.C(1))),
		)),
	))
}

// GuardedInput reads x and derives a positive y from it whatever the input.
func GuardedInput() *Program {
	b := lang.NewBuilder()
	x := b.NamedVar("x")
	y := b.NamedVar("y")
	p := New("guarded-input", b, b.Seq(
		b.Input(x),
		b.IfElse(lang.Greater(x, 0),
			b.Assign(y, lang.V(x)),
			b.AssignConst(y, 1),
		),
	))
	p.Inputs = []lang.Const{-4}
	return p
}
