// Package lang defines the abstract syntax of the toy imperative language
// analysed by signai.
//
// Programs have no surface syntax. They are built directly as trees, either
// with the free constructor functions (Assign, Seq, If, ...) which attach the
// placeholder label 0, or through a Builder which hands out fresh variables
// and labels:
//
//	b := lang.NewBuilder()
//	x := b.Var()
//	prog := b.Seq(
//		b.AssignConst(x, 5),
//		b.Assign(x, lang.Add(lang.V(x), lang.C(3))),
//	)
//
// Expr and Command are closed sum types: every variant lives in this package
// and carries an unexported marker method.
package lang
