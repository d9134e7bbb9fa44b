package lattice

import (
	"fmt"

	"github.com/gnolang/signai/internal/lang"
)

// ApplyBinOp is the abstract transfer function of op. Bottom operands are
// strict, Top operands yield Top.
func ApplyBinOp(op lang.BinOp, a, b Sign) Sign {
	if a == Bottom || b == Bottom {
		return Bottom
	}
	if a == Top || b == Top {
		return Top
	}

	switch op {
	case lang.OpAdd:
		if a == b {
			return a
		}
		return Top

	case lang.OpSub:
		if a == Neg && b == Pos {
			return Neg
		}
		if a == Pos && b == Neg {
			return Pos
		}
		return Top

	case lang.OpMul:
		if a == b {
			return Pos
		}
		// 0 * n = 0 and 0 is Pos, so a mixed product is not always Neg.
		return Top

	default:
		panic(fmt.Sprintf("lattice: unknown operator %d", int(op)))
	}
}

// ApplyCondition refines v under the assumption that "x rel literal" holds,
// where v is the current sign of x. Bottom means the assumption contradicts v.
func ApplyCondition(rel lang.Rel, literal lang.Const, v Sign) Sign {
	if v == Bottom {
		return Bottom
	}
	switch {
	case rel == lang.RelLessEq && literal < 0:
		// x <= literal < 0
		if v == Pos {
			return Bottom
		}
		return Neg
	case rel == lang.RelGreater && literal >= 0:
		// x > literal >= 0
		if v == Neg {
			return Bottom
		}
		return Pos
	default:
		return v
	}
}
