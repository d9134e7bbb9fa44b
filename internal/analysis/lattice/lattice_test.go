package lattice

import (
	"fmt"
	"math"
	"testing"

	"github.com/gnolang/signai/internal/lang"
	"github.com/stretchr/testify/assert"
)

func TestAbstract(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Neg, Abstract(-1))
	assert.Equal(t, Neg, Abstract(math.MinInt64))
	assert.Equal(t, Pos, Abstract(0), "zero is classified as Pos")
	assert.Equal(t, Pos, Abstract(1))
	assert.Equal(t, Pos, Abstract(math.MaxInt64))
}

func TestIncludes(t *testing.T) {
	t.Parallel()
	for _, a := range All {
		for _, b := range All {
			want := a == Bottom || b == Top || a == b
			assert.Equal(t, want, Includes(a, b), "Includes(%s, %s)", a, b)
		}
	}
	assert.False(t, Includes(Pos, Neg))
	assert.False(t, Includes(Top, Pos))
	assert.True(t, Includes(Bottom, Neg))

	assert.True(t, Contains(Top, -3))
	assert.True(t, Contains(Pos, 0))
	assert.False(t, Contains(Neg, 0))
	assert.False(t, Contains(Bottom, 5))
}

func TestJoinTable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		a, b, want Sign
	}{
		{Bottom, Bottom, Bottom},
		{Bottom, Pos, Pos},
		{Neg, Bottom, Neg},
		{Top, Pos, Top},
		{Neg, Top, Top},
		{Pos, Neg, Top},
		{Neg, Pos, Top},
		{Pos, Pos, Pos},
		{Neg, Neg, Neg},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Join(tt.a, tt.b), "Join(%s, %s)", tt.a, tt.b)
	}
}

func TestJoinLaws(t *testing.T) {
	t.Parallel()
	for _, a := range All {
		assert.Equal(t, a, Join(Bottom, a), "Bottom is the identity")
		assert.Equal(t, a, Join(a, Bottom), "Bottom is the identity")
		assert.Equal(t, Top, Join(Top, a), "Top absorbs")
		assert.Equal(t, a, Join(a, a), "idempotent")
		for _, b := range All {
			j := Join(a, b)
			assert.Equal(t, j, Join(b, a), "commutative")
			assert.True(t, Includes(a, j), "%s ⊑ %s ⊔ %s", a, a, b)
			assert.True(t, Includes(b, j), "%s ⊑ %s ⊔ %s", b, a, b)
			for _, c := range All {
				assert.Equal(t, Join(Join(a, b), c), Join(a, Join(b, c)), "associative")
				// least: any upper bound of a and b is above the join
				if Includes(a, c) && Includes(b, c) {
					assert.True(t, Includes(j, c))
				}
			}
		}
	}
}

func TestMeet(t *testing.T) {
	t.Parallel()
	for _, a := range All {
		assert.Equal(t, a, Meet(Top, a))
		assert.Equal(t, Bottom, Meet(Bottom, a))
		for _, b := range All {
			m := Meet(a, b)
			assert.Equal(t, m, Meet(b, a))
			assert.True(t, Includes(m, a))
			assert.True(t, Includes(m, b))
		}
	}
	assert.Equal(t, Bottom, Meet(Pos, Neg))
}

func TestApplyBinOpTable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		op   lang.BinOp
		a, b Sign
		want Sign
	}{
		{lang.OpAdd, Pos, Pos, Pos},
		{lang.OpAdd, Neg, Neg, Neg},
		{lang.OpAdd, Pos, Neg, Top},
		{lang.OpAdd, Neg, Pos, Top},
		{lang.OpSub, Neg, Pos, Neg},
		{lang.OpSub, Pos, Neg, Pos},
		{lang.OpSub, Pos, Pos, Top},
		{lang.OpSub, Neg, Neg, Top},
		{lang.OpMul, Pos, Pos, Pos},
		{lang.OpMul, Neg, Neg, Pos},
		{lang.OpMul, Pos, Neg, Top},
		{lang.OpMul, Neg, Pos, Top},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ApplyBinOp(tt.op, tt.a, tt.b), "%s %s %s", tt.a, tt.op, tt.b)
	}

	for _, op := range []lang.BinOp{lang.OpAdd, lang.OpSub, lang.OpMul} {
		for _, s := range All {
			assert.Equal(t, Bottom, ApplyBinOp(op, Bottom, s), "strict in left operand")
			assert.Equal(t, Bottom, ApplyBinOp(op, s, Bottom), "strict in right operand")
			if s != Bottom {
				assert.Equal(t, Top, ApplyBinOp(op, Top, s))
				assert.Equal(t, Top, ApplyBinOp(op, s, Top))
			}
		}
	}
}

// Every concrete operation on small integers must land inside the abstract
// result computed from the operand signs.
func TestApplyBinOpSound(t *testing.T) {
	t.Parallel()
	ops := map[lang.BinOp]func(a, b int64) int64{
		lang.OpAdd: func(a, b int64) int64 { return a + b },
		lang.OpSub: func(a, b int64) int64 { return a - b },
		lang.OpMul: func(a, b int64) int64 { return a * b },
	}
	for op, f := range ops {
		for a := int64(-6); a <= 6; a++ {
			for b := int64(-6); b <= 6; b++ {
				got := ApplyBinOp(op, Abstract(lang.Const(a)), Abstract(lang.Const(b)))
				assert.True(t, Contains(got, lang.Const(f(a, b))),
					fmt.Sprintf("%d %s %d = %d not in %s", a, op, b, f(a, b), got))
			}
		}
	}
}

func TestApplyCondition(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		rel     lang.Rel
		literal lang.Const
		v       Sign
		want    Sign
	}{
		{"bottom stays bottom", lang.RelLessEq, -1, Bottom, Bottom},
		{"bottom stays bottom greater", lang.RelGreater, 3, Bottom, Bottom},
		{"le negative contradicts pos", lang.RelLessEq, -1, Pos, Bottom},
		{"le negative refines top", lang.RelLessEq, -1, Top, Neg},
		{"le negative keeps neg", lang.RelLessEq, -7, Neg, Neg},
		{"gt nonnegative contradicts neg", lang.RelGreater, 0, Neg, Bottom},
		{"gt nonnegative refines top", lang.RelGreater, 0, Top, Pos},
		{"gt nonnegative keeps pos", lang.RelGreater, 9, Pos, Pos},
		{"le nonnegative undecided", lang.RelLessEq, 0, Pos, Pos},
		{"le nonnegative undecided top", lang.RelLessEq, 4, Top, Top},
		{"gt negative undecided", lang.RelGreater, -1, Neg, Neg},
		{"gt negative undecided top", lang.RelGreater, -1, Top, Top},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ApplyCondition(tt.rel, tt.literal, tt.v))
		})
	}
}

// If a concrete value satisfies the test, its sign must survive refinement.
func TestApplyConditionSound(t *testing.T) {
	t.Parallel()
	for _, rel := range []lang.Rel{lang.RelLessEq, lang.RelGreater} {
		for lit := int64(-4); lit <= 4; lit++ {
			for n := int64(-6); n <= 6; n++ {
				if !rel.Holds(lang.Const(n), lang.Const(lit)) {
					continue
				}
				for _, v := range []Sign{Top, Abstract(lang.Const(n))} {
					got := ApplyCondition(rel, lang.Const(lit), v)
					assert.True(t, Contains(got, lang.Const(n)),
						"%d %s %d from %s refined to %s", n, rel, lit, v, got)
				}
			}
		}
	}
}

func TestString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Bottom", Bottom.String())
	assert.Equal(t, "Top", Top.String())
	assert.Equal(t, "Pos", Pos.String())
	assert.Equal(t, "Neg", Neg.String())
	assert.Equal(t, "Unknown", Sign(42).String())
}
