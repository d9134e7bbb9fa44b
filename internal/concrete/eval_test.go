package concrete

import (
	"errors"
	"math"
	"testing"

	"github.com/gnolang/signai/internal/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, cmd lang.Command) Memory {
	t.Helper()
	m, err := NewInterpreter(DefaultConfig()).Run(cmd, NewMemory())
	require.NoError(t, err)
	return m
}

func TestMemory(t *testing.T) {
	t.Parallel()
	m := NewMemory()
	assert.Equal(t, DefaultCapacity, m.Capacity())
	assert.Equal(t, lang.Const(0), m.Read(42))

	m2 := m.Write(3, 7)
	assert.Equal(t, lang.Const(7), m2.Read(3))
	assert.Equal(t, lang.Const(0), m.Read(3), "write must not alias the receiver")
	assert.False(t, m.Equal(m2))
	assert.True(t, m2.Equal(m.Write(3, 7)))
	assert.Equal(t, "{v3: 7, v0: 0}", m2.Format([]lang.Var{3, 0}))

	assert.Panics(t, func() { m.Read(DefaultCapacity) })
	assert.Panics(t, func() { NewMemoryWithCapacity(2).Write(2, 1) })
}

func TestScenarios(t *testing.T) {
	t.Parallel()
	x := lang.Var(0)
	tests := []struct {
		name     string
		prog     lang.Command
		expected lang.Const
	}{
		{
			name:     "straight-line assignment",
			prog:     lang.Seq(lang.AssignConst(x, 3), lang.AssignConst(x, 4)),
			expected: 4,
		},
		{
			name:     "arithmetic",
			prog:     lang.Seq(lang.AssignConst(x, 5), lang.Assign(x, lang.Add(lang.V(x), lang.C(3)))),
			expected: 8,
		},
		{
			name: "conditional with else",
			prog: lang.Seq(
				lang.AssignConst(x, 5),
				lang.IfElse(lang.LessEq(x, -1),
					lang.Assign(x, lang.Add(lang.V(x), lang.C(3))),
					lang.Assign(x, lang.Sub(lang.V(x), lang.C(20)))),
				lang.Assign(x, lang.Add(lang.V(x), lang.C(3))),
			),
			expected: -12,
		},
		{
			name: "missing else",
			prog: lang.Seq(
				lang.AssignConst(x, 5),
				lang.If(lang.Greater(x, 0), lang.Assign(x, lang.Add(lang.V(x), lang.C(3)))),
				lang.Assign(x, lang.Add(lang.V(x), lang.C(3))),
			),
			expected: 11,
		},
		{
			name: "missing else not taken",
			prog: lang.Seq(
				lang.AssignConst(x, -5),
				lang.If(lang.Greater(x, 0), lang.AssignConst(x, 100)),
			),
			expected: -5,
		},
		{
			name: "countdown loop",
			prog: lang.Seq(
				lang.AssignConst(x, 10),
				lang.While(lang.Greater(x, 0), lang.Assign(x, lang.Sub(lang.V(x), lang.C(3)))),
			),
			expected: -2,
		},
		{
			name:     "multiply",
			prog:     lang.Seq(lang.AssignConst(x, -4), lang.Assign(x, lang.Mul(lang.V(x), lang.C(-3)))),
			expected: 12,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, run(t, tt.prog).Read(x))
		})
	}
}

func TestSequenceIsLeftToRight(t *testing.T) {
	t.Parallel()
	x, y := lang.Var(0), lang.Var(1)
	// y observes x only when the first command runs first
	prog := lang.Seq(lang.AssignConst(x, 2), lang.Assign(y, lang.V(x)))
	assert.Equal(t, lang.Const(2), run(t, prog).Read(y))
}

func TestInput(t *testing.T) {
	t.Parallel()
	x, y := lang.Var(0), lang.Var(1)
	prog := lang.Seq(lang.Input(x), lang.Input(y))

	m := run(t, prog)
	assert.Equal(t, lang.Const(0), m.Read(x))

	in := NewInterpreter(Config{Input: CycleInput(-3)})
	m, err := in.Run(prog, NewMemory())
	require.NoError(t, err)
	assert.Equal(t, lang.Const(-3), m.Read(x))
	assert.Equal(t, lang.Const(-3), m.Read(y))

	in = NewInterpreter(Config{Input: CycleInput(1, 2)})
	m, err = in.Run(prog, NewMemory())
	require.NoError(t, err)
	assert.Equal(t, lang.Const(1), m.Read(x))
	assert.Equal(t, lang.Const(2), m.Read(y))
}

func TestStepLimit(t *testing.T) {
	t.Parallel()
	x := lang.Var(0)
	prog := lang.Seq(
		lang.AssignConst(x, 1),
		lang.While(lang.Greater(x, 0), lang.Skip()),
	)
	in := NewInterpreter(Config{MaxSteps: 1000})
	_, err := in.Run(prog, NewMemory())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStepLimit))
	assert.Greater(t, in.Steps(), 1000)
}

func TestOverflow(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		op          lang.BinOp
		left, right int64
	}{
		{"add", lang.OpAdd, math.MaxInt64, 1},
		{"add negative", lang.OpAdd, math.MinInt64, -1},
		{"sub", lang.OpSub, math.MinInt64, 1},
		{"sub negative", lang.OpSub, math.MaxInt64, -1},
		{"mul", lang.OpMul, math.MaxInt64, 2},
		{"mul min", lang.OpMul, math.MinInt64, -1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := EvalExpr(lang.Binary(tt.op, lang.C(tt.left), lang.C(tt.right)), NewMemory())
			assert.ErrorIs(t, err, ErrOverflow)
		})
	}

	v, err := EvalExpr(lang.Mul(lang.C(math.MinInt64), lang.C(1)), NewMemory())
	require.NoError(t, err)
	assert.Equal(t, lang.Const(math.MinInt64), v)
}
