package absint

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gnolang/signai/internal/analysis/domain"
	"github.com/gnolang/signai/internal/analysis/lattice"
	"github.com/gnolang/signai/internal/lang"
)

func analyze(t *testing.T, cmd lang.Command) domain.Env {
	t.Helper()
	env, err := New(DefaultConfig()).Run(cmd, domain.New())
	require.NoError(t, err)
	return env
}

func TestEvalExpr(t *testing.T) {
	t.Parallel()
	x, y := lang.Var(0), lang.Var(1)
	env := domain.New().Write(x, lattice.Pos).Write(y, lattice.Neg)

	assert.Equal(t, lattice.Pos, EvalExpr(lang.C(0), env))
	assert.Equal(t, lattice.Neg, EvalExpr(lang.C(-2), env))
	assert.Equal(t, lattice.Neg, EvalExpr(lang.V(y), env))
	assert.Equal(t, lattice.Pos, EvalExpr(lang.Sub(lang.V(x), lang.V(y)), env))
	assert.Equal(t, lattice.Pos, EvalExpr(lang.Mul(lang.V(y), lang.V(y)), env))
	assert.Equal(t, lattice.Top, EvalExpr(lang.Add(lang.V(x), lang.V(lang.Var(2))), env))
}

func TestEvalCond(t *testing.T) {
	t.Parallel()
	x := lang.Var(0)
	pos := domain.New().Write(x, lattice.Pos)

	assert.True(t, EvalCond(lang.LessEq(x, -1), pos).IsBottom())
	assert.Equal(t, lattice.Pos, EvalCond(lang.Greater(x, -1), pos).Read(x))
	assert.Equal(t, lattice.Neg, EvalCond(lang.LessEq(x, -1), domain.New()).Read(x))
	assert.Equal(t, lattice.Pos, EvalCond(lang.Greater(x, 3), domain.New()).Read(x))
	assert.False(t, pos.IsBottom(), "EvalCond must not modify its input")
}

func TestScenarios(t *testing.T) {
	t.Parallel()
	x := lang.Var(0)
	tests := []struct {
		name     string
		prog     lang.Command
		expected lattice.Sign
	}{
		{
			name:     "straight-line assignment",
			prog:     lang.Seq(lang.AssignConst(x, 3), lang.AssignConst(x, 4)),
			expected: lattice.Pos,
		},
		{
			name:     "arithmetic refinement",
			prog:     lang.Seq(lang.AssignConst(x, 5), lang.Assign(x, lang.Add(lang.V(x), lang.C(3)))),
			expected: lattice.Pos,
		},
		{
			name: "conditional with contradictory then",
			prog: lang.Seq(
				lang.AssignConst(x, 5),
				lang.IfElse(lang.LessEq(x, -1),
					lang.Assign(x, lang.Add(lang.V(x), lang.C(3))),
					lang.Assign(x, lang.Sub(lang.V(x), lang.C(20)))),
				lang.Assign(x, lang.Add(lang.V(x), lang.C(3))),
			),
			expected: lattice.Top,
		},
		{
			name: "missing else",
			prog: lang.Seq(
				lang.AssignConst(x, 5),
				lang.If(lang.Greater(x, 0), lang.Assign(x, lang.Add(lang.V(x), lang.C(3)))),
				lang.Assign(x, lang.Add(lang.V(x), lang.C(3))),
			),
			expected: lattice.Pos,
		},
		{
			name:     "input",
			prog:     lang.Seq(lang.AssignConst(x, 5), lang.Input(x)),
			expected: lattice.Top,
		},
		{
			name: "loop exit refines",
			prog: lang.Seq(
				lang.Input(x),
				lang.While(lang.Greater(x, 0), lang.Assign(x, lang.Sub(lang.V(x), lang.C(1)))),
			),
			expected: lattice.Top,
		},
		{
			name: "loop keeps sign",
			prog: lang.Seq(
				lang.AssignConst(x, -1),
				lang.While(lang.LessEq(x, -5), lang.Assign(x, lang.Add(lang.V(x), lang.C(-1)))),
			),
			expected: lattice.Neg,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, analyze(t, tt.prog).Read(x))
		})
	}
}

func TestContradictoryElseIncludesNeg(t *testing.T) {
	t.Parallel()
	x := lang.Var(0)
	prog := lang.Seq(
		lang.AssignConst(x, 5),
		lang.IfElse(lang.LessEq(x, -1),
			lang.Assign(x, lang.Add(lang.V(x), lang.C(3))),
			lang.Assign(x, lang.Sub(lang.V(x), lang.C(20)))),
		lang.Assign(x, lang.Add(lang.V(x), lang.C(3))),
	)
	got := analyze(t, prog).Read(x)
	// the concrete result is -12
	assert.True(t, lattice.Includes(lattice.Neg, got))
	assert.NotEqual(t, lattice.Pos, got)
	assert.NotEqual(t, lattice.Bottom, got)
}

func TestSequenceOrder(t *testing.T) {
	t.Parallel()
	x, y := lang.Var(0), lang.Var(1)
	// reversed composition would read x before it is assigned
	prog := lang.Seq(
		lang.AssignConst(x, -3),
		lang.Assign(y, lang.V(x)),
		lang.AssignConst(x, 4),
	)
	env := analyze(t, prog)
	assert.Equal(t, lattice.Neg, env.Read(y))
	assert.Equal(t, lattice.Pos, env.Read(x))
}

func TestIfWithoutElseKeepsFallThrough(t *testing.T) {
	t.Parallel()
	x := lang.Var(0)
	// when x <= 0 the branch is skipped and x stays negative
	prog := lang.Seq(
		lang.Input(x),
		lang.If(lang.Greater(x, 0), lang.AssignConst(x, 5)),
	)
	assert.Equal(t, lattice.Top, analyze(t, prog).Read(x))

	prog = lang.Seq(
		lang.AssignConst(x, -2),
		lang.If(lang.Greater(x, 0), lang.AssignConst(x, 5)),
	)
	assert.Equal(t, lattice.Neg, analyze(t, prog).Read(x))
}

func TestUnreachableShortCircuits(t *testing.T) {
	t.Parallel()
	x := lang.Var(0)
	bottom := domain.New().Bottomize()
	env, err := New(DefaultConfig()).Run(lang.AssignConst(x, 1), bottom)
	require.NoError(t, err)
	assert.True(t, env.IsBottom())

	// then branch is dead, so the loop inside it never runs
	prog := lang.Seq(
		lang.AssignConst(x, 1),
		lang.IfElse(lang.LessEq(x, -1),
			lang.While(lang.Greater(x, 0), lang.Skip()),
			lang.Skip()),
	)
	in := New(DefaultConfig())
	env, err = in.Run(prog, domain.New())
	require.NoError(t, err)
	assert.Equal(t, lattice.Pos, env.Read(x))
	assert.Zero(t, in.Iterations())
}

func TestLoopThatNeverExits(t *testing.T) {
	t.Parallel()
	x := lang.Var(0)
	// x stays non-negative, so x <= -1 can never end the loop
	prog := lang.Seq(
		lang.AssignConst(x, 1),
		lang.While(lang.Greater(x, -1), lang.Assign(x, lang.Add(lang.V(x), lang.C(1)))),
	)
	assert.True(t, analyze(t, prog).IsBottom())
}

func TestPostLoopReachesPostFixedPoint(t *testing.T) {
	t.Parallel()
	x, y := lang.Var(0), lang.Var(1)
	cond := lang.Greater(x, 0)
	body := lang.Seq(
		lang.Assign(y, lang.Sub(lang.V(y), lang.C(1))),
		lang.Assign(x, lang.Sub(lang.V(x), lang.V(y))),
	)
	in := New(DefaultConfig())
	start := domain.New().Write(x, lattice.Pos).Write(y, lattice.Pos)
	f := func(e domain.Env) (domain.Env, error) {
		return in.run(body, EvalCond(cond, e))
	}

	inv, err := in.PostLoop(f, start, 1)
	require.NoError(t, err)
	assert.True(t, start.IsLessOrEqual(inv), "the invariant covers the entry state")
	next, err := f(inv)
	require.NoError(t, err)
	assert.True(t, next.IsLessOrEqual(inv), "f(inv) ⊑ inv")
	assert.LessOrEqual(t, in.Iterations(), 5)
}

func TestPostLoopIterationCap(t *testing.T) {
	t.Parallel()
	x := lang.Var(0)

	// alternates signs, the join climbs to Top and stabilises
	flip := func(e domain.Env) (domain.Env, error) {
		if e.Read(x) == lattice.Neg {
			return e.Write(x, lattice.Pos), nil
		}
		return e.Write(x, lattice.Neg), nil
	}
	in := New(Config{MaxIterations: 3})
	inv, err := in.PostLoop(flip, domain.New().Write(x, lattice.Pos), 7)
	require.NoError(t, err)
	assert.Equal(t, lattice.Top, inv.Read(x))
	assert.Equal(t, 2, in.Iterations())

	grow := func(e domain.Env) (domain.Env, error) {
		return domain.New().Write(x, lattice.Pos), nil
	}
	_, err = New(Config{MaxIterations: 1}).PostLoop(grow, domain.New().Bottomize(), 9)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoFixpoint))
	assert.Contains(t, err.Error(), "loop 9")

	failing := errors.New("boom")
	_, err = New(DefaultConfig()).PostLoop(func(domain.Env) (domain.Env, error) {
		return domain.New(), failing
	}, domain.New(), 1)
	assert.ErrorIs(t, err, failing)
}

func TestInvariants(t *testing.T) {
	t.Parallel()
	b := lang.NewBuilder()
	x := b.Var()
	assign := b.AssignConst(x, 10)
	dec := b.Assign(x, lang.Sub(lang.V(x), lang.C(1)))
	loop := b.While(lang.Greater(x, 0), dec)
	after := b.Skip()
	prog := b.Seq(assign, loop, after)

	config := DefaultConfig()
	config.RecordInvariants = true
	in := New(config)
	_, err := in.Run(prog, domain.New())
	require.NoError(t, err)

	inv := in.Invariants()
	require.Contains(t, inv, loop.Label())
	require.Contains(t, inv, dec.Label())
	require.Contains(t, inv, after.Label())
	assert.Equal(t, lattice.Top, inv[assign.Label()].Read(x))
	assert.Equal(t, lattice.Top, inv[loop.Label()].Read(x))
	assert.Equal(t, lattice.Pos, inv[dec.Label()].Read(x), "the body runs only when x > 0")

	assert.Nil(t, New(DefaultConfig()).Invariants())
}

func TestLogsIterations(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zap.DebugLevel)
	config := DefaultConfig()
	config.Logger = zap.New(core)

	x := lang.Var(0)
	prog := lang.While(lang.Greater(x, 0), lang.Assign(x, lang.Sub(lang.V(x), lang.C(1))))
	_, err := New(config).Run(prog, domain.New())
	require.NoError(t, err)
	assert.NotZero(t, logs.FilterMessage("loop iteration").Len())
}
