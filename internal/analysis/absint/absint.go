package absint

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gnolang/signai/internal/analysis/domain"
	"github.com/gnolang/signai/internal/analysis/lattice"
	"github.com/gnolang/signai/internal/lang"
)

// ErrNoFixpoint is returned when a loop does not stabilise within the
// configured number of iterations.
var ErrNoFixpoint = errors.New("fixed point not reached")

// DefaultMaxIterations bounds the Kleene iteration of a single loop. The sign
// lattice has height 2, so each variable can go up at most twice; the bound
// only matters for a transfer function that is not monotone.
const DefaultMaxIterations = 64

// Config holds configuration for the abstract interpreter.
type Config struct {
	MaxIterations    int
	RecordInvariants bool
	Logger           *zap.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxIterations: DefaultMaxIterations,
		Logger:        zap.NewNop(),
	}
}

// Interpreter runs commands over the sign domain.
type Interpreter struct {
	config     Config
	invariants map[lang.Label]domain.Env
	iterations int
}

// New creates an interpreter with the given configuration.
func New(config Config) *Interpreter {
	if config.MaxIterations <= 0 {
		config.MaxIterations = DefaultMaxIterations
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &Interpreter{config: config}
}

// EvalExpr evaluates e over the signs held by env.
func EvalExpr(e lang.Expr, env domain.Env) lattice.Sign {
	switch x := e.(type) {
	case lang.ConstExpr:
		return lattice.Abstract(x.Val)
	case lang.VarExpr:
		return env.Read(x.Var)
	case lang.BinaryExpr:
		return lattice.ApplyBinOp(x.Op, EvalExpr(x.Left, env), EvalExpr(x.Right, env))
	default:
		panic(fmt.Sprintf("absint: unexpected expression %T", e))
	}
}

// EvalCond returns env restricted to the states where c holds. When c cannot
// hold the result is unreachable.
func EvalCond(c lang.Cond, env domain.Env) domain.Env {
	refined := lattice.ApplyCondition(c.Rel, c.Right, env.Read(c.Left))
	if refined == lattice.Bottom {
		return env.Bottomize()
	}
	return env.Write(c.Left, refined)
}

// Run executes cmd abstractly from env.
func (in *Interpreter) Run(cmd lang.Command, env domain.Env) (domain.Env, error) {
	in.iterations = 0
	if in.config.RecordInvariants {
		in.invariants = make(map[lang.Label]domain.Env)
	}
	return in.run(cmd, env)
}

// Invariants returns, per command label, the join of every reachable state
// observed on entry to that command. For loops it holds the loop invariant.
// It is nil unless Config.RecordInvariants is set.
func (in *Interpreter) Invariants() map[lang.Label]domain.Env {
	return in.invariants
}

// Iterations returns the total number of loop iterations of the last Run.
func (in *Interpreter) Iterations() int {
	return in.iterations
}

func (in *Interpreter) run(cmd lang.Command, env domain.Env) (domain.Env, error) {
	if env.IsBottom() {
		return env, nil
	}
	if _, isLoop := cmd.(lang.WhileCmd); !isLoop {
		in.record(cmd.Label(), env)
	}

	switch c := cmd.(type) {
	case lang.SkipCmd:
		return env, nil

	case lang.SeqCmd:
		mid, err := in.run(c.First, env)
		if err != nil {
			return mid, err
		}
		return in.run(c.Second, mid)

	case lang.AssignCmd:
		return env.Write(c.Var, EvalExpr(c.Expr, env)), nil

	case lang.InputCmd:
		return env.Write(c.Var, lattice.Top), nil

	case lang.IfCmd:
		thenEnv, err := in.run(c.Then, EvalCond(c.Cond, env))
		if err != nil {
			return thenEnv, err
		}
		elseEnv := EvalCond(c.Cond.Negate(), env)
		if c.Else != nil {
			elseEnv, err = in.run(c.Else, elseEnv)
			if err != nil {
				return elseEnv, err
			}
		}
		return thenEnv.Join(elseEnv), nil

	case lang.WhileCmd:
		body := func(e domain.Env) (domain.Env, error) {
			return in.run(c.Body, EvalCond(c.Cond, e))
		}
		inv, err := in.PostLoop(body, env, c.Label())
		if err != nil {
			return inv, err
		}
		in.record(c.Label(), inv)
		return EvalCond(c.Cond.Negate(), inv), nil

	default:
		panic(fmt.Sprintf("absint: unexpected command %T", cmd))
	}
}

// PostLoop computes a post fixed point of f above env by Kleene iteration:
// it returns the first env' with f(env') ⊑ env', joining f's output into the
// current approximation otherwise. label only identifies the loop in logs and
// errors.
func (in *Interpreter) PostLoop(f func(domain.Env) (domain.Env, error), env domain.Env, label lang.Label) (domain.Env, error) {
	cur := env
	for i := 1; i <= in.config.MaxIterations; i++ {
		in.iterations++
		next, err := f(cur)
		if err != nil {
			return next, err
		}
		in.config.Logger.Debug("loop iteration",
			zap.Int("label", int(label)),
			zap.Int("iteration", i),
			zap.Stringer("env", next))
		if next.IsLessOrEqual(cur) {
			return cur, nil
		}
		cur = cur.Join(next)
	}
	return cur, fmt.Errorf("loop %d after %d iterations: %w", label, in.config.MaxIterations, ErrNoFixpoint)
}

func (in *Interpreter) record(label lang.Label, env domain.Env) {
	if in.invariants == nil || label == 0 || env.IsBottom() {
		return
	}
	if prev, ok := in.invariants[label]; ok {
		env = prev.Join(env)
	}
	in.invariants[label] = env
}
