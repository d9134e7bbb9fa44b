package concrete

import (
	"errors"
	"fmt"
	"math"

	"github.com/gnolang/signai/internal/lang"
)

var (
	// ErrStepLimit is returned when a run executes more commands than allowed,
	// typically because a while loop does not terminate.
	ErrStepLimit = errors.New("concrete step limit exceeded")
	// ErrOverflow is returned when 64-bit arithmetic overflows.
	ErrOverflow = errors.New("integer overflow")
)

// DefaultMaxSteps bounds the number of commands executed by one run.
const DefaultMaxSteps = 1_000_000

// InputFunc supplies the value read by an input command.
type InputFunc func(x lang.Var) lang.Const

// ZeroInput always supplies 0.
func ZeroInput(lang.Var) lang.Const { return 0 }

// CycleInput supplies the given values in order, starting over after the
// last one. With no values it behaves like ZeroInput.
func CycleInput(values ...lang.Const) InputFunc {
	if len(values) == 0 {
		return ZeroInput
	}
	i := 0
	return func(lang.Var) lang.Const {
		v := values[i%len(values)]
		i++
		return v
	}
}

// Config holds configuration for the interpreter.
type Config struct {
	Input    InputFunc
	MaxSteps int
}

// DefaultConfig returns the default interpreter configuration.
func DefaultConfig() Config {
	return Config{
		Input:    ZeroInput,
		MaxSteps: DefaultMaxSteps,
	}
}

// Interpreter executes commands against a Memory.
type Interpreter struct {
	config Config
	steps  int
}

// NewInterpreter creates an interpreter with the given configuration.
func NewInterpreter(config Config) *Interpreter {
	if config.Input == nil {
		config.Input = ZeroInput
	}
	if config.MaxSteps <= 0 {
		config.MaxSteps = DefaultMaxSteps
	}
	return &Interpreter{config: config}
}

// Steps returns the number of commands executed by the last Run.
func (in *Interpreter) Steps() int {
	return in.steps
}

// EvalExpr evaluates e in m.
func EvalExpr(e lang.Expr, m Memory) (lang.Const, error) {
	switch x := e.(type) {
	case lang.ConstExpr:
		return x.Val, nil
	case lang.VarExpr:
		return m.Read(x.Var), nil
	case lang.BinaryExpr:
		left, err := EvalExpr(x.Left, m)
		if err != nil {
			return 0, err
		}
		right, err := EvalExpr(x.Right, m)
		if err != nil {
			return 0, err
		}
		return applyBinOp(x.Op, left, right)
	default:
		panic(fmt.Sprintf("concrete: unexpected expression %T", e))
	}
}

// EvalCond evaluates c in m.
func EvalCond(c lang.Cond, m Memory) bool {
	return c.Rel.Holds(m.Read(c.Left), c.Right)
}

func applyBinOp(op lang.BinOp, left, right lang.Const) (lang.Const, error) {
	l, r := int64(left), int64(right)
	switch op {
	case lang.OpAdd:
		s := l + r
		if (r > 0 && s < l) || (r < 0 && s > l) {
			return 0, fmt.Errorf("%d + %d: %w", l, r, ErrOverflow)
		}
		return lang.Const(s), nil
	case lang.OpSub:
		d := l - r
		if (r > 0 && d > l) || (r < 0 && d < l) {
			return 0, fmt.Errorf("%d - %d: %w", l, r, ErrOverflow)
		}
		return lang.Const(d), nil
	case lang.OpMul:
		if l == 0 || r == 0 {
			return 0, nil
		}
		p := l * r
		if p/r != l || (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
			return 0, fmt.Errorf("%d * %d: %w", l, r, ErrOverflow)
		}
		return lang.Const(p), nil
	default:
		panic(fmt.Sprintf("concrete: unknown operator %d", int(op)))
	}
}

// Run executes cmd starting from m and returns the final memory.
func (in *Interpreter) Run(cmd lang.Command, m Memory) (Memory, error) {
	in.steps = 0
	return in.run(cmd, m)
}

func (in *Interpreter) run(cmd lang.Command, m Memory) (Memory, error) {
	in.steps++
	if in.steps > in.config.MaxSteps {
		return m, fmt.Errorf("after %d steps: %w", in.config.MaxSteps, ErrStepLimit)
	}

	switch c := cmd.(type) {
	case lang.SkipCmd:
		return m, nil

	case lang.SeqCmd:
		m, err := in.run(c.First, m)
		if err != nil {
			return m, err
		}
		return in.run(c.Second, m)

	case lang.AssignCmd:
		v, err := EvalExpr(c.Expr, m)
		if err != nil {
			return m, fmt.Errorf("%s: %w", c, err)
		}
		return m.Write(c.Var, v), nil

	case lang.InputCmd:
		return m.Write(c.Var, in.config.Input(c.Var)), nil

	case lang.IfCmd:
		if EvalCond(c.Cond, m) {
			return in.run(c.Then, m)
		}
		if c.Else == nil {
			return m, nil
		}
		return in.run(c.Else, m)

	case lang.WhileCmd:
		for EvalCond(c.Cond, m) {
			var err error
			m, err = in.run(c.Body, m)
			if err != nil {
				return m, err
			}
			in.steps++
			if in.steps > in.config.MaxSteps {
				return m, fmt.Errorf("after %d steps: %w", in.config.MaxSteps, ErrStepLimit)
			}
		}
		return m, nil

	default:
		panic(fmt.Sprintf("concrete: unexpected command %T", cmd))
	}
}
