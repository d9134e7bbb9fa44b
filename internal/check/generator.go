package check

import (
	"math/rand"

	"github.com/gnolang/signai/internal/concrete"
	"github.com/gnolang/signai/internal/lang"
)

// GenConfig bounds the shape of generated programs.
type GenConfig struct {
	Vars     int   // number of variables, v0..v(Vars-1)
	Depth    int   // maximum nesting of compound commands
	MaxConst int64 // literals are drawn from [-MaxConst, MaxConst]
	Seed     int64
}

// DefaultGenConfig returns the default generator configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Vars:     3,
		Depth:    4,
		MaxConst: 5,
		Seed:     1,
	}
}

// Generator produces random programs and memories. It is deterministic for
// a given seed and not safe for concurrent use.
type Generator struct {
	config GenConfig
	rnd    *rand.Rand
}

// NewGenerator creates a generator.
func NewGenerator(config GenConfig) *Generator {
	if config.Vars <= 0 {
		config.Vars = 1
	}
	if config.MaxConst <= 0 {
		config.MaxConst = 1
	}
	return &Generator{
		config: config,
		rnd:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Program returns a random command.
func (g *Generator) Program() lang.Command {
	n := 1 + g.rnd.Intn(4)
	cmds := make([]lang.Command, n)
	for i := range cmds {
		cmds[i] = g.command(g.config.Depth, nil)
	}
	return lang.Seq(cmds...)
}

// Memory returns a memory whose program variables hold small random values.
func (g *Generator) Memory(capacity int) concrete.Memory {
	m := concrete.NewMemoryWithCapacity(capacity)
	for i := 0; i < g.config.Vars && i < capacity; i++ {
		m = m.Write(lang.Var(i), g.constant(2*g.config.MaxConst))
	}
	return m
}

// Input returns an input source drawing random values.
func (g *Generator) Input() concrete.InputFunc {
	return func(lang.Var) lang.Const {
		return g.constant(2 * g.config.MaxConst)
	}
}

func (g *Generator) constant(bound int64) lang.Const {
	return lang.Const(g.rnd.Int63n(2*bound+1) - bound)
}

// variable picks a variable that is not frozen. ok is false when every
// variable is frozen.
func (g *Generator) variable(frozen []lang.Var) (v lang.Var, ok bool) {
	var free []lang.Var
	for i := 0; i < g.config.Vars; i++ {
		if !contains(frozen, lang.Var(i)) {
			free = append(free, lang.Var(i))
		}
	}
	if len(free) == 0 {
		return 0, false
	}
	return free[g.rnd.Intn(len(free))], true
}

func contains(vs []lang.Var, v lang.Var) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}

func (g *Generator) expr(depth int) lang.Expr {
	if depth <= 0 || g.rnd.Intn(3) == 0 {
		if g.rnd.Intn(2) == 0 {
			return lang.ConstExpr{Val: g.constant(g.config.MaxConst)}
		}
		return lang.VarExpr{Var: lang.Var(g.rnd.Intn(g.config.Vars))}
	}
	op := lang.BinOp(g.rnd.Intn(3))
	return lang.Binary(op, g.expr(depth-1), g.expr(depth-1))
}

func (g *Generator) cond(v lang.Var) lang.Cond {
	return lang.Cond{
		Rel:   lang.Rel(g.rnd.Intn(2)),
		Left:  v,
		Right: g.constant(g.config.MaxConst),
	}
}

// command builds a random command that never assigns a frozen variable,
// i.e. the counter of an enclosing loop.
func (g *Generator) command(depth int, frozen []lang.Var) lang.Command {
	kind := g.rnd.Intn(6)
	if depth <= 0 {
		kind %= 3
	}
	switch kind {
	case 0:
		return lang.Skip()
	case 1:
		v, ok := g.variable(frozen)
		if !ok {
			return lang.Skip()
		}
		return lang.Assign(v, g.expr(2))
	case 2:
		v, ok := g.variable(frozen)
		if !ok {
			return lang.Skip()
		}
		return lang.Input(v)
	case 3:
		return lang.IfElse(g.cond(lang.Var(g.rnd.Intn(g.config.Vars))),
			g.command(depth-1, frozen), g.command(depth-1, frozen))
	case 4:
		return lang.If(g.cond(lang.Var(g.rnd.Intn(g.config.Vars))), g.command(depth-1, frozen))
	default:
		return g.loop(depth, frozen)
	}
}

// loop builds a counting loop: the body leaves the counter alone and the
// final step moves it towards the exit, so most loops terminate.
func (g *Generator) loop(depth int, frozen []lang.Var) lang.Command {
	counter, ok := g.variable(frozen)
	if !ok {
		return lang.Skip()
	}
	step := lang.C(int64(1 + g.rnd.Intn(3)))
	cond := g.cond(counter)
	var advance lang.Command
	if cond.Rel == lang.RelGreater {
		advance = lang.Assign(counter, lang.Sub(lang.V(counter), step))
	} else {
		advance = lang.Assign(counter, lang.Add(lang.V(counter), step))
	}
	inner := append(append([]lang.Var(nil), frozen...), counter)
	body := g.command(depth-1, inner)
	return lang.While(cond, lang.Seq(body, advance))
}
