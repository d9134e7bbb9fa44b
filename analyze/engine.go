// Package analyze runs the concrete and abstract semantics over program
// documents and collects the comparisons.
package analyze

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/gnolang/signai/internal/analysis/absint"
	"github.com/gnolang/signai/internal/analysis/domain"
	"github.com/gnolang/signai/internal/check"
	"github.com/gnolang/signai/internal/concrete"
	"github.com/gnolang/signai/internal/lang"
	"github.com/gnolang/signai/internal/program"
)

// ErrCapacity is returned for programs that mention more variables than the
// configured number of slots.
var ErrCapacity = errors.New("program does not fit into the configured slots")

// Analyzer runs both semantics on program files.
type Analyzer interface {
	AnalyzeFile(path string) (Result, error)
}

// Result is the outcome of analysing one program.
type Result struct {
	Program    string        `json:"program"`
	Path       string        `json:"path,omitempty"`
	Verdict    check.Verdict `json:"verdict"`
	Reason     string        `json:"reason"`
	Detail     string        `json:"detail,omitempty"`
	Vars       []VarResult   `json:"vars"`
	Invariants []Invariant   `json:"invariants,omitempty"`
	Iterations int           `json:"iterations"`
	Steps      int           `json:"steps"`
}

// VarResult holds the final value of one declared variable. Concrete is nil
// when the concrete run did not finish.
type VarResult struct {
	Name     string `json:"name"`
	Concrete *int64 `json:"concrete,omitempty"`
	Abstract string `json:"abstract"`
	Covered  bool   `json:"covered"`
}

// Invariant is the environment recorded at one labelled command.
type Invariant struct {
	Label   int    `json:"label"`
	Command string `json:"command"`
	Env     string `json:"env"`
}

// Engine analyses programs with a fixed configuration.
type Engine struct {
	config Config
	logger *zap.Logger
}

// New creates an engine. A nil logger discards everything.
func New(config Config, logger *zap.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{config: config, logger: logger}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// AnalyzeFile loads and analyses the program document at path.
func (e *Engine) AnalyzeFile(path string) (Result, error) {
	p, err := program.Load(path)
	if err != nil {
		return Result{}, err
	}
	r, err := e.Analyze(p)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	r.Path = path
	return r, nil
}

// Analyze runs p concretely and abstractly from its initial memory and
// compares the final states.
func (e *Engine) Analyze(p *program.Program) (Result, error) {
	if hi := lang.MaxVar(p.Body); int(hi) >= e.config.Slots {
		return Result{}, fmt.Errorf("%s uses %s with %d slots: %w", p.Name, hi, e.config.Slots, ErrCapacity)
	}
	mem, err := p.Memory(e.config.Slots)
	if err != nil {
		return Result{}, fmt.Errorf("%v: %w", err, ErrCapacity)
	}

	ai := absint.New(absint.Config{
		MaxIterations:    e.config.MaxIterations,
		RecordInvariants: e.config.RecordInvariants,
		Logger:           e.logger.With(zap.String("program", p.Name)),
	})
	ci := concrete.NewInterpreter(concrete.Config{
		Input:    e.inputs(p),
		MaxSteps: e.config.MaxSteps,
	})

	var report check.Report
	abs, err := ai.Run(p.Body, domain.FromMemory(mem))
	if err != nil {
		report = check.Undecided(err, abs)
	} else if conc, err := ci.Run(p.Body, mem); err != nil {
		report = check.Undecided(err, abs)
	} else {
		report = check.Compare(p.Vars, conc, abs)
	}

	e.logger.Debug("analysed program",
		zap.String("program", p.Name),
		zap.Stringer("verdict", report.Verdict),
		zap.Int("iterations", ai.Iterations()),
		zap.Int("steps", ci.Steps()))

	r := Result{
		Program:    p.Name,
		Verdict:    report.Verdict,
		Reason:     report.Reason.String(),
		Detail:     report.Detail,
		Vars:       varResults(p, report),
		Iterations: ai.Iterations(),
		Steps:      ci.Steps(),
	}
	if e.config.RecordInvariants {
		r.Invariants = invariants(p, ai.Invariants())
	}
	return r, nil
}

func (e *Engine) inputs(p *program.Program) concrete.InputFunc {
	values := p.Inputs
	if len(values) == 0 {
		for _, v := range e.config.Inputs {
			values = append(values, lang.Const(v))
		}
	}
	if len(values) == 0 {
		return concrete.ZeroInput
	}
	return concrete.CycleInput(values...)
}

func varResults(p *program.Program, report check.Report) []VarResult {
	out := make([]VarResult, 0, len(p.Vars))
	if report.Verdict != check.Inconclusive {
		for _, r := range report.Readings {
			n := int64(r.Concrete)
			out = append(out, VarResult{
				Name:     p.VarName(r.Var),
				Concrete: &n,
				Abstract: r.Abstract.String(),
				Covered:  r.Covered,
			})
		}
		return out
	}
	if report.Abstract.Capacity() == 0 {
		return out
	}
	for _, v := range p.Vars {
		out = append(out, VarResult{Name: p.VarName(v), Abstract: report.Abstract.Read(v).String()})
	}
	return out
}

func invariants(p *program.Program, recorded map[lang.Label]domain.Env) []Invariant {
	commands := make(map[lang.Label]lang.Command)
	lang.Walk(p.Body, func(c lang.Command) bool {
		commands[c.Label()] = c
		return true
	})

	out := make([]Invariant, 0, len(recorded))
	for label, env := range recorded {
		out = append(out, Invariant{
			Label:   int(label),
			Command: summarize(commands[label]),
			Env:     formatEnv(p, env),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// summarize renders the head of a command, leaving out nested bodies.
func summarize(c lang.Command) string {
	switch c := c.(type) {
	case nil:
		return ""
	case lang.SeqCmd:
		return "seq"
	case lang.IfCmd:
		return "if " + c.Cond.String()
	case lang.WhileCmd:
		return "while " + c.Cond.String()
	default:
		return c.String()
	}
}

func formatEnv(p *program.Program, env domain.Env) string {
	parts := make([]string, 0, len(p.Vars))
	for _, v := range p.Vars {
		parts = append(parts, fmt.Sprintf("%s: %s", p.VarName(v), env.Read(v)))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
