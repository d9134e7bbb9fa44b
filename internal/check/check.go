package check

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnolang/signai/internal/analysis/absint"
	"github.com/gnolang/signai/internal/analysis/domain"
	"github.com/gnolang/signai/internal/analysis/lattice"
	"github.com/gnolang/signai/internal/concrete"
	"github.com/gnolang/signai/internal/lang"
)

// Verdict is the outcome of a soundness check.
type Verdict int

const (
	_ Verdict = iota
	// Sound indicates every concrete value is covered by the abstract result.
	Sound
	// Unsound indicates some concrete value escapes the abstract result.
	Unsound
	// Inconclusive indicates the check could not be decided.
	Inconclusive
)

func (v Verdict) String() string {
	switch v {
	case Sound:
		return "Sound"
	case Unsound:
		return "Unsound"
	case Inconclusive:
		return "Inconclusive"
	default:
		return "?"
	}
}

func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Verdict) UnmarshalText(text []byte) error {
	for _, c := range []Verdict{Sound, Unsound, Inconclusive} {
		if string(text) == c.String() {
			*v = c
			return nil
		}
	}
	return fmt.Errorf("unknown verdict %q", text)
}

// ReasonCode explains a verdict.
type ReasonCode int

const (
	ReasonNone ReasonCode = iota
	ReasonCovered
	ReasonEscapes
	ReasonStepLimit
	ReasonOverflow
	ReasonNoFixpoint
)

func (r ReasonCode) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonCovered:
		return "abstract result covers the concrete result"
	case ReasonEscapes:
		return "concrete value outside abstract result"
	case ReasonStepLimit:
		return "concrete run did not terminate within the step limit"
	case ReasonOverflow:
		return "concrete run overflowed"
	case ReasonNoFixpoint:
		return "abstract loop did not stabilise"
	default:
		return "unknown"
	}
}

// Reading is the final value of one variable under both semantics.
type Reading struct {
	Var      lang.Var
	Concrete lang.Const
	Abstract lattice.Sign
	Covered  bool
}

// Report provides detailed information about one check.
type Report struct {
	Verdict  Verdict
	Reason   ReasonCode
	Detail   string
	Readings []Reading
	Concrete concrete.Memory
	Abstract domain.Env
}

// Config holds configuration for the checker.
type Config struct {
	Concrete concrete.Config
	Abstract absint.Config
}

// DefaultConfig returns the default checker configuration.
func DefaultConfig() Config {
	return Config{
		Concrete: concrete.DefaultConfig(),
		Abstract: absint.DefaultConfig(),
	}
}

// Checker runs both semantics on a program and compares the results.
type Checker struct {
	config Config
}

// NewChecker creates a checker with the given configuration.
func NewChecker(config Config) *Checker {
	return &Checker{config: config}
}

// Check runs cmd concretely from initial and abstractly from the abstraction
// of initial, then compares every variable cmd mentions.
func (c *Checker) Check(cmd lang.Command, initial concrete.Memory) Report {
	abs, err := absint.New(c.config.Abstract).Run(cmd, domain.FromMemory(initial))
	if err != nil {
		return Undecided(err, abs)
	}
	conc, err := concrete.NewInterpreter(c.config.Concrete).Run(cmd, initial)
	if err != nil {
		return Undecided(err, abs)
	}
	return Compare(lang.Vars(cmd), conc, abs)
}

// Undecided builds the Inconclusive report for a run that failed with err.
func Undecided(err error, abs domain.Env) Report {
	reason := ReasonNone
	switch {
	case errors.Is(err, absint.ErrNoFixpoint):
		reason = ReasonNoFixpoint
	case errors.Is(err, concrete.ErrStepLimit):
		reason = ReasonStepLimit
	case errors.Is(err, concrete.ErrOverflow):
		reason = ReasonOverflow
	}
	return Report{Verdict: Inconclusive, Reason: reason, Detail: err.Error(), Abstract: abs}
}

// Compare checks that abs covers conc on every variable of vars.
func Compare(vars []lang.Var, conc concrete.Memory, abs domain.Env) Report {
	report := Report{
		Verdict:  Sound,
		Reason:   ReasonCovered,
		Concrete: conc,
		Abstract: abs,
		Readings: make([]Reading, 0, len(vars)),
	}
	var escaped []string
	for _, v := range vars {
		r := Reading{Var: v, Concrete: conc.Read(v), Abstract: abs.Read(v)}
		r.Covered = lattice.Contains(r.Abstract, r.Concrete)
		if !r.Covered {
			escaped = append(escaped, fmt.Sprintf("%s = %d not in %s", v, int64(r.Concrete), r.Abstract))
		}
		report.Readings = append(report.Readings, r)
	}
	if len(escaped) > 0 {
		report.Verdict = Unsound
		report.Reason = ReasonEscapes
		report.Detail = strings.Join(escaped, "; ")
		return report
	}
	report.Detail = "all variables covered"
	return report
}
