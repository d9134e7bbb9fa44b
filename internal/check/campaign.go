package check

import (
	"context"
	"fmt"

	"github.com/gnolang/signai/internal/concrete"
	"github.com/gnolang/signai/internal/lang"
)

// Case is one checked program together with its report.
type Case struct {
	Index   int
	Program lang.Command
	Initial concrete.Memory
	Report  Report
}

// BatchReport summarizes the results of a campaign.
type BatchReport struct {
	Total        int
	Sound        int
	Unsound      int
	Inconclusive int
	Cases        []Case
}

// Summary returns a human-readable summary of the campaign.
func (r BatchReport) Summary() string {
	return fmt.Sprintf(
		"Checked %d programs: %d sound, %d unsound, %d inconclusive",
		r.Total, r.Sound, r.Unsound, r.Inconclusive,
	)
}

// UnsoundCases returns the cases that failed the check.
func (r BatchReport) UnsoundCases() []Case {
	return r.filter(Unsound)
}

// InconclusiveCases returns the cases that could not be decided.
func (r BatchReport) InconclusiveCases() []Case {
	return r.filter(Inconclusive)
}

func (r BatchReport) filter(v Verdict) []Case {
	out := make([]Case, 0)
	for _, c := range r.Cases {
		if c.Report.Verdict == v {
			out = append(out, c)
		}
	}
	return out
}

func (r *BatchReport) add(c Case) {
	r.Total++
	switch c.Report.Verdict {
	case Sound:
		r.Sound++
	case Unsound:
		r.Unsound++
	case Inconclusive:
		r.Inconclusive++
	}
	r.Cases = append(r.Cases, c)
}

// Campaign checks n random programs. progress, when not nil, is called after
// each program. Cancelling ctx stops the campaign and returns the partial
// report with ctx's error.
func Campaign(ctx context.Context, config Config, gen GenConfig, n int, progress func(Case)) (BatchReport, error) {
	g := NewGenerator(gen)
	config.Concrete.Input = g.Input()
	checker := NewChecker(config)
	capacity := concrete.DefaultCapacity

	var report BatchReport
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		c := Case{Index: i, Program: g.Program(), Initial: g.Memory(capacity)}
		c.Report = checker.Check(c.Program, c.Initial)
		report.add(c)
		if progress != nil {
			progress(c)
		}
	}
	return report, nil
}
