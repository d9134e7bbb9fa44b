package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gnolang/signai/analyze"
	"github.com/gnolang/signai/internal/check"
	"github.com/gnolang/signai/internal/lang"
)

// WriteJSON writes results as a JSON array.
func WriteJSON(w io.Writer, results []analyze.Result) error {
	if results == nil {
		results = []analyze.Result{}
	}
	d, err := json.Marshal(results)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(d))
	return err
}

// Summary counts results per verdict.
func Summary(results []analyze.Result) string {
	var sound, unsound, inconclusive int
	for _, r := range results {
		switch r.Verdict {
		case check.Sound:
			sound++
		case check.Unsound:
			unsound++
		default:
			inconclusive++
		}
	}
	line := fmt.Sprintf("Analysed %d programs: %d sound, %d unsound, %d inconclusive", len(results), sound, unsound, inconclusive)
	if unsound > 0 {
		return errorStyle.Sprint(line)
	}
	return soundStyle.Sprint(line)
}

// GenerateFormattedCases renders the cases of a soundness campaign, one
// block per case.
func GenerateFormattedCases(cases []check.Case) string {
	var builder strings.Builder
	for _, c := range cases {
		vars := lang.Vars(c.Program)
		builder.WriteString(header(strings.ToLower(c.Report.Verdict.String()), fmt.Sprintf("case #%d", c.Index), ""))
		rows := []string{
			"program  " + c.Program.String(),
			"initial  " + c.Initial.Format(vars),
		}
		if c.Report.Verdict != check.Inconclusive {
			rows = append(rows, "concrete "+c.Report.Concrete.Format(vars))
		}
		if c.Report.Abstract.Capacity() > 0 {
			rows = append(rows, "abstract "+c.Report.Abstract.Format(vars))
		}
		builder.WriteString(table(rows, "  "))
		builder.WriteString(message(c.Report.Detail, "  ", c.Report.Verdict == check.Unsound))
		builder.WriteString("\n")
	}
	return builder.String()
}
