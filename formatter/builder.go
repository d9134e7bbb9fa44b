package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/gnolang/signai/analyze"
	"github.com/gnolang/signai/internal/check"
)

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	warningStyle    = color.New(color.FgHiYellow, color.Bold)
	soundStyle      = color.New(color.FgGreen, color.Bold)
	programStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
)

// resultFormatter is implemented once per verdict and supplies the text
// template used to render a result.
type resultFormatter interface {
	ResultTemplate() string
}

func getResultFormatter(v check.Verdict) resultFormatter {
	switch v {
	case check.Sound:
		return &SoundFormatter{}
	case check.Unsound:
		return &UnsoundFormatter{}
	default:
		return &InconclusiveFormatter{}
	}
}

// GenerateFormattedResults renders results for a terminal.
func GenerateFormattedResults(results []analyze.Result) string {
	var builder strings.Builder
	for _, r := range results {
		builder.WriteString(buildResult(r, getResultFormatter(r.Verdict)))
	}
	return builder.String()
}

type ResultData struct {
	Verdict    string
	Program    string
	Path       string
	Padding    string
	Rows       []string
	Reason     string
	Detail     string
	Invariants []string
	Iterations int
	Steps      int
}

func buildResult(r analyze.Result, formatter resultFormatter) string {
	data := ResultData{
		Verdict:    strings.ToLower(r.Verdict.String()),
		Program:    r.Program,
		Path:       r.Path,
		Padding:    "  ",
		Rows:       varRows(r.Vars),
		Reason:     r.Reason,
		Detail:     r.Detail,
		Invariants: invariantRows(r.Invariants),
		Iterations: r.Iterations,
		Steps:      r.Steps,
	}

	funcMap := template.FuncMap{
		"header":     header,
		"table":      table,
		"message":    message,
		"invariants": invariants,
		"note":       note,
	}

	tmpl := template.Must(template.New("result").Funcs(funcMap).Parse(formatter.ResultTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting result: %v", err)
	}
	return buf.String()
}

func varRows(vars []analyze.VarResult) []string {
	nameWidth, valueWidth := 1, 1
	values := make([]string, len(vars))
	for i, v := range vars {
		values[i] = "?"
		if v.Concrete != nil {
			values[i] = fmt.Sprintf("%d", *v.Concrete)
		}
		nameWidth = max(nameWidth, len(v.Name))
		valueWidth = max(valueWidth, len(values[i]))
	}

	rows := make([]string, len(vars))
	for i, v := range vars {
		mark := ""
		if v.Concrete != nil && !v.Covered {
			mark = "  <- escapes"
		}
		rows[i] = fmt.Sprintf("%-*s  concrete %*s  abstract %s%s", nameWidth, v.Name, valueWidth, values[i], v.Abstract, mark)
	}
	return rows
}

func invariantRows(invs []analyze.Invariant) []string {
	rows := make([]string, len(invs))
	for i, inv := range invs {
		rows[i] = fmt.Sprintf("@%d %s  %s", inv.Label, inv.Command, inv.Env)
	}
	return rows
}

// utils functions used in the text templates

func header(verdict string, program string, path string) string {
	var endString string
	switch verdict {
	case "sound":
		endString = soundStyle.Sprint("sound: ")
	case "unsound":
		endString = errorStyle.Sprint("unsound: ")
	default:
		endString = warningStyle.Sprintf("%s: ", verdict)
	}
	endString += programStyle.Sprintf("%s\n", program)
	if path != "" {
		endString += lineStyle.Sprint(" --> ") + fileStyle.Sprintf("%s\n", path)
	}
	return endString
}

func table(rows []string, padding string) string {
	var endString string
	endString = lineStyle.Sprintf("%s|\n", padding)
	for _, row := range rows {
		endString += lineStyle.Sprintf("%s| ", padding) + fmt.Sprintf("%s\n", row)
	}
	endString += lineStyle.Sprintf("%s|\n", padding)
	return endString
}

func message(text string, padding string, failed bool) string {
	if text == "" {
		return ""
	}
	endString := lineStyle.Sprintf("%s= ", padding)
	if failed {
		return endString + messageStyle.Sprintf("%s\n", text)
	}
	return endString + fmt.Sprintf("%s\n", text)
}

func invariants(rows []string, padding string) string {
	if len(rows) == 0 {
		return ""
	}
	endString := suggestionStyle.Sprint("Invariants:\n")
	for _, row := range rows {
		endString += lineStyle.Sprintf("%s| ", padding) + fmt.Sprintf("%s\n", row)
	}
	return endString
}

func note(iterations int, steps int) string {
	return suggestionStyle.Sprint("Note: ") +
		lineStyle.Sprintf("%d loop iterations, %d concrete steps\n", iterations, steps)
}
