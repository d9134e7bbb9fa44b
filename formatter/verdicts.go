package formatter

type SoundFormatter struct{}

func (f *SoundFormatter) ResultTemplate() string {
	return `{{header .Verdict .Program .Path -}}
{{table .Rows .Padding -}}
{{message .Reason .Padding false -}}
{{invariants .Invariants .Padding -}}
{{note .Iterations .Steps}}
`
}

type UnsoundFormatter struct{}

func (f *UnsoundFormatter) ResultTemplate() string {
	return `{{header .Verdict .Program .Path -}}
{{table .Rows .Padding -}}
{{message .Detail .Padding true -}}
{{invariants .Invariants .Padding -}}
{{note .Iterations .Steps}}
`
}

// InconclusiveFormatter shows the abstract result only; the concrete run
// did not produce one.
type InconclusiveFormatter struct{}

func (f *InconclusiveFormatter) ResultTemplate() string {
	return `{{header .Verdict .Program .Path -}}
{{table .Rows .Padding -}}
{{message .Reason .Padding false -}}
{{message .Detail .Padding false -}}
{{invariants .Invariants .Padding -}}
{{note .Iterations .Steps}}
`
}
