package bench

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// Report writes human-readable progress lines and the final summary table.
type Report struct {
	w io.Writer
}

func NewReport(w io.Writer) *Report {
	if w == nil {
		w = io.Discard
	}
	return &Report{w: w}
}

func (r *Report) Scale(scale Scale) {
	fmt.Fprintf(r.w, "Testing with %d documents...\n", scale.Books)
}

func (r *Report) Start(scale Scale, strategy string) {
	fmt.Fprintf(r.w, "Testing %s with %d documents...\n", strategy, scale.Books)
}

func (r *Report) Measured(scale Scale, m Measurement) {
	fmt.Fprintf(r.w, "%s with %d documents: %.3f ms\n", m.Strategy, scale.Books, m.Milliseconds())
}

func (r *Report) Verdict(v Verdict) {
	fmt.Fprintf(r.w, "%s is faster for %d documents.\n", v.Faster, v.Scale.Books)
}

// Summary renders one row per scale with every strategy's time in milliseconds.
func (r *Report) Summary(summary Summary) {
	if len(summary.Verdicts) == 0 {
		return
	}

	header := []string{"scale", "authors", "books"}
	for _, m := range summary.Verdicts[0].Measurements {
		header = append(header, m.Strategy+" ms")
	}
	header = append(header, "faster")

	table := tablewriter.NewWriter(r.w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(header)
	for _, v := range summary.Verdicts {
		row := []string{v.Scale.Name, strconv.Itoa(v.Scale.Authors), strconv.Itoa(v.Scale.Books)}
		for _, m := range v.Measurements {
			row = append(row, strconv.FormatFloat(m.Milliseconds(), 'f', 3, 64))
		}
		row = append(row, v.Faster)
		table.Append(row)
	}
	table.Render()
}
