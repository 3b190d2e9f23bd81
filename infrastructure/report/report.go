// Package report renders comparison summaries for people and for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/ahrav/go-tipstat/internal/domain"
)

// Output formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// unknown is printed in place of a value that could not be determined.
const unknown = "Unknown"

var bold = color.New(color.Bold)

// Result pairs a summary with the source it was computed from.
type Result struct {
	Source  string               `json:"source"`
	Summary *domain.GroupSummary `json:"summary"`
}

// Renderer writes results to w.
type Renderer interface {
	Render(w io.Writer, results []Result) error
}

// New returns the renderer for format. Detailed text output adds the
// per-group statistics and skip counts.
func New(format string, detailed bool) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return &TextRenderer{Detailed: detailed}, nil
	case FormatJSON:
		return &JSONRenderer{Indent: "  "}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// Formats lists the supported output formats.
func Formats() []string { return []string{FormatText, FormatJSON} }

// TextRenderer prints each summary as aligned "key: value" lines in the
// order n_smoker, n_non_smoker, avg_tip_smoker, avg_tip_non_smoker,
// difference and, when a test was requested, ttest_pvalue.
type TextRenderer struct {
	Detailed bool
}

// Render implements Renderer.
func (r *TextRenderer) Render(w io.Writer, results []Result) error {
	for i, res := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := r.renderOne(w, res); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextRenderer) renderOne(w io.Writer, res Result) error {
	title := "Summary:"
	if res.Source != "" {
		title = fmt.Sprintf("Summary (%s):", res.Source)
	}
	if _, err := bold.Fprintln(w, title); err != nil {
		return err
	}

	s := res.Summary
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "n_smoker:\t%d\n", s.NSmoker)
	fmt.Fprintf(tw, "n_non_smoker:\t%d\n", s.NNonSmoker)
	fmt.Fprintf(tw, "avg_tip_smoker:\t%s\n", FormatValue(s.AvgTipSmoker))
	fmt.Fprintf(tw, "avg_tip_non_smoker:\t%s\n", FormatValue(s.AvgTipNonSmoker))
	fmt.Fprintf(tw, "difference:\t%s\n", FormatValue(s.Difference))
	if s.TestRequested {
		fmt.Fprintf(tw, "ttest_pvalue:\t%s\n", FormatValue(s.PValue))
	}

	if r.Detailed {
		if s.TestMethod != "" {
			fmt.Fprintf(tw, "ttest_method:\t%s\n", s.TestMethod)
		}
		fmt.Fprintf(tw, "total_records:\t%d\n", s.TotalRecords)
		fmt.Fprintf(tw, "skipped:\t%s\n", formatSkipped(s.Skipped))
		writeGroup(tw, "smoker", s.Smoker)
		writeGroup(tw, "non_smoker", s.NonSmoker)
	}
	return tw.Flush()
}

func writeGroup(w io.Writer, name string, g domain.GroupStats) {
	fmt.Fprintf(w, "%s:\tcount=%d mean=%s median=%s std_dev=%s min=%s max=%s\n",
		name, g.Count,
		FormatValue(g.Mean), FormatValue(g.Median), FormatValue(g.StdDev),
		FormatValue(g.Min), FormatValue(g.Max))
}

func formatSkipped(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}

// FormatValue renders an optional number, using "Unknown" for nil.
// Integral values keep a trailing ".0" so a mean never reads as a count.
func FormatValue(v *float64) string {
	if v == nil {
		return unknown
	}
	f := *v
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return unknown
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// JSONRenderer writes results as a JSON array of {source, summary} objects.
type JSONRenderer struct {
	Indent string
}

// Render implements Renderer.
func (r *JSONRenderer) Render(w io.Writer, results []Result) error {
	if results == nil {
		results = []Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", r.Indent)
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}
