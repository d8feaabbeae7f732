package output

import (
	"fmt"
	"io"
	"time"

	"github.com/spiffcs/repohealth/internal/report"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct{}

// Format outputs the classified records as a Markdown report grouped by
// health state
func (f *MarkdownFormatter) Format(records []report.Record, w io.Writer) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No repositories found.")
		return nil
	}

	fmt.Fprintln(w, "# Repository Health Report")
	fmt.Fprintf(w, "\n*Generated: %s*\n\n", time.Now().Format("2006-01-02 15:04"))

	groups := []struct {
		title string
		match func(report.Record) bool
	}{
		{"🔴 Potentially Broken", func(r report.Record) bool { return r.IsBroken }},
		{"🟡 Outdated", func(r report.Record) bool { return !r.IsBroken && r.IsOutdated }},
		{"🟢 Healthy", func(r report.Record) bool { return !r.IsBroken && !r.IsOutdated }},
	}

	for _, g := range groups {
		var matched []report.Record
		for _, r := range records {
			if g.match(r) {
				matched = append(matched, r)
			}
		}
		if len(matched) == 0 {
			continue
		}

		fmt.Fprintf(w, "## %s (%d)\n\n", g.title, len(matched))
		for _, r := range matched {
			f.formatRecord(r, w)
		}
	}

	return nil
}

func (f *MarkdownFormatter) formatRecord(r report.Record, w io.Writer) {
	fmt.Fprintf(w, "- [%s](%s): ⭐ %d, %d open issues, last push %s\n",
		r.Name, r.URL, r.Stars, r.OpenIssues, r.LastPush.Format(time.DateOnly))
	if r.Description != "" {
		fmt.Fprintf(w, "  %s\n", r.Description)
	}
}
