package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spiffcs/repohealth/internal/report"
	"golang.org/x/term"
)

// TableFormatter formats output as a terminal table
type TableFormatter struct{}

// hyperlink creates a clickable terminal hyperlink using OSC 8
// Format: \033]8;;URL\033\\TEXT\033]8;;\033\\
func hyperlink(text, url string) string {
	// Only use hyperlinks if stdout is a terminal
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// truncateToWidth truncates a string to fit within maxWidth display columns,
// accounting for wide characters like emojis (which take 2 columns)
func truncateToWidth(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}

	cutWidth := 0
	cutIndex := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if cutWidth+rw > maxWidth-3 { // Leave room for "..."
			cutIndex = i
			break
		}
		cutWidth += rw
	}
	return s[:cutIndex] + "..."
}

// padFor returns the spaces needed to bring s up to the target visible
// width. Hyperlink escape wrapping happens after padding is computed so the
// OSC 8 sequences don't skew the column math.
func padFor(s string, targetWidth int) string {
	width := runewidth.StringWidth(s)
	if width >= targetWidth {
		return ""
	}
	return strings.Repeat(" ", targetWidth-width)
}

// status renders a record's health state.
func status(r report.Record) string {
	switch {
	case r.IsBroken:
		return color.New(color.FgRed).Sprint("broken?")
	case r.IsOutdated:
		return color.New(color.FgYellow).Sprint("outdated")
	default:
		return color.New(color.FgGreen).Sprint("ok")
	}
}

// Format outputs the classified records as a table with a summary footer
func (f *TableFormatter) Format(records []report.Record, w io.Writer) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No repositories found.")
		return nil
	}

	// Column widths
	const (
		colRepo      = 36
		colStars     = 8
		colIssues    = 7
		colLastPush  = 11
		colStatusPad = 8
	)

	// Header
	fmt.Fprintf(w, "%-*s  %*s  %*s  %-*s  %s\n",
		colRepo, "Repository",
		colStars, "Stars",
		colIssues, "Issues",
		colLastPush, "Last Push",
		"Status")
	fmt.Fprintln(w, strings.Repeat("-", colRepo+colStars+colIssues+colLastPush+colStatusPad+8))

	for _, r := range records {
		name := truncateToWidth(r.Name, colRepo)

		fmt.Fprintf(w, "%s%s  %*d  %*d  %-*s  %s\n",
			hyperlink(name, r.URL), padFor(name, colRepo),
			colStars, r.Stars,
			colIssues, r.OpenIssues,
			colLastPush, r.LastPush.Format(time.DateOnly),
			status(r))
	}

	s := report.Summarize(records)
	fmt.Fprintf(w, "\n%d repositories: %d healthy, %d outdated, %d potentially broken\n",
		s.Total, s.Healthy, s.Outdated, s.Broken)

	return nil
}
