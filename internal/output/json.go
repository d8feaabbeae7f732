package output

import (
	"encoding/json"
	"io"

	"github.com/spiffcs/repohealth/internal/report"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format outputs the records as a JSON array, preserving their order
func (f *JSONFormatter) Format(records []report.Record, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(records)
}

// JSONOutput wraps the records with summary metadata
type JSONOutput struct {
	Records []report.Record `json:"records"`
	Summary report.Summary  `json:"summary"`
}

// FormatWithSummary outputs records and an aggregate summary together
func (f *JSONFormatter) FormatWithSummary(records []report.Record, w io.Writer) error {
	out := JSONOutput{
		Records: records,
		Summary: report.Summarize(records),
	}

	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(out)
}
