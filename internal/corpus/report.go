package corpus

import (
	"fmt"
	"strings"
)

// SourceStats counts what one source contributed to a merge
type SourceStats struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	Skipped    bool   `json:"skipped"`
	SkipReason string `json:"skip_reason,omitempty"`
	Records    int    `json:"records"`
	Accepted   int    `json:"accepted"`
	Rejected   int    `json:"rejected"`
	Duplicates int    `json:"duplicates"`
}

// Report summarizes a corpus run in source order
type Report struct {
	RunID         string        `json:"run_id"`
	Sources       []SourceStats `json:"sources"`
	Conversations int           `json:"conversations"`
	OutputPath    string        `json:"output_path,omitempty"`
	OutputBytes   int64         `json:"output_bytes"`
}

// Accepted returns the total accepted count across sources
func (r *Report) Accepted() int {
	total := 0
	for _, s := range r.Sources {
		total += s.Accepted
	}
	return total
}

// Skipped returns the names of sources that contributed nothing because they were skipped
func (r *Report) Skipped() []string {
	var names []string
	for _, s := range r.Sources {
		if s.Skipped {
			names = append(names, s.Name)
		}
	}
	return names
}

// Summary renders the report for terminal output
func (r *Report) Summary() string {
	var sb strings.Builder
	sb.WriteString("FINAL STATS\n")
	for _, s := range r.Sources {
		if s.Skipped {
			fmt.Fprintf(&sb, "  - %s: skipped (%s)\n", s.Name, s.SkipReason)
			continue
		}
		fmt.Fprintf(&sb, "  - %s: %d added (%d records, %d rejected, %d duplicates)\n",
			s.Name, s.Accepted, s.Records, s.Rejected, s.Duplicates)
	}
	fmt.Fprintf(&sb, "Total dialogues: %d\n", r.Conversations)
	if r.OutputPath != "" {
		fmt.Fprintf(&sb, "File saved: %s (%.2f MB)\n", r.OutputPath, float64(r.OutputBytes)/(1024*1024))
	}
	return sb.String()
}
