package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Report summarizes the errors collected during one command run
type Report struct {
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command"`
	Errors    []*Error  `json:"errors"`
	Stats     Stats     `json:"stats"`
}

// NewReport builds a report from a handler's statistics and the errors it saw
func NewReport(command string, errs []*Error, stats Stats) *Report {
	return &Report{
		Timestamp: time.Now(),
		Command:   command,
		Errors:    errs,
		Stats:     stats,
	}
}

// Empty reports whether nothing went wrong
func (r *Report) Empty() bool {
	return len(r.Errors) == 0 && r.Stats.TotalErrors == 0
}

// Save writes the report as JSON under dir and returns the file path
func (r *Report) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	name := fmt.Sprintf("report_%s_%s.json", r.Command, r.Timestamp.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// Display writes a human readable summary
func (r *Report) Display(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "%s: %d record(s) excluded\n", r.Command, len(r.Errors))
	fmt.Fprintln(w, strings.Repeat("=", 60))

	if len(r.Stats.ErrorsByCode) > 0 {
		codes := make([]string, 0, len(r.Stats.ErrorsByCode))
		for code := range r.Stats.ErrorsByCode {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			fmt.Fprintf(w, "  %-22s %d\n", code, r.Stats.ErrorsByCode[code])
		}
		fmt.Fprintln(w)
	}

	for _, e := range r.Errors {
		subject := e.Context["package"]
		if subject == "" {
			subject = e.Context["index"]
		}
		if subject != "" {
			fmt.Fprintf(w, "- %s: %s [%s]\n", subject, e.Error(), e.Code)
		} else {
			fmt.Fprintf(w, "- %s [%s]\n", e.Error(), e.Code)
		}
	}
}
