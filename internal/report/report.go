// Package report renders acceptance-check outcomes for humans and CI.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ogulcanaydogan/benchmark-result-client/pkg/check"
	"github.com/ogulcanaydogan/benchmark-result-client/pkg/result"
)

// CheckReport describes one submission attempt.
type CheckReport struct {
	ConfigKey string             `json:"config_key"`
	Model     string             `json:"model,omitempty"`
	Dataset   string             `json:"dataset,omitempty"`
	Task      string             `json:"task,omitempty"`
	ArxivID   string             `json:"arxiv_id,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
	Verdict   check.Verdict      `json:"verdict"`
	CheckedAt string             `json:"checked_at"`
}

// Build assembles a report for a checked record.
func Build(rec *result.Record, verdict check.Verdict, checkedAt string) CheckReport {
	r := CheckReport{
		ConfigKey: rec.ConfigKey(),
		Metrics:   rec.Metrics().Map(),
		Verdict:   verdict,
		CheckedAt: checkedAt,
	}
	if v, ok := rec.Model(); ok {
		r.Model = v
	}
	if v, ok := rec.Dataset(); ok {
		r.Dataset = v
	}
	if v, ok := rec.Task(); ok {
		r.Task = v
	}
	if v, ok := rec.ArxivID(); ok {
		r.ArxivID = v
	}
	return r
}

// WriteJSON saves the report as indented JSON.
func WriteJSON(path string, r CheckReport) error {
	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// BuildMarkdown renders the report as a Markdown summary.
func BuildMarkdown(r CheckReport) string {
	var b strings.Builder
	b.WriteString("# Benchmark Submission Report\n\n")
	b.WriteString(fmt.Sprintf("- Verdict: **%s**\n", r.Verdict.Status))
	if r.Verdict.Reason != "" {
		b.WriteString(fmt.Sprintf("- Reason: %s\n", r.Verdict.Reason))
	}
	b.WriteString(fmt.Sprintf("- Submission ID: `%s`\n", r.Verdict.SubmissionID))
	b.WriteString(fmt.Sprintf("- Config Key: `%s`\n", r.ConfigKey))
	if r.Model != "" {
		b.WriteString(fmt.Sprintf("- Model: %s\n", r.Model))
	}
	if r.Dataset != "" {
		b.WriteString(fmt.Sprintf("- Dataset: %s\n", r.Dataset))
	}
	if r.Task != "" {
		b.WriteString(fmt.Sprintf("- Task: %s\n", r.Task))
	}
	if r.ArxivID != "" {
		b.WriteString(fmt.Sprintf("- arXiv: %s\n", r.ArxivID))
	}
	if r.CheckedAt != "" {
		b.WriteString(fmt.Sprintf("- Checked At: %s\n", r.CheckedAt))
	}

	b.WriteString("\n## Metrics\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|---|---:|\n")
	for _, name := range sortedNames(r.Metrics) {
		b.WriteString(fmt.Sprintf("| %s | %v |\n", strings.ReplaceAll(name, "|", "\\|"), r.Metrics[name]))
	}
	return b.String()
}

// WriteMarkdown saves the Markdown summary.
func WriteMarkdown(path string, r CheckReport) error {
	return os.WriteFile(path, []byte(BuildMarkdown(r)), 0o644)
}

func sortedNames(metrics map[string]float64) []string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
