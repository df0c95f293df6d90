// Package report writes entry verdicts as a TAP version 13 stream.
package report

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/usestring/harcheck/internal/check"
)

// Summary counts reported entries.
type Summary struct {
	Tests int `json:"tests"`
	Pass  int `json:"pass"`
	Fail  int `json:"fail"`
}

// OK reports whether every entry passed.
func (s Summary) OK() bool {
	return s.Fail == 0
}

// diagnostic is the YAML block emitted under a failing line whose oracle
// could not reach a verdict.
type diagnostic struct {
	Error string `yaml:"error"`
}

// TAP streams results. Call Begin once, Result per entry in order, then End.
type TAP struct {
	w       io.Writer
	summary Summary
}

// NewTAP creates a TAP writer.
func NewTAP(w io.Writer) *TAP {
	return &TAP{w: w}
}

// Begin writes the version line.
func (t *TAP) Begin() error {
	_, err := fmt.Fprintln(t.w, "TAP version 13")
	return err
}

// Result writes one test line, plus a diagnostic block when the entry
// carries an error.
func (t *TAP) Result(r *check.EntryResult) error {
	t.summary.Tests++
	status := "ok"
	if r.Passed {
		t.summary.Pass++
	} else {
		t.summary.Fail++
		status = "not ok"
	}

	if _, err := fmt.Fprintf(t.w, "%s %d - %s\n", status, t.summary.Tests, r.Line()); err != nil {
		return err
	}
	if r.Err == nil {
		return nil
	}
	return t.diagnostic(diagnostic{Error: r.Err.Error()})
}

func (t *TAP) diagnostic(d diagnostic) error {
	body, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding diagnostic: %w", err)
	}

	var b strings.Builder
	b.WriteString("  ---\n")
	for _, line := range strings.Split(strings.TrimRight(string(body), "\n"), "\n") {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("  ...\n")

	_, err = io.WriteString(t.w, b.String())
	return err
}

// End writes the plan and the summary comments.
func (t *TAP) End() error {
	_, err := fmt.Fprintf(t.w, "1..%d\n# tests %d\n# pass  %d\n# fail  %d\n",
		t.summary.Tests, t.summary.Tests, t.summary.Pass, t.summary.Fail)
	return err
}

// Summary returns the counts so far.
func (t *TAP) Summary() Summary {
	return t.summary
}

// Write reports a complete result set.
func Write(w io.Writer, results []check.EntryResult) (Summary, error) {
	t := NewTAP(w)
	if err := t.Begin(); err != nil {
		return Summary{}, err
	}
	for i := range results {
		if err := t.Result(&results[i]); err != nil {
			return t.Summary(), err
		}
	}
	return t.Summary(), t.End()
}
