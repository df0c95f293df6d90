package tools

import (
	"context"
	"sort"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harcheck/internal/check"
	"github.com/usestring/harcheck/internal/oracle"
)

// ValidateInput is the input for harcheck_validate.
type ValidateInput struct {
	APIDescription string `json:"api_description" jsonschema:"required,Path to the API description file (JSON or YAML)"`
	Log            string `json:"log" jsonschema:"required,Path to the HAR traffic log"`
	OnlyFailures   bool   `json:"only_failures,omitempty" jsonschema:"Return only entries that did not validate (default: false)"`
	IncludeDetails bool   `json:"include_details,omitempty" jsonschema:"Include per-candidate validation errors for failed entries (default: false)"`
}

// ValidateOutput is the output for harcheck_validate.
type ValidateOutput struct {
	Summary      ValidationSummary `json:"summary"`
	Results      []EntryValidation `json:"results,omitzero"`
	CommonErrors []CommonError     `json:"common_errors,omitempty"`
}

// ValidationSummary summarizes a run.
type ValidationSummary struct {
	Tests    int  `json:"tests"`
	Pass     int  `json:"pass"`
	Fail     int  `json:"fail"`
	NotFound int  `json:"not_found"`
	AllValid bool `json:"all_valid"`
}

// EntryValidation is the verdict for one log entry.
type EntryValidation struct {
	Index   int      `json:"index"`
	URL     string   `json:"url"`
	Method  string   `json:"method"`
	Verdict string   `json:"verdict"`
	Passed  bool     `json:"passed"`
	Matched string   `json:"matched,omitempty"`
	Error   string   `json:"error,omitempty"`
	Details []string `json:"details,omitempty"`
}

// CommonError represents a frequently occurring validation error.
type CommonError struct {
	Error     string `json:"error"`
	Frequency int    `json:"frequency"`
}

// ToolValidate validates a traffic log against an API description.
func ToolValidate(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateInput) (*sdkmcp.CallToolResult, ValidateOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateInput) (*sdkmcp.CallToolResult, ValidateOutput, error) {
		if input.APIDescription == "" {
			return nil, ValidateOutput{}, ErrInvalidInput("api_description is required")
		}
		if input.Log == "" {
			return nil, ValidateOutput{}, ErrInvalidInput("log is required")
		}

		results, err := d.App.Validate(ctx, input.APIDescription, input.Log)
		if err != nil {
			return nil, ValidateOutput{}, WrapRunError(err)
		}

		return nil, buildOutput(results, input.OnlyFailures, input.IncludeDetails), nil
	}
}

func buildOutput(results []check.EntryResult, onlyFailures, includeDetails bool) ValidateOutput {
	out := ValidateOutput{
		Results: make([]EntryValidation, 0, len(results)),
	}
	errorCounts := make(map[string]int)

	for i := range results {
		r := &results[i]
		out.Summary.Tests++
		if r.Passed {
			out.Summary.Pass++
		} else {
			out.Summary.Fail++
			if r.Reason == check.ReasonNotFound {
				out.Summary.NotFound++
			}
		}

		details := candidateErrors(r)
		if !r.Passed {
			for _, e := range details {
				errorCounts[e.message]++
			}
		}

		if onlyFailures && r.Passed {
			continue
		}

		ev := EntryValidation{
			Index:   r.Entry.Index,
			URL:     r.Entry.Request.URL,
			Method:  r.Entry.Request.Method,
			Verdict: string(r.Reason),
			Passed:  r.Passed,
		}
		if r.Matched != nil {
			ev.Matched = r.Matched.Name()
		}
		if r.Err != nil {
			ev.Error = r.Err.Error()
		}
		if includeDetails && !r.Passed {
			for _, e := range details {
				ev.Details = append(ev.Details, e.String())
			}
		}
		out.Results = append(out.Results, ev)
	}

	out.Summary.AllValid = out.Summary.Fail == 0

	if len(errorCounts) > 0 {
		out.CommonErrors = make([]CommonError, 0, len(errorCounts))
		for e, count := range errorCounts {
			out.CommonErrors = append(out.CommonErrors, CommonError{Error: e, Frequency: count})
		}
		sort.Slice(out.CommonErrors, func(i, j int) bool {
			if out.CommonErrors[i].Frequency != out.CommonErrors[j].Frequency {
				return out.CommonErrors[i].Frequency > out.CommonErrors[j].Frequency
			}
			return out.CommonErrors[i].Error < out.CommonErrors[j].Error
		})
	}

	return out
}

type candidateError struct {
	candidate string
	side      string
	message   string
}

func (e candidateError) String() string {
	return e.candidate + ": " + e.side + ": " + e.message
}

// candidateErrors lists the oracle's reasons for rejecting each candidate.
func candidateErrors(r *check.EntryResult) []candidateError {
	var out []candidateError
	for _, o := range r.Outcomes {
		name := o.Candidate.Name()
		for _, side := range []struct {
			name string
			res  *oracle.Result
		}{
			{"request", o.Request},
			{"response", o.Response},
		} {
			if side.res == nil {
				continue
			}
			for _, msg := range side.res.Errors {
				out = append(out, candidateError{candidate: name, side: side.name, message: msg})
			}
		}
	}
	return out
}
