// Package check validates captured entries against their candidate endpoint
// definitions and selects the best-of-N verdict per entry.
package check

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/usestring/harcheck/internal/normalize"
	"github.com/usestring/harcheck/internal/oracle"
	"github.com/usestring/harcheck/internal/resolver"
	"github.com/usestring/harcheck/pkg/har"
)

// Reason is the verdict text printed after an entry's label.
type Reason string

const (
	ReasonValid    Reason = "Valid"
	ReasonNotFound Reason = "Not found!"
	ReasonNotValid Reason = "Not valid!"
)

// Resolver proposes candidate endpoint definitions for a request.
type Resolver interface {
	Resolve(url, method string) []resolver.Candidate
}

// endpointCounter is implemented by resolvers that index endpoints per method.
type endpointCounter interface {
	EndpointCount(method string) int
}

// Outcome is the verdict pair for one candidate. Err is set when the oracle
// could not reach a verdict for either side; the candidate then counts as
// not valid.
type Outcome struct {
	Candidate resolver.Candidate
	Request   *oracle.Result
	Response  *oracle.Result
	Err       error
}

// Valid reports whether both sides of the candidate validated.
func (o Outcome) Valid() bool {
	return o.Err == nil &&
		o.Request != nil && o.Request.Valid &&
		o.Response != nil && o.Response.Valid
}

// EntryResult is the final verdict for one entry.
type EntryResult struct {
	Entry    har.Entry
	Passed   bool
	Reason   Reason
	Matched  *resolver.Candidate // first fully valid candidate in resolver order, nil unless Passed
	Outcomes []Outcome
	Err      error // decode failure of the entry, or oracle failures of any candidate, joined
}

// Line renders the verdict as "<url> (<method>): <reason>".
func (r *EntryResult) Line() string {
	return r.Entry.Label() + ": " + string(r.Reason)
}

// Checker runs the per-entry selection. It holds no per-entry state and is
// safe for concurrent use.
type Checker struct {
	resolver Resolver
	oracle   oracle.Oracle
	workers  int
}

// New creates a Checker that validates at most workers entries at a time.
func New(r Resolver, o oracle.Oracle, workers int) *Checker {
	if workers < 1 {
		workers = 1
	}
	return &Checker{resolver: r, oracle: o, workers: workers}
}

// Check decides one entry. Every candidate is evaluated, with the request
// and response validated concurrently, before a verdict is picked. The
// returned error is non-nil only when ctx ends first.
func (c *Checker) Check(ctx context.Context, entry har.Entry) (*EntryResult, error) {
	result := &EntryResult{Entry: entry, Reason: ReasonNotValid}

	if entry.DecodeErr != nil {
		result.Err = entry.DecodeErr
		slog.Warn("malformed entry",
			slog.Int("entry", entry.Index),
			slog.String("label", entry.Label()),
			slog.String("error", entry.DecodeErr.Error()),
		)
		return result, nil
	}

	candidates := c.resolver.Resolve(entry.Request.URL, entry.Request.Method)
	if len(candidates) == 0 {
		result.Reason = ReasonNotFound
		attrs := []slog.Attr{
			slog.Int("entry", entry.Index),
			slog.String("label", entry.Label()),
		}
		if ec, ok := c.resolver.(endpointCounter); ok {
			attrs = append(attrs, slog.Int("method_endpoints", ec.EndpointCount(entry.Request.Method)))
		}
		slog.LogAttrs(ctx, slog.LevelDebug, "no endpoint defined", attrs...)
		return result, nil
	}

	actualReq, actualResp := actualMessages(entry)

	outcomes := make([]Outcome, len(candidates))
	var g errgroup.Group
	for i, cand := range candidates {
		g.Go(func() error {
			outcomes[i] = c.evaluate(ctx, cand, actualReq, actualResp)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Outcomes = outcomes
	var errs []error
	for i := range outcomes {
		o := &outcomes[i]
		if o.Err != nil {
			errs = append(errs, o.Err)
			continue
		}
		if result.Matched == nil && o.Valid() {
			result.Matched = &o.Candidate
		}
	}

	if len(errs) > 0 {
		// An entry that failed has no matched candidate.
		result.Matched = nil
		result.Err = errors.Join(errs...)
		slog.Warn("oracle failed",
			slog.Int("entry", entry.Index),
			slog.String("label", entry.Label()),
			slog.String("error", result.Err.Error()),
		)
		return result, nil
	}

	if result.Matched != nil {
		result.Passed = true
		result.Reason = ReasonValid
	}

	slog.Debug("entry checked",
		slog.Int("entry", entry.Index),
		slog.String("label", entry.Label()),
		slog.Int("candidates", len(candidates)),
		slog.String("reason", string(result.Reason)),
	)
	return result, nil
}

// evaluate validates one candidate. A failure on either side cancels the
// other and aborts the candidate.
func (c *Checker) evaluate(ctx context.Context, cand resolver.Candidate, actualReq, actualResp oracle.Message) Outcome {
	out := Outcome{Candidate: cand}
	expectedReq, expectedResp := expectedMessages(cand)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := c.oracle.ValidateRequest(gctx, actualReq, expectedReq)
		if err != nil {
			return fmt.Errorf("%s: request: %w", cand.Name(), err)
		}
		out.Request = res
		return nil
	})
	g.Go(func() error {
		res, err := c.oracle.ValidateResponse(gctx, actualResp, expectedResp)
		if err != nil {
			return fmt.Errorf("%s: response: %w", cand.Name(), err)
		}
		out.Response = res
		return nil
	})

	if err := g.Wait(); err != nil {
		out.Err = err
	}
	return out
}

// Run checks entries with at most the configured number in flight and
// returns the results in log order. It stops early only when ctx ends.
func (c *Checker) Run(ctx context.Context, entries []har.Entry) ([]EntryResult, error) {
	results := make([]EntryResult, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, entry := range entries {
		g.Go(func() error {
			res, err := c.Check(gctx, entry)
			if err != nil {
				return err
			}
			results[i] = *res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("checking entries: %w", err)
	}
	return results, nil
}

func actualMessages(entry har.Entry) (req, resp oracle.Message) {
	body, err := entry.Response.Content.Decoded()
	if err != nil {
		slog.Debug("response body is not valid base64, using raw text",
			slog.Int("entry", entry.Index),
			slog.String("error", err.Error()),
		)
		body = entry.Response.Content.Text
	}

	req = oracle.Message{
		Headers: normalize.Headers(entry.Request.Headers),
		Body:    entry.Request.Body(),
	}
	resp = oracle.Message{
		Headers: normalize.Headers(entry.Response.Headers),
		Body:    body,
		Status:  entry.Response.Status,
	}
	return req, resp
}

func expectedMessages(cand resolver.Candidate) (req, resp oracle.Message) {
	ep := cand.Endpoint
	req = oracle.Message{
		Headers: normalize.Headers(ep.Request.Headers),
		Body:    ep.Request.BodyText(),
		Schema:  ep.Request.Schema,
	}
	resp = oracle.Message{
		Headers: normalize.Headers(cand.Response.Headers),
		Body:    cand.Response.BodyText(),
		Status:  cand.Response.StatusCode,
		Schema:  cand.Response.Schema,
	}
	return req, resp
}
