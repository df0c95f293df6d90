package check

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/harcheck/internal/oracle"
	"github.com/usestring/harcheck/internal/resolver"
	"github.com/usestring/harcheck/pkg/apidesc"
	"github.com/usestring/harcheck/pkg/har"
)

// fakeResolver returns a fixed candidate list per "METHOD url".
type fakeResolver map[string][]resolver.Candidate

func (f fakeResolver) Resolve(url, method string) []resolver.Candidate {
	return f[method+" "+url]
}

type verdict struct {
	request, response bool
	err               error
}

// fakeOracle answers by expected body, so each candidate can be scripted.
type fakeOracle struct {
	mu       sync.Mutex
	verdicts map[string]verdict
	calls    atomic.Int32
	seen     []oracle.Message
}

func (f *fakeOracle) lookup(expected oracle.Message) verdict {
	return f.verdicts[expected.Body]
}

func (f *fakeOracle) ValidateRequest(_ context.Context, actual, expected oracle.Message) (*oracle.Result, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.seen = append(f.seen, actual)
	f.mu.Unlock()
	v := f.lookup(expected)
	if v.err != nil {
		return nil, v.err
	}
	return &oracle.Result{Valid: v.request}, nil
}

func (f *fakeOracle) ValidateResponse(_ context.Context, _, expected oracle.Message) (*oracle.Result, error) {
	f.calls.Add(1)
	v := f.lookup(expected)
	if v.err != nil {
		return nil, v.err
	}
	return &oracle.Result{Valid: v.response}, nil
}

func candidate(name string) resolver.Candidate {
	ep := &apidesc.Endpoint{Name: name, Method: "GET", Request: apidesc.ExpectedRequest{Body: name}}
	resp := &apidesc.ExpectedResponse{Body: name}
	ep.Responses = []*apidesc.ExpectedResponse{resp}
	return resolver.Candidate{Endpoint: ep, Response: resp}
}

func entry(method, url string) har.Entry {
	return har.Entry{Request: har.Request{Method: method, URL: url}}
}

func TestCheck_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		entry      har.Entry
		candidates []resolver.Candidate
		verdicts   map[string]verdict
		wantLine   string
		wantPassed bool
		wantCalls  int32
	}{
		{
			name:       "single candidate fully valid",
			entry:      entry("GET", "/x"),
			candidates: []resolver.Candidate{candidate("a")},
			verdicts:   map[string]verdict{"a": {request: true, response: true}},
			wantLine:   "/x (GET): Valid",
			wantPassed: true,
			wantCalls:  2,
		},
		{
			name:       "no candidates",
			entry:      entry("GET", "/y"),
			candidates: nil,
			wantLine:   "/y (GET): Not found!",
			wantCalls:  0,
		},
		{
			name:       "response invalid",
			entry:      entry("POST", "/z"),
			candidates: []resolver.Candidate{candidate("a")},
			verdicts:   map[string]verdict{"a": {request: true, response: false}},
			wantLine:   "/z (POST): Not valid!",
			wantCalls:  2,
		},
		{
			name:       "request invalid",
			entry:      entry("POST", "/z"),
			candidates: []resolver.Candidate{candidate("a")},
			verdicts:   map[string]verdict{"a": {request: false, response: true}},
			wantLine:   "/z (POST): Not valid!",
			wantCalls:  2,
		},
		{
			name:  "second of two candidates valid",
			entry: entry("GET", "/w"),
			candidates: []resolver.Candidate{
				candidate("a"),
				candidate("b"),
			},
			verdicts: map[string]verdict{
				"a": {request: true, response: false},
				"b": {request: true, response: true},
			},
			wantLine:   "/w (GET): Valid",
			wantPassed: true,
			wantCalls:  4,
		},
		{
			name:  "no partial credit across candidates",
			entry: entry("GET", "/w"),
			candidates: []resolver.Candidate{
				candidate("a"),
				candidate("b"),
			},
			verdicts: map[string]verdict{
				"a": {request: true, response: false},
				"b": {request: false, response: true},
			},
			wantLine:  "/w (GET): Not valid!",
			wantCalls: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.entry
			res := fakeResolver{e.Request.Method + " " + e.Request.URL: tt.candidates}
			o := &fakeOracle{verdicts: tt.verdicts}

			result, err := New(res, o, 1).Check(context.Background(), e)
			require.NoError(t, err)

			assert.Equal(t, tt.wantLine, result.Line())
			assert.Equal(t, tt.wantPassed, result.Passed)
			assert.Equal(t, tt.wantCalls, o.calls.Load(), "every candidate is evaluated")
			assert.NoError(t, result.Err)
			assert.Len(t, result.Outcomes, len(tt.candidates))
		})
	}
}

func TestCheck_MatchedIsFirstValidInOrder(t *testing.T) {
	cands := []resolver.Candidate{candidate("a"), candidate("b"), candidate("c")}
	o := &fakeOracle{verdicts: map[string]verdict{
		"a": {request: false, response: true},
		"b": {request: true, response: true},
		"c": {request: true, response: true},
	}}

	result, err := New(fakeResolver{"GET /m": cands}, o, 1).Check(context.Background(), entry("GET", "/m"))
	require.NoError(t, err)
	require.NotNil(t, result.Matched)
	assert.Equal(t, "b", result.Matched.Name())
}

func TestCheck_OracleFailureIsEntryScoped(t *testing.T) {
	boom := errors.New("validator crashed")
	res := fakeResolver{
		"GET /bad":  {candidate("broken")},
		"GET /good": {candidate("ok")},
	}
	o := &fakeOracle{verdicts: map[string]verdict{
		"broken": {err: boom},
		"ok":     {request: true, response: true},
	}}

	results, err := New(res, o, 2).Run(context.Background(), []har.Entry{
		entry("GET", "/bad"),
		entry("GET", "/good"),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].Passed)
	assert.Equal(t, ReasonNotValid, results[0].Reason)
	assert.ErrorIs(t, results[0].Err, boom)
	assert.Contains(t, results[0].Err.Error(), "broken")

	assert.True(t, results[1].Passed)
	assert.NoError(t, results[1].Err)
}

func TestCheck_ActualHeadersFromOwnSide(t *testing.T) {
	e := har.Entry{
		Request: har.Request{
			Method:  "GET",
			URL:     "/h",
			Headers: har.Headers{{Name: "Accept", Value: "application/json"}},
		},
		Response: har.Response{
			Status:  200,
			Headers: har.Headers{{Name: "Content-Type", Value: "text/plain"}},
		},
	}
	o := &fakeOracle{verdicts: map[string]verdict{"a": {request: true, response: true}}}

	_, err := New(fakeResolver{"GET /h": {candidate("a")}}, o, 1).Check(context.Background(), e)
	require.NoError(t, err)

	require.Len(t, o.seen, 1)
	assert.Equal(t, map[string]string{"Accept": "application/json"}, o.seen[0].Headers)
}

func TestRun_PreservesLogOrder(t *testing.T) {
	res := fakeResolver{}
	verdicts := map[string]verdict{}
	var entries []har.Entry
	for i := range 50 {
		url := "/e" + string(rune('a'+i%26)) + string(rune('a'+i/26))
		res["GET "+url] = []resolver.Candidate{candidate(url)}
		verdicts[url] = verdict{request: true, response: i%2 == 0}
		e := entry("GET", url)
		e.Index = i
		entries = append(entries, e)
	}

	results, err := New(res, &fakeOracle{verdicts: verdicts}, 8).Run(context.Background(), entries)
	require.NoError(t, err)
	require.Len(t, results, len(entries))

	for i, r := range results {
		assert.Equal(t, i, r.Entry.Index)
		assert.Equal(t, i%2 == 0, r.Passed)
	}
}

func TestRun_Empty(t *testing.T) {
	results, err := New(fakeResolver{}, &fakeOracle{}, 4).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := fakeResolver{"GET /x": {candidate("a")}}
	_, err := New(res, &fakeOracle{}, 1).Run(ctx, []har.Entry{entry("GET", "/x")})
	assert.ErrorIs(t, err, context.Canceled)
}

// countingResolver also reports how many endpoints exist per method.
type countingResolver struct {
	fakeResolver
	counts map[string]int
}

func (r countingResolver) EndpointCount(method string) int {
	return r.counts[method]
}

func TestCheck_DecodeErrorIsNotValid(t *testing.T) {
	e := entry("GET", "/x")
	e.DecodeErr = errors.New("decoding entry: bad header")
	o := &fakeOracle{verdicts: map[string]verdict{"a": {request: true, response: true}}}

	result, err := New(fakeResolver{"GET /x": {candidate("a")}}, o, 1).Check(context.Background(), e)
	require.NoError(t, err)

	assert.False(t, result.Passed)
	assert.Equal(t, "/x (GET): Not valid!", result.Line())
	assert.ErrorIs(t, result.Err, e.DecodeErr)
	assert.Empty(t, result.Outcomes)
	assert.Zero(t, o.calls.Load())
}

func TestCheck_OracleFailureClearsMatched(t *testing.T) {
	o := &fakeOracle{verdicts: map[string]verdict{
		"ok":     {request: true, response: true},
		"broken": {err: errors.New("validator crashed")},
	}}

	result, err := New(fakeResolver{"GET /m": {candidate("ok"), candidate("broken")}}, o, 1).
		Check(context.Background(), entry("GET", "/m"))
	require.NoError(t, err)

	assert.False(t, result.Passed)
	assert.Equal(t, ReasonNotValid, result.Reason)
	assert.Error(t, result.Err)
	assert.Nil(t, result.Matched)
}

func TestCheck_NotFoundLogsMethodEndpoints(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	res := countingResolver{fakeResolver: fakeResolver{}, counts: map[string]int{"GET": 3}}
	result, err := New(res, &fakeOracle{}, 1).Check(context.Background(), entry("GET", "/nowhere"))
	require.NoError(t, err)

	assert.Equal(t, ReasonNotFound, result.Reason)
	assert.Contains(t, buf.String(), "no endpoint defined")
	assert.Contains(t, buf.String(), "method_endpoints=3")
}
