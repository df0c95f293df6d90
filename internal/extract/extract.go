// Package extract walks a parsed traffic log and produces the flat list of
// captured request/response entries.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/usestring/harcheck/pkg/har"
)

// entriesExpr yields every element of every "entries" collection at any depth.
const entriesExpr = `.. | objects | select(has("entries")) | .entries | (arrays, objects) | .[]`

// pairExpr picks the first request and the first response object found
// anywhere below a raw entry. Missing sides come back as null.
const pairExpr = `{
	request: ([.. | objects | .request? | objects] | first),
	response: ([.. | objects | .response? | objects] | first)
}`

// Extractor runs the compiled extraction programs. It is safe for concurrent use.
type Extractor struct {
	entries *gojq.Code
	pair    *gojq.Code
}

// New compiles the extraction programs.
func New() (*Extractor, error) {
	entries, err := compile(entriesExpr)
	if err != nil {
		return nil, err
	}
	pair, err := compile(pairExpr)
	if err != nil {
		return nil, err
	}
	return &Extractor{entries: entries, pair: pair}, nil
}

func compile(expression string) (*gojq.Code, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return code, nil
}

// Entries returns the captured entries of a log document in document order.
// A document without any entries yields an empty slice and no error. An
// element that does not fit the HAR types is returned with DecodeErr set.
func (x *Extractor) Entries(ctx context.Context, doc any) ([]har.Entry, error) {
	raws, err := collect(ctx, x.entries, doc)
	if err != nil {
		return nil, err
	}

	entries := make([]har.Entry, 0, len(raws))
	for i, raw := range raws {
		entry, err := x.entry(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entry.Index = i
		entries = append(entries, entry)
	}
	return entries, nil
}

// entry converts one raw log element into a typed entry.
func (x *Extractor) entry(ctx context.Context, raw any) (har.Entry, error) {
	var entry har.Entry

	pairs, err := collect(ctx, x.pair, raw)
	if err != nil {
		return entry, err
	}
	if len(pairs) == 0 {
		return entry, nil
	}

	b, err := json.Marshal(pairs[0])
	if err != nil {
		return entry, fmt.Errorf("re-encoding entry: %w", err)
	}
	if err := json.Unmarshal(b, &entry); err != nil {
		return labelOnly(pairs[0], fmt.Errorf("decoding entry: %w", err)), nil
	}
	return entry, nil
}

// labelOnly keeps what is needed to report a malformed entry.
func labelOnly(pair any, err error) har.Entry {
	entry := har.Entry{DecodeErr: err}
	m, _ := pair.(map[string]any)
	req, _ := m["request"].(map[string]any)
	entry.Request.URL, _ = req["url"].(string)
	entry.Request.Method, _ = req["method"].(string)
	return entry
}

// collect drains a program's output, failing on the first runtime error.
func collect(ctx context.Context, code *gojq.Code, input any) ([]any, error) {
	var out []any
	iter := code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			return out, nil
		}
		if err, isErr := v.(error); isErr {
			var haltErr *gojq.HaltError
			if errors.As(err, &haltErr) && haltErr.Value() == nil {
				return out, nil
			}
			return nil, fmt.Errorf("walking log: %w", err)
		}
		out = append(out, v)
	}
}
