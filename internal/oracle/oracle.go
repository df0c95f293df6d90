// Package oracle decides whether an actual HTTP message satisfies an expected one.
package oracle

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/harcheck/internal/cache"
	"github.com/usestring/harcheck/internal/schema"
)

// Message is one side of an exchange with headers already normalized to a
// name->value map.
type Message struct {
	Headers map[string]string
	Body    string
	// Status is the response status code. Zero on an expected response
	// means any status is accepted; ignored for requests.
	Status int
	// Schema is a JSON Schema for the body. Only read on the expected side.
	Schema string
}

// Result is the verdict for one message.
type Result struct {
	Valid  bool
	Errors []string
}

// Oracle validates actual messages against expected ones. Implementations
// must be safe for concurrent use. A returned error means the oracle could
// not reach a verdict, not that the message is invalid.
type Oracle interface {
	ValidateRequest(ctx context.Context, actual, expected Message) (*Result, error)
	ValidateResponse(ctx context.Context, actual, expected Message) (*Result, error)
}

// Options configures the default validator.
type Options struct {
	// IgnoreHeaderValues lists headers whose presence is checked but whose
	// values are not compared. Matched case-insensitively.
	IgnoreHeaderValues []string
}

// Validator is the default Oracle: header, status and body rules with
// compiled schemas shared through a cache.
type Validator struct {
	schemas *cache.SchemaCache
	ignore  map[string]struct{}
	printer *message.Printer
}

var _ Oracle = (*Validator)(nil)

// New creates a Validator. schemas may be nil, in which case every schema is
// compiled on use.
func New(schemas *cache.SchemaCache, opts Options) *Validator {
	ignore := make(map[string]struct{}, len(opts.IgnoreHeaderValues))
	for _, h := range opts.IgnoreHeaderValues {
		ignore[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}
	return &Validator{
		schemas: schemas,
		ignore:  ignore,
		printer: message.NewPrinter(language.English),
	}
}

// ValidateRequest checks request headers and body.
func (v *Validator) ValidateRequest(ctx context.Context, actual, expected Message) (*Result, error) {
	return v.validate(ctx, actual, expected, false)
}

// ValidateResponse checks status, response headers and body.
func (v *Validator) ValidateResponse(ctx context.Context, actual, expected Message) (*Result, error) {
	return v.validate(ctx, actual, expected, true)
}

func (v *Validator) validate(ctx context.Context, actual, expected Message, checkStatus bool) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var errs []string
	if checkStatus && expected.Status != 0 && expected.Status != actual.Status {
		errs = append(errs, v.printer.Sprintf("status: expected %d, got %d", expected.Status, actual.Status))
	}

	errs = append(errs, v.checkHeaders(actual.Headers, expected.Headers)...)

	bodyErrs, err := v.checkBody(actual, expected)
	if err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}
	errs = append(errs, bodyErrs...)

	return &Result{Valid: len(errs) == 0, Errors: errs}, nil
}

func (v *Validator) compile(key string, compile func() (*schema.Validator, error)) (*schema.Validator, error) {
	if v.schemas == nil {
		return compile()
	}
	return v.schemas.GetOrCompile(key, compile)
}
