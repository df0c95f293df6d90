// Package schema compiles JSON Schemas and validates message bodies against them.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Result is the outcome of validating one document.
type Result struct {
	Valid  bool
	Errors []string
}

// Validator validates JSON data against a compiled schema. It is safe for
// concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// Compile builds a validator from JSON Schema source text.
func Compile(source []byte) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parsing JSON Schema: %w", err)
	}
	return compileValue(doc)
}

// FromSample builds a validator accepting documents shaped like sample.
func FromSample(sample any) (*Validator, error) {
	inferred, err := json.Marshal(Infer(sample))
	if err != nil {
		return nil, fmt.Errorf("marshaling inferred schema: %w", err)
	}
	return Compile(inferred)
}

func compileValue(doc any) (*Validator, error) {
	compiler := jsonschema.NewCompiler()

	// doc must be a decoded JSON value, not an io.Reader
	if err := compiler.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}

	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate parses data as JSON and validates it.
func (v *Validator) Validate(data []byte) *Result {
	value, err := ParseJSON(data)
	if err != nil {
		return &Result{
			Valid:  false,
			Errors: []string{fmt.Sprintf("invalid JSON: %s", err.Error())},
		}
	}
	return v.ValidateValue(value)
}

// ValidateValue validates an already-parsed value.
func (v *Validator) ValidateValue(value any) *Result {
	if v == nil || v.schema == nil {
		return &Result{Valid: false, Errors: []string{"schema not compiled"}}
	}

	err := v.schema.Validate(value)
	if err == nil {
		return &Result{Valid: true}
	}
	return &Result{Valid: false, Errors: extractValidationErrors(err)}
}

// ParseJSON decodes a JSON document keeping numbers exact.
func ParseJSON(data []byte) (any, error) {
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

func extractValidationErrors(err error) []string {
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return extractDetailedErrors(validationErr)
	}
	return []string{err.Error()}
}

var printer = message.NewPrinter(language.English)

// extractDetailedErrors flattens leaf errors into "path: message" lines,
// deduplicated and sorted by path.
func extractDetailedErrors(err *jsonschema.ValidationError) []string {
	errorsByPath := make(map[string][]string)
	collectErrors(err, errorsByPath)

	paths := make([]string, 0, len(errorsByPath))
	for path := range errorsByPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var result []string
	for _, path := range paths {
		seen := make(map[string]bool)
		for _, msg := range errorsByPath[path] {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			if path != "" {
				result = append(result, fmt.Sprintf("%s: %s", path, msg))
			} else {
				result = append(result, msg)
			}
		}
	}
	return result
}

func collectErrors(err *jsonschema.ValidationError, errorsByPath map[string][]string) {
	instancePath := ""
	if len(err.InstanceLocation) > 0 {
		instancePath = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		errMsg := err.ErrorKind.LocalizedString(printer)
		// $ref wrappers carry no information of their own
		if !strings.HasPrefix(errMsg, "$ref ") && !strings.HasPrefix(errMsg, "doesn't validate with") {
			errorsByPath[instancePath] = append(errorsByPath[instancePath], errMsg)
		}
	}

	for _, cause := range err.Causes {
		collectErrors(cause, errorsByPath)
	}
}
