package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a tool after checking that its input and output types
// survive the SDK's schema round trip. A type that would fail on every call
// panics here, at registration, with the field to fix.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	if err := checkToolTypes[In, Out](); err != nil {
		panic(fmt.Sprintf("AddTool %q: %v", t.Name, err))
	}
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema panics when the zero value of T does not validate
// against the schema the SDK infers for T.
func CheckOutputSchema[T any](toolName string) {
	if err := checkOutput(reflect.TypeFor[T]()); err != nil {
		panic(fmt.Sprintf("AddTool %q: %v", toolName, err))
	}
}

func checkToolTypes[In, Out any]() error {
	in := deref(reflect.TypeFor[In]())
	if in != reflect.TypeFor[any]() && in.Kind() != reflect.Struct && in.Kind() != reflect.Map {
		return fmt.Errorf("input type %s must be a struct or map, tool arguments are a JSON object", in)
	}
	return checkOutput(reflect.TypeFor[Out]())
}

// checkOutput catches two mismatches between inferred schema and encoding:
// nil slices marshal as null where the schema says array, and
// json.RawMessage marshals as embedded JSON where the schema says []byte.
func checkOutput(rt reflect.Type) error {
	if rt == reflect.TypeFor[any]() {
		return nil
	}
	rt = deref(rt)

	if paths := rawMessagePaths(rt, "", map[reflect.Type]bool{}); len(paths) > 0 {
		return fmt.Errorf("output type %s has json.RawMessage at %s\n"+
			"  the schema describes it as an array of bytes\n"+
			"  Fix: use any (or []any) and decode the raw JSON into it",
			rt, strings.Join(paths, ", "))
	}

	err := validateZero(rt)
	var zeroErr *zeroValueError
	if errors.As(err, &zeroErr) {
		return fmt.Errorf("zero value of output type %s fails schema validation: %v\n"+
			"  JSON: %s\n"+
			"  Fix: add `omitzero` to nil-defaulting slice fields, or initialize them to empty slices",
			rt, zeroErr.err, zeroErr.data)
	}
	// Inference failures are left for the SDK to report.
	return nil
}

type zeroValueError struct {
	data []byte
	err  error
}

func (e *zeroValueError) Error() string { return e.err.Error() }

func validateZero(rt reflect.Type) error {
	schema, err := jsonschema.ForType(rt, &jsonschema.ForOptions{})
	if err != nil {
		return err
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return err
	}

	data, err := json.Marshal(reflect.Zero(rt).Interface())
	if err != nil {
		return err
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if err := resolved.Validate(&v); err != nil {
		return &zeroValueError{data: data, err: err}
	}
	return nil
}

var rawMessageType = reflect.TypeFor[json.RawMessage]()

// rawMessagePaths lists the dotted paths of json.RawMessage values reachable
// from t. Slice elements appear as [] and map values as [value].
func rawMessagePaths(t reflect.Type, path string, seen map[reflect.Type]bool) []string {
	t = deref(t)
	if t == rawMessageType {
		return []string{path}
	}
	if seen[t] {
		return nil
	}
	seen[t] = true
	defer delete(seen, t)

	switch t.Kind() {
	case reflect.Struct:
		var out []string
		for i := range t.NumField() {
			if f := t.Field(i); f.IsExported() {
				out = append(out, rawMessagePaths(f.Type, join(path, f.Name), seen)...)
			}
		}
		return out
	case reflect.Slice, reflect.Array:
		return rawMessagePaths(t.Elem(), join(path, "[]"), seen)
	case reflect.Map:
		return rawMessagePaths(t.Elem(), join(path, "[value]"), seen)
	}
	return nil
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
