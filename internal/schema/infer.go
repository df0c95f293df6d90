package schema

import (
	"sort"

	"github.com/invopop/jsonschema"
)

// Infer builds a JSON Schema describing the shape of a parsed JSON sample.
// Every number is typed "number" so that integer and fractional values are
// interchangeable. Object keys present with a non-null value are required;
// null or absent keys stay optional and accept any value. Extra keys are
// allowed.
func Infer(sample any) *jsonschema.Schema {
	return inferAll([]any{sample})
}

// inferAll infers one schema covering every sample. Samples of different
// JSON types produce an anyOf over the per-type schemas.
func inferAll(samples []any) *jsonschema.Schema {
	groups := make(map[string][]any)
	for _, s := range samples {
		t := typeOf(s)
		groups[t] = append(groups[t], s)
	}

	typeList := make([]string, 0, len(groups))
	for t := range groups {
		typeList = append(typeList, t)
	}
	sort.Strings(typeList)

	schemas := make([]*jsonschema.Schema, 0, len(typeList))
	for _, t := range typeList {
		schemas = append(schemas, inferGroup(t, groups[t]))
	}

	switch len(schemas) {
	case 0:
		return &jsonschema.Schema{}
	case 1:
		return schemas[0]
	default:
		return &jsonschema.Schema{AnyOf: schemas}
	}
}

func typeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	default:
		// json.Number and anything else that encodes as a JSON number.
		if _, ok := v.(interface{ Float64() (float64, error) }); ok {
			return "number"
		}
		return ""
	}
}

func inferGroup(t string, samples []any) *jsonschema.Schema {
	switch t {
	case "object":
		return inferObject(samples)
	case "array":
		var items []any
		for _, s := range samples {
			items = append(items, s.([]any)...)
		}
		schema := &jsonschema.Schema{Type: "array"}
		if len(items) > 0 {
			schema.Items = inferAll(items)
		}
		return schema
	case "null", "":
		// a null sample says nothing about the value's type
		return &jsonschema.Schema{}
	default:
		return &jsonschema.Schema{Type: t}
	}
}

// inferObject merges the properties of several object samples. A key is
// required only when every sample carries it with a non-null value.
func inferObject(samples []any) *jsonschema.Schema {
	values := make(map[string][]any)
	present := make(map[string]int)
	for _, s := range samples {
		for k, v := range s.(map[string]any) {
			values[k] = append(values[k], v)
			if v != nil {
				present[k]++
			}
		}
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	var required []string
	for _, k := range keys {
		schema.Properties.Set(k, inferAll(values[k]))
		if present[k] == len(samples) {
			required = append(required, k)
		}
	}
	if len(required) > 0 {
		schema.Required = required
	}
	return schema
}
