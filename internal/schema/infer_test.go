package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inferJSON(t *testing.T, src string) map[string]any {
	t.Helper()
	var sample any
	require.NoError(t, json.Unmarshal([]byte(src), &sample))

	out, err := json.Marshal(Infer(sample))
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(out, &schema))
	return schema
}

func TestInfer_Primitives(t *testing.T) {
	tests := []struct {
		json string
		want string
	}{
		{`"hello"`, "string"},
		{`42`, "number"},
		{`3.14`, "number"},
		{`true`, "boolean"},
	}

	for _, tt := range tests {
		t.Run(tt.json, func(t *testing.T) {
			assert.Equal(t, tt.want, inferJSON(t, tt.json)["type"])
		})
	}
}

func TestInfer_NullAcceptsAnything(t *testing.T) {
	out, err := json.Marshal(Infer(nil))
	require.NoError(t, err)
	assert.Equal(t, "true", string(out))
}

func TestInfer_ObjectRequired(t *testing.T) {
	schema := inferJSON(t, `{"b": 1, "a": "x", "n": null}`)

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []any{"a", "b"}, schema["required"])

	props := schema["properties"].(map[string]any)
	assert.Len(t, props, 3)
	assert.Equal(t, "number", props["b"].(map[string]any)["type"])
	assert.Equal(t, true, props["n"])
	assert.NotContains(t, schema, "additionalProperties")
}

func TestInfer_ArrayItems(t *testing.T) {
	t.Run("empty array", func(t *testing.T) {
		schema := inferJSON(t, `[]`)
		assert.Equal(t, "array", schema["type"])
		assert.NotContains(t, schema, "items")
	})

	t.Run("objects merged", func(t *testing.T) {
		schema := inferJSON(t, `[{"id": 1, "x": true}, {"id": 2}]`)
		items := schema["items"].(map[string]any)
		assert.Equal(t, "object", items["type"])
		assert.Equal(t, []any{"id"}, items["required"])
		assert.Len(t, items["properties"], 2)
	})

	t.Run("mixed types", func(t *testing.T) {
		schema := inferJSON(t, `[1, "a", 2]`)
		items := schema["items"].(map[string]any)
		anyOf := items["anyOf"].([]any)
		require.Len(t, anyOf, 2)
		assert.Equal(t, "number", anyOf[0].(map[string]any)["type"])
		assert.Equal(t, "string", anyOf[1].(map[string]any)["type"])
	})
}
