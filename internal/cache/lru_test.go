package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/harcheck/internal/schema"
)

func compileString(t *testing.T) func() (*schema.Validator, error) {
	t.Helper()
	return func() (*schema.Validator, error) {
		return schema.Compile([]byte(`{"type": "string"}`))
	}
}

func TestNewSchemaCache_InvalidSize(t *testing.T) {
	_, err := NewSchemaCache(0)
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("schema", "{}"), Key("schema", "{}"))
	assert.NotEqual(t, Key("schema", "{}"), Key("sample", "{}"))
	assert.Len(t, Key("schema", ""), 64)
}

func TestGetOrCompile(t *testing.T) {
	c, err := NewSchemaCache(4)
	require.NoError(t, err)

	calls := 0
	compile := func() (*schema.Validator, error) {
		calls++
		return compileString(t)()
	}

	key := Key("schema", `{"type": "string"}`)
	first, err := c.GetOrCompile(key, compile)
	require.NoError(t, err)
	second, err := c.GetOrCompile(key, compile)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.Len())
}

func TestGetOrCompile_ErrorNotCached(t *testing.T) {
	c, err := NewSchemaCache(4)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = c.GetOrCompile("k", func() (*schema.Validator, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestEviction(t *testing.T) {
	c, err := NewSchemaCache(2)
	require.NoError(t, err)

	v, err := compileString(t)()
	require.NoError(t, err)

	c.Put("a", v)
	c.Put("b", v)
	c.Put("c", v)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestGetOrCompile_ConcurrentMissesCompileOnce(t *testing.T) {
	c, err := NewSchemaCache(4)
	require.NoError(t, err)

	var calls atomic.Int32
	compile := func() (*schema.Validator, error) {
		calls.Add(1)
		return compileString(t)()
	}

	var wg sync.WaitGroup
	results := make([]*schema.Validator, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrCompile("shared", compile)
			assert.NoError(t, err)
			results[i] = v
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Same(t, results[0], v)
	}
}
