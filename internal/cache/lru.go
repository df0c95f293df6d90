// Package cache memoizes compiled schema validators.
package cache

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/usestring/harcheck/internal/schema"
)

// SchemaCache provides thread-safe LRU caching of compiled validators keyed
// by the SHA-256 of their source.
type SchemaCache struct {
	cache    *lru.Cache[string, *schema.Validator]
	compiles singleflight.Group
}

// NewSchemaCache creates a cache holding at most maxItems validators.
func NewSchemaCache(maxItems int) (*SchemaCache, error) {
	c, err := lru.New[string, *schema.Validator](maxItems)
	if err != nil {
		return nil, err
	}
	return &SchemaCache{cache: c}, nil
}

// Key returns the cache key for a schema source. kind separates sources
// that are compiled differently from the same text.
func Key(kind, source string) string {
	sum := sha256.Sum256([]byte(kind + "\x00" + source))
	return hex.EncodeToString(sum[:])
}

// Get retrieves a validator by key.
func (c *SchemaCache) Get(key string) (*schema.Validator, bool) {
	return c.cache.Get(key)
}

// Put adds or updates a validator.
func (c *SchemaCache) Put(key string, v *schema.Validator) {
	c.cache.Add(key, v)
}

// GetOrCompile returns the cached validator for key, compiling and caching
// it on a miss. Concurrent misses for the same key share one compilation.
// Failed compilations are not cached.
func (c *SchemaCache) GetOrCompile(key string, compile func() (*schema.Validator, error)) (*schema.Validator, error) {
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}

	res, err, _ := c.compiles.Do(key, func() (any, error) {
		if v, ok := c.cache.Get(key); ok {
			return v, nil
		}
		v, err := compile()
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, v)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*schema.Validator), nil
}

// Len returns the current number of items in the cache.
func (c *SchemaCache) Len() int {
	return c.cache.Len()
}
