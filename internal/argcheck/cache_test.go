package argcheck

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_SharesStructurallyIdenticalSchemas(t *testing.T) {
	cache := NewCache()

	tree := func() map[string]interface{} {
		return map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"city": map[string]interface{}{"type": "string", "minLength": 1},
			},
		}
	}

	a := cache.Get(mustSchema(t, tree()))
	b := cache.Get(mustSchema(t, tree()))
	assert.Same(t, a, b, "identical schemas must share one compiled validator")

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestCache_DistinctSchemasDistinctEntries(t *testing.T) {
	cache := NewCache()

	cache.Get(mustSchema(t, map[string]interface{}{"type": "string", "minLength": 1}))
	cache.Get(mustSchema(t, map[string]interface{}{"type": "string", "minLength": 2}))

	assert.Equal(t, 2, cache.Stats().Entries)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := NewCache()
	s := mustSchema(t, map[string]interface{}{"type": "string"})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NotNil(t, cache.Get(s))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, cache.Stats().Entries)
}
