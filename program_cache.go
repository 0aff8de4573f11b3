package metalava

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// ProgramCache stores compiled expression programs keyed by engine and
// expression.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache registers a program cache used by the default evaluator.
func WithProgramCache(cache ProgramCache) ScopeOption {
	return func(cfg *scopeConfig) {
		cfg.programCache = cache
	}
}

// DefaultProgramCacheSize bounds NewLRUProgramCache when size is not positive.
const DefaultProgramCacheSize = 256

type lruProgramCache struct {
	entries *lru.Cache[string, any]
}

// NewLRUProgramCache returns a bounded, concurrency safe ProgramCache.
func NewLRUProgramCache(size int) (ProgramCache, error) {
	if size <= 0 {
		size = DefaultProgramCacheSize
	}
	entries, err := lru.New[string, any](size)
	if err != nil {
		return nil, err
	}
	return &lruProgramCache{entries: entries}, nil
}

func (c *lruProgramCache) Get(key string) (any, bool) {
	return c.entries.Get(key)
}

func (c *lruProgramCache) Set(key string, value any) {
	c.entries.Add(key, value)
}

func cacheKey(engine, expression string) string {
	return engine + ":" + expression
}
