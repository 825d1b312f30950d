package randomx

import (
	"fmt"

	"github.com/mxhess/salvium-core/internal"
)

const (
	// cacheSize is the RandomX cache size in bytes: 256 MiB, the raw
	// Argon2d-filled memory region (not a compressed tag).
	cacheSize = 256 * 1024 * 1024

	// cacheItems is the number of 64-byte cache items addressable by
	// SuperscalarHash dataset item generation.
	cacheItems = cacheSize / 64
)

// cache holds the RandomX cache initialized from a seed using Argon2d.
// The cache is used to generate dataset items in light mode or to
// initialize the full dataset in fast mode.
type cache struct {
	data     []byte                           // Raw cache data (256 MiB)
	key      []byte                           // Cache key (seed) used to generate this cache
	programs [cacheAccesses]*superscalarProgram // Precomputed SuperscalarHash programs
}

// newCache creates a new RandomX cache from the given seed.
func newCache(seed []byte) (*cache, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("cache seed must not be empty")
	}

	c := &cache{
		key: append([]byte(nil), seed...), // Copy seed
	}

	// Generate cache using Argon2d with RandomX's fixed parameters and
	// salt. The returned slice IS the cache; it is not re-hashed.
	cacheData := internal.Argon2dCache(seed)
	if len(cacheData) != cacheSize {
		return nil, fmt.Errorf("argon2 output size mismatch: got %d, want %d",
			len(cacheData), cacheSize)
	}

	c.data = cacheData
	c.generatePrograms()

	return c, nil
}

// generatePrograms derives the fixed set of SuperscalarHash programs used
// to expand every dataset item from this cache. They are generated once,
// deterministically from the cache key, and reused for every item.
func (c *cache) generatePrograms() {
	gen := newBlake2Generator(c.key)
	for i := 0; i < cacheAccesses; i++ {
		c.programs[i] = generateSuperscalarProgram(gen)
	}
}

// release frees the cache resources.
func (c *cache) release() {
	if c.data != nil {
		zeroBytes(c.data)
		c.data = nil
	}
	c.key = nil
	for i := range c.programs {
		c.programs[i] = nil
	}
}

// getItem returns the cache item at the specified index.
// Each item is 64 bytes.
func (c *cache) getItem(index uint32) []byte {
	if index >= cacheItems {
		index = index % cacheItems
	}
	offset := index * 64
	return c.data[offset : offset+64]
}
