package analysis

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"lukechampine.com/blake3"

	"github.com/lsm1103/ArenaAI/pkg/logger"
)

// Cache stores completed LLM responses on disk so repeated runs over the
// same material skip the API calls.
type Cache struct {
	dir    string
	logger *logger.Logger
}

// NewCache creates the cache directory if needed. An empty dir disables
// caching and returns a nil cache; callers treat nil as a miss-only cache.
func NewCache(dir string, parentLogger *logger.Logger) (*Cache, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir, logger: parentLogger.Named("analysis-cache")}, nil
}

// Key derives a stable cache key from the model, prompt version, and the
// full prompt material.
func Key(model string, parts ...string) string {
	h := blake3.New(32, nil)
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(promptVersion))
	for _, part := range parts {
		h.Write([]byte{0})
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached response for key, or ok=false on a miss.
func (c *Cache) Get(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return "", false
	}
	c.logger.Debug("Cache hit", logger.String("key", key))
	return string(data), true
}

// Put stores a response under key. Failures are logged and swallowed: the
// cache is an optimization, never a hard dependency.
func (c *Cache) Put(key, response string) {
	if c == nil {
		return
	}
	if err := os.WriteFile(c.path(key), []byte(response), 0o644); err != nil {
		c.logger.Warn("Failed to write cache entry",
			logger.String("key", key),
			logger.Error(err))
	}
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".txt")
}
