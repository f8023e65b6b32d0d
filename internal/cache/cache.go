// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meshintel/litradar/pkg/types"
)

// keyLen is the number of hex characters kept from the hashed cache key.
const keyLen = 16

// nowFunc is swapped in tests to control expiry.
var nowFunc = time.Now

// Entry is the stored payload: the records plus the write time in epoch
// milliseconds.
type Entry struct {
	Timestamp int64               `json:"timestamp"`
	Papers    []types.PaperRecord `json:"papers"`
}

// Cache wraps a Store with per-variant TTL semantics. A stale entry is
// deleted on read and treated as a miss.
type Cache struct {
	store  Store
	cfg    types.CacheConfig
	logger *zap.Logger
}

// New builds a Cache over store. A nil logger is replaced with a no-op.
func New(store Store, cfg types.CacheConfig, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: store, cfg: cfg, logger: logger}
}

// Key derives the cache key for a variant and topic set. The topic order
// does not matter.
func Key(variant types.FeedVariant, topics []types.Topic) string {
	sorted := make([]string, len(topics))
	for i, t := range topics {
		sorted[i] = string(t)
	}
	sort.Strings(sorted)

	h := sha256.Sum256([]byte(string(variant) + "|" + strings.Join(sorted, ",")))
	return string(variant) + ":" + hex.EncodeToString(h[:])[:keyLen]
}

// Get returns the cached records for the variant/topic pair, or ok=false on
// a miss or an expired entry. Expired entries are removed.
func (c *Cache) Get(variant types.FeedVariant, topics []types.Topic) ([]types.PaperRecord, bool) {
	key := Key(variant, topics)
	raw, ok, err := c.store.Get(key)
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		c.logger.Warn("discarding corrupt cache entry", zap.String("key", key), zap.Error(err))
		c.delete(key)
		return nil, false
	}

	age := nowFunc().Sub(time.UnixMilli(entry.Timestamp))
	if age >= c.cfg.TTL(variant) {
		c.delete(key)
		return nil, false
	}
	return entry.Papers, true
}

// Put stores records under the variant/topic key. Write failures are logged
// and swallowed: a broken cache must never fail a discovery run.
func (c *Cache) Put(variant types.FeedVariant, topics []types.Topic, records []types.PaperRecord) {
	entry := Entry{
		Timestamp: nowFunc().UnixMilli(),
		Papers:    records,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.Error(err))
		return
	}

	key := Key(variant, topics)
	if err := c.store.Set(key, string(data)); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate removes the entry for the variant/topic pair.
func (c *Cache) Invalidate(variant types.FeedVariant, topics []types.Topic) {
	c.delete(Key(variant, topics))
}

func (c *Cache) delete(key string) {
	if err := c.store.Delete(key); err != nil {
		c.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}
