// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/meshintel/litradar/pkg/types"
)

var testCfg = types.CacheConfig{
	TTLLive:   15 * time.Minute,
	TTLAI:     6 * time.Hour,
	TTLPatent: 72 * time.Hour,
}

func pinNow(t *testing.T, at time.Time) {
	t.Helper()
	old := nowFunc
	nowFunc = func() time.Time { return at }
	t.Cleanup(func() { nowFunc = old })
}

func TestKeyOrderInsensitive(t *testing.T) {
	a := Key(types.FeedAI, []types.Topic{types.TopicCKD, types.TopicMASH})
	b := Key(types.FeedAI, []types.Topic{types.TopicMASH, types.TopicCKD})
	if a != b {
		t.Errorf("topic order changed the key: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "ai:") {
		t.Errorf("key missing variant prefix: %q", a)
	}

	c := Key(types.FeedLive, []types.Topic{types.TopicCKD, types.TopicMASH})
	if a == c {
		t.Error("different variants must not collide")
	}
	d := Key(types.FeedAI, []types.Topic{types.TopicCKD})
	if a == d {
		t.Error("different topic sets must not collide")
	}
}

func TestCacheHitWithinTTL(t *testing.T) {
	t0 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	pinNow(t, t0)

	c := New(NewMemoryStore(), testCfg, nil)
	topics := []types.Topic{types.TopicObesity}
	c.Put(types.FeedAI, topics, []types.PaperRecord{{Title: "Cached"}})

	pinNow(t, t0.Add(6*time.Hour-time.Second))
	got, ok := c.Get(types.FeedAI, topics)
	if !ok || len(got) != 1 || got[0].Title != "Cached" {
		t.Fatalf("expected hit, got ok=%v records=%v", ok, got)
	}
}

func TestCacheExpiryDeletesEntry(t *testing.T) {
	t0 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	pinNow(t, t0)

	store := NewMemoryStore()
	c := New(store, testCfg, nil)
	topics := []types.Topic{types.TopicObesity}
	c.Put(types.FeedLive, topics, []types.PaperRecord{{Title: "Stale"}})

	pinNow(t, t0.Add(15*time.Minute+time.Millisecond))
	if _, ok := c.Get(types.FeedLive, topics); ok {
		t.Fatal("expired entry returned as hit")
	}

	// A second read must miss on an empty store, not re-expire.
	if _, ok, _ := store.Get(Key(types.FeedLive, topics)); ok {
		t.Error("expired entry not deleted from store")
	}
}

func TestCachePerVariantTTL(t *testing.T) {
	t0 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	pinNow(t, t0)

	c := New(NewMemoryStore(), testCfg, nil)
	topics := []types.Topic{types.TopicT2D}
	c.Put(types.FeedPatent, topics, []types.PaperRecord{{Title: "Patent"}})

	// Far past the live and ai windows, still inside the patent one.
	pinNow(t, t0.Add(48*time.Hour))
	if _, ok := c.Get(types.FeedPatent, topics); !ok {
		t.Fatal("patent entry expired before its 72h window")
	}
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	store := NewMemoryStore()
	topics := []types.Topic{types.TopicCVD}
	store.Set(Key(types.FeedAI, topics), "not json")

	c := New(store, testCfg, nil)
	if _, ok := c.Get(types.FeedAI, topics); ok {
		t.Fatal("corrupt entry returned as hit")
	}
	if _, ok, _ := store.Get(Key(types.FeedAI, topics)); ok {
		t.Error("corrupt entry not purged")
	}
}

type failingStore struct{}

func (failingStore) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }
func (failingStore) Set(string, string) error         { return errors.New("disk gone") }
func (failingStore) Delete(string) error              { return errors.New("disk gone") }
func (failingStore) Close() error                     { return nil }

func TestCacheSwallowsStoreErrors(t *testing.T) {
	c := New(failingStore{}, testCfg, nil)
	topics := []types.Topic{types.TopicCKD}

	// Neither call may panic or propagate the error.
	c.Put(types.FeedAI, topics, []types.PaperRecord{{Title: "X"}})
	if _, ok := c.Get(types.FeedAI, topics); ok {
		t.Fatal("failing store produced a hit")
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := New(NewMemoryStore(), testCfg, nil)
	topics := []types.Topic{types.TopicCKD}
	c.Put(types.FeedAI, topics, []types.PaperRecord{{Title: "X"}})
	c.Invalidate(types.FeedAI, topics)
	if _, ok := c.Get(types.FeedAI, topics); ok {
		t.Fatal("invalidated entry still readable")
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	if _, ok, _ := store.Get("missing"); ok {
		t.Error("empty store reported a hit")
	}
	if err := store.Set("k", "v1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set("k", "v2"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, ok, err := store.Get("k")
	if err != nil || !ok || got != "v2" {
		t.Fatalf("Get = %q, %v, %v", got, ok, err)
	}
	if err := store.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := store.Get("k"); ok {
		t.Error("deleted key still present")
	}
}
