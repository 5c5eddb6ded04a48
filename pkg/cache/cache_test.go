package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k1", []byte("scene-bytes"), 0); err != nil {
		t.Fatal(err)
	}
	data, found, err := c.Get(ctx, "k1")
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if string(data) != "scene-bytes" {
		t.Errorf("data = %q", data)
	}

	_, found, err = c.Get(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("missing key reported as found")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, found, _ := c.Get(ctx, "k"); found {
		t.Error("expired entry reported as found")
	}
}

func TestFileCacheDelete(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := c.Get(ctx, "k"); found {
		t.Error("deleted entry reported as found")
	}
	// Deleting a missing key is a no-op.
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("double delete: %v", err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}

	// Corrupt the entry on disk; the next Get treats it as a miss.
	fc := c.(*FileCache)
	if err := os.WriteFile(fc.path("k"), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, found, err := c.Get(ctx, "k"); err != nil || found {
		t.Errorf("corrupt entry: found=%v err=%v", found, err)
	}
}

func TestFileCachePathDistribution(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	fc := c.(*FileCache)
	p := fc.path("some-key")
	rel, err := filepath.Rel(fc.dir, p)
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) != 2 || len(parts[0]) != 2 {
		t.Errorf("path layout = %s, want 2-char subdir", rel)
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := c.Get(ctx, "k"); found {
		t.Error("null cache stored a value")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	a := k.SceneKey("rack-hash", SceneKeyOpts{Theme: "light", Zoom: 1})
	b := k.SceneKey("rack-hash", SceneKeyOpts{Theme: "light", Zoom: 1})
	if a != b {
		t.Error("SceneKey should be deterministic")
	}
	if c := k.SceneKey("rack-hash", SceneKeyOpts{Theme: "dark", Zoom: 1}); c == a {
		t.Error("different options should produce different keys")
	}
	if c := k.SceneKey("other-hash", SceneKeyOpts{Theme: "light", Zoom: 1}); c == a {
		t.Error("different rack hashes should produce different keys")
	}

	if !strings.HasPrefix(a, "scene:") {
		t.Errorf("SceneKey prefix: %s", a)
	}
	if !strings.HasPrefix(k.CatalogKey("h"), "catalog:") {
		t.Error("CatalogKey prefix")
	}
	if !strings.HasPrefix(k.ArtifactKey("h", ArtifactKeyOpts{Format: "png"}), "artifact:") {
		t.Error("ArtifactKey prefix")
	}
}

func TestScopedKeyer(t *testing.T) {
	base := NewDefaultKeyer()
	scoped := NewScopedKeyer(base, "site-ams1:")

	key := scoped.CatalogKey("h")
	if !strings.HasPrefix(key, "site-ams1:catalog:") {
		t.Errorf("scoped key = %s", key)
	}
	if strings.TrimPrefix(key, "site-ams1:") != base.CatalogKey("h") {
		t.Error("scoped key should wrap the inner key unchanged")
	}
}
