package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/aegis/internal/model"
)

func TestKey(t *testing.T) {
	a := Key("analysis", "The earth is flat.")
	b := Key("analysis", "The earth is flat.")
	c := Key("factcheck", "The earth is flat.")

	if a != b {
		t.Error("same input should give same key")
	}
	if a == c {
		t.Error("namespaces should not collide")
	}
	if strings.Contains(a, "earth") {
		t.Error("key must not contain the input")
	}
	if !strings.HasPrefix(a, "aegis:v1:analysis:") {
		t.Errorf("unexpected key prefix: %s", a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss")
	}

	_ = c.Set("k", []byte("v"), 0)
	if val, found := c.Get("k"); !found || string(val) != "v" {
		t.Errorf("expected hit, got %q %v", val, found)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d", c.Len())
	}

	_ = c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("expected miss after delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("k", []byte("v"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("expected entry to expire")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := Key("analysis", "text")

	if err := c.Set(key, []byte("payload"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if val, found := c.Get(key); !found || string(val) != "payload" {
		t.Errorf("expected hit, got %q %v", val, found)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "*.cache"))
	if len(matches) != 1 {
		t.Errorf("expected 1 cache file, got %v", matches)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := c.Delete(key); err != nil {
		t.Errorf("deleting a missing entry should not fail: %v", err)
	}
}

func TestDiskCache_ExpiredAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	_ = c.Set("old", []byte("x"), -time.Second)
	if _, found := c.Get("old"); found {
		t.Error("expected expired entry to miss")
	}

	if err := os.WriteFile(c.path("bad"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, found := c.Get("bad"); found {
		t.Error("expected corrupt entry to miss")
	}
	if _, err := os.Stat(c.path("bad")); !os.IsNotExist(err) {
		t.Error("expected corrupt entry to be removed")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	// Simulate a restart: entry only on disk
	_ = c.disk.Set("k", []byte("v"), 0)
	if _, found := c.memory.Get("k"); found {
		t.Fatal("memory should start empty")
	}

	if val, found := c.Get("k"); !found || string(val) != "v" {
		t.Fatalf("expected disk hit, got %q %v", val, found)
	}
	if _, found := c.memory.Get("k"); !found {
		t.Error("expected disk hit to be promoted to memory")
	}

	_ = c.Clear()
	if _, found := c.Get("k"); found {
		t.Error("expected miss after clear")
	}
}

func TestJSONHelpers(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	key := Key("analysis", "some text")

	in := model.AnalysisResponse{
		AIScore: 0.8,
		Claims:  []model.Claim{{Claim: "The earth is flat.", Rating: "False", Source: "NASA"}},
		Status:  model.StatusSuccess,
	}
	if err := SetJSON(c, key, in, 0); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	var out model.AnalysisResponse
	if !GetJSON(c, key, &out) {
		t.Fatal("expected hit")
	}
	if out.AIScore != 0.8 || len(out.Claims) != 1 || out.Claims[0].Source != "NASA" {
		t.Errorf("unexpected value: %+v", out)
	}

	_ = c.Set(key, []byte("{broken"), 0)
	if GetJSON(c, key, &out) {
		t.Error("expected undecodable entry to miss")
	}
	if _, found := c.Get(key); found {
		t.Error("expected undecodable entry to be dropped")
	}
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	_ = c.Set("k", []byte("v"), 0)
	if _, found := c.Get("k"); found {
		t.Error("nop cache should never hit")
	}
}
