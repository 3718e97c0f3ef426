package chat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bentsww/woodshop/internal/domain"
)

func TestCacheLoadMissingReturnsDefault(t *testing.T) {
	c := NewCache(t.TempDir(), nil)

	state := c.Load("anon_u1")

	if state.SelectedTopic != domain.DefaultTopic {
		t.Errorf("Topic = %q", state.SelectedTopic)
	}
	if len(state.History) != len(domain.Topics()) {
		t.Errorf("Expected a bucket per topic, got %v", state.History)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache(t.TempDir(), nil)

	state := DefaultCachedState()
	state.SelectedTopic = domain.TopicShopImprovement
	state.History[domain.TopicShopImprovement] = []domain.Exchange{{
		Question:  "Where to put the bench?",
		Timestamp: "2025-03-01T12:00:00Z",
	}}
	if err := c.Save("anon_u1", state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := c.Load("anon_u1")
	if got.SelectedTopic != domain.TopicShopImprovement {
		t.Errorf("Topic = %q", got.SelectedTopic)
	}
	if len(got.History[domain.TopicShopImprovement]) != 1 {
		t.Errorf("History not restored: %v", got.History)
	}
}

func TestCacheCorruptFileResets(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(dir, nil)
	if err := os.WriteFile(filepath.Join(dir, "history-anon_u1.json"), []byte("{broken"), 0600); err != nil {
		t.Fatalf("Seed corrupt cache: %v", err)
	}

	state := c.Load("anon_u1")

	if state.SelectedTopic != domain.DefaultTopic || state.History == nil {
		t.Errorf("Corrupt cache should reset to defaults: %+v", state)
	}
}
