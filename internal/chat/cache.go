package chat

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bentsww/woodshop/internal/domain"
)

// CachedState is the warm-start snapshot kept per user: the selected topic
// and the per-topic conversation history. It is only a cache; the remote
// session store stays the source of truth.
type CachedState struct {
	SelectedTopic domain.Topic                       `json:"selectedIndex"`
	History       map[domain.Topic][]domain.Exchange `json:"conversationHistory"`
}

// DefaultCachedState returns an empty history for every topic and the
// default topic selected.
func DefaultCachedState() CachedState {
	history := make(map[domain.Topic][]domain.Exchange, len(domain.Topics()))
	for _, t := range domain.Topics() {
		history[t] = []domain.Exchange{}
	}
	return CachedState{SelectedTopic: domain.DefaultTopic, History: history}
}

// Cache persists warm-start state to the data dir. All failures degrade:
// loads fall back to the default state and saves report the error for
// logging only.
type Cache struct {
	dir    string
	logger *slog.Logger
}

// NewCache creates a cache rooted at dataDir.
func NewCache(dataDir string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{dir: dataDir, logger: logger}
}

func (c *Cache) path(userID string) string {
	return filepath.Join(c.dir, "history-"+userID+".json")
}

// Load restores the cached state for a user. A missing, unreadable, or
// corrupt cache file resets to the default state.
func (c *Cache) Load(userID string) CachedState {
	raw, err := os.ReadFile(c.path(userID))
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("failed to read history cache, resetting", "user_id", userID, "error", err)
		}
		return DefaultCachedState()
	}

	var state CachedState
	if err := json.Unmarshal(raw, &state); err != nil {
		c.logger.Warn("corrupt history cache, resetting", "user_id", userID, "error", err)
		return DefaultCachedState()
	}
	if !state.SelectedTopic.Valid() {
		state.SelectedTopic = domain.DefaultTopic
	}
	if state.History == nil {
		state.History = DefaultCachedState().History
	}
	return state
}

// Save writes the cached state for a user.
func (c *Cache) Save(userID string, state CachedState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode history cache: %w", err)
	}
	if err := os.MkdirAll(c.dir, 0700); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(c.path(userID), raw, 0600); err != nil {
		return fmt.Errorf("write history cache: %w", err)
	}
	return nil
}
