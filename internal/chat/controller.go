package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bentsww/woodshop/internal/domain"
)

// Controller drives one question/answer round trip at a time and keeps the
// active conversation in step with its owning session. The active
// conversation is a view into exactly one session; the controller never
// mutates a session directly, always through the store.
type Controller struct {
	client *Client
	store  *Store
	cache  *Cache
	logger *slog.Logger
	userID string

	inFlight atomic.Bool

	mu     sync.Mutex
	topic  domain.Topic
	active []domain.Exchange
}

// NewController creates a controller over the given store. The selected
// topic warm-starts from the local cache when one is present.
func NewController(client *Client, store *Store, cache *Cache, userID string, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	topic := domain.DefaultTopic
	if cache != nil {
		topic = cache.Load(userID).SelectedTopic
	}
	return &Controller{
		client: client,
		store:  store,
		cache:  cache,
		logger: logger,
		userID: userID,
		topic:  topic,
		active: []domain.Exchange{},
	}
}

// Ask runs one question/answer round trip: it validates the question,
// sends it with the flattened prior history, and appends the resulting
// exchange to both the active conversation and the owning session.
//
// At most one ask may be in flight; a re-entrant call gets ErrBusy and no
// request is emitted. Failures are appended as a synthetic exchange so they
// stay visible inline, and the error is returned alongside it.
func (c *Controller) Ask(ctx context.Context, question string, topic domain.Topic) (domain.Exchange, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Exchange{}, ErrEmptyQuestion
	}
	if !topic.Valid() {
		return domain.Exchange{}, ErrInvalidTopic
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return domain.Exchange{}, ErrBusy
	}
	defer c.inFlight.Store(false)

	c.mu.Lock()
	history := domain.FlattenHistory(c.active)
	c.mu.Unlock()

	resp, err := c.client.Ask(ctx, domain.ChatRequest{
		Message:       question,
		SelectedIndex: string(topic),
		ChatHistory:   history,
	})
	if err != nil {
		c.logger.Error("chat request failed", "error", err)
		ex := domain.NewErrorExchange(question, askErrorMessage(err), time.Now())
		c.append(ex)
		return ex, err
	}

	ex := domain.NewExchange(question, *resp, time.Now())
	c.append(ex)
	return ex, nil
}

// SwitchTopic replaces the active conversation with an empty one and sets
// the topic selector. Persisted session data is untouched.
func (c *Controller) SwitchTopic(topic domain.Topic) error {
	if !topic.Valid() {
		return ErrInvalidTopic
	}
	c.mu.Lock()
	c.topic = topic
	c.active = []domain.Exchange{}
	c.mu.Unlock()

	c.saveCache()
	return nil
}

// NewThread starts a fresh session and clears the active conversation.
func (c *Controller) NewThread() domain.Session {
	fresh := c.store.CreateSession()
	c.mu.Lock()
	c.active = []domain.Exchange{}
	c.mu.Unlock()
	return fresh
}

// OpenSession makes an existing session current and loads its exchanges as
// the active conversation.
func (c *Controller) OpenSession(sessionID string) error {
	if err := c.store.SelectSession(sessionID); err != nil {
		return err
	}
	session, err := c.store.Session(sessionID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.active = session.Exchanges
	c.mu.Unlock()
	return nil
}

// Active returns a copy of the active conversation in append order.
func (c *Controller) Active() []domain.Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Exchange, len(c.active))
	copy(out, c.active)
	return out
}

// Topic returns the current topic selector.
func (c *Controller) Topic() domain.Topic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.topic
}

// append adds the exchange to the active conversation and mirrors it into
// the owning session through the store.
func (c *Controller) append(ex domain.Exchange) {
	c.mu.Lock()
	c.active = append(c.active, ex)
	c.mu.Unlock()

	if err := c.store.AppendExchange(c.store.ActiveID(), ex); err != nil {
		c.logger.Warn("failed to mirror exchange into session", "error", err)
	}
	c.saveCache()
}

// saveCache refreshes the local warm-start copy. Failures only log; the
// cache is never the source of truth.
func (c *Controller) saveCache() {
	if c.cache == nil {
		return
	}

	c.mu.Lock()
	state := c.cache.Load(c.userID)
	state.SelectedTopic = c.topic
	history := make([]domain.Exchange, len(c.active))
	copy(history, c.active)
	state.History[c.topic] = history
	c.mu.Unlock()

	if err := c.cache.Save(c.userID, state); err != nil {
		c.logger.Warn("failed to update history cache", "user_id", c.userID, "error", err)
	}
}

// askErrorMessage extracts the inline message for a failed ask.
func askErrorMessage(err error) string {
	var askErr *AskError
	if errors.As(err, &askErr) && askErr.Message != "" {
		return askErr.Message
	}
	return askFallbackMessage
}
