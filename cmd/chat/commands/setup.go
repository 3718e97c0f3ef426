package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bentsww/woodshop/internal/chat"
	"github.com/bentsww/woodshop/internal/config"
	"github.com/bentsww/woodshop/internal/identity"
	"github.com/joho/godotenv"
)

// app bundles what one CLI invocation needs: resolved configuration, the
// stable anonymous identity, the API client, the session store, and the
// conversation controller.
type app struct {
	cfg         *config.ClientConfig
	userID      string
	client      *chat.Client
	store       *chat.Store
	controller  *chat.Controller
	suggestions []string
}

// newApp wires the chat client stack. Partial initial-state failures are
// logged and tolerated; the returned app is always usable for asking.
func newApp(ctx context.Context, logger *slog.Logger) (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}

	userID, err := identity.NewProvider(cfg.DataDir).UserID()
	if err != nil {
		return nil, fmt.Errorf("resolving identity: %w", err)
	}

	client := chat.NewClient(cfg.APIURL, cfg.AskTimeout, logger)
	store := chat.NewStore(client, logger)
	state, err := store.LoadInitial(ctx, userID)
	if err != nil {
		logger.Warn("Initial state partially unavailable", "error", err)
	}

	cache := chat.NewCache(cfg.DataDir, logger)
	controller := chat.NewController(client, store, cache, userID, logger)

	return &app{
		cfg:         cfg,
		userID:      userID,
		client:      client,
		store:       store,
		controller:  controller,
		suggestions: state.Suggestions,
	}, nil
}

// Close flushes pending session saves.
func (a *app) Close() {
	a.store.Close()
}

// newLogger logs to stderr so transcripts on stdout stay clean.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}
