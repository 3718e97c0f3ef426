// Package proxy relays chat requests to the remote inference backend and
// normalizes its response and error shapes.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bentsww/woodshop/internal/domain"
)

// maxResponseSize caps how much of an upstream body is read (4MB).
const maxResponseSize = 4 << 20

// RelayError describes a failed relay: the HTTP status to surface and a
// human-readable message. Status mirrors the upstream failure, with upstream
// 4xx normalized to 400.
type RelayError struct {
	Status  int
	Message string
	Details string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("chat relay failed (%d): %s", e.Status, e.Message)
}

// Client is an HTTP client to the inference backend.
type Client struct {
	backendURL string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a relay client for the backend at backendURL. Generation can
// be slow, so timeout should be on the order of minutes.
func New(backendURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		backendURL: strings.TrimRight(backendURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Relay forwards one chat request to the backend and returns the normalized
// answer. Failures come back as a *RelayError carrying the status and
// envelope to surface; they are never returned alongside a response.
func (c *Client) Relay(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.backendURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Info("Relaying chat request", "backend", c.backendURL, "message_length", len(req.Message))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Upstream request failed", "error", err)
		return nil, &RelayError{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process chat request",
			Details: err.Error(),
		}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close upstream body", "error", closeErr)
		}
	}()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &RelayError{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read backend response",
			Details: err.Error(),
		}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.logger.Error("Upstream returned server error", "status", resp.StatusCode)
		return nil, &RelayError{
			Status:  resp.StatusCode,
			Message: "Failed to process chat request",
			Details: strings.TrimSpace(string(payload)),
		}
	}

	var out domain.ChatResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, &RelayError{
			Status:  http.StatusInternalServerError,
			Message: "Invalid backend response",
			Details: err.Error(),
		}
	}

	// A well-formed error field is a semantic failure even on a 2xx status.
	if out.Error != "" {
		return nil, &RelayError{Status: http.StatusBadRequest, Message: out.Error}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		msg := out.Message
		if msg == "" {
			msg = "Failed to process chat request"
		}
		return nil, &RelayError{Status: http.StatusBadRequest, Message: msg}
	}

	return &out, nil
}
