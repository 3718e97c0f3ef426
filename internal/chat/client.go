// Package chat implements the client-side conversation and session state
// manager: the identifier-scoped session store, the conversation controller,
// and the HTTP client they share.
package chat

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

// maxResponseSize caps how much of a server response is read (4MB).
const maxResponseSize = 4 << 20

// askFallbackMessage is shown inline when a failure carries no message.
const askFallbackMessage = "Failed to get response. Please try again."

// AskError is a failed chat round trip: the status and the human-readable
// message to surface inline in the transcript.
type AskError struct {
	Status  int
	Message string
}

func (e *AskError) Error() string {
	return fmt.Sprintf("ask failed (%d): %s", e.Status, e.Message)
}

// Client talks to the woodshop server API.
type Client struct {
	baseURL    string
	askTimeout time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an API client for the server at baseURL. askTimeout
// bounds a chat round trip; answer generation can take minutes.
func NewClient(baseURL string, askTimeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		askTimeout: askTimeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// FetchSessions retrieves the remote session list for a user.
func (c *Client) FetchSessions(ctx context.Context, userID string) ([]domain.Session, error) {
	var sessions []domain.Session
	if err := c.getJSON(ctx, "/api/get-session/"+userID, &sessions); err != nil {
		return nil, fmt.Errorf("fetch sessions: %w", err)
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	return sessions, nil
}

// SaveSessions pushes the full session list to the remote store. Each
// session is reduced to its persisted form first; the short-form answer is
// intentionally dropped.
func (c *Client) SaveSessions(ctx context.Context, userID string, sessions []domain.Session) error {
	reduced := make([]domain.Session, len(sessions))
	for i, s := range sessions {
		reduced[i] = s.ForPersistence()
	}

	body, err := json.Marshal(map[string]interface{}{
		"userId":      userID,
		"sessionData": reduced,
	})
	if err != nil {
		return fmt.Errorf("encode session list: %w", err)
	}

	resp, err := c.post(ctx, "/api/save-session", body, 0)
	if err != nil {
		return fmt.Errorf("save sessions: %w", err)
	}
	defer c.closeBody(resp)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("save sessions: server returned %d", resp.StatusCode)
	}
	return nil
}

// RandomQuestions fetches the prompt suggestions for the empty state.
func (c *Client) RandomQuestions(ctx context.Context) ([]string, error) {
	var items []struct {
		QuestionText string `json:"question_text"`
	}
	if err := c.getJSON(ctx, "/api/random-questions", &items); err != nil {
		return nil, fmt.Errorf("fetch random questions: %w", err)
	}

	questions := make([]string, 0, len(items))
	for _, it := range items {
		questions = append(questions, it.QuestionText)
	}
	return questions, nil
}

// Ask sends one chat request through the proxy route. Any status >= 500 is
// a transport failure and any error field in the body is a semantic
// failure; both come back as an *AskError.
func (c *Client) Ask(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	if req.ChatHistory == nil {
		req.ChatHistory = []string{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	resp, err := c.post(ctx, "/api/chat", body, c.askTimeout)
	if err != nil {
		return nil, &AskError{Status: http.StatusInternalServerError, Message: askFallbackMessage}
	}
	defer c.closeBody(resp)

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &AskError{Status: http.StatusInternalServerError, Message: askFallbackMessage}
	}

	var out domain.ChatResponse
	decodeErr := json.Unmarshal(payload, &out)

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &AskError{Status: resp.StatusCode, Message: askMessage(&out, decodeErr)}
	}
	if decodeErr != nil {
		return nil, &AskError{Status: http.StatusInternalServerError, Message: askFallbackMessage}
	}
	if out.Error != "" || resp.StatusCode >= http.StatusBadRequest {
		return nil, &AskError{Status: resp.StatusCode, Message: askMessage(&out, nil)}
	}

	return &out, nil
}

// askMessage picks the inline failure message: the server's message field
// first, then its error field, then the generic fallback.
func askMessage(resp *domain.ChatResponse, decodeErr error) string {
	if decodeErr == nil && resp != nil {
		if resp.Message != "" {
			return resp.Message
		}
		if resp.Error != "" {
			return resp.Error
		}
	}
	return askFallbackMessage
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer c.closeBody(resp)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body []byte, timeout time.Duration) (*http.Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		// The response body is fully read by callers before the deferred
		// cancel in their frame runs; tie the cancel to the body close.
		resp, err := c.doPost(ctx, path, body)
		if err != nil {
			cancel()
			return nil, err
		}
		resp.Body = &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}
		return resp, nil
	}
	return c.doPost(ctx, path, body)
}

func (c *Client) doPost(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(req)
}

func (c *Client) closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.logger.Debug("failed to close response body", "error", err)
	}
}

// cancelReadCloser releases a request's timeout context when its body is
// closed.
type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}
