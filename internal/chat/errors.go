package chat

import "errors"

var (
	// ErrEmptyQuestion rejects a question that is empty after trimming.
	// Callers block the action silently rather than surfacing an error.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrBusy rejects an ask issued while a prior one is still in flight.
	// Requests are rejected, never queued.
	ErrBusy = errors.New("a request is already in flight")

	// ErrUnknownSession reports an append to a session ID not in the store.
	ErrUnknownSession = errors.New("unknown session")

	// ErrInvalidTopic reports a topic outside the closed set.
	ErrInvalidTopic = errors.New("invalid topic")
)
