// Package domain contains core domain types for the woodshop application.
package domain

import (
	"time"
)

// Exchange is one question/answer turn in a chat thread. Once appended to a
// session it is never mutated; edits create new exchanges.
type Exchange struct {
	Question      string              `json:"question"`
	AnswerText    string              `json:"text"`
	InitialAnswer string              `json:"initial_answer,omitempty"`
	VideoURLs     []string            `json:"video"`
	VideoLinks    map[string][]string `json:"videoLinks"`
	Timestamp     string              `json:"timestamp"`
}

// NewExchange builds an exchange from a question and an upstream answer
// payload. Missing media fields default to empty, never nil, so callers can
// range over them without presence checks.
func NewExchange(question string, resp ChatResponse, now time.Time) Exchange {
	urls := resp.URLs
	if urls == nil {
		urls = []string{}
	}
	links := resp.VideoLinks
	if links == nil {
		links = map[string][]string{}
	}
	return Exchange{
		Question:      question,
		AnswerText:    resp.Response,
		InitialAnswer: resp.InitialAnswer,
		VideoURLs:     urls,
		VideoLinks:    links,
		Timestamp:     now.UTC().Format(time.RFC3339),
	}
}

// NewErrorExchange builds a synthetic exchange carrying a human-readable
// failure message, so errors stay visible inline in the transcript.
func NewErrorExchange(question, message string, now time.Time) Exchange {
	return Exchange{
		Question:   question,
		AnswerText: "Error: " + message,
		VideoURLs:  []string{},
		VideoLinks: map[string][]string{},
		Timestamp:  now.UTC().Format(time.RFC3339),
	}
}

// EffectiveAnswer returns the short-form answer when present, otherwise the
// full answer text. This is the form sent back to the backend as history.
func (e Exchange) EffectiveAnswer() string {
	if e.InitialAnswer != "" {
		return e.InitialAnswer
	}
	return e.AnswerText
}

// Time parses the exchange's creation timestamp. Malformed timestamps report
// the zero time rather than an error; they only affect display ordering.
func (e Exchange) Time() time.Time {
	t, err := time.Parse(time.RFC3339, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
