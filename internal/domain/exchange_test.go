package domain

import (
	"testing"
	"time"
)

func TestNewExchangeDefaultsMediaFields(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ex := NewExchange("How flat is flat enough?", ChatResponse{Response: "Within a few thou."}, now)

	if ex.VideoURLs == nil || len(ex.VideoURLs) != 0 {
		t.Errorf("Expected empty video URLs, got %v", ex.VideoURLs)
	}
	if ex.VideoLinks == nil || len(ex.VideoLinks) != 0 {
		t.Errorf("Expected empty video links, got %v", ex.VideoLinks)
	}
	if ex.Timestamp != "2025-03-01T12:00:00Z" {
		t.Errorf("Unexpected timestamp %q", ex.Timestamp)
	}
}

func TestNewExchangeCarriesResponseFields(t *testing.T) {
	now := time.Now()
	resp := ChatResponse{
		Response:      "Use [video1] for reference.",
		InitialAnswer: "See the video.",
		URLs:          []string{"https://youtu.be/abc12345678"},
		VideoLinks:    map[string][]string{"[video1]": {"https://youtu.be/abc12345678"}},
	}

	ex := NewExchange("Sharpening setup?", resp, now)

	if ex.AnswerText != resp.Response {
		t.Errorf("Answer text = %q", ex.AnswerText)
	}
	if ex.InitialAnswer != resp.InitialAnswer {
		t.Errorf("Initial answer = %q", ex.InitialAnswer)
	}
	if len(ex.VideoURLs) != 1 || len(ex.VideoLinks) != 1 {
		t.Error("Media fields not carried over")
	}
}

func TestEffectiveAnswerPrefersInitialAnswer(t *testing.T) {
	ex := Exchange{AnswerText: "long form", InitialAnswer: "short form"}
	if got := ex.EffectiveAnswer(); got != "short form" {
		t.Errorf("Expected short form, got %q", got)
	}

	ex.InitialAnswer = ""
	if got := ex.EffectiveAnswer(); got != "long form" {
		t.Errorf("Expected long form, got %q", got)
	}
}

func TestNewErrorExchangeIsVisibleInline(t *testing.T) {
	ex := NewErrorExchange("Why did it fail?", "Failed to get response. Please try again.", time.Now())

	if ex.AnswerText != "Error: Failed to get response. Please try again." {
		t.Errorf("Unexpected error text %q", ex.AnswerText)
	}
	if ex.Question != "Why did it fail?" {
		t.Errorf("Question not preserved: %q", ex.Question)
	}
	if ex.InitialAnswer != "" || len(ex.VideoURLs) != 0 || len(ex.VideoLinks) != 0 {
		t.Error("Error exchange should carry no answer metadata")
	}
}

func TestFlattenHistoryAlternatesQuestionAnswer(t *testing.T) {
	exchanges := []Exchange{
		{Question: "q1", AnswerText: "a1 long", InitialAnswer: "a1"},
		{Question: "q2", AnswerText: "a2"},
	}

	got := FlattenHistory(exchanges)

	want := []string{"q1", "a1", "q2", "a2"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("history[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExchangeTimeMalformedIsZero(t *testing.T) {
	ex := Exchange{Timestamp: "not-a-time"}
	if !ex.Time().IsZero() {
		t.Error("Malformed timestamp should parse as zero time")
	}
}
