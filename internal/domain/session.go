package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Session is one chat thread: an ordered, append-only list of exchanges.
// The JSON field name "conversations" is the persisted wire name.
type Session struct {
	ID        string     `json:"id"`
	Exchanges []Exchange `json:"conversations"`
}

// NewSession allocates an empty session with a fresh identifier.
func NewSession() Session {
	return Session{
		ID:        uuid.NewString(),
		Exchanges: []Exchange{},
	}
}

// StartedAt returns the creation time of the session's first exchange.
// A session with no exchanges reports the zero time so it sorts as the
// oldest possible thread.
func (s Session) StartedAt() time.Time {
	if len(s.Exchanges) == 0 {
		return time.Time{}
	}
	return s.Exchanges[0].Time()
}

// ForPersistence returns a copy of the session reduced to the fields kept in
// remote storage. The short-form answer is dropped and media fields are
// normalized to empty rather than nil.
func (s Session) ForPersistence() Session {
	out := Session{ID: s.ID, Exchanges: make([]Exchange, len(s.Exchanges))}
	for i, ex := range s.Exchanges {
		urls := ex.VideoURLs
		if urls == nil {
			urls = []string{}
		}
		links := ex.VideoLinks
		if links == nil {
			links = map[string][]string{}
		}
		out.Exchanges[i] = Exchange{
			Question:   ex.Question,
			AnswerText: ex.AnswerText,
			VideoURLs:  urls,
			VideoLinks: links,
			Timestamp:  ex.Timestamp,
		}
	}
	return out
}

// SortSessions returns sessions ordered by first-exchange time, most recent
// thread first. The sort is stable so empty sessions keep their relative
// order at the bottom.
func SortSessions(sessions []Session) []Session {
	out := make([]Session, len(sessions))
	copy(out, sessions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt().After(out[j].StartedAt())
	})
	return out
}
