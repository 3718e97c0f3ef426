package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bentsww/woodshop/internal/domain"
)

// persistTimeout bounds one remote save.
const persistTimeout = 30 * time.Second

// InitialState is what LoadInitial hands to the UI: the session list, the
// writable active session, and the empty-state prompt suggestions.
type InitialState struct {
	Sessions        []domain.Session
	ActiveSessionID string
	Suggestions     []string
}

// Store owns the authoritative in-memory session list for one user and
// keeps the remote copy eventually consistent with it. All mutations go
// through Store methods; sessions are append-only.
type Store struct {
	client *Client
	logger *slog.Logger

	mu       sync.Mutex
	userID   string
	sessions []domain.Session
	activeID string

	// dirty has capacity one: rapid successive mutations coalesce into a
	// single trailing persist, and the worker serializes remote writes.
	dirty chan struct{}
	done  chan struct{}
	wg    sync.WaitGroup
}

// NewStore creates a session store backed by the given API client.
func NewStore(client *Client, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client: client,
		logger: logger,
		dirty:  make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// LoadInitial hydrates the store from the remote endpoints. The session
// list and the prompt suggestions are fetched concurrently; failure of
// either never blocks the other. The returned state is always usable: on
// fetch failure the store starts from an empty list and the error is
// returned for logging.
//
// The user always lands on a writable empty thread: if the list is empty
// or its trailing session already has exchanges, a fresh session is
// created and marked active.
func (s *Store) LoadInitial(ctx context.Context, userID string) (InitialState, error) {
	var (
		wg          sync.WaitGroup
		sessions    []domain.Session
		sessionsErr error
		suggestions []string
		suggestErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		sessions, sessionsErr = s.client.FetchSessions(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		suggestions, suggestErr = s.client.RandomQuestions(ctx)
	}()
	wg.Wait()

	if sessionsErr != nil {
		s.logger.Warn("failed to fetch remote sessions, starting empty", "user_id", userID, "error", sessionsErr)
		sessions = []domain.Session{}
	}
	if suggestErr != nil {
		s.logger.Warn("failed to fetch prompt suggestions", "error", suggestErr)
		suggestions = nil
	}

	s.mu.Lock()
	s.userID = userID
	s.sessions = sessions
	if n := len(s.sessions); n == 0 || len(s.sessions[n-1].Exchanges) > 0 {
		fresh := domain.NewSession()
		s.sessions = append(s.sessions, fresh)
		s.activeID = fresh.ID
	} else {
		s.activeID = s.sessions[n-1].ID
	}
	state := InitialState{
		Sessions:        s.snapshotLocked(),
		ActiveSessionID: s.activeID,
		Suggestions:     suggestions,
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go s.persistLoop()

	if sessionsErr != nil {
		return state, fmt.Errorf("load initial sessions: %w", sessionsErr)
	}
	if suggestErr != nil {
		return state, fmt.Errorf("load prompt suggestions: %w", suggestErr)
	}
	return state, nil
}

// AppendExchange appends an exchange to the named session and schedules a
// persist. Appending to an unknown session is an error, not a new session.
func (s *Store) AppendExchange(sessionID string, ex domain.Exchange) error {
	s.mu.Lock()
	idx := -1
	for i := range s.sessions {
		if s.sessions[i].ID == sessionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("append exchange to %s: %w", sessionID, ErrUnknownSession)
	}
	s.sessions[idx].Exchanges = append(s.sessions[idx].Exchanges, ex)
	s.mu.Unlock()

	s.schedulePersist()
	return nil
}

// CreateSession allocates a new empty session, appends it to the list, and
// marks it active.
func (s *Store) CreateSession() domain.Session {
	fresh := domain.NewSession()

	s.mu.Lock()
	s.sessions = append(s.sessions, fresh)
	s.activeID = fresh.ID
	s.mu.Unlock()

	s.schedulePersist()
	return fresh
}

// SelectSession marks an existing session active. No other session data is
// touched.
func (s *Store) SelectSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].ID == sessionID {
			s.activeID = sessionID
			return nil
		}
	}
	return fmt.Errorf("select session %s: %w", sessionID, ErrUnknownSession)
}

// ActiveID returns the ID of the active session.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Session returns a copy of the named session.
func (s *Store) Session(sessionID string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].ID == sessionID {
			return copySession(s.sessions[i]), nil
		}
	}
	return domain.Session{}, fmt.Errorf("session %s: %w", sessionID, ErrUnknownSession)
}

// Sessions returns a copy of the full session list in insertion order.
func (s *Store) Sessions() []domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Sorted returns the sessions ordered for display: most recent first by
// first-exchange time, empty sessions last.
func (s *Store) Sorted() []domain.Session {
	return domain.SortSessions(s.Sessions())
}

// Close flushes any pending persist and stops the worker.
func (s *Store) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Store) snapshotLocked() []domain.Session {
	out := make([]domain.Session, len(s.sessions))
	for i := range s.sessions {
		out[i] = copySession(s.sessions[i])
	}
	return out
}

func copySession(in domain.Session) domain.Session {
	out := domain.Session{ID: in.ID, Exchanges: make([]domain.Exchange, len(in.Exchanges))}
	copy(out.Exchanges, in.Exchanges)
	return out
}

// schedulePersist requests a remote save without blocking. A request that
// finds one already queued is dropped; the queued persist will pick up the
// newer state when it runs.
func (s *Store) schedulePersist() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// persistLoop serializes remote saves: at most one in flight, and each save
// snapshots the latest full state at send time, so a slow earlier save can
// never clobber a newer one.
func (s *Store) persistLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.dirty:
			s.persistOnce()
		case <-s.done:
			// Trailing flush for mutations still pending.
			select {
			case <-s.dirty:
				s.persistOnce()
			default:
			}
			return
		}
	}
}

func (s *Store) persistOnce() {
	s.mu.Lock()
	userID := s.userID
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if userID == "" || len(snapshot) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.client.SaveSessions(ctx, userID, snapshot); err != nil {
		// Never fatal: the next successful persist reconciles.
		s.logger.Warn("failed to persist sessions", "user_id", userID, "error", err)
	}
}
