package store

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bentsww/woodshop/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// seedQuestions are the stock prompt suggestions inserted on first startup.
var seedQuestions = []string{
	"What glue should I use for end grain joints?",
	"How do I flatten a workbench top with a router sled?",
	"Which dust collection setup works for a one-car garage shop?",
	"Is a helical head worth the upgrade on a benchtop planer?",
	"How do I square up rough lumber without a jointer?",
	"What finish holds up best on a walnut dining table?",
	"How should I lay out a small shop for sheet goods?",
	"What is a good first hand plane for a beginner?",
	"How do I stop tearout when planing figured maple?",
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS chat_sessions (
		user_id TEXT PRIMARY KEY,
		sessions_json TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chat_sessions_updated ON chat_sessions(updated_at);

	CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question_text TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		tags TEXT NOT NULL,
		link TEXT NOT NULL,
		image_data BLOB
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	for _, q := range seedQuestions {
		if _, err := s.db.Exec(`INSERT OR IGNORE INTO questions (question_text) VALUES (?)`, q); err != nil {
			return fmt.Errorf("seed questions: %w", err)
		}
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetSessions retrieves the stored session list for a user.
func (s *SQLiteStore) GetSessions(ctx context.Context, userID string) ([]domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT sessions_json FROM chat_sessions WHERE user_id = ?`, userID)

	var raw string
	err := row.Scan(&raw)
	if err == sql.ErrNoRows {
		return []domain.Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan sessions row: %w", err)
	}

	var sessions []domain.Session
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return nil, fmt.Errorf("decode stored sessions for %s: %w", userID, err)
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	return sessions, nil
}

// SaveSessions replaces the user's stored session list. The whole list is
// written in one statement so a save is never partially visible.
func (s *SQLiteStore) SaveSessions(ctx context.Context, userID string, sessions []domain.Session) error {
	raw, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}

	now := time.Now().Unix()
	query := `
	INSERT INTO chat_sessions (user_id, sessions_json, created_at, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		sessions_json = excluded.sessions_json,
		updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query, userID, string(raw), now, now); err != nil {
		return fmt.Errorf("upsert sessions: %w", err)
	}
	return nil
}

// RandomQuestions returns up to n prompt suggestions in random order.
func (s *SQLiteStore) RandomQuestions(ctx context.Context, n int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_text FROM questions ORDER BY RANDOM() LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query random questions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close questions rows", "error", closeErr)
		}
	}()

	var questions []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scan question row: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}

// ListProducts returns the catalog, ordered by the tag column when grouping
// by video is requested.
func (s *SQLiteStore) ListProducts(ctx context.Context, sort ProductSort) ([]domain.Product, error) {
	query := `SELECT id, title, tags, link, image_data FROM products`
	if sort == SortVideo {
		query += ` ORDER BY tags`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close products rows", "error", closeErr)
		}
	}()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var tags string
		var image []byte
		if err := rows.Scan(&p.ID, &p.Title, &tags, &p.Link, &image); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		p.Tags = domain.SplitTags(tags)
		if len(image) > 0 {
			p.ImageData = base64.StdEncoding.EncodeToString(image)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
