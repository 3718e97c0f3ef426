package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bentsww/woodshop/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "woodshop.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Failed to close store: %v", err)
		}
	})
	return repo.(*SQLiteStore)
}

func TestGetSessionsUnknownUserIsEmpty(t *testing.T) {
	s := newTestStore(t)

	sessions, err := s.GetSessions(context.Background(), "anon_missing")
	if err != nil {
		t.Fatalf("GetSessions failed: %v", err)
	}
	if sessions == nil || len(sessions) != 0 {
		t.Errorf("Expected empty list for unknown user, got %v", sessions)
	}
}

func TestSaveSessionsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := []domain.Session{{
		ID: "s1",
		Exchanges: []domain.Exchange{{
			Question:   "What glue for end grain?",
			AnswerText: "Use epoxy.",
			VideoURLs:  []string{"https://youtu.be/abc12345678"},
			VideoLinks: map[string][]string{"[video1]": {"https://youtu.be/abc12345678"}},
			Timestamp:  "2025-03-01T12:00:00Z",
		}},
	}}

	if err := s.SaveSessions(ctx, "anon_u1", in); err != nil {
		t.Fatalf("SaveSessions failed: %v", err)
	}

	got, err := s.GetSessions(ctx, "anon_u1")
	if err != nil {
		t.Fatalf("GetSessions failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("Unexpected sessions: %v", got)
	}
	ex := got[0].Exchanges[0]
	if ex.Question != "What glue for end grain?" || ex.AnswerText != "Use epoxy." {
		t.Errorf("Exchange fields not preserved: %+v", ex)
	}
	if len(ex.VideoLinks["[video1]"]) != 1 {
		t.Errorf("Video links not preserved: %v", ex.VideoLinks)
	}
}

func TestSaveSessionsLastWriteWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := []domain.Session{{ID: "old", Exchanges: []domain.Exchange{}}}
	second := []domain.Session{{ID: "new", Exchanges: []domain.Exchange{}}}

	if err := s.SaveSessions(ctx, "anon_u1", first); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if err := s.SaveSessions(ctx, "anon_u1", second); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	got, err := s.GetSessions(ctx, "anon_u1")
	if err != nil {
		t.Fatalf("GetSessions failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "new" {
		t.Errorf("Expected latest list only, got %v", got)
	}
}

func TestRandomQuestionsLimit(t *testing.T) {
	s := newTestStore(t)

	questions, err := s.RandomQuestions(context.Background(), 3)
	if err != nil {
		t.Fatalf("RandomQuestions failed: %v", err)
	}
	if len(questions) != 3 {
		t.Errorf("Expected 3 questions, got %d", len(questions))
	}
	for _, q := range questions {
		if q == "" {
			t.Error("Got empty question text")
		}
	}
}

func TestListProductsEncodesImageAndSplitsTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (title, tags, link, image_data) VALUES (?, ?, ?, ?)`,
		"Helical Head", "Planers, Jointers, Shop Tour 1", "https://example.com/head", []byte{0x89, 0x50})
	if err != nil {
		t.Fatalf("Insert product failed: %v", err)
	}

	products, err := s.ListProducts(ctx, SortDefault)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(products))
	}

	p := products[0]
	if len(p.Tags) != 3 || p.Tags[0] != "Planers" {
		t.Errorf("Tags not split: %v", p.Tags)
	}
	if p.ImageData != "iVA=" {
		t.Errorf("Image not base64 encoded: %q", p.ImageData)
	}
}

func TestParseProductSort(t *testing.T) {
	if ParseProductSort("video") != SortVideo {
		t.Error("Expected video sort")
	}
	if ParseProductSort("") != SortDefault {
		t.Error("Expected default sort for empty value")
	}
	if ParseProductSort("bogus") != SortDefault {
		t.Error("Expected default sort for unknown value")
	}
}
