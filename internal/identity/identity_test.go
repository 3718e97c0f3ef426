package identity

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestUserIDGeneratesAndPersists(t *testing.T) {
	dir := t.TempDir()

	p := NewProvider(dir)
	id, err := p.UserID()
	if err != nil {
		t.Fatalf("UserID failed: %v", err)
	}
	if !isValidAnonID(id) {
		t.Errorf("Generated ID %q does not match the anon pattern", id)
	}

	// A fresh provider over the same dir must see the same identity.
	again, err := NewProvider(dir).UserID()
	if err != nil {
		t.Fatalf("Second UserID failed: %v", err)
	}
	if again != id {
		t.Errorf("Identity not stable across providers: %q vs %q", id, again)
	}
}

func TestUserIDMemoizedWithinProcess(t *testing.T) {
	p := NewProvider(t.TempDir())

	first, err := p.UserID()
	if err != nil {
		t.Fatalf("UserID failed: %v", err)
	}

	// Remove the backing file; the memoized value must survive.
	if err := os.Remove(filepath.Join(p.path)); err != nil {
		t.Fatalf("Failed to remove identity file: %v", err)
	}
	second, err := p.UserID()
	if err != nil {
		t.Fatalf("Second UserID failed: %v", err)
	}
	if second != first {
		t.Errorf("Memoized identity changed: %q vs %q", first, second)
	}
}

func TestUserIDRegeneratesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, idFileName), []byte("not-an-id"), 0600); err != nil {
		t.Fatalf("Failed to seed corrupt file: %v", err)
	}

	id, err := NewProvider(dir).UserID()
	if err != nil {
		t.Fatalf("UserID failed: %v", err)
	}
	if !isValidAnonID(id) {
		t.Errorf("Expected regenerated valid ID, got %q", id)
	}
}

func TestUserIDStorageUnavailable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0500); err != nil {
		t.Fatalf("Failed to chmod: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chmod(dir, 0700); err != nil {
			t.Errorf("Failed to restore permissions: %v", err)
		}
	})

	p := NewProvider(dir)
	_, err := p.UserID()
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("Expected ErrStorageUnavailable, got %v", err)
	}

	// The failure is memoized too: no fresh identity on retry.
	_, err2 := p.UserID()
	if !errors.Is(err2, ErrStorageUnavailable) {
		t.Errorf("Expected stable failure, got %v", err2)
	}
}
