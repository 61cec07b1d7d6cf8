// ABOUTME: Tests for session storage
// ABOUTME: Covers round trips, fail-soft profile reads, and idempotent clearing

package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/markalston/todoctl/internal/models"
)

func testUser() models.User {
	return models.User{
		ID:        1,
		Email:     "a@b.com",
		IsAdmin:   false,
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 5, 2, 11, 30, 0, 0, time.UTC),
	}
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"file":   NewFileStore(filepath.Join(t.TempDir(), "todoctl")),
		"memory": NewMemoryStore(),
	}
}

func TestEmptyStore(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok := s.Token(); ok {
				t.Error("expected no token in empty store")
			}
			if _, ok := s.User(); ok {
				t.Error("expected no user in empty store")
			}
		})
	}
}

func TestSetSessionRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			user := testUser()
			if err := s.SetSession("abc", user); err != nil {
				t.Fatalf("SetSession() error: %v", err)
			}

			token, ok := s.Token()
			if !ok || token != "abc" {
				t.Errorf("expected token abc, got %q (ok=%v)", token, ok)
			}

			got, ok := s.User()
			if !ok {
				t.Fatal("expected user to be present")
			}
			if got.ID != user.ID || got.Email != user.Email || got.IsAdmin != user.IsAdmin {
				t.Errorf("expected %+v, got %+v", user, got)
			}
			if !got.CreatedAt.Equal(user.CreatedAt) || !got.UpdatedAt.Equal(user.UpdatedAt) {
				t.Errorf("timestamps did not round trip: %+v", got)
			}
		})
	}
}

func TestSetSessionOverwrites(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			s.SetSession("first", testUser())

			admin := testUser()
			admin.ID = 2
			admin.IsAdmin = true
			if err := s.SetSession("second", admin); err != nil {
				t.Fatalf("SetSession() error: %v", err)
			}

			token, _ := s.Token()
			if token != "second" {
				t.Errorf("expected second token, got %q", token)
			}
			got, _ := s.User()
			if got.ID != 2 || !got.IsAdmin {
				t.Errorf("expected overwritten user, got %+v", got)
			}
		})
	}
}

func TestClearIsIdempotent(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			s.SetSession("abc", testUser())

			if err := s.Clear(); err != nil {
				t.Fatalf("first Clear() error: %v", err)
			}
			if err := s.Clear(); err != nil {
				t.Fatalf("second Clear() error: %v", err)
			}

			if _, ok := s.Token(); ok {
				t.Error("expected token cleared")
			}
			if _, ok := s.User(); ok {
				t.Error("expected user cleared")
			}
		})
	}
}

func TestFileStoreCorruptUserFailsSoft(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	s.SetSession("abc", testUser())

	os.WriteFile(filepath.Join(dir, userFile), []byte("{not json"), 0600)

	if _, ok := s.User(); ok {
		t.Error("expected corrupt profile to read as absent")
	}
	if _, ok := s.Token(); !ok {
		t.Error("token should be unaffected by a corrupt profile")
	}
}

func TestFileStoreFailedTokenWriteClearsSession(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	if err := s.SetSession("old-token", testUser()); err != nil {
		t.Fatalf("SetSession() error: %v", err)
	}

	// A directory in the way of the temp file makes the token write fail
	if err := os.Mkdir(filepath.Join(dir, tokenFile+".tmp"), 0700); err != nil {
		t.Fatal(err)
	}
	other := testUser()
	other.ID = 2
	other.Email = "c@d.com"
	if err := s.SetSession("new-token", other); err == nil {
		t.Fatal("expected SetSession to fail")
	}

	if tok, ok := s.Token(); ok {
		t.Errorf("expected no token after a failed write, got %q", tok)
	}
	if u, ok := s.User(); ok {
		t.Errorf("expected no user after a failed write, got %+v", u)
	}
}

func TestFileStoreWhitespaceTokenIsAbsent(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	os.WriteFile(filepath.Join(dir, tokenFile), []byte("  \n"), 0600)

	if _, ok := s.Token(); ok {
		t.Error("expected whitespace token to read as absent")
	}
}

func TestFileStorePermissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "todoctl")
	s := NewFileStore(dir)
	if err := s.SetSession("abc", testUser()); err != nil {
		t.Fatalf("SetSession() error: %v", err)
	}

	for _, name := range []string{tokenFile, userFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected %s mode 0600, got %o", name, info.Mode().Perm())
		}
	}
}

func TestMemoryStoreRawUser(t *testing.T) {
	s := NewMemoryStore()
	s.SetRawUser([]byte(`{"id":"one"}`))

	if _, ok := s.User(); ok {
		t.Error("expected malformed raw user to read as absent")
	}
}
