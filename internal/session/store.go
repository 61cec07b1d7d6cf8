// ABOUTME: Client-side session storage for the auth token and cached user
// ABOUTME: File-backed store in the config dir plus an in-memory store for tests

package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/markalston/todoctl/internal/models"
)

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// Store owns the session: the bearer token and the cached user profile.
// Reads never fail; an unreadable or malformed entry is reported as absent.
type Store interface {
	SetSession(token string, user models.User) error
	Token() (string, bool)
	User() (models.User, bool)
	Clear() error
}

// FileStore persists the session as two files in a config directory
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. Nothing is touched on disk
// until the first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the directory holding the session files
func (s *FileStore) Dir() string {
	return s.dir
}

// SetSession persists token and user, replacing any previous session
func (s *FileStore) SetSession(token string, user models.User) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := EncodeUser(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	// Write the profile first so a failure never leaves a token without its user
	if err := writeFile(filepath.Join(s.dir, userFile), data); err != nil {
		return fmt.Errorf("write user: %w", err)
	}
	if err := writeFile(filepath.Join(s.dir, tokenFile), []byte(token)); err != nil {
		// The previous token must not survive next to the new profile
		if clearErr := s.Clear(); clearErr != nil {
			slog.Warn("Failed to clear partial session", "error", clearErr)
		}
		return fmt.Errorf("write token: %w", err)
	}

	slog.Debug("Session stored", "dir", s.dir, "user_id", user.ID)
	return nil
}

// Token returns the stored token, if any
func (s *FileStore) Token() (string, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Debug("Failed to read token", "error", err)
		}
		return "", false
	}
	token := string(data)
	if strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}

// User returns the cached profile, if present and valid
func (s *FileStore) User() (models.User, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Debug("Failed to read user profile", "error", err)
		}
		return models.User{}, false
	}
	user, err := DecodeUser(data)
	if err != nil {
		slog.Debug("Ignoring stored user profile", "error", err)
		return models.User{}, false
	}
	return user, true
}

// Clear removes both session entries. Clearing an empty store is not an error.
func (s *FileStore) Clear() error {
	var errs []error
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("clear session: %w", errors.Join(errs...))
	}
	slog.Debug("Session cleared", "dir", s.dir)
	return nil
}

func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// MemoryStore keeps the session in memory. The user is held in serialized
// form so it goes through the same decode path as FileStore.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	user  []byte
}

// NewMemoryStore returns an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SetSession replaces the in-memory session
func (m *MemoryStore) SetSession(token string, user models.User) error {
	data, err := EncodeUser(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.user = data
	return nil
}

// SetRawUser stores profile bytes as-is, bypassing encoding
func (m *MemoryStore) SetRawUser(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = data
}

// Token returns the in-memory token, if any
func (m *MemoryStore) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if strings.TrimSpace(m.token) == "" {
		return "", false
	}
	return m.token, true
}

// User returns the in-memory profile, if present and valid
func (m *MemoryStore) User() (models.User, bool) {
	m.mu.Lock()
	data := m.user
	m.mu.Unlock()

	if data == nil {
		return models.User{}, false
	}
	user, err := DecodeUser(data)
	if err != nil {
		return models.User{}, false
	}
	return user, true
}

// Clear empties the store
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.user = nil
	return nil
}
