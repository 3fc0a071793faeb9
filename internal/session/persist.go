package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/me/shipdesk/pkg/model"
)

// FileName is the session file inside the data directory.
const FileName = "session.json"

// storageKey is the single key the session is persisted under.
const storageKey = "auth"

// FileStore persists the session as JSON in a file readable only by the owner.
type FileStore struct {
	path string
}

// NewFileStore persists to dir/session.json.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, FileName)}
}

// Path returns the session file path.
func (f *FileStore) Path() string {
	return f.path
}

type fileContents struct {
	Auth *model.Session `json:"auth"`
}

// LoadSession reads the file. A missing file means no session.
func (f *FileStore) LoadSession(_ context.Context) (*model.Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	var c fileContents
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	return c.Auth, nil
}

// SaveSession writes the file with mode 0600, replacing it atomically.
func (f *FileStore) SaveSession(_ context.Context, sess *model.Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := json.MarshalIndent(fileContents{Auth: sess}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

// DeleteSession removes the file. A missing file is not an error.
func (f *FileStore) DeleteSession(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// MemoryStore keeps the persisted session in process memory, keyed like
// browser storage.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) LoadSession(_ context.Context) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[storageKey]
	if !ok {
		return nil, nil
	}
	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &sess, nil
}

func (s *MemoryStore) SaveSession(_ context.Context, sess *model.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[storageKey] = raw
	return nil
}

func (s *MemoryStore) DeleteSession(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, storageKey)
	return nil
}
