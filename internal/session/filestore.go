package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tutorctl/tutorctl/internal/fsutil"
)

// FileStore persists the full session set as one JSON document on disk.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to path (conventionally
// <data_dir>/sessions.json).
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load() ([]*Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sessions file: %w", err)
	}

	var sessions []*Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("parse sessions file: %w", err)
	}
	return sessions, nil
}

func (f *FileStore) Save(sessions []*Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create sessions dir: %w", err)
	}

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}
	return fsutil.WriteFileAtomic(f.path, data, 0644)
}

func (f *FileStore) Close() error { return nil }
