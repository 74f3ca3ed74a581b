// Package auth persists the bearer token and role issued by the remote
// service's login endpoint.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tutorctl/tutorctl/internal/fsutil"
)

// Credentials are the two scalars the login flow stores.
type Credentials struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// LoggedIn reports whether a token is present. Expiry is not checked
// locally; an expired token surfaces as a server-side error.
func (c Credentials) LoggedIn() bool { return c.Token != "" }

// Store reads and writes credentials at a fixed path.
type Store struct {
	path string
}

// DefaultPath returns ~/.config/tutorctl/credentials.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tutorctl", "credentials.json"), nil
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the stored credentials. A missing file means logged out and
// is not an error.
func (s *Store) Load() (Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, nil
		}
		return Credentials{}, fmt.Errorf("read credentials: %w", err)
	}

	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return Credentials{}, fmt.Errorf("parse credentials: %w", err)
	}
	return c, nil
}

// Save writes the credentials with owner-only permissions.
func (s *Store) Save(c Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	return fsutil.WriteFileAtomic(s.path, data, 0600)
}

// Clear removes the stored credentials. Already-absent is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
