package session

// Store abstracts session persistence (JSON file, SQLite, etc.).
//
// Save always writes the full ordered session set so the persisted and
// in-memory representations stay convergent; there is no partial or
// batched write. Load returns the set in the order it was saved.
type Store interface {
	Load() ([]*Session, error)
	Save(sessions []*Session) error
	Close() error
}
