package client

import (
	"os"
	"sync"
)

// Storage persists the session between runs of the client. Implementations
// only deal in opaque bytes; the store owns the shape of what is saved.
type Storage interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Clear() error
}

// FileStorage stores the session as a JSON file on disk
type FileStorage struct {
	Path string
}

// Load returns the stored bytes, or nil when nothing has been stored
func (f *FileStorage) Load() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Save writes the session file readable only by the current user
func (f *FileStorage) Save(data []byte) error {
	return os.WriteFile(f.Path, data, 0o600)
}

// Clear removes the session file. Clearing an absent file is not an error.
func (f *FileStorage) Clear() error {
	err := os.Remove(f.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryStorage keeps the session in memory; used in tests and as the
// default when no path is configured.
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
}

func (m *MemoryStorage) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *MemoryStorage) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make([]byte, len(data))
	copy(m.data, data)
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}
