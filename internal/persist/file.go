package persist

import (
	"fmt"
	"os"
	"path/filepath"
)

// Blob is a durable store for the single snapshot payload. A Read with no
// prior snapshot returns (nil, nil).
type Blob interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Close() error
}

var (
	_ Blob = (*SQLiteStore)(nil)
	_ Blob = (*FileStore)(nil)
)

// FileStore keeps the snapshot in a plain JSON file, for setups that want
// the payload directly inspectable.
type FileStore struct {
	path string
}

// OpenFile creates a FileStore at dir/snapshot.json.
func OpenFile(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir %s: %w", dir, err)
	}
	return &FileStore{path: filepath.Join(dir, "snapshot.json")}, nil
}

// Read returns the file contents, or (nil, nil) when the file does not
// exist yet.
func (f *FileStore) Read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}
	return data, nil
}

// Write replaces the file contents.
func (f *FileStore) Write(data []byte) error {
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("writing snapshot file: %w", err)
	}
	return nil
}

// Close is a no-op for file-backed storage.
func (f *FileStore) Close() error { return nil }
