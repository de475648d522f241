package receipt

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage holds the ephemeral PDF artifacts a run produces: fetched
// attachments and rendered email bodies. Everything in it is disposable
// by the end of a run.
type Storage interface {
	// Save writes an artifact and returns its name.
	Save(filename string, data []byte) (string, error)

	// Get reads an artifact back.
	Get(filename string) ([]byte, error)

	// Delete removes an artifact.
	Delete(filename string) error
}

// LocalStorage keeps artifacts in a directory on local disk.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage, creating the artifact
// directory if it does not exist.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// Save writes an artifact into the artifact directory.
func (l *LocalStorage) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(l.basePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	return filename, nil
}

// Get reads an artifact from the artifact directory.
func (l *LocalStorage) Get(filename string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.basePath, filename))
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	return data, nil
}

// Delete removes an artifact. The underlying os error stays wrapped so
// callers that tolerate already-missing files can check it against
// fs.ErrNotExist.
func (l *LocalStorage) Delete(filename string) error {
	if err := os.Remove(filepath.Join(l.basePath, filename)); err != nil {
		return fmt.Errorf("deleting artifact: %w", err)
	}
	return nil
}
