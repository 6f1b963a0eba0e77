package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/dmitrijs2005/talentscout/internal/filex"
)

// FileArchiver writes one JSON object per line to a local file.
type FileArchiver struct {
	mu   sync.Mutex
	path string
}

// NewFileArchiver prepares the parent directory of path. The file itself
// is created on first append.
func NewFileArchiver(path string) (*FileArchiver, error) {
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}
	return &FileArchiver{path: path}, nil
}

// Path returns the archive location.
func (a *FileArchiver) Path() string {
	return a.path
}

// Append marshals e and writes it with a single write on an O_APPEND
// descriptor while holding the archiver lock.
func (a *FileArchiver) Append(_ context.Context, e *Entry) error {
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal archive entry: %w", err)
	}
	line = append(line, '\n')

	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}

	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("append archive: %w", err)
	}
	return f.Close()
}
