package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/koti-agri/koti-backend/internal/models"
)

// FileStore keeps the conversation log as a JSON array on disk. The file is
// rewritten on every append through a temp file and rename.
type FileStore struct {
	path       string
	maxEntries int
	entries    []models.ConversationLog
	mu         sync.Mutex
}

// NewFileStore opens or creates the log file. A corrupt file is logged and
// replaced on the next append.
func NewFileStore(path string, maxEntries int) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("conversation log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	fsStore := &FileStore{path: path, maxEntries: normalizeCap(maxEntries)}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read conversation log: %w", err)
	case len(data) > 0:
		if err := json.Unmarshal(data, &fsStore.entries); err != nil {
			slog.Warn("conversation log is not valid JSON, starting fresh", "path", path, "error", err)
			fsStore.entries = nil
		}
	}
	fsStore.entries = trimOldest(fsStore.entries, fsStore.maxEntries)
	return fsStore, nil
}

func (f *FileStore) Name() string { return "file" }

func (f *FileStore) Append(_ context.Context, entry models.ConversationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := trimOldest(append(f.entries, entry), f.maxEntries)
	if err := f.write(next); err != nil {
		return err
	}
	f.entries = next
	return nil
}

// Len reports how many entries are kept
func (f *FileStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func (f *FileStore) Close() error { return nil }

func (f *FileStore) write(entries []models.ConversationLog) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode conversation log: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".chat_logs-*.json")
	if err != nil {
		return fmt.Errorf("create temp log: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp log: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace conversation log: %w", err)
	}
	return nil
}
