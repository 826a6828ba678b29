// Package storage provides the local, file-backed key-value store the client
// keeps its account collection in.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultFile is the storage file used when no path is configured.
const DefaultFile = "storage.json"

// fileMode keeps stored passwords readable by the owner only.
const fileMode os.FileMode = 0o600

// fileData is the on-disk layout of the storage file.
type fileData struct {
	Slots     map[string]string `json:"slots"`
	UpdatedAt int64             `json:"updated_at"`
}

// LocalStorage is a key-value store persisted as a single JSON file.
// The file is read on first access and rewritten on every Set.
type LocalStorage struct {
	path string

	mu     sync.Mutex
	data   fileData
	loaded bool
}

// New returns a LocalStorage backed by the file at path.
func New(path string) *LocalStorage {
	if path == "" {
		path = DefaultFile
	}
	return &LocalStorage{path: path}
}

// Path returns the file the storage is persisted to.
func (ls *LocalStorage) Path() string { return ls.path }

// Load reads the storage file. A missing file is an empty store.
func (ls *LocalStorage) Load() error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.load()
}

func (ls *LocalStorage) load() error {
	b, err := os.ReadFile(ls.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			ls.data = fileData{Slots: map[string]string{}}
			ls.loaded = true
			return nil
		}
		return err
	}

	var data fileData
	if err := json.Unmarshal(b, &data); err != nil {
		return fmt.Errorf("parse %s: %w", ls.path, err)
	}
	if data.Slots == nil {
		data.Slots = map[string]string{}
	}
	ls.data = data
	ls.loaded = true
	return nil
}

// Save writes the storage file through a temp file and a rename, so a crash
// never leaves a half-written file behind.
func (ls *LocalStorage) Save() error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.save()
}

func (ls *LocalStorage) save() error {
	b, err := json.MarshalIndent(ls.data, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(ls.path)
	f, err := os.CreateTemp(dir, filepath.Base(ls.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(fileMode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, ls.path)
}

// Get returns the value stored under key.
func (ls *LocalStorage) Get(_ context.Context, key string) (string, bool, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if !ls.loaded {
		if err := ls.load(); err != nil {
			return "", false, err
		}
	}
	v, ok := ls.data.Slots[key]
	return v, ok, nil
}

// Set stores value under key and rewrites the storage file.
func (ls *LocalStorage) Set(_ context.Context, key, value string) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if !ls.loaded {
		if err := ls.load(); err != nil {
			return err
		}
	}
	ls.data.Slots[key] = value
	ls.data.UpdatedAt = time.Now().Unix()
	return ls.save()
}
