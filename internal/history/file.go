package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileSlot stores the value in a single JSON file
type FileSlot struct {
	path string
	key  string
}

// NewFileSlot creates a slot backed by path. key is only used for naming.
func NewFileSlot(path, key string) *FileSlot {
	return &FileSlot{path: path, key: key}
}

func (s *FileSlot) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	return data, nil
}

// Write replaces the file through a rename so readers never see a partial value
func (s *FileSlot) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}

func (s *FileSlot) Delete(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete history file: %w", err)
	}
	return nil
}

// Ping checks that the history directory exists and the slot path is not a directory
func (s *FileSlot) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err == nil && !info.IsDir() {
		return fmt.Errorf("history directory %s is not a directory", dir)
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat history directory: %w", err)
	}

	info, err = os.Stat(s.path)
	if err == nil && info.IsDir() {
		return fmt.Errorf("history file %s is a directory", s.path)
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat history file: %w", err)
	}
	return nil
}

func (s *FileSlot) Name() string { return "file:" + s.key }

func (s *FileSlot) Close() error { return nil }
