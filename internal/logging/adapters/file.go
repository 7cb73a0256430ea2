package adapters

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"resume-tailor/internal/logging/types"
)

// FileAdapter writes entries to a file and rotates it by size, age, or both
type FileAdapter struct {
	name         string
	config       FileConfig
	currentFile  *os.File
	currentSize  int64
	lastRotation time.Time
	now          func() time.Time
	mu           sync.Mutex
}

// FileConfig represents configuration for the file adapter
type FileConfig struct {
	FilePath       string        `yaml:"file_path"`
	Format         string        `yaml:"format"`          // json or text
	MaxSize        int64         `yaml:"max_size"`        // bytes, 0 = unlimited
	MaxAge         time.Duration `yaml:"max_age"`         // 0 = never rotate on age
	MaxBackups     int           `yaml:"max_backups"`
	Compress       bool          `yaml:"compress"`        // gzip rotated files
	CreateDirs     bool          `yaml:"create_dirs"`
	FileMode       os.FileMode   `yaml:"file_mode"`
	SyncOnWrite    bool          `yaml:"sync_on_write"`
	RotationPolicy string        `yaml:"rotation_policy"` // size, time, or both
}

// NewFileAdapter opens (or creates) the log file
func NewFileAdapter(name string, config FileConfig) (*FileAdapter, error) {
	if config.FilePath == "" {
		return nil, fmt.Errorf("file_path is required for file adapter")
	}
	if config.FileMode == 0 {
		config.FileMode = 0644
	}
	if config.MaxBackups == 0 {
		config.MaxBackups = 10
	}
	if config.RotationPolicy == "" {
		config.RotationPolicy = "size"
	}
	if config.Format == "" {
		config.Format = "json"
	}

	adapter := &FileAdapter{
		name:         name,
		config:       config,
		lastRotation: time.Now(),
		now:          time.Now,
	}

	if config.CreateDirs {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directories: %w", err)
		}
	}

	if err := adapter.openFile(); err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return adapter, nil
}

func (a *FileAdapter) Write(entry *types.LogEntry) error {
	output, err := formatEntry(a.config.Format, entry, false)
	if err != nil {
		return fmt.Errorf("failed to format log entry: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.currentFile == nil {
		return fmt.Errorf("log file %s is closed", a.config.FilePath)
	}

	if a.shouldRotate() {
		if err := a.rotate(); err != nil {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	}

	n, err := a.currentFile.WriteString(output + "\n")
	if err != nil {
		return fmt.Errorf("failed to write to log file: %w", err)
	}
	a.currentSize += int64(n)

	if a.config.SyncOnWrite {
		if err := a.currentFile.Sync(); err != nil {
			return fmt.Errorf("failed to sync log file: %w", err)
		}
	}

	return nil
}

func (a *FileAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.currentFile == nil {
		return nil
	}
	err := a.currentFile.Close()
	a.currentFile = nil
	if err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

func (a *FileAdapter) Health() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.currentFile == nil {
		return fmt.Errorf("log file is not open")
	}
	if _, err := a.currentFile.Stat(); err != nil {
		return fmt.Errorf("log file is not accessible: %w", err)
	}
	return nil
}

func (a *FileAdapter) Name() string {
	return a.name
}

func (a *FileAdapter) openFile() error {
	file, err := os.OpenFile(a.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, a.config.FileMode)
	if err != nil {
		return err
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}

	a.currentFile = file
	a.currentSize = stat.Size()
	return nil
}

func (a *FileAdapter) shouldRotate() bool {
	sizeDue := a.config.MaxSize > 0 && a.currentSize >= a.config.MaxSize
	ageDue := a.config.MaxAge > 0 && a.now().Sub(a.lastRotation) >= a.config.MaxAge

	switch a.config.RotationPolicy {
	case "time":
		return ageDue
	case "both":
		return sizeDue || ageDue
	default:
		return sizeDue
	}
}

func (a *FileAdapter) rotate() error {
	if err := a.currentFile.Close(); err != nil {
		return fmt.Errorf("failed to close current log file: %w", err)
	}
	a.currentFile = nil

	backupPath := fmt.Sprintf("%s.%s", a.config.FilePath, a.now().Format("20060102-150405.000"))
	if err := os.Rename(a.config.FilePath, backupPath); err != nil {
		return fmt.Errorf("failed to rename log file: %w", err)
	}

	if a.config.Compress {
		if err := gzipFile(backupPath); err != nil {
			// rotation still succeeded
			fmt.Fprintf(os.Stderr, "failed to compress rotated log file %s: %v\n", backupPath, err)
		}
	}

	if err := a.cleanupOldBackups(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to clean up old log backups: %v\n", err)
	}

	if err := a.openFile(); err != nil {
		return fmt.Errorf("failed to open new log file: %w", err)
	}

	a.lastRotation = a.now()
	return nil
}

// gzipFile replaces path with path.gz
func gzipFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}

	zw := gzip.NewWriter(dst)
	if _, err := io.Copy(zw, src); err != nil {
		zw.Close()
		dst.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}

	return os.Remove(path)
}

func (a *FileAdapter) cleanupOldBackups() error {
	dir := filepath.Dir(a.config.FilePath)
	baseName := filepath.Base(a.config.FilePath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	type backup struct {
		path    string
		modTime time.Time
	}

	var backups []backup
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), baseName+".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backup{path: filepath.Join(dir, entry.Name()), modTime: info.ModTime()})
	}

	if len(backups) <= a.config.MaxBackups {
		return nil
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].modTime.After(backups[j].modTime)
	})

	for _, b := range backups[a.config.MaxBackups:] {
		if err := os.Remove(b.path); err != nil {
			fmt.Fprintf(os.Stderr, "failed to remove old backup %s: %v\n", b.path, err)
		}
	}

	return nil
}
