package adapters

import (
	"fmt"
	"io"
	"os"
	"sync"

	"resume-tailor/internal/logging/types"
)

// StdoutAdapter writes formatted entries to stdout
type StdoutAdapter struct {
	name      string
	format    string
	colorized bool
	out       io.Writer
	mu        sync.Mutex
}

// StdoutConfig represents configuration for the stdout adapter
type StdoutConfig struct {
	Format    string `yaml:"format"`    // json or text
	Colorized bool   `yaml:"colorized"` // text format only
}

// NewStdoutAdapter creates a new stdout adapter
func NewStdoutAdapter(name string, config StdoutConfig) *StdoutAdapter {
	return NewWriterAdapter(name, config, os.Stdout)
}

// NewWriterAdapter is a stdout adapter bound to an arbitrary writer
func NewWriterAdapter(name string, config StdoutConfig, out io.Writer) *StdoutAdapter {
	return &StdoutAdapter{
		name:      name,
		format:    config.Format,
		colorized: config.Colorized,
		out:       out,
	}
}

func (a *StdoutAdapter) Write(entry *types.LogEntry) error {
	output, err := formatEntry(a.format, entry, a.colorized)
	if err != nil {
		return fmt.Errorf("failed to format log entry: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	_, err = fmt.Fprintln(a.out, output)
	return err
}

func (a *StdoutAdapter) Close() error { return nil }

func (a *StdoutAdapter) Health() error { return nil }

func (a *StdoutAdapter) Name() string { return a.name }
