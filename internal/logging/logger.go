package logging

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"resume-tailor/internal/logging/types"
)

// sink is the adapter set shared by a logger and every logger derived from it
type sink struct {
	adapters map[string]types.LogAdapter
	level    LogLevel
	mu       sync.RWMutex
}

// MultiLogger fans each entry out to all registered adapters
type MultiLogger struct {
	sink   *sink
	fields map[string]interface{}
}

// NewMultiLogger creates a new MultiLogger instance
func NewMultiLogger() *MultiLogger {
	return &MultiLogger{
		sink: &sink{
			adapters: make(map[string]types.LogAdapter),
			level:    InfoLevel,
		},
		fields: make(map[string]interface{}),
	}
}

func (l *MultiLogger) Debug(message string, fields ...map[string]interface{}) {
	l.Log(DebugLevel, message, fields...)
}

func (l *MultiLogger) Info(message string, fields ...map[string]interface{}) {
	l.Log(InfoLevel, message, fields...)
}

func (l *MultiLogger) Warn(message string, fields ...map[string]interface{}) {
	l.Log(WarnLevel, message, fields...)
}

func (l *MultiLogger) Error(message string, fields ...map[string]interface{}) {
	l.Log(ErrorLevel, message, fields...)
}

// Fatal logs a fatal message and exits
func (l *MultiLogger) Fatal(message string, fields ...map[string]interface{}) {
	l.Log(FatalLevel, message, fields...)
	l.Close()
	os.Exit(1)
}

// Log logs a message at the specified level
func (l *MultiLogger) Log(level LogLevel, message string, fields ...map[string]interface{}) {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()

	if level < l.sink.level {
		return
	}

	entry := &types.LogEntry{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
		Fields:    l.mergeFields(fields...),
	}

	for name, adapter := range l.sink.adapters {
		if err := adapter.Write(entry); err != nil {
			// stderr, never back into the logger
			fmt.Fprintf(os.Stderr, "logging adapter %s error: %v\n", name, err)
		}
	}
}

func (l *MultiLogger) derive(fields map[string]interface{}) *MultiLogger {
	return &MultiLogger{sink: l.sink, fields: fields}
}

// WithField returns a new logger with the specified field
func (l *MultiLogger) WithField(key string, value interface{}) Logger {
	fields := l.copyFields()
	fields[key] = value
	return l.derive(fields)
}

// WithFields returns a new logger with the specified fields
func (l *MultiLogger) WithFields(fields map[string]interface{}) Logger {
	return l.derive(l.mergeFields(fields))
}

func (l *MultiLogger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

func (l *MultiLogger) GetLevel() LogLevel {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()
	return l.sink.level
}

// AddAdapter registers an adapter under its name
func (l *MultiLogger) AddAdapter(adapter types.LogAdapter) error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	name := adapter.Name()
	if _, exists := l.sink.adapters[name]; exists {
		return fmt.Errorf("adapter %s already exists", name)
	}

	l.sink.adapters[name] = adapter
	return nil
}

// RemoveAdapter closes and unregisters an adapter
func (l *MultiLogger) RemoveAdapter(adapterName string) error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	adapter, exists := l.sink.adapters[adapterName]
	if !exists {
		return fmt.Errorf("adapter %s not found", adapterName)
	}

	if err := adapter.Close(); err != nil {
		return fmt.Errorf("failed to close adapter %s: %w", adapterName, err)
	}

	delete(l.sink.adapters, adapterName)
	return nil
}

// AdapterNames lists registered adapters in name order
func (l *MultiLogger) AdapterNames() []string {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()

	names := make([]string, 0, len(l.sink.adapters))
	for name := range l.sink.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Health reports the health of every adapter keyed by name
func (l *MultiLogger) Health() map[string]error {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()

	result := make(map[string]error, len(l.sink.adapters))
	for name, adapter := range l.sink.adapters {
		result[name] = adapter.Health()
	}
	return result
}

// Close closes all adapters
func (l *MultiLogger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	var errors []string
	for name, adapter := range l.sink.adapters {
		if err := adapter.Close(); err != nil {
			errors = append(errors, fmt.Sprintf("adapter %s: %v", name, err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("failed to close adapters: %s", strings.Join(errors, ", "))
	}

	return nil
}

func (l *MultiLogger) copyFields() map[string]interface{} {
	fields := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return fields
}

func (l *MultiLogger) mergeFields(additionalFields ...map[string]interface{}) map[string]interface{} {
	fields := l.copyFields()
	for _, fieldMap := range additionalFields {
		for k, v := range fieldMap {
			fields[k] = v
		}
	}
	return fields
}
