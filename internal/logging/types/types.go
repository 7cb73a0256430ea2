// Package types holds the logging contracts shared by the logger and its adapters.
package types

import (
	"strings"
	"time"
)

// LogLevel orders entries by severity
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

var levelNames = [...]string{
	DebugLevel: "debug",
	InfoLevel:  "info",
	WarnLevel:  "warn",
	ErrorLevel: "error",
	FatalLevel: "fatal",
}

// String returns the lower-case level name. Out-of-range levels print as info.
func (l LogLevel) String() string {
	if l < DebugLevel || l > FatalLevel {
		return levelNames[InfoLevel]
	}
	return levelNames[l]
}

// MarshalText encodes the level by name
func (l LogLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseLogLevel maps a level name (case-insensitive, "warning" accepted) to a level.
// Unknown names give InfoLevel.
func ParseLogLevel(name string) LogLevel {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		return WarnLevel
	}
	for level, n := range levelNames {
		if n == name {
			return LogLevel(level)
		}
	}
	return InfoLevel
}

// LogEntry is one record handed to every adapter
type LogEntry struct {
	Level     LogLevel               `json:"level"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogAdapter writes entries to one destination
type LogAdapter interface {
	Write(entry *LogEntry) error
	Close() error
	Health() error
	Name() string
}

// Logger is the leveled, field-carrying logger components depend on
type Logger interface {
	Debug(message string, fields ...map[string]interface{})
	Info(message string, fields ...map[string]interface{})
	Warn(message string, fields ...map[string]interface{})
	Error(message string, fields ...map[string]interface{})
	Fatal(message string, fields ...map[string]interface{})

	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// AdapterConfig selects and configures one adapter
type AdapterConfig struct {
	Name    string                 `yaml:"name"`
	Type    string                 `yaml:"type"`
	Enabled bool                   `yaml:"enabled"`
	Options map[string]interface{} `yaml:"options"`
}
