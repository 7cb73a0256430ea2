package logging

import (
	"fmt"
	"time"

	"resume-tailor/internal/logging/adapters"
	"resume-tailor/internal/logging/types"
)

// AdapterFactory builds adapters from their YAML configuration
type AdapterFactory struct{}

func NewAdapterFactory() *AdapterFactory {
	return &AdapterFactory{}
}

// CreateAdapter builds a stdout, file or memory adapter
func (f *AdapterFactory) CreateAdapter(cfg types.AdapterConfig) (types.LogAdapter, error) {
	opts := options(cfg.Options)

	switch cfg.Type {
	case "stdout":
		return adapters.NewStdoutAdapter(cfg.Name, adapters.StdoutConfig{
			Format:    opts.str("format", "json"),
			Colorized: opts.boolean("colorized", false),
		}), nil
	case "file":
		return adapters.NewFileAdapter(cfg.Name, adapters.FileConfig{
			FilePath:       opts.str("file_path", ""),
			Format:         opts.str("format", "json"),
			MaxSize:        int64(opts.integer("max_size", 0)),
			MaxAge:         opts.duration("max_age", 0),
			MaxBackups:     opts.integer("max_backups", 10),
			Compress:       opts.boolean("compress", false),
			CreateDirs:     opts.boolean("create_dirs", true),
			SyncOnWrite:    opts.boolean("sync_on_write", false),
			RotationPolicy: opts.str("rotation_policy", "size"),
		})
	case "memory":
		return adapters.NewMemoryAdapter(cfg.Name, opts.integer("limit", 500)), nil
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", cfg.Type)
	}
}

// options reads loosely typed YAML values with defaults
type options map[string]interface{}

func (o options) str(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// integer accepts any YAML number; yaml.v3 decodes into int, JSON-sourced maps hold float64
func (o options) integer(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

func (o options) boolean(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

func (o options) duration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(o.str(key, "")); err == nil {
		return d
	}
	return def
}
