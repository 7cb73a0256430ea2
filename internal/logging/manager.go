package logging

import (
	"fmt"
	"sync"

	"resume-tailor/internal/config"
	"resume-tailor/internal/logging/adapters"
)

// Manager owns the configured logger and its adapters
type Manager struct {
	factory *AdapterFactory
	logger  *MultiLogger
}

// NewManager creates a new logging manager
func NewManager() *Manager {
	return &Manager{
		factory: NewAdapterFactory(),
		logger:  NewMultiLogger(),
	}
}

// Initialize configures level and adapters. Without adapter entries a single
// stdout adapter in the configured format is used.
func (m *Manager) Initialize(cfg *config.Config) error {
	m.logger.SetLevel(ParseLogLevel(cfg.Logging.Level))

	enabled := 0
	for _, adapterConfig := range cfg.Logging.Adapters {
		if !adapterConfig.Enabled {
			continue
		}

		adapter, err := m.factory.CreateAdapter(AdapterConfig{
			Name:    adapterConfig.Name,
			Type:    adapterConfig.Type,
			Enabled: adapterConfig.Enabled,
			Options: adapterConfig.Options,
		})
		if err != nil {
			return fmt.Errorf("failed to create adapter %s: %w", adapterConfig.Name, err)
		}

		if err := m.logger.AddAdapter(adapter); err != nil {
			return fmt.Errorf("failed to add adapter %s: %w", adapterConfig.Name, err)
		}
		enabled++
	}

	if enabled > 0 {
		return nil
	}

	return m.logger.AddAdapter(adapters.NewStdoutAdapter("stdout", adapters.StdoutConfig{
		Format: cfg.Logging.Format,
	}))
}

// GetLogger returns the initialized logger
func (m *Manager) GetLogger() Logger {
	return m.logger
}

// Close closes the logging system
func (m *Manager) Close() error {
	return m.logger.Close()
}

var (
	globalManager *Manager
	globalMu      sync.Mutex
)

// InitializeLogging initializes the global logging system
func InitializeLogging(cfg *config.Config) error {
	manager := NewManager()
	if err := manager.Initialize(cfg); err != nil {
		return err
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalManager != nil {
		_ = globalManager.Close()
	}
	globalManager = manager
	return nil
}

// GetGlobalLogger returns the global logger, falling back to JSON on stdout
func GetGlobalLogger() Logger {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		manager := NewManager()
		_ = manager.logger.AddAdapter(adapters.NewStdoutAdapter("fallback_stdout", adapters.StdoutConfig{Format: "json"}))
		globalManager = manager
	}
	return globalManager.GetLogger()
}

// CloseLogging closes the global logging system
func CloseLogging() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager != nil {
		return globalManager.Close()
	}
	return nil
}

// LogWithRequestID creates a logger with request ID context
func LogWithRequestID(requestID string) Logger {
	return GetGlobalLogger().WithField("request_id", requestID)
}
