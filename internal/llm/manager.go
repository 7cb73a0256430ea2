package llm

import (
	"context"
	"fmt"
	"sync"

	"resume-tailor/internal/config"
	"resume-tailor/internal/logging"
	"resume-tailor/pkg/utils"
)

// Manager manages the LLM provider and its lifecycle
type Manager struct {
	config   *config.Config
	factory  *LLMFactory
	provider LLMProvider
	logger   logging.Logger
	mu       sync.RWMutex
	healthy  bool
}

// NewManager creates a new LLM manager instance
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config:  cfg,
		factory: NewLLMFactory(cfg),
		logger:  logging.GetGlobalLogger().WithField("component", "llm_manager"),
	}
}

// NewManagerWithProvider creates a started manager around an existing provider
func NewManagerWithProvider(cfg *config.Config, provider LLMProvider) *Manager {
	m := NewManager(cfg)
	m.provider = provider
	m.healthy = provider.IsHealthy(context.Background()) == nil
	return m
}

// Start initializes the LLM manager and creates the provider
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Starting LLM manager", map[string]interface{}{
		"provider": m.config.LLM.Provider,
		"model":    m.config.LLM.Model,
	})

	provider, err := m.factory.CreateProvider()
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}

	m.provider = provider

	if err := m.provider.IsHealthy(context.Background()); err != nil {
		m.logger.Warn("LLM provider health check failed - tailoring will be unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		m.healthy = false
		// Don't return error - allow server to start without LLM
	} else {
		m.healthy = true
		m.logger.Info("LLM manager started successfully", map[string]interface{}{
			"provider": m.provider.GetProviderName(),
		})
	}

	return nil
}

// Stop shuts down the LLM manager
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Stopping LLM manager")
	m.provider = nil
	m.healthy = false
	return nil
}

// Generate runs one generation call with the configured provider
func (m *Manager) Generate(ctx context.Context, req GenerateRequest) (*Generation, error) {
	m.mu.RLock()
	provider := m.provider
	healthy := m.healthy
	m.mu.RUnlock()

	if provider == nil {
		return nil, utils.NewUnavailableError("LLM manager not started or provider not available")
	}

	if !healthy {
		return nil, utils.NewUnavailableError("LLM provider is not available - check API key configuration")
	}

	return provider.Generate(ctx, req)
}

// IsHealthy checks if the LLM manager and provider are healthy
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy && m.provider != nil
}

// GetProviderName returns the name of the current LLM provider
func (m *Manager) GetProviderName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.provider != nil {
		return m.provider.GetProviderName()
	}
	return "none"
}

// CheckHealth performs a health check on the LLM provider
func (m *Manager) CheckHealth(ctx context.Context) error {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return fmt.Errorf("LLM provider not available")
	}

	err := provider.IsHealthy(ctx)

	m.mu.Lock()
	m.healthy = (err == nil)
	m.mu.Unlock()

	return err
}
