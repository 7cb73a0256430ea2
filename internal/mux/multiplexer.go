package mux

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/soheilhy/cmux"

	"resume-tailor/internal/config"
	"resume-tailor/internal/grpc/server"
	"resume-tailor/internal/logging"
)

// Multiplexer serves gRPC and HTTP on one listener
type Multiplexer struct {
	cfg    *config.Config
	logger logging.Logger

	// Servers
	grpcServer *server.Server
	httpServer *http.Server

	// Multiplexer
	mux      cmux.CMux
	listener net.Listener

	// Control
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMultiplexer creates a new protocol multiplexer
func NewMultiplexer(cfg *config.Config, grpcServer *server.Server, httpHandler http.Handler) *Multiplexer {
	ctx, cancel := context.WithCancel(context.Background())

	return &Multiplexer{
		cfg:        cfg,
		logger:     logging.GetGlobalLogger().WithField("component", "mux"),
		grpcServer: grpcServer,
		ctx:        ctx,
		cancel:     cancel,
		httpServer: &http.Server{
			Handler:           httpHandler,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       cfg.Server.IdleTimeout,
		},
	}
}

// Start listens on address and starts both servers
func (m *Multiplexer) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	m.Serve(listener)
	return nil
}

// Serve starts both servers on an existing listener
func (m *Multiplexer) Serve(listener net.Listener) {
	m.listener = listener
	m.mux = cmux.New(listener)
	address := listener.Addr().String()

	// grpc-go clients wait for the server SETTINGS frame before sending headers
	grpcListener := m.mux.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
	httpListener := m.mux.Match(cmux.HTTP1Fast())

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.grpcServer.Start(grpcListener); err != nil && !isClosed(err) {
			m.logger.Error("gRPC server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.logger.Info("Starting HTTP server", map[string]interface{}{"address": address})
		if err := m.httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) && !isClosed(err) {
			m.logger.Error("HTTP server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.mux.Serve(); err != nil && !isClosed(err) {
			m.logger.Error("Multiplexer failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	m.logger.Info("Multiplexer started successfully", map[string]interface{}{"address": address})
}

func isClosed(err error) bool {
	return errors.Is(err, net.ErrClosed) || errors.Is(err, cmux.ErrListenerClosed) || errors.Is(err, cmux.ErrServerClosed)
}

// Stop gracefully shuts down the multiplexer and both servers
func (m *Multiplexer) Stop() error {
	m.logger.Info("Stopping multiplexer...")
	m.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := m.httpServer.Shutdown(shutdownCtx); err != nil {
		m.logger.Error("HTTP server shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	if m.grpcServer != nil {
		m.grpcServer.Stop()
	}

	if m.listener != nil {
		if err := m.listener.Close(); err != nil && !isClosed(err) {
			m.logger.Error("Failed to close listener", map[string]interface{}{"error": err.Error()})
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("Multiplexer stopped gracefully")
	case <-shutdownCtx.Done():
		m.logger.Warn("Multiplexer shutdown timed out")
	}

	return nil
}

// IsHealthy reports whether the multiplexer is serving
func (m *Multiplexer) IsHealthy() bool {
	return m.ctx.Err() == nil && m.listener != nil
}

// GetAddress returns the address the multiplexer is listening on
func (m *Multiplexer) GetAddress() string {
	if m.listener != nil {
		return m.listener.Addr().String()
	}
	return ""
}
