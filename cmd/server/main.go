package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"

	"resume-tailor/internal/acquire"
	"resume-tailor/internal/api/routes"
	"resume-tailor/internal/config"
	"resume-tailor/internal/document"
	"resume-tailor/internal/export"
	"resume-tailor/internal/grpc/server"
	"resume-tailor/internal/history"
	"resume-tailor/internal/llm"
	"resume-tailor/internal/logging"
	"resume-tailor/internal/mux"
	"resume-tailor/internal/pipeline"
	"resume-tailor/internal/prompt"
	"resume-tailor/internal/tailor"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting Resume Tailor", map[string]interface{}{
		"history_backend": cfg.History.Backend,
		"llm_model":       cfg.LLM.Model,
		"export_enabled":  cfg.Export.Enabled,
	})

	// Initialize LLM manager
	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		logger.Fatal("Failed to start LLM manager", map[string]interface{}{"error": err.Error()})
	}

	slot, err := history.NewSlot(cfg)
	if err != nil {
		logger.Fatal("Failed to open history slot", map[string]interface{}{"error": err.Error()})
	}
	store := history.NewStore(slot, cfg.History.MaxEntries)

	var renderer export.Renderer
	if cfg.Export.Enabled {
		renderer = export.NewPDFRenderer(cfg)
	}

	acquirer := acquire.NewAcquirer(cfg, document.NewPDFExtractor(0))
	orchestrator := tailor.NewOrchestrator(cfg, prompt.NewComposer(cfg), llmManager)
	svc := pipeline.NewService(acquirer, orchestrator, store, renderer)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	routes.SetupRoutes(e, cfg, llmManager, svc)

	grpcServer := server.NewServer(cfg, svc, llmManager)
	multiplexer := mux.NewMultiplexer(cfg, grpcServer, e)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := multiplexer.Start(address); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
	}
	logger.Info("Server started", map[string]interface{}{"address": address})

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	if err := multiplexer.Stop(); err != nil {
		logger.Error("Error stopping multiplexer", map[string]interface{}{"error": err.Error()})
	}

	if err := llmManager.Stop(); err != nil {
		logger.Error("Error stopping LLM manager", map[string]interface{}{"error": err.Error()})
	}

	if renderer != nil {
		if err := renderer.Close(); err != nil {
			logger.Error("Error stopping PDF renderer", map[string]interface{}{"error": err.Error()})
		}
	}

	if err := store.Close(); err != nil {
		logger.Error("Error closing history store", map[string]interface{}{"error": err.Error()})
	}

	logger.Info("Server shutdown complete")
}
