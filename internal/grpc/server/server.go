package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"resume-tailor/internal/config"
	"resume-tailor/internal/grpc/interceptors"
	"resume-tailor/internal/llm"
	"resume-tailor/internal/logging"
	"resume-tailor/internal/pipeline"
	"resume-tailor/pkg/models"
	"resume-tailor/pkg/utils"
)

type Server struct {
	cfg        *config.Config
	svc        *pipeline.Service
	llmManager *llm.Manager
	logger     logging.Logger

	grpcServer *grpc.Server
	health     *health.Server

	done     chan struct{}
	stopOnce sync.Once
}

const healthInterval = 15 * time.Second

func NewServer(cfg *config.Config, svc *pipeline.Service, llmManager *llm.Manager) *Server {
	s := &Server{
		cfg:        cfg,
		svc:        svc,
		llmManager: llmManager,
		logger:     logging.GetGlobalLogger().WithField("component", "grpc"),
		health:     health.NewServer(),
		done:       make(chan struct{}),
	}

	s.grpcServer = grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 5 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.MaxRecvMsgSize(32*1024*1024), // 32MB
		grpc.MaxSendMsgSize(32*1024*1024), // 32MB
		grpc.ChainUnaryInterceptor(
			interceptors.RecoveryInterceptor(),
			interceptors.LoggingInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			interceptors.StreamRecoveryInterceptor(),
			interceptors.StreamLoggingInterceptor(),
		),
	)

	RegisterTailorServiceServer(s.grpcServer, s)
	healthpb.RegisterHealthServer(s.grpcServer, s.health)

	// Enable reflection for debugging
	reflection.Register(s.grpcServer)

	s.refreshHealth(context.Background())
	return s
}

// refreshHealth marks the tailor service NOT_SERVING while the generator or the history backend is down
func (s *Server) refreshHealth(ctx context.Context) {
	serving := healthpb.HealthCheckResponse_SERVING
	if !s.llmManager.IsHealthy() {
		serving = healthpb.HealthCheckResponse_NOT_SERVING
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.svc.Store().Ping(pingCtx); err != nil {
		s.logger.Warn("History backend unavailable", map[string]interface{}{
			"backend": s.svc.Store().Backend(),
			"error":   err.Error(),
		})
		serving = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus(ServiceName, serving)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
}

func (s *Server) watchHealth() {
	ticker := time.NewTicker(healthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.refreshHealth(context.Background())
		}
	}
}

func (s *Server) Start(lis net.Listener) error {
	s.logger.Info("Starting gRPC server", map[string]interface{}{"address": lis.Addr().String()})
	go s.watchHealth()
	return s.grpcServer.Serve(lis)
}

func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Shutting down gRPC server...")
		close(s.done)
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
	})
}

// FetchJobPosting acquires a remote job posting: {url} -> {success, text, title}
func (s *Server) FetchJobPosting(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	result, err := s.svc.FetchJobPosting(ctx, in.GetFields()["url"].GetStringValue())
	if err != nil {
		return nil, toStatus(err)
	}

	return newStruct(map[string]interface{}{
		"success": true,
		"text":    result.Text,
		"title":   result.Title,
	})
}

// Tailor runs and records one tailoring pass
func (s *Server) Tailor(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req models.TailorRequest
	raw, err := json.Marshal(in.AsMap())
	if err == nil {
		err = json.Unmarshal(raw, &req)
	}
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid tailor request: %v", err)
	}

	result, err := s.svc.Tailor(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}

	return newStruct(map[string]interface{}{
		"success":         true,
		"tailored_resume": result.HTML,
		"result":          resultMap(*result),
		"request_id":      interceptors.RequestIDFromContext(ctx),
	})
}

// ListHistory returns the persisted log, newest first
func (s *Server) ListHistory(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return historyStruct(s.svc.History(ctx))
}

// ClearHistory erases the persisted log
func (s *Server) ClearHistory(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	log, err := s.svc.ClearHistory(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return historyStruct(log)
}

func resultMap(r models.TailoringResult) map[string]interface{} {
	return map[string]interface{}{
		"id":        r.ID,
		"jobTitle":  r.JobTitle,
		"html":      r.HTML,
		"timestamp": r.Timestamp,
	}
}

func historyStruct(log models.HistoryLog) (*structpb.Struct, error) {
	entries := make([]interface{}, 0, len(log))
	for _, r := range log {
		entries = append(entries, resultMap(r))
	}
	return newStruct(map[string]interface{}{
		"success": true,
		"history": entries,
		"count":   len(log),
	})
}

func newStruct(m map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// toStatus maps error kinds onto gRPC codes
func toStatus(err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, utils.ErrValidation), errors.Is(err, utils.ErrInvalidInput):
		code = codes.InvalidArgument
	case errors.Is(err, utils.ErrDocumentExtraction):
		code = codes.FailedPrecondition
	case errors.Is(err, utils.ErrRemoteFetch), errors.Is(err, utils.ErrGeneration), errors.Is(err, utils.ErrUnavailable):
		code = codes.Unavailable
	case errors.Is(err, utils.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	}
	return status.Error(code, err.Error())
}
