package mux

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"resume-tailor/internal/acquire"
	"resume-tailor/internal/config"
	"resume-tailor/internal/grpc/server"
	"resume-tailor/internal/history"
	"resume-tailor/internal/llm"
	"resume-tailor/internal/pipeline"
	"resume-tailor/internal/prompt"
	"resume-tailor/internal/tailor"
)

type nopProvider struct{}

func (nopProvider) Generate(context.Context, llm.GenerateRequest) (*llm.Generation, error) {
	return &llm.Generation{}, nil
}

func (nopProvider) IsHealthy(context.Context) error { return nil }

func (nopProvider) GetProviderName() string { return "nop" }

func TestMultiplexerServesHTTPAndGRPC(t *testing.T) {
	cfg := config.Default()
	manager := llm.NewManagerWithProvider(cfg, nopProvider{})
	svc := pipeline.NewService(
		acquire.NewAcquirer(cfg, nil),
		tailor.NewOrchestrator(cfg, prompt.NewComposer(cfg), manager),
		history.NewStore(history.NewMemorySlot(), 0),
		nil,
	)

	httpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "http ok")
	})

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	m := NewMultiplexer(cfg, server.NewServer(cfg, svc, manager), httpHandler)
	m.Serve(lis)
	defer m.Stop()

	assert.True(t, m.IsHealthy())
	address := m.GetAddress()

	resp, err := http.Get("http://" + address + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "http ok", string(body))

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	check, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: server.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check.Status)
}
