package server

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"resume-tailor/internal/acquire"
	"resume-tailor/internal/config"
	"resume-tailor/internal/history"
	"resume-tailor/internal/llm"
	"resume-tailor/internal/pipeline"
	"resume-tailor/internal/prompt"
	"resume-tailor/internal/tailor"
	"resume-tailor/pkg/utils"
)

type stubProvider struct {
	reply string
	err   error
	calls int
}

func (p *stubProvider) Generate(context.Context, llm.GenerateRequest) (*llm.Generation, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Generation{Blocks: []llm.ContentBlock{{Type: "text", Text: p.reply}}}, nil
}

func (p *stubProvider) IsHealthy(context.Context) error { return nil }

func (p *stubProvider) GetProviderName() string { return "stub" }

type downSlot struct{ *history.MemorySlot }

func (downSlot) Ping(context.Context) error { return errors.New("connection refused") }

func startServer(t *testing.T, provider *stubProvider) *grpc.ClientConn {
	t.Helper()
	return startServerWithSlot(t, provider, history.NewMemorySlot())
}

func startServerWithSlot(t *testing.T, provider *stubProvider, slot history.Slot) *grpc.ClientConn {
	t.Helper()
	cfg := config.Default()

	manager := llm.NewManagerWithProvider(cfg, provider)
	orchestrator := tailor.NewOrchestrator(cfg, prompt.NewComposer(cfg), manager)
	svc := pipeline.NewService(acquire.NewAcquirer(cfg, nil), orchestrator, history.NewStore(slot, 0), nil)
	srv := NewServer(cfg, svc, manager)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Start(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func invoke(t *testing.T, conn *grpc.ClientConn, method string, in map[string]interface{}) (*structpb.Struct, error) {
	t.Helper()
	req, err := structpb.NewStruct(in)
	require.NoError(t, err)
	out := new(structpb.Struct)
	err = conn.Invoke(context.Background(), "/"+ServiceName+"/"+method, req, out)
	return out, err
}

func TestTailorAndHistory(t *testing.T) {
	provider := &stubProvider{reply: "<h1>Jane</h1>"}
	conn := startServer(t, provider)

	out, err := invoke(t, conn, "Tailor", map[string]interface{}{
		"resume_text":         "Jane Doe",
		"job_posting":         "Platform Engineer\nDetails",
		"current_experiences": "Company: Initech",
	})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Jane</h1>", out.Fields["tailored_resume"].GetStringValue())
	assert.Equal(t, "Platform Engineer", out.Fields["result"].GetStructValue().Fields["jobTitle"].GetStringValue())
	assert.NotEmpty(t, out.Fields["request_id"].GetStringValue())

	list, err := invoke(t, conn, "ListHistory", map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, float64(1), list.Fields["count"].GetNumberValue())
	assert.Len(t, list.Fields["history"].GetListValue().GetValues(), 1)

	cleared, err := invoke(t, conn, "ClearHistory", map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, float64(0), cleared.Fields["count"].GetNumberValue())

	list, err = invoke(t, conn, "ListHistory", map[string]interface{}{})
	require.NoError(t, err)
	assert.Empty(t, list.Fields["history"].GetListValue().GetValues())
}

func TestTailorStructuredExperience(t *testing.T) {
	provider := &stubProvider{reply: "<p>ok</p>"}
	conn := startServer(t, provider)

	_, err := invoke(t, conn, "Tailor", map[string]interface{}{
		"resume_text": "Jane Doe",
		"job_posting": "Engineer",
		"experience": map[string]interface{}{
			"company": "Initech",
			"bullets": []interface{}{"Led migration"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
}

func TestErrorCodes(t *testing.T) {
	provider := &stubProvider{err: errors.New("boom")}
	conn := startServer(t, provider)

	_, err := invoke(t, conn, "Tailor", map[string]interface{}{"resume_text": "", "job_posting": "Engineer", "current_experiences": "x"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Zero(t, provider.calls)

	_, err = invoke(t, conn, "Tailor", map[string]interface{}{"resume_text": "r", "job_posting": "Engineer", "current_experiences": "x"})
	assert.Equal(t, codes.Unavailable, status.Code(err))

	_, err = invoke(t, conn, "FetchJobPosting", map[string]interface{}{"url": "ftp://example.com"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestHealthService(t *testing.T) {
	conn := startServer(t, &stubProvider{})
	client := healthpb.NewHealthClient(conn)

	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestHealthServiceHistoryDown(t *testing.T) {
	conn := startServerWithSlot(t, &stubProvider{}, downSlot{history.NewMemorySlot()})
	client := healthpb.NewHealthClient(conn)

	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)

	overall, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, overall.Status)
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{utils.NewValidationError("x"), codes.InvalidArgument},
		{utils.NewInvalidInputError("x"), codes.InvalidArgument},
		{utils.NewDocumentExtractionError("x", nil), codes.FailedPrecondition},
		{utils.NewRemoteFetchError("x", nil), codes.Unavailable},
		{utils.NewGenerationError("x", nil), codes.Unavailable},
		{utils.NewNotFoundError("x"), codes.NotFound},
		{utils.NewPersistenceError("x", nil), codes.Internal},
		{errors.New("plain"), codes.Internal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, status.Code(toStatus(tt.err)), tt.err.Error())
	}
}
