package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"resume-tailor/internal/logging"
	"resume-tailor/pkg/utils"
)

type requestIDKey struct{}

// RequestIDFromContext returns the request ID assigned by LoggingInterceptor
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// incomingRequestID reuses x-request-id metadata when the caller sent one
func incomingRequestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get("x-request-id"); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return utils.GenerateRequestID()
}

func statusCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	return codes.Internal
}

// LoggingInterceptor returns a gRPC unary interceptor that logs requests and responses
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		startTime := time.Now()
		requestID := incomingRequestID(ctx)
		logger := logging.LogWithRequestID(requestID)

		logger.Debug("gRPC request started", map[string]interface{}{
			"method": info.FullMethod,
			"type":   "grpc_request_start",
		})

		resp, err := handler(context.WithValue(ctx, requestIDKey{}, requestID), req)

		logFields := map[string]interface{}{
			"method":          info.FullMethod,
			"processing_time": time.Since(startTime).String(),
			"status_code":     statusCode(err).String(),
			"type":            "grpc_request_complete",
		}

		if err != nil {
			logFields["error"] = err.Error()
			logger.Error("gRPC request failed", logFields)
		} else {
			logger.Info("gRPC request completed", logFields)
		}

		return resp, err
	}
}

// StreamLoggingInterceptor returns a gRPC streaming interceptor that logs stream operations
func StreamLoggingInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		startTime := time.Now()
		logger := logging.LogWithRequestID(incomingRequestID(ss.Context()))

		err := handler(srv, ss)

		logFields := map[string]interface{}{
			"method":          info.FullMethod,
			"processing_time": time.Since(startTime).String(),
			"status_code":     statusCode(err).String(),
			"type":            "grpc_stream_complete",
		}

		if err != nil {
			logFields["error"] = err.Error()
			logger.Error("gRPC stream failed", logFields)
		} else {
			logger.Info("gRPC stream completed", logFields)
		}

		return err
	}
}
