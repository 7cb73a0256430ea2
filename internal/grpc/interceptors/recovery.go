package interceptors

import (
	"context"
	"fmt"
	"runtime/debug"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"resume-tailor/internal/logging"
)

// panicError logs a recovered panic and converts it to codes.Internal.
// The panic value stays in the log; callers only see a generic message.
func panicError(ctx context.Context, method string, r interface{}) error {
	logging.LogWithRequestID(incomingRequestID(ctx)).Error("gRPC handler panic recovered", map[string]interface{}{
		"method":      method,
		"panic":       fmt.Sprintf("%v", r),
		"stack_trace": string(debug.Stack()),
	})
	return status.Error(codes.Internal, "internal server error")
}

// RecoveryInterceptor turns a panicking unary handler into an Internal error
func RecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				resp, err = nil, panicError(ctx, info.FullMethod, r)
			}
		}()
		return handler(ctx, req)
	}
}

// StreamRecoveryInterceptor is RecoveryInterceptor for streaming handlers
func StreamRecoveryInterceptor() grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = panicError(ss.Context(), info.FullMethod, r)
			}
		}()
		return handler(srv, ss)
	}
}
