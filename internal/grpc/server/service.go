package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "resumetailor.v1.TailorService"

// TailorServiceServer is the server API of the tailoring service. Messages are
// google.protobuf.Struct values carrying the same fields as the HTTP JSON bodies.
type TailorServiceServer interface {
	FetchJobPosting(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Tailor(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	ListHistory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	ClearHistory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv TailorServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TailorServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(TailorServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// TailorServiceDesc describes the service for grpc.Server.RegisterService
var TailorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TailorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "FetchJobPosting",
			Handler:    unaryHandler("FetchJobPosting", TailorServiceServer.FetchJobPosting),
		},
		{
			MethodName: "Tailor",
			Handler:    unaryHandler("Tailor", TailorServiceServer.Tailor),
		},
		{
			MethodName: "ListHistory",
			Handler:    unaryHandler("ListHistory", TailorServiceServer.ListHistory),
		},
		{
			MethodName: "ClearHistory",
			Handler:    unaryHandler("ClearHistory", TailorServiceServer.ClearHistory),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "resumetailor/v1/tailor.proto",
}

// RegisterTailorServiceServer registers srv on s
func RegisterTailorServiceServer(s grpc.ServiceRegistrar, srv TailorServiceServer) {
	s.RegisterService(&TailorServiceDesc, srv)
}
