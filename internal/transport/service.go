// Package transport exposes the command registry over gRPC. Messages are
// google.protobuf.Struct values carrying the tagged value wire form, so the
// service needs no generated code.
package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "valpipe.v1.CommandService"

	runMethod      = "/" + ServiceName + "/Run"
	streamMethod   = "/" + ServiceName + "/Stream"
	commandsMethod = "/" + ServiceName + "/Commands"
)

// CommandServer is the server API for CommandService.
//
// Run and Stream take {"line": string, "input": value} and answer with
// {"output": value}; Stream sends one message per output element.
type CommandServer interface {
	Run(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Stream(*structpb.Struct, CommandStreamServer) error
	Commands(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

type CommandStreamServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type commandStreamServer struct {
	grpc.ServerStream
}

func (x *commandStreamServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

func RegisterCommandServer(s grpc.ServiceRegistrar, srv CommandServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func runHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CommandServer).Run(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: runMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CommandServer).Run(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func commandsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CommandServer).Commands(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: commandsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CommandServer).Commands(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func streamHandler(srv any, stream grpc.ServerStream) error {
	m := new(structpb.Struct)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(CommandServer).Stream(m, &commandStreamServer{stream})
}

// ServiceDesc is the grpc.ServiceDesc for CommandService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CommandServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Run", Handler: runHandler},
		{MethodName: "Commands", Handler: commandsHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Stream", Handler: streamHandler, ServerStreams: true},
	},
	Metadata: "valpipe/v1/command.proto",
}
