package transport

import (
	"context"
	"errors"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"valpipe/internal/command"
	"valpipe/internal/logging"
	"valpipe/internal/pipeline"
	"valpipe/internal/shell"
	"valpipe/internal/value"
)

// Service evaluates command lines sent by clients.
type Service struct {
	reg    *command.Registry
	engine *command.EngineState
}

func NewService(reg *command.Registry, engine *command.EngineState) *Service {
	return &Service{reg: reg, engine: engine}
}

func (s *Service) Run(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	out, err := s.eval(ctx, req)
	if err != nil {
		return nil, err
	}
	return wrap("output", pipeline.Collect(out))
}

// Stream sends output elements as they are produced. A client that goes
// away cancels the stream; elements already sent stay delivered.
func (s *Service) Stream(req *structpb.Struct, stream CommandStreamServer) error {
	ctx := stream.Context()
	out, err := s.eval(ctx, req)
	if err != nil {
		return err
	}
	n := 0
	for v := range pipeline.Values(out) {
		msg, err := wrap("output", v)
		if err != nil {
			return err
		}
		if err := stream.Send(msg); err != nil {
			return err
		}
		n++
	}
	if err := ctx.Err(); err != nil {
		logging.L().Debug("transport: stream cancelled", "sent", n)
		return status.FromContextError(err).Err()
	}
	return nil
}

func (s *Service) Commands(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	var list []any
	for _, name := range s.reg.Names() {
		c, _ := s.reg.Lookup(name)
		list = append(list, map[string]any{
			"name":     name,
			"usage":    c.Usage(),
			"category": string(c.Signature().Category),
		})
	}
	return structpb.NewStruct(map[string]any{"commands": list})
}

func (s *Service) eval(ctx context.Context, req *structpb.Struct) (pipeline.Data, error) {
	fields := req.GetFields()
	line := fields["line"].GetStringValue()
	p, err := shell.Parse(s.reg, line)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	// A literal in the line streams like it does locally; an input sent
	// alongside the line is one element and reaches the command whole.
	in := shell.Input(p.Input)
	if raw := fields["input"].GetStructValue(); raw != nil {
		if p.Input != nil {
			return nil, status.Error(codes.InvalidArgument, "line already starts with a literal")
		}
		v, err := value.FromNative(raw.AsMap())
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		in = pipeline.FromValue(v)
	}
	out, err := p.Run(ctx, s.engine, in)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func wrap(key string, v value.Value) (*structpb.Struct, error) {
	inner, err := structpb.NewStruct(value.ToNative(v))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{key: structpb.NewStructValue(inner)}}, nil
}

type Server struct {
	grpc *grpc.Server
	lis  net.Listener
}

// StartServer listens on addr and registers svc.
func StartServer(addr string, svc CommandServer) (*Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewServer(lis, svc), nil
}

// NewServer serves svc on an existing listener.
func NewServer(lis net.Listener, svc CommandServer) *Server {
	s := &Server{
		grpc: grpc.NewServer(),
		lis:  lis,
	}
	RegisterCommandServer(s.grpc, svc)
	return s
}

func (s *Server) Addr() net.Addr { return s.lis.Addr() }

func (s *Server) Serve() error {
	err := s.grpc.Serve(s.lis)
	if errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return err
}

func (s *Server) Stop() {
	s.grpc.GracefulStop()
}
