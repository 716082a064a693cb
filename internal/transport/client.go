package transport

import (
	"context"
	"errors"
	"fmt"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"valpipe/internal/value"
)

// CommandInfo describes one command the server offers.
type CommandInfo struct {
	Name     string
	Usage    string
	Category string
}

type Client struct {
	cc *grpc.ClientConn
}

// Dial connects to a CommandService without transport security unless opts
// say otherwise.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	cc, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc}, nil
}

func (c *Client) Close() error { return c.cc.Close() }

// Run evaluates line remotely. input may be nil.
func (c *Client) Run(ctx context.Context, line string, input value.Value) (value.Value, error) {
	req, err := request(line, input)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, runMethod, req, out); err != nil {
		return nil, err
	}
	return unwrap(out)
}

// Stream evaluates line remotely and calls fn for every output element in
// order. It stops at the first error fn returns.
func (c *Client) Stream(ctx context.Context, line string, input value.Value, fn func(value.Value) error) error {
	req, err := request(line, input)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	st, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], streamMethod)
	if err != nil {
		return err
	}
	if err := st.SendMsg(req); err != nil {
		return err
	}
	if err := st.CloseSend(); err != nil {
		return err
	}
	for {
		m := new(structpb.Struct)
		if err := st.RecvMsg(m); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		v, err := unwrap(m)
		if err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
	}
}

func (c *Client) Commands(ctx context.Context) ([]CommandInfo, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, commandsMethod, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	var infos []CommandInfo
	for _, item := range out.GetFields()["commands"].GetListValue().GetValues() {
		f := item.GetStructValue().GetFields()
		infos = append(infos, CommandInfo{
			Name:     f["name"].GetStringValue(),
			Usage:    f["usage"].GetStringValue(),
			Category: f["category"].GetStringValue(),
		})
	}
	return infos, nil
}

func request(line string, input value.Value) (*structpb.Struct, error) {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		"line": structpb.NewStringValue(line),
	}}
	if input != nil {
		inner, err := structpb.NewStruct(value.ToNative(input))
		if err != nil {
			return nil, fmt.Errorf("transport: encode input: %w", err)
		}
		req.Fields["input"] = structpb.NewStructValue(inner)
	}
	return req, nil
}

func unwrap(m *structpb.Struct) (value.Value, error) {
	raw := m.GetFields()["output"].GetStructValue()
	if raw == nil {
		return nil, errors.New("transport: response has no output")
	}
	return value.FromNative(raw.AsMap())
}
