package transform

import (
	"context"
	"errors"

	"google.golang.org/grpc"

	"valpipe/internal/command"
	"valpipe/internal/pipeline"
	"valpipe/internal/shell"
	"valpipe/internal/transport"
	"valpipe/internal/value"
)

// Client evaluates a command line against one input value.
// The engine can swap transport implementations behind this interface.
type Client interface {
	Run(ctx context.Context, line string, input value.Value) (value.Value, error)
	Close() error
}

// NewGRPCClient dials a command service.
func NewGRPCClient(target string, opts ...grpc.DialOption) (Client, error) {
	c, err := transport.Dial(target, opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// InProcessClient evaluates lines against a local registry. The input is
// handed to the line as a single value, exactly as a local stage sees one
// stream element.
type InProcessClient struct {
	reg   *command.Registry
	state *command.EngineState
}

func NewInProcessClient(reg *command.Registry, state *command.EngineState) *InProcessClient {
	return &InProcessClient{reg: reg, state: state}
}

func (c *InProcessClient) Run(ctx context.Context, line string, input value.Value) (value.Value, error) {
	p, err := shell.Parse(c.reg, line)
	if err != nil {
		return nil, err
	}
	if p.Input != nil {
		return nil, errors.New("transform: line already starts with a literal")
	}
	if input == nil {
		input = value.NewNothing(value.UnknownSpan())
	}
	out, err := p.Run(ctx, c.state, pipeline.FromValue(input))
	if err != nil {
		return nil, err
	}
	return pipeline.Collect(out), nil
}

func (c *InProcessClient) Close() error { return nil }
