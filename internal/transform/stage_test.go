package transform

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"valpipe/internal/command"
	"valpipe/internal/commands"
	"valpipe/internal/pipeline"
	"valpipe/internal/transport"
	"valpipe/internal/value"
)

type flakyClient struct {
	failures int
	calls    int
	closed   bool
}

func (f *flakyClient) Run(_ context.Context, _ string, in value.Value) (value.Value, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("unavailable")
	}
	return in, nil
}

func (f *flakyClient) Close() error { f.closed = true; return nil }

func str(s string) value.Value { return value.NewString(s, value.Span{Start: 3, End: 7}) }

func TestStageRetriesThenSucceeds(t *testing.T) {
	c := &flakyClient{failures: 1}
	st := Stage("echo", "echo", c, Options{Attempts: 1, Backoff: time.Millisecond})

	out, err := st.Run(context.Background(), pipeline.FromValue(str("x")))
	require.NoError(t, err)
	assert.Equal(t, "x", pipeline.Collect(out).(value.String).Val)
	assert.Equal(t, 2, c.calls)

	require.NoError(t, st.Close())
	assert.True(t, c.closed)
}

func TestStageFailureBecomesErrorValue(t *testing.T) {
	c := &flakyClient{failures: 10}
	st := Stage("echo", "echo", c, Options{})

	out, err := st.Run(context.Background(), pipeline.FromValues(str("a"), str("b")))
	require.NoError(t, err)
	vals := pipeline.Collect(out).(value.List).Vals
	require.Len(t, vals, 2)
	e := vals[0].(value.Error).Err
	assert.Equal(t, value.CantConvert, e.Kind)
	assert.Equal(t, value.Span{Start: 3, End: 7}, e.Span)
	assert.Contains(t, e.Msg, "unavailable")
}

func TestInProcessClient(t *testing.T) {
	c := NewInProcessClient(commands.Default(), command.NewEngineState())
	got, err := c.Run(context.Background(), "into binary", str("hi"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), got.(value.Binary).Val)

	_, err = c.Run(context.Background(), "'x' | into binary", str("hi"))
	assert.Error(t, err)
	_, err = c.Run(context.Background(), "nope", str("hi"))
	assert.Error(t, err)
}

func TestRemoteStageOverGRPC(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := transport.NewServer(lis, transport.NewService(commands.Default(), command.NewEngineState()))
	go func() { _ = srv.Serve() }()
	defer srv.Stop()

	c, err := NewGRPCClient("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)

	st := Stage("remote", "into binary", c, Options{Timeout: 5 * time.Second})
	defer st.Close()
	out, err := st.Run(context.Background(), pipeline.FromValues(
		value.NewBool(true, value.UnknownSpan()),
		value.NewNothing(value.UnknownSpan()),
	))
	require.NoError(t, err)
	vals := pipeline.Collect(out).(value.List).Vals
	require.Len(t, vals, 2)
	assert.Len(t, vals[0].(value.Binary).Val, 8)
	assert.Equal(t, value.UnsupportedInput, vals[1].(value.Error).Err.Kind)
}

func TestStageListElementIsUnsupported(t *testing.T) {
	c := NewInProcessClient(commands.Default(), command.NewEngineState())
	st := Stage("local", "into binary", c, Options{})

	list := value.NewList([]value.Value{
		value.NewInt(1, value.UnknownSpan()),
		value.NewInt(2, value.UnknownSpan()),
	}, value.UnknownSpan())
	out, err := st.Run(context.Background(), pipeline.FromValues(list))
	require.NoError(t, err)
	vals := pipeline.Collect(out).(value.List).Vals
	require.Len(t, vals, 1)

	e, ok := vals[0].(value.Error)
	require.True(t, ok, "got %s", vals[0].Kind())
	assert.Equal(t, value.UnsupportedInput, e.Err.Kind)
}

// gatedClient blocks each call until release is closed or its own ctx ends.
type gatedClient struct {
	started chan struct{}
	release chan struct{}
}

func (g *gatedClient) Run(ctx context.Context, _ string, in value.Value) (value.Value, error) {
	g.started <- struct{}{}
	select {
	case <-g.release:
		return in, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *gatedClient) Close() error { return nil }

func TestStageCancelLetsInFlightElementFinish(t *testing.T) {
	g := &gatedClient{started: make(chan struct{}, 1), release: make(chan struct{})}
	st := Stage("gated", "echo", g, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-g.started
		cancel()
		time.Sleep(20 * time.Millisecond)
		close(g.release)
	}()

	out, err := st.Run(ctx, pipeline.FromValues(str("a"), str("b"), str("c")))
	require.NoError(t, err)
	vals := pipeline.Collect(out).(value.List).Vals
	require.Len(t, vals, 1)
	assert.Equal(t, "a", vals[0].(value.String).Val)
}
