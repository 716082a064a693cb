package pipeline

import (
	"context"
	"errors"
	"testing"

	"valpipe/internal/value"
	"valpipe/source"
)

type sliceSource struct {
	vals   []value.Value
	closed bool
}

func (s *sliceSource) Configure(any) error { return nil }
func (s *sliceSource) Run(ctx context.Context, emit source.EmitFunc) error {
	for _, v := range s.vals {
		if err := emit(v); err != nil {
			return err
		}
	}
	return nil
}
func (s *sliceSource) Close() error { s.closed = true; return nil }

// endlessSource emits increasing ints until the pipeline stops it.
type endlessSource struct{}

func (endlessSource) Configure(any) error { return nil }
func (endlessSource) Run(ctx context.Context, emit source.EmitFunc) error {
	for i := int64(0); ; i++ {
		if err := emit(value.NewInt(i, value.UnknownSpan())); err != nil {
			return err
		}
	}
}
func (endlessSource) Close() error { return nil }

type captureSink struct {
	pushed []value.Value
	onPush func(n int)
	err    error
	closed bool
}

func (c *captureSink) Configure(any) error { return nil }
func (c *captureSink) Push(v value.Value) error {
	if c.err != nil {
		return c.err
	}
	c.pushed = append(c.pushed, v)
	if c.onPush != nil {
		c.onPush(len(c.pushed))
	}
	return nil
}
func (c *captureSink) Close() error { c.closed = true; return nil }

func ints(n int) []value.Value {
	out := make([]value.Value, n)
	for i := range out {
		out[i] = value.NewInt(int64(i), value.UnknownSpan())
	}
	return out
}

func doubling() Stage {
	return Stage{Name: "double", Run: func(ctx context.Context, in Data) (Data, error) {
		return Map(ctx, in, func(v value.Value) value.Value {
			return value.NewInt(v.(value.Int).Val*2, v.Span())
		}), nil
	}}
}

func TestRunner_StagesFeedSinks(t *testing.T) {
	r := NewRunner()
	r.SetSource(&sliceSource{vals: ints(3)})
	r.AddStage(doubling())
	r.AddStage(doubling())
	cs1, cs2 := &captureSink{}, &captureSink{}
	r.AddSink(cs1)
	r.AddSink(cs2)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(cs1.pushed) != 3 || len(cs2.pushed) != 3 {
		t.Fatalf("expected 3 values in each sink, got %d and %d", len(cs1.pushed), len(cs2.pushed))
	}
	for i, v := range cs1.pushed {
		if got := v.(value.Int).Val; got != int64(i*4) {
			t.Fatalf("value %d: want %d, got %d", i, i*4, got)
		}
	}
}

func TestRunner_NoSource(t *testing.T) {
	if err := NewRunner().Run(context.Background()); err == nil {
		t.Fatal("expected error without a source")
	}
}

func TestRunner_StageErrorStops(t *testing.T) {
	boom := errors.New("boom")
	r := NewRunner()
	r.SetSource(&sliceSource{vals: ints(2)})
	r.AddStage(Stage{Name: "bad", Run: func(context.Context, Data) (Data, error) { return nil, boom }})
	r.AddSink(&captureSink{})

	if err := r.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}

func TestRunner_SinkErrorStops(t *testing.T) {
	boom := errors.New("disk full")
	r := NewRunner()
	r.SetSource(endlessSource{})
	r.AddSink(&captureSink{err: boom})

	if err := r.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("want sink error, got %v", err)
	}
}

func TestRunner_CancelKeepsDeliveredPrefix(t *testing.T) {
	const k = 5
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRunner()
	r.SetSource(endlessSource{})
	r.AddStage(doubling())
	cs := &captureSink{onPush: func(n int) {
		if n == k {
			cancel()
		}
	}}
	r.AddSink(cs)

	err := r.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if len(cs.pushed) != k {
		t.Fatalf("expected exactly %d delivered values, got %d", k, len(cs.pushed))
	}
	for i, v := range cs.pushed {
		if got := v.(value.Int).Val; got != int64(2*i) {
			t.Fatalf("value %d out of order: %d", i, got)
		}
	}
}

func TestRunner_CloseReleasesAll(t *testing.T) {
	src := &sliceSource{}
	cs := &captureSink{}
	r := NewRunner()
	r.SetSource(src)
	r.AddSink(cs)
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !src.closed || !cs.closed {
		t.Fatal("source and sink should be closed")
	}
}
