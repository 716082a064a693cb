package pipeline

import (
	"context"
	"iter"

	"valpipe/internal/logging"
	"valpipe/internal/telemetry"
	"valpipe/internal/value"
)

// Map applies fn to d element by element and mirrors its shape: a Single
// gives a Single and a ListStream gives a ListStream.
//
// Streams are processed in order with at most one element in flight. ctx is
// polled before each element is pulled from upstream; once it is done the
// output ends, keeping every element already produced, and no further input
// is consumed. A Single always runs to completion.
func Map(ctx context.Context, d Data, fn func(value.Value) value.Value) Data {
	switch x := d.(type) {
	case Single:
		return Single{Val: fn(x.Val)}
	case ListStream:
		upstream := x.All()
		return ListStream{seq: func(yield func(value.Value) bool) {
			next, stop := iter.Pull(upstream)
			defer stop()
			for n := 0; ; n++ {
				if err := ctx.Err(); err != nil {
					telemetry.StreamsCancelled.Inc()
					logging.L().Debug("stream cancelled", "produced", n, "err", err)
					return
				}
				v, ok := next()
				if !ok || !yield(fn(v)) {
					return
				}
			}
		}}
	}
	return d
}
