package transform

import (
	"context"
	"fmt"
	"time"

	"valpipe/internal/logging"
	"valpipe/internal/pipeline"
	"valpipe/internal/value"
)

type Options struct {
	Timeout  time.Duration // per attempt; zero means none
	Attempts int           // retries after the first call
	Backoff  time.Duration
}

// Stage sends every element through c one call at a time. A call that
// still fails after its retries becomes a CantConvert error value at the
// element's span so the rest of the stream keeps flowing.
//
// Cancelling ctx stops the stream between elements; an element already
// in flight, retries included, runs to completion bounded by Timeout.
func Stage(name, line string, c Client, opt Options) pipeline.Stage {
	return pipeline.Stage{
		Name: name,
		Run: func(ctx context.Context, in pipeline.Data) (pipeline.Data, error) {
			return pipeline.Map(ctx, in, func(v value.Value) value.Value {
				out, err := call(context.WithoutCancel(ctx), line, c, opt, v)
				if err != nil {
					return value.NewError(value.CantConvert, fmt.Sprintf("%s: %v", name, err), v.Span())
				}
				return out
			}), nil
		},
		Close: c.Close,
	}
}

func call(ctx context.Context, line string, c Client, opt Options, v value.Value) (value.Value, error) {
	var err error
	for attempt := 0; attempt <= opt.Attempts; attempt++ {
		if attempt > 0 {
			logging.L().Debug("transform: retrying", "line", line, "attempt", attempt, "err", err)
			select {
			case <-time.After(opt.Backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		var out value.Value
		out, err = once(ctx, line, c, opt.Timeout, v)
		if err == nil {
			return out, nil
		}
	}
	return nil, err
}

func once(ctx context.Context, line string, c Client, timeout time.Duration, v value.Value) (value.Value, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return c.Run(ctx, line, v)
}
