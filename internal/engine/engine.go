package engine

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"valpipe/internal/command"
	"valpipe/internal/pipeline"
	"valpipe/internal/shell"
	"valpipe/internal/transport"
)

type Engine struct {
	registry  *command.Registry
	state     *command.EngineState
	runner    *pipeline.Runner
	transport *transport.Server
	metrics   *http.Server

	closeOnce sync.Once
	closeErr  error
}

func (e *Engine) Registry() *command.Registry { return e.registry }
func (e *Engine) State() *command.EngineState { return e.state }

// Eval runs a single command line against the engine's commands.
func (e *Engine) Eval(ctx context.Context, line string) (pipeline.Data, error) {
	return shell.Eval(ctx, e.registry, e.state, line)
}

// Run drives the pipeline to completion, then keeps serving commands until
// ctx is done. It returns ctx's error when interrupted.
func (e *Engine) Run(ctx context.Context) error {
	defer e.Close()

	var served chan error
	if e.transport != nil {
		served = make(chan error, 1)
		go func() { served <- e.transport.Serve() }()
	}

	if e.runner != nil {
		if err := e.runner.Run(ctx); err != nil {
			return err
		}
	}
	if served == nil {
		return nil
	}
	select {
	case err := <-served:
		return err
	case <-ctx.Done():
		e.transport.Stop()
		<-served
		return ctx.Err()
	}
}

// Close releases the pipeline, the command service and the metrics
// endpoint. It is safe to call more than once.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		var errs []error
		if e.runner != nil {
			errs = append(errs, e.runner.Close())
		}
		if e.transport != nil {
			e.transport.Stop()
		}
		if e.metrics != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			errs = append(errs, e.metrics.Shutdown(ctx))
			cancel()
		}
		e.closeErr = errors.Join(errs...)
	})
	return e.closeErr
}
