package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"valpipe/internal/logging"
	"valpipe/internal/value"
	"valpipe/sink"
	"valpipe/source"
)

// Stage is one command of a compiled pipeline.
type Stage struct {
	Name  string
	Run   func(ctx context.Context, in Data) (Data, error)
	Close func() error // optional
}

// Runner feeds a source through ordered stages into sinks.
type Runner struct {
	source source.Adapter
	stages []Stage
	sinks  []sink.Adapter
}

func NewRunner() *Runner { return &Runner{} }

func (r *Runner) SetSource(s source.Adapter) { r.source = s }
func (r *Runner) AddStage(s Stage)           { r.stages = append(r.stages, s) }
func (r *Runner) AddSink(s sink.Adapter)     { r.sinks = append(r.sinks, s) }

/*──────── value routing ───────*/
func (r *Runner) pushValue(v value.Value) error {
	for _, s := range r.sinks {
		if err := s.Push(v); err != nil {
			return err
		}
	}
	return nil
}

// Run streams every source value through the stages into the sinks. It
// returns once the source is exhausted, a stage or sink fails, or ctx is
// done; in the last case values already produced have been delivered.
func (r *Runner) Run(ctx context.Context) error {
	if r.source == nil {
		return errors.New("runner: no source configured")
	}
	seq, wait := r.sourceStream(ctx)

	var d Data = FromSeq(seq)
	for _, st := range r.stages {
		var err error
		if d, err = st.Run(ctx, d); err != nil {
			_ = wait()
			return fmt.Errorf("stage %s: %w", st.Name, err)
		}
	}

	n := 0
	for v := range Values(d) {
		if err := r.pushValue(v); err != nil {
			_ = wait()
			return fmt.Errorf("sink: %w", err)
		}
		n++
	}
	serr := wait()
	logging.L().Info("pipeline drained", "values", n)
	if err := ctx.Err(); err != nil {
		return err
	}
	if errors.Is(serr, context.Canceled) {
		return nil
	}
	return serr
}

// sourceStream runs the source on its own goroutine and exposes its output
// as a pull sequence. wait stops the source and returns its error.
func (r *Runner) sourceStream(ctx context.Context) (iter.Seq[value.Value], func() error) {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan value.Value)
	errc := make(chan error, 1)

	go func() {
		defer close(ch)
		errc <- r.source.Run(ctx, func(v value.Value) error {
			select {
			case ch <- v:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	seq := func(yield func(value.Value) bool) {
		for {
			select {
			case v, ok := <-ch:
				if !ok || !yield(v) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}
	wait := func() error {
		cancel()
		for range ch {
		}
		return <-errc
	}
	return seq, wait
}

// Close releases the source, stage clients and every sink.
func (r *Runner) Close() error {
	var errs []error
	if r.source != nil {
		errs = append(errs, r.source.Close())
	}
	for _, st := range r.stages {
		if st.Close != nil {
			errs = append(errs, st.Close())
		}
	}
	for _, s := range r.sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
