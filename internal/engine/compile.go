package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"valpipe/internal/command"
	"valpipe/internal/config"
	"valpipe/internal/pipeline"
	"valpipe/internal/shell"
	"valpipe/internal/spec"
	"valpipe/internal/transform"
	"valpipe/sink"
	"valpipe/source"
	"valpipe/source/stdin"
)

// Stdio overrides the streams the stdin source and stdout sink use. Nil
// fields keep the process streams.
type Stdio struct {
	In  io.Reader
	Out io.Writer
}

// Compile turns a pipeline file into a runner. Every stage line is parsed
// against reg up front so a typo fails before any source is opened.
func Compile(path string, reg *command.Registry, es *command.EngineState, stdio Stdio) (*pipeline.Runner, error) {
	f, srcConf, err := config.LoadPipelineSpec(path)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner()

	for i, ss := range f.Stages {
		st, err := compileStage(reg, es, ss)
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("stage %d: %w", i+1, err)
		}
		r.AddStage(st)
	}

	src, err := newSource(f.Source, srcConf, stdio.In)
	if err != nil {
		_ = r.Close()
		return nil, err
	}
	r.SetSource(src)

	for _, name := range f.Sinks {
		snk, err := newSink(name, f.SinkConfigs, stdio.Out)
		if err != nil {
			_ = r.Close()
			return nil, err
		}
		r.AddSink(snk)
	}
	return r, nil
}

func compileStage(reg *command.Registry, es *command.EngineState, ss spec.StageSpec) (pipeline.Stage, error) {
	line := ss.Run
	if ss.Address != "" {
		if line == "" {
			return pipeline.Stage{}, fmt.Errorf("remote stage at %s has no command line", ss.Address)
		}
		c, err := transform.NewGRPCClient(ss.Address)
		if err != nil {
			return pipeline.Stage{}, err
		}
		return transform.Stage(line+"@"+ss.Address, line, c, transform.Options{
			Timeout:  time.Duration(ss.TimeoutMS) * time.Millisecond,
			Attempts: ss.RetryPolicy.Attempts,
			Backoff:  time.Duration(ss.RetryPolicy.BackoffMS) * time.Millisecond,
		}), nil
	}
	p, err := shell.Parse(reg, line)
	if err != nil {
		return pipeline.Stage{}, err
	}
	if p.Input != nil {
		return pipeline.Stage{}, fmt.Errorf("%q: stages cannot start with a literal", line)
	}
	return pipeline.Stage{
		Name: line,
		Run: func(ctx context.Context, in pipeline.Data) (pipeline.Data, error) {
			return p.Run(ctx, es, in)
		},
	}, nil
}

func newSource(s spec.SourceSpec, confPath string, in io.Reader) (source.Adapter, error) {
	var cfg any
	switch s.Kind {
	case "stdin":
		cfg = stdin.Config{Format: s.Format, Reader: in}
	case "kafka":
		kc, err := config.LoadKafkaSource(s, confPath)
		if err != nil {
			return nil, err
		}
		cfg = kc
	default:
		return nil, fmt.Errorf("unknown source kind %q", s.Kind)
	}
	a, err := source.NewAdapter(s.Kind)
	if err != nil {
		return nil, err
	}
	if err := a.Configure(cfg); err != nil {
		return nil, fmt.Errorf("source %s: %w", s.Kind, err)
	}
	return a, nil
}

func newSink(name string, c spec.SinkConfigs, out io.Writer) (sink.Adapter, error) {
	var cfg any
	switch name {
	case "stdout":
		sc := c.Stdout
		sc.Writer = out
		cfg = sc
	case "kafka":
		cfg = c.Kafka
	case "badger":
		cfg = c.Badger
	default:
		return nil, fmt.Errorf("unknown sink %q", name)
	}
	a, err := sink.NewAdapter(name)
	if err != nil {
		return nil, err
	}
	if err := a.Configure(cfg); err != nil {
		return nil, fmt.Errorf("sink %s: %w", name, err)
	}
	return a, nil
}
