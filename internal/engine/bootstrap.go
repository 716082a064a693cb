package engine

import (
	"context"
	"fmt"

	"valpipe/internal/command"
	"valpipe/internal/commands"
	"valpipe/internal/config"
	"valpipe/internal/logging"
	"valpipe/internal/pipeline"
	"valpipe/internal/telemetry"
	"valpipe/internal/transport"
)

type Config struct {
	Settings    config.Settings
	PipelineYml string // optional
	Serve       bool   // start the gRPC command service
	Stdio       Stdio
}

func Bootstrap(ctx context.Context, cfg Config) (*Engine, error) {
	// 1. logging
	logging.Configure(cfg.Settings.LogOptions())

	// 2. commands and their shared state
	enc, err := cfg.Settings.Encoder()
	if err != nil {
		return nil, err
	}
	state := command.NewEngineState()
	state.Encoder = enc
	reg := commands.Default()

	e := &Engine{registry: reg, state: state}

	// 3. pipeline runner
	if cfg.PipelineYml != "" {
		e.runner, err = Compile(cfg.PipelineYml, reg, state, cfg.Stdio)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
	}

	// 4. metrics
	e.metrics = telemetry.Expose(cfg.Settings.Metrics.Addr)

	// 5. transport server
	if cfg.Serve {
		e.transport, err = transport.StartServer(cfg.Settings.Transport.Addr, transport.NewService(reg, state))
		if err != nil {
			_ = e.Close()
			return nil, fmt.Errorf("transport: %w", err)
		}
		logging.L().Info("command service listening", "addr", e.transport.Addr().String())
	}
	return e, nil
}

// Runner is nil when no pipeline file was given.
func (e *Engine) Runner() *pipeline.Runner { return e.runner }
