package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"valpipe/internal/config"
	"valpipe/internal/engine"
	"valpipe/internal/logging"
	"valpipe/internal/pipeline"
	"valpipe/internal/value"
	"valpipe/sink"
	"valpipe/sink/badgerdb"
	"valpipe/sink/stdout"
)

const exitInterrupted = 130

func main() {
	os.Exit(run())
}

func run() int {
	var (
		line     = flag.String("c", "", "evaluate one pipeline line, e.g. 'abc' | into binary")
		confPath = flag.String("config", "valpipe.yml", "settings file (optional)")
		pipePath = flag.String("pipeline", "", "pipeline file to run")
		serve    = flag.Bool("serve", false, "serve the command service until interrupted")
		mode     = flag.String("mode", stdout.ModeText, "output mode for -c and -dump: raw|text|table")
		dump     = flag.String("dump", "", "print the values stored in a badger sink directory")
	)
	flag.Parse()

	logging.InitFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *dump != "" {
		return exitCode(dumpBadger(*dump, *mode))
	}

	settings, err := config.LoadSettings(*confPath)
	if err != nil {
		logging.L().Error("settings", "err", err)
		return 1
	}

	e, err := engine.Bootstrap(ctx, engine.Config{
		Settings:    settings,
		PipelineYml: *pipePath,
		Serve:       *serve,
	})
	if err != nil {
		logging.L().Error("bootstrap", "err", err)
		return 1
	}

	if *line != "" {
		if err := evalLine(ctx, e, *line, *mode); err != nil {
			_ = e.Close()
			return exitCode(err)
		}
		if *pipePath == "" && !*serve {
			return exitCode(e.Close())
		}
	}

	if *pipePath == "" && !*serve && *line == "" {
		flag.Usage()
		_ = e.Close()
		return 2
	}
	return exitCode(e.Run(ctx))
}

func evalLine(ctx context.Context, e *engine.Engine, line, mode string) error {
	d, err := e.Eval(ctx, line)
	if err != nil {
		return err
	}
	out, err := newStdout(mode)
	if err != nil {
		return err
	}
	for v := range pipeline.Values(d) {
		if err := out.Push(v); err != nil {
			_ = out.Close()
			return err
		}
	}
	if err := out.Close(); err != nil {
		return err
	}
	return ctx.Err()
}

func dumpBadger(path, mode string) error {
	var db badgerdb.Driver
	if err := db.Configure(badgerdb.Config{Path: path}); err != nil {
		return err
	}
	defer db.Close()
	out, err := newStdout(mode)
	if err != nil {
		return err
	}
	err = db.Each(func(_ uint64, v value.Value) error { return out.Push(v) })
	return errors.Join(err, out.Close())
}

func newStdout(mode string) (sink.Adapter, error) {
	out, err := sink.NewAdapter("stdout")
	if err != nil {
		return nil, err
	}
	if err := out.Configure(stdout.Config{Mode: mode}); err != nil {
		return nil, err
	}
	return out, nil
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	default:
		fmt.Fprintln(os.Stderr, "valpipe:", err)
		return 1
	}
}
