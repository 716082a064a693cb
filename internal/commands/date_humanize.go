package commands

import (
	"context"

	"valpipe/internal/command"
	"valpipe/internal/datetime"
	"valpipe/internal/pipeline"
	"valpipe/internal/telemetry"
	"valpipe/internal/value"
)

// DateHumanize prints dates relative to now.
type DateHumanize struct{}

func (DateHumanize) Name() string { return "date humanize" }

func (DateHumanize) Usage() string {
	return "Print a 'humanized' format for the date, relative to now."
}

func (c DateHumanize) Signature() command.Signature {
	return command.Build(c.Name()).WithCategory(command.CategoryDate)
}

func (c DateHumanize) Examples() []command.Example {
	return []command.Example{
		{
			Description: "Print a 'humanized' format for the date, relative to now.",
			Example:     "date humanize",
			Result:      value.NewString("now", value.UnknownSpan()),
		},
		{
			Description: "Print a 'humanized' format for the date, relative to now.",
			Example:     `"2021-10-22 20:00:12 +01:00" | date humanize`,
		},
		{
			Description: "Humanize several dates in one go.",
			Example:     `['2021-10-22T20:00:12+01:00', 'soon'] | date humanize`,
		},
	}
}

func (c DateHumanize) Run(ctx context.Context, engine *command.EngineState, call *command.Call, input pipeline.Data) (pipeline.Data, error) {
	head := call.Head
	h := engine.Humanizer
	if h == nil {
		h = datetime.New()
	}
	return pipeline.Map(ctx, input, telemetry.Observe(c.Name(), func(v value.Value) value.Value {
		return h.Helper(v, head)
	})), nil
}
