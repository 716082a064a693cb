package shell

import (
	"context"
	"fmt"

	"valpipe/internal/command"
	"valpipe/internal/pipeline"
	"valpipe/internal/value"
)

// Input turns a literal into pipeline data: lists stream element by
// element, anything else is a Single. A nil literal gives Single{Nothing}.
func Input(v value.Value) pipeline.Data {
	switch x := v.(type) {
	case nil:
		return pipeline.FromValue(value.NewNothing(value.UnknownSpan()))
	case value.List:
		return pipeline.FromValues(x.Vals...)
	}
	return pipeline.FromValue(v)
}

// Run feeds in through every stage of p in order.
func (p *Pipeline) Run(ctx context.Context, engine *command.EngineState, in pipeline.Data) (pipeline.Data, error) {
	data := in
	for _, st := range p.Stages {
		call := st.Call
		out, err := st.Cmd.Run(ctx, engine, &call, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", st.Cmd.Name(), err)
		}
		data = out
	}
	return data, nil
}

// Eval parses and runs line. The result is lazy when the input was a list.
func Eval(ctx context.Context, reg *command.Registry, engine *command.EngineState, line string) (pipeline.Data, error) {
	p, err := Parse(reg, line)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, engine, Input(p.Input))
}

// EvalValue is Eval followed by pipeline.Collect.
func EvalValue(ctx context.Context, reg *command.Registry, engine *command.EngineState, line string) (value.Value, error) {
	d, err := Eval(ctx, reg, engine, line)
	if err != nil {
		return nil, err
	}
	return pipeline.Collect(d), nil
}
