package commands

import (
	"context"
	"encoding/binary"
	"math"

	"valpipe/internal/command"
	"valpipe/internal/logging"
	"valpipe/internal/pipeline"
	"valpipe/internal/telemetry"
	"valpipe/internal/value"
)

// IntoBinary converts values to their canonical byte encoding.
type IntoBinary struct{}

func (IntoBinary) Name() string { return "into binary" }

func (IntoBinary) Usage() string { return "Convert value to a binary primitive" }

func (c IntoBinary) Signature() command.Signature {
	return command.Build(c.Name()).
		WithCategory(command.CategoryConversions).
		WithRest("rest", command.ShapeCellPath, "column paths to convert to binary (for table input)")
}

func (c IntoBinary) Examples() []command.Example {
	u := value.UnknownSpan()
	return []command.Example{
		{
			Description: "convert string to a binary primitive",
			Example:     "'This is a string that is exactly 52 characters long.' | into binary",
			Result:      value.NewBinary([]byte("This is a string that is exactly 52 characters long."), u),
		},
		{
			Description: "convert a number to a binary primitive",
			Example:     "1 | into binary",
			Result:      value.NewBinary(nativeUint64(1), u),
		},
		{
			Description: "convert a boolean to a binary primitive",
			Example:     "$true | into binary",
			Result:      value.NewBinary(nativeUint64(1), u),
		},
		{
			Description: "convert a filesize to a binary primitive",
			Example:     "1kb | into binary",
			Result:      value.NewBinary(nativeUint64(1000), u),
		},
		{
			Description: "convert a decimal to a binary primitive",
			Example:     "1.234 | into binary",
			Result:      value.NewBinary(nativeUint64(math.Float64bits(1.234)), u),
		},
		{
			Description: "convert each element of a list",
			Example:     "[1, 'hi'] | into binary",
			Result: value.NewList([]value.Value{
				value.NewBinary(nativeUint64(1), u),
				value.NewBinary([]byte("hi"), u),
			}, u),
		},
	}
}

func (c IntoBinary) Run(ctx context.Context, engine *command.EngineState, call *command.Call, input pipeline.Data) (pipeline.Data, error) {
	head := call.Head
	if len(call.Rest) > 0 {
		// TODO: convert only the addressed cells once a value.PathMapper
		// implementation exists; until then the whole value is converted.
		logging.L().Debug("into binary: column paths not applied", "paths", len(call.Rest))
	}
	enc := engine.Encoder
	return pipeline.Map(ctx, input, telemetry.Observe(c.Name(), func(v value.Value) value.Value {
		return enc.Action(v, head)
	})), nil
}

func nativeUint64(n uint64) []byte {
	b := make([]byte, 8)
	binary.NativeEndian.PutUint64(b, n)
	return b
}
