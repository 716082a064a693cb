// Package command defines the capability set every pipeline command
// exposes so an engine can invoke and compose commands generically.
package command

import (
	"context"
	"fmt"

	"valpipe/internal/conversions"
	"valpipe/internal/datetime"
	"valpipe/internal/pipeline"
	"valpipe/internal/value"
)

// Command is a pipeline stage.
type Command interface {
	Name() string
	Usage() string
	Signature() Signature
	// Examples double as regression fixtures: each example with a Result is
	// evaluated and compared by commandtest.RunExamples.
	Examples() []Example
	Run(ctx context.Context, engine *EngineState, call *Call, input pipeline.Data) (pipeline.Data, error)
}

// Example is one documented invocation. A nil Result is not checked.
type Example struct {
	Description string
	Example     string
	Result      value.Value
}

// Call is a parsed invocation of a command.
type Call struct {
	Head value.Span       // span of the command name
	Rest []value.CellPath // trailing positional arguments
}

// EngineState carries the ambient collaborators commands run against.
type EngineState struct {
	Encoder   conversions.Encoder
	Humanizer *datetime.Humanizer
}

// NewEngineState uses native byte order, the default date layout and the
// wall clock.
func NewEngineState() *EngineState {
	return &EngineState{Humanizer: datetime.New()}
}

// Check validates call against the command's signature.
func Check(cmd Command, call *Call) error {
	sig := cmd.Signature()
	if sig.Rest == nil && len(call.Rest) > 0 {
		return fmt.Errorf("%s: unexpected argument %q", cmd.Name(), call.Rest[0].String())
	}
	return nil
}
