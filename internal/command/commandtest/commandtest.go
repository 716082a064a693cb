// Package commandtest evaluates the documented examples of a command.
package commandtest

import (
	"context"
	"testing"

	"valpipe/internal/command"
	"valpipe/internal/shell"
	"valpipe/internal/value"
)

// RunExamples evaluates every example of cmd that declares a Result and
// fails t on any mismatch. Examples without a Result only need to evaluate.
func RunExamples(t *testing.T, cmd command.Command) {
	t.Helper()
	reg := command.NewRegistry()
	if err := reg.Register(cmd); err != nil {
		t.Fatalf("register %s: %v", cmd.Name(), err)
	}
	engine := command.NewEngineState()
	for _, ex := range cmd.Examples() {
		t.Run(ex.Example, func(t *testing.T) {
			got, err := shell.EvalValue(context.Background(), reg, engine, ex.Example)
			if err != nil {
				t.Fatalf("eval %q: %v", ex.Example, err)
			}
			if ex.Result == nil {
				return
			}
			if !value.Equal(ex.Result, got) {
				t.Fatalf("%s\nwant %#v\ngot  %#v", ex.Description, ex.Result, got)
			}
		})
	}
}
