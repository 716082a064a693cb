package source

import (
	"context"
	"fmt"

	"valpipe/internal/value"
)

// EmitFunc hands one value to the pipeline. It blocks until the value is
// taken and fails once the pipeline is shutting down.
type EmitFunc func(value.Value) error

// Adapter is the common behaviour every source exposes.
type Adapter interface {
	Configure(any) error                 // driver-specific config ⇒ struct
	Run(context.Context, EmitFunc) error // emit until exhausted or ctx done
	Close() error                        // idempotent
}

/*──────── registry ───────*/

type Factory func() Adapter

var reg = map[string]Factory{}

// Register is called from each driver's init().
func Register(name string, f Factory) { reg[name] = f }

func NewAdapter(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown source %q", name)
}
