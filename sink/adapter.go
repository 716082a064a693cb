package sink

import (
	"fmt"

	"valpipe/internal/value"
)

// Adapter is the common behaviour every sink exposes.
type Adapter interface {
	Configure(any) error    // driver-specific config ⇒ struct
	Push(value.Value) error // consume one output value
	Close() error           // flush and release; idempotent
}

/*──────── registry ───────*/

type factory = func() Adapter

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func NewAdapter(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown sink %q", name)
}

// Payload is the byte form a value takes on byte-oriented sinks: binary
// values as is, strings as UTF-8, everything else in tagged JSON.
func Payload(v value.Value) ([]byte, error) {
	switch x := v.(type) {
	case value.Binary:
		return x.Val, nil
	case value.String:
		return []byte(x.Val), nil
	}
	return value.MarshalJSON(v)
}
