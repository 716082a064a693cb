// valpipe/sink/stdout/driver.go
package stdout

import (
	"fmt"
	"io"
	"os"
	"sync"

	"valpipe/internal/render"
	"valpipe/internal/value"
	"valpipe/sink"
)

const (
	ModeRaw   = "raw"   // wire form: binary verbatim, text one per line
	ModeText  = "text"  // display form, errors highlighted on terminals
	ModeTable = "table" // buffered until Close, then one markdown table
)

/* ────────── public config ────────── */
type Config struct {
	Mode   string    `yaml:"mode"`
	Writer io.Writer `yaml:"-"` // defaults to os.Stdout
}

/* ────────── driver ────────── */
type driver struct {
	cfg     Config
	printer *render.Printer

	mu      sync.Mutex // guards pending+closed
	pending []value.Value
	closed  bool
}

/* ────────── sink.Adapter ────────── */
func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	switch c.Mode {
	case "":
		c.Mode = ModeText
	case ModeRaw, ModeText, ModeTable:
	default:
		return fmt.Errorf("stdout-sink: unknown mode %q", c.Mode)
	}
	if c.Writer == nil {
		c.Writer = os.Stdout
	}
	d.cfg = c
	d.printer = render.NewPrinter(c.Writer)
	return nil
}

func (d *driver) Push(v value.Value) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("stdout-sink: push after close")
	}

	switch d.cfg.Mode {
	case ModeRaw:
		return render.Raw(d.cfg.Writer, v)
	case ModeTable:
		d.pending = append(d.pending, v)
		return nil
	default:
		return d.printer.Print(v)
	}
}

func (d *driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	if len(d.pending) == 0 {
		return nil
	}
	_, err := io.WriteString(d.cfg.Writer, render.Table(d.pending))
	d.pending = nil
	return err
}

/* ────────── auto-register ────────── */
func init() {
	sink.Register("stdout", func() sink.Adapter { return &driver{} })
}
