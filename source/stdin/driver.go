// Package stdin reads pipeline input from a text stream.
package stdin

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"valpipe/internal/value"
	"valpipe/source"
)

const (
	FormatLines = "lines" // each line is a string value
	FormatJSONL = "jsonl" // each line is a tagged value
)

type Config struct {
	Format string    `yaml:"format"`
	Reader io.Reader `yaml:"-"` // defaults to os.Stdin
}

type driver struct {
	cfg  Config
	once sync.Once
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdin-source: expected Config, got %T", raw)
	}
	switch c.Format {
	case "":
		c.Format = FormatLines
	case FormatLines, FormatJSONL:
	default:
		return fmt.Errorf("stdin-source: unknown format %q", c.Format)
	}
	if c.Reader == nil {
		c.Reader = os.Stdin
	}
	d.cfg = c
	return nil
}

// Run emits one value per line. Lines that fail to decode become error
// values so later lines are still processed. Reading happens on its own
// goroutine so a reader that never returns cannot hold Run past ctx.
func (d *driver) Run(ctx context.Context, emit source.EmitFunc) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go d.scan(ctx, lines, errc)

	offset := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-errc
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			span := value.Span{Start: offset, End: offset + len(line)}
			offset += len(line) + 1

			if err := emit(d.decode(line, span)); err != nil {
				return err
			}
		}
	}
}

func (d *driver) scan(ctx context.Context, lines chan<- string, errc chan<- error) {
	var err error
	defer func() {
		errc <- err
		close(lines)
	}()
	sc := bufio.NewScanner(d.cfg.Reader)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for sc.Scan() {
		select {
		case lines <- sc.Text():
		case <-ctx.Done():
			return
		}
	}
	err = sc.Err()
}

func (d *driver) decode(line string, span value.Span) value.Value {
	if d.cfg.Format == FormatLines {
		return value.NewString(line, span)
	}
	v, err := value.UnmarshalJSON([]byte(line))
	if err != nil {
		return value.NewError(value.CantConvert, fmt.Sprintf("invalid value: %v", err), span)
	}
	return v
}

// Close closes the reader when it can be closed, which unblocks a pending
// read left behind by a cancelled Run.
func (d *driver) Close() error {
	var err error
	d.once.Do(func() {
		if c, ok := d.cfg.Reader.(io.Closer); ok {
			err = c.Close()
		}
	})
	return err
}

func init() {
	source.Register("stdin", func() source.Adapter { return &driver{} })
}
