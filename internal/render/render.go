// Package render turns values into terminal output.
package render

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"valpipe/internal/datetime"
	"valpipe/internal/value"
)

// Raw writes v in its wire form: binary bytes verbatim with no framing,
// anything else as its text form plus a newline.
func Raw(w io.Writer, v value.Value) error {
	if b, ok := v.(value.Binary); ok {
		_, err := w.Write(b.Val)
		return err
	}
	_, err := fmt.Fprintln(w, Text(v))
	return err
}

// Text is the display form of v.
func Text(v value.Value) string {
	switch x := v.(type) {
	case value.Int:
		return strconv.FormatInt(x.Val, 10)
	case value.Float:
		return strconv.FormatFloat(x.Val, 'f', -1, 64)
	case value.Bool:
		return strconv.FormatBool(x.Val)
	case value.String:
		return x.Val
	case value.Binary:
		return "0x[" + hex.EncodeToString(x.Val) + "]"
	case value.Filesize:
		return filesize(x.Val)
	case value.Date:
		return fmt.Sprintf("%s (%s)", x.Val.Format(time.RFC1123Z), datetime.Humanize(x.Val, time.Now()))
	case value.Nothing:
		return ""
	case value.Error:
		if x.Err == nil {
			return "Error"
		}
		return fmt.Sprintf("Error: %s: %s", x.Err.Kind, x.Err.Msg)
	case value.List:
		return fmt.Sprintf("[list %d items]", len(x.Vals))
	case value.Record:
		return fmt.Sprintf("{record %d fields}", len(x.Cols))
	}
	return ""
}

func filesize(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}

// Printer writes the display form of values, highlighting error values when
// the destination is a terminal.
type Printer struct {
	w        io.Writer
	useColor bool
}

func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd())
	}
	return &Printer{w: w, useColor: useColor}
}

// SetColor forces colour on or off.
func (p *Printer) SetColor(on bool) { p.useColor = on }

func (p *Printer) Print(v value.Value) error {
	var s string
	switch x := v.(type) {
	case value.List, value.Record:
		s = Table([]value.Value{x})
	case value.Error:
		s = p.colorize(Text(x), color.FgRed, color.Bold)
	default:
		s = Text(x)
	}
	_, err := fmt.Fprintln(p.w, s)
	return err
}

func (p *Printer) colorize(text string, attrs ...color.Attribute) string {
	if !p.useColor {
		return text
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}
