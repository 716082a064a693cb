// Package conversions turns runtime values into their canonical byte
// encoding.
package conversions

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"

	"valpipe/internal/value"
)

// DefaultDateLayout is the locale-independent layout dates are encoded with.
const DefaultDateLayout = time.RFC3339

// Encoder holds the ambient choices of the binary encoding. The zero value
// encodes in native byte order with DefaultDateLayout.
type Encoder struct {
	Order      binary.ByteOrder
	DateLayout string
}

// ParseByteOrder maps "native", "little" or "big" to a byte order.
func ParseByteOrder(s string) (binary.ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native":
		return binary.NativeEndian, nil
	case "little", "le":
		return binary.LittleEndian, nil
	case "big", "be":
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("conversions: unknown byte order %q", s)
}

// Action converts v to a Binary value spanning head. Unsupported variants
// become an UnsupportedInput error value.
func (e Encoder) Action(v value.Value, head value.Span) value.Value {
	return v.Accept(binaryVisitor{enc: e, head: head})
}

// Action uses the default Encoder.
func Action(v value.Value, head value.Span) value.Value {
	return Encoder{}.Action(v, head)
}

func (e Encoder) order() binary.ByteOrder {
	if e.Order == nil {
		return binary.NativeEndian
	}
	return e.Order
}

func (e Encoder) layout() string {
	if e.DateLayout == "" {
		return DefaultDateLayout
	}
	return e.DateLayout
}

func (e Encoder) uint64Bytes(n uint64) []byte {
	out := make([]byte, 8)
	e.order().PutUint64(out, n)
	return out
}

type binaryVisitor struct {
	enc  Encoder
	head value.Span
}

func (b binaryVisitor) bin(p []byte) value.Value {
	return value.Binary{Val: p, Src: b.head}
}

func (b binaryVisitor) unsupported() value.Value {
	return value.NewError(value.UnsupportedInput, "'into binary' for unsupported type", b.head)
}

func (b binaryVisitor) VisitBinary(v value.Binary) value.Value {
	return value.NewBinary(v.Val, v.Src)
}

func (b binaryVisitor) VisitInt(v value.Int) value.Value {
	return b.bin(b.enc.uint64Bytes(uint64(v.Val)))
}

func (b binaryVisitor) VisitFloat(v value.Float) value.Value {
	return b.bin(b.enc.uint64Bytes(math.Float64bits(v.Val)))
}

func (b binaryVisitor) VisitFilesize(v value.Filesize) value.Value {
	return b.bin(b.enc.uint64Bytes(uint64(v.Val)))
}

func (b binaryVisitor) VisitBool(v value.Bool) value.Value {
	var n int64
	if v.Val {
		n = 1
	}
	return b.bin(b.enc.uint64Bytes(uint64(n)))
}

func (b binaryVisitor) VisitString(v value.String) value.Value {
	return b.bin([]byte(v.Val))
}

func (b binaryVisitor) VisitDate(v value.Date) value.Value {
	return b.bin([]byte(v.Val.Format(b.enc.layout())))
}

func (b binaryVisitor) VisitNothing(value.Nothing) value.Value { return b.unsupported() }
func (b binaryVisitor) VisitError(value.Error) value.Value     { return b.unsupported() }
func (b binaryVisitor) VisitList(value.List) value.Value       { return b.unsupported() }
func (b binaryVisitor) VisitRecord(value.Record) value.Value   { return b.unsupported() }
