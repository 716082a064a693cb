// Package value defines the tagged runtime datum that flows through every
// pipeline stage.
//
// Value is a closed sum type: the unexported marker method keeps
// implementations inside this package, and Visitor has one method per
// variant so that adding a variant fails to compile until every transform
// handles it.
package value

import (
	"time"
)

// Span is the source location a value was produced from.
type Span struct {
	Start int
	End   int
}

// UnknownSpan is used for values that did not come from source text.
func UnknownSpan() Span { return Span{} }

// Value is one of Int, Float, Bool, String, Binary, Filesize, Date, Nothing,
// Error, List or Record.
type Value interface {
	Kind() Kind
	Span() Span
	Accept(Visitor) Value
	isValue()
}

type Int struct {
	Val int64
	Src Span
}

type Float struct {
	Val float64
	Src Span
}

type Bool struct {
	Val bool
	Src Span
}

type String struct {
	Val string
	Src Span
}

// Binary holds an ordered byte sequence. Use NewBinary when the bytes come
// from a buffer the caller may keep writing to.
type Binary struct {
	Val []byte
	Src Span
}

// Filesize is a byte count.
type Filesize struct {
	Val int64
	Src Span
}

// Date is a timestamp with a fixed UTC offset.
type Date struct {
	Val time.Time
	Src Span
}

// Nothing marks the absence of a value.
type Nothing struct {
	Src Span
}

// Error carries a diagnostic as ordinary data.
type Error struct {
	Err *ShellError
}

type List struct {
	Vals []Value
	Src  Span
}

// Record is an ordered set of named columns.
type Record struct {
	Cols []string
	Vals []Value
	Src  Span
}

func NewInt(v int64, span Span) Value         { return Int{Val: v, Src: span} }
func NewFloat(v float64, span Span) Value     { return Float{Val: v, Src: span} }
func NewBool(v bool, span Span) Value         { return Bool{Val: v, Src: span} }
func NewString(v string, span Span) Value     { return String{Val: v, Src: span} }
func NewFilesize(v int64, span Span) Value    { return Filesize{Val: v, Src: span} }
func NewDate(v time.Time, span Span) Value    { return Date{Val: v, Src: span} }
func NewNothing(span Span) Value              { return Nothing{Src: span} }
func NewList(vals []Value, span Span) Value   { return List{Vals: vals, Src: span} }
func NewRecord(cols []string, vals []Value, span Span) Value {
	return Record{Cols: cols, Vals: vals, Src: span}
}

// NewBinary copies b so the value never aliases the caller's buffer.
func NewBinary(b []byte, span Span) Value {
	out := make([]byte, len(b))
	copy(out, b)
	return Binary{Val: out, Src: span}
}

func (v Int) Span() Span      { return v.Src }
func (v Float) Span() Span    { return v.Src }
func (v Bool) Span() Span     { return v.Src }
func (v String) Span() Span   { return v.Src }
func (v Binary) Span() Span   { return v.Src }
func (v Filesize) Span() Span { return v.Src }
func (v Date) Span() Span     { return v.Src }
func (v Nothing) Span() Span  { return v.Src }
func (v List) Span() Span     { return v.Src }
func (v Record) Span() Span   { return v.Src }

func (v Error) Span() Span {
	if v.Err == nil {
		return UnknownSpan()
	}
	return v.Err.Span
}

func (Int) Kind() Kind      { return KindInt }
func (Float) Kind() Kind    { return KindFloat }
func (Bool) Kind() Kind     { return KindBool }
func (String) Kind() Kind   { return KindString }
func (Binary) Kind() Kind   { return KindBinary }
func (Filesize) Kind() Kind { return KindFilesize }
func (Date) Kind() Kind     { return KindDate }
func (Nothing) Kind() Kind  { return KindNothing }
func (Error) Kind() Kind    { return KindError }
func (List) Kind() Kind     { return KindList }
func (Record) Kind() Kind   { return KindRecord }

func (Int) isValue()      {}
func (Float) isValue()    {}
func (Bool) isValue()     {}
func (String) isValue()   {}
func (Binary) isValue()   {}
func (Filesize) isValue() {}
func (Date) isValue()     {}
func (Nothing) isValue()  {}
func (Error) isValue()    {}
func (List) isValue()     {}
func (Record) isValue()   {}
