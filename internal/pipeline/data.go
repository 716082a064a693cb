package pipeline

import (
	"iter"

	"valpipe/internal/value"
)

// Data is the input or output of a command: a single Value or a lazily
// produced ListStream. A command at the head of a pipeline receives a
// Single holding Nothing.
type Data interface {
	isData()
}

// Single wraps one value.
type Single struct {
	Val value.Value
}

// ListStream is an ordered, pull-driven sequence of values. It is consumed
// once.
type ListStream struct {
	seq iter.Seq[value.Value]
}

func (Single) isData()     {}
func (ListStream) isData() {}

func FromValue(v value.Value) Data { return Single{Val: v} }

// FromValues streams vals in order.
func FromValues(vals ...value.Value) Data {
	return ListStream{seq: func(yield func(value.Value) bool) {
		for _, v := range vals {
			if !yield(v) {
				return
			}
		}
	}}
}

// FromSeq wraps an existing sequence.
func FromSeq(seq iter.Seq[value.Value]) Data { return ListStream{seq: seq} }

// All returns the underlying sequence.
func (s ListStream) All() iter.Seq[value.Value] {
	if s.seq == nil {
		return func(func(value.Value) bool) {}
	}
	return s.seq
}

// Values iterates any Data; a Single yields once.
func Values(d Data) iter.Seq[value.Value] {
	return func(yield func(value.Value) bool) {
		switch x := d.(type) {
		case Single:
			yield(x.Val)
		case ListStream:
			for v := range x.All() {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// Collect materialises d; a stream becomes a List.
func Collect(d Data) value.Value {
	if s, ok := d.(Single); ok {
		return s.Val
	}
	vals := []value.Value{}
	for v := range Values(d) {
		vals = append(vals, v)
	}
	return value.NewList(vals, value.UnknownSpan())
}
