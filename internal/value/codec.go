package value

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ToNative converts v into the tagged map form used on the wire:
//
//	{"type": "int", "val": "42"}
//
// Ints and filesizes are decimal strings so they survive float-only
// transports, binary is base64 and dates are RFC 3339 with nanoseconds.
func ToNative(v Value) map[string]any {
	out := map[string]any{"type": v.Kind().String()}
	switch x := v.(type) {
	case Int:
		out["val"] = strconv.FormatInt(x.Val, 10)
	case Float:
		out["val"] = x.Val
	case Bool:
		out["val"] = x.Val
	case String:
		out["val"] = x.Val
	case Binary:
		out["val"] = base64.StdEncoding.EncodeToString(x.Val)
	case Filesize:
		out["val"] = strconv.FormatInt(x.Val, 10)
	case Date:
		out["val"] = x.Val.Format(time.RFC3339Nano)
	case Nothing:
	case Error:
		if x.Err != nil {
			out["kind"] = string(x.Err.Kind)
			out["msg"] = x.Err.Msg
			out["start"] = strconv.Itoa(x.Err.Span.Start)
			out["end"] = strconv.Itoa(x.Err.Span.End)
		}
	case List:
		vals := make([]any, len(x.Vals))
		for i, e := range x.Vals {
			vals[i] = ToNative(e)
		}
		out["vals"] = vals
	case Record:
		cols := make([]any, len(x.Cols))
		for i, c := range x.Cols {
			cols[i] = c
		}
		vals := make([]any, len(x.Vals))
		for i, e := range x.Vals {
			vals[i] = ToNative(e)
		}
		out["cols"] = cols
		out["vals"] = vals
	}
	return out
}

// FromNative is the inverse of ToNative. Decoded values carry UnknownSpan,
// except error diagnostics which keep the span they were raised at.
func FromNative(m map[string]any) (Value, error) {
	span := UnknownSpan()
	typ, _ := m["type"].(string)
	kind, ok := ParseKind(typ)
	if !ok {
		return nil, fmt.Errorf("value: unknown type %q", typ)
	}
	raw := m["val"]
	switch kind {
	case KindInt, KindFilesize:
		n, err := toInt64(raw)
		if err != nil {
			return nil, fmt.Errorf("value: %s: %w", typ, err)
		}
		if kind == KindInt {
			return NewInt(n, span), nil
		}
		return NewFilesize(n, span), nil
	case KindFloat:
		switch f := raw.(type) {
		case float64:
			return NewFloat(f, span), nil
		case json.Number:
			x, err := f.Float64()
			if err != nil {
				return nil, fmt.Errorf("value: float: %w", err)
			}
			return NewFloat(x, span), nil
		}
		return nil, fmt.Errorf("value: float: unexpected %T", raw)
	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("value: bool: unexpected %T", raw)
		}
		return NewBool(b, span), nil
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("value: string: unexpected %T", raw)
		}
		return NewString(s, span), nil
	case KindBinary:
		s, _ := raw.(string)
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("value: binary: %w", err)
		}
		return Binary{Val: b, Src: span}, nil
	case KindDate:
		s, _ := raw.(string)
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("value: date: %w", err)
		}
		return NewDate(t, span), nil
	case KindNothing:
		return NewNothing(span), nil
	case KindError:
		k, _ := m["kind"].(string)
		msg, _ := m["msg"].(string)
		errSpan, err := spanOf(m)
		if err != nil {
			return nil, fmt.Errorf("value: error span: %w", err)
		}
		return NewError(ErrorKind(k), msg, errSpan), nil
	case KindList:
		vals, err := fromNativeSlice(m["vals"])
		if err != nil {
			return nil, err
		}
		return NewList(vals, span), nil
	case KindRecord:
		rawCols, _ := m["cols"].([]any)
		cols := make([]string, len(rawCols))
		for i, c := range rawCols {
			s, ok := c.(string)
			if !ok {
				return nil, fmt.Errorf("value: record column %d: unexpected %T", i, c)
			}
			cols[i] = s
		}
		vals, err := fromNativeSlice(m["vals"])
		if err != nil {
			return nil, err
		}
		if len(cols) != len(vals) {
			return nil, fmt.Errorf("value: record has %d columns and %d values", len(cols), len(vals))
		}
		return NewRecord(cols, vals, span), nil
	}
	return nil, fmt.Errorf("value: unhandled type %q", typ)
}

func fromNativeSlice(raw any) ([]Value, error) {
	items, _ := raw.([]any)
	vals := make([]Value, 0, len(items))
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("value: element %d: unexpected %T", i, it)
		}
		v, err := FromNative(m)
		if err != nil {
			return nil, fmt.Errorf("value: element %d: %w", i, err)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// spanOf reads the optional start/end pair of an encoded error.
func spanOf(m map[string]any) (Span, error) {
	var sp Span
	if raw, ok := m["start"]; ok {
		n, err := toInt64(raw)
		if err != nil {
			return sp, err
		}
		sp.Start = int(n)
	}
	if raw, ok := m["end"]; ok {
		n, err := toInt64(raw)
		if err != nil {
			return sp, err
		}
		sp.End = int(n)
	}
	return sp, nil
}

func toInt64(raw any) (int64, error) {
	switch n := raw.(type) {
	case string:
		return strconv.ParseInt(n, 10, 64)
	case json.Number:
		return n.Int64()
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int64(n), nil
	}
	return 0, fmt.Errorf("unexpected %T", raw)
}

// MarshalJSON encodes v in its tagged wire form.
func MarshalJSON(v Value) ([]byte, error) {
	return json.Marshal(ToNative(v))
}

// UnmarshalJSON decodes one tagged value.
func UnmarshalJSON(data []byte) (Value, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return FromNative(m)
}
