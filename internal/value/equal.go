package value

import "bytes"

// Equal compares two values structurally, ignoring spans.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Int:
		return x.Val == b.(Int).Val
	case Float:
		return x.Val == b.(Float).Val
	case Bool:
		return x.Val == b.(Bool).Val
	case String:
		return x.Val == b.(String).Val
	case Binary:
		return bytes.Equal(x.Val, b.(Binary).Val)
	case Filesize:
		return x.Val == b.(Filesize).Val
	case Date:
		return x.Val.Equal(b.(Date).Val)
	case Nothing:
		return true
	case Error:
		y := b.(Error)
		if x.Err == nil || y.Err == nil {
			return x.Err == y.Err
		}
		return x.Err.Kind == y.Err.Kind && x.Err.Msg == y.Err.Msg
	case List:
		y := b.(List)
		if len(x.Vals) != len(y.Vals) {
			return false
		}
		for i := range x.Vals {
			if !Equal(x.Vals[i], y.Vals[i]) {
				return false
			}
		}
		return true
	case Record:
		y := b.(Record)
		if len(x.Cols) != len(y.Cols) || len(x.Vals) != len(y.Vals) {
			return false
		}
		for i := range x.Cols {
			if x.Cols[i] != y.Cols[i] || !Equal(x.Vals[i], y.Vals[i]) {
				return false
			}
		}
		return true
	}
	return false
}
