package value

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBinaryDoesNotAlias(t *testing.T) {
	buf := []byte("abc")
	v := NewBinary(buf, UnknownSpan())
	buf[0] = 'z'
	assert.Equal(t, []byte("abc"), v.(Binary).Val)
}

func TestKindRoundTrip(t *testing.T) {
	for k := KindNothing; k <= KindError; k++ {
		got, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("table")
	assert.False(t, ok)
}

func TestEqualIgnoresSpans(t *testing.T) {
	a := NewInt(3, Span{Start: 1, End: 2})
	b := NewInt(3, Span{Start: 9, End: 10})
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, NewFilesize(3, UnknownSpan())))

	d := time.Date(2021, 10, 22, 20, 0, 12, 0, time.FixedZone("", 3600))
	assert.True(t, Equal(NewDate(d, UnknownSpan()), NewDate(d.UTC(), UnknownSpan())))

	l1 := NewList([]Value{NewString("a", UnknownSpan()), NewBool(true, UnknownSpan())}, UnknownSpan())
	l2 := NewList([]Value{NewString("a", UnknownSpan()), NewBool(false, UnknownSpan())}, UnknownSpan())
	assert.False(t, Equal(l1, l2))

	e1 := NewError(UnsupportedInput, "nope", Span{Start: 4})
	e2 := NewError(UnsupportedInput, "nope", UnknownSpan())
	assert.True(t, Equal(e1, e2))
	assert.Equal(t, Span{Start: 4}, e1.Span())
}

func TestFromErrorForwardsShellError(t *testing.T) {
	se := &ShellError{Kind: DateParse, Msg: "bad date", Span: Span{Start: 2, End: 5}}
	v := FromError(fmt.Errorf("wrapped: %w", se), UnknownSpan())
	require.True(t, IsError(v))
	assert.Same(t, se, v.(Error).Err)

	v = FromError(errors.New("boom"), Span{Start: 7})
	assert.Equal(t, CantConvert, v.(Error).Err.Kind)
	assert.Equal(t, Span{Start: 7}, v.Span())
}

func TestCodecKeepsIntPrecision(t *testing.T) {
	for _, n := range []int64{0, 1, -1, math.MinInt64, math.MaxInt64} {
		data, err := MarshalJSON(NewInt(n, UnknownSpan()))
		require.NoError(t, err)
		got, err := UnmarshalJSON(data)
		require.NoError(t, err)
		assert.Equal(t, n, got.(Int).Val)
	}
}

func TestCodecStructured(t *testing.T) {
	when := time.Date(2024, 2, 29, 12, 30, 0, 0, time.FixedZone("", -5*3600))
	in := NewRecord(
		[]string{"name", "size", "modified", "raw", "tags"},
		[]Value{
			NewString("LICENSE", UnknownSpan()),
			NewFilesize(1078, UnknownSpan()),
			NewDate(when, UnknownSpan()),
			NewBinary([]byte{0, 1, 2}, UnknownSpan()),
			NewList([]Value{NewNothing(UnknownSpan()), NewFloat(1.5, UnknownSpan())}, UnknownSpan()),
		},
		UnknownSpan(),
	)
	data, err := MarshalJSON(in)
	require.NoError(t, err)
	out, err := UnmarshalJSON(data)
	require.NoError(t, err)
	assert.True(t, Equal(in, out), "got %#v", out)
}

func TestCodecKeepsErrorSpan(t *testing.T) {
	in := NewError(DateParse, "date could not be parsed", Span{Start: 4, End: 17})
	data, err := MarshalJSON(in)
	require.NoError(t, err)
	out, err := UnmarshalJSON(data)
	require.NoError(t, err)
	e := out.(Error).Err
	assert.Equal(t, DateParse, e.Kind)
	assert.Equal(t, Span{Start: 4, End: 17}, e.Span)

	// float64 offsets, as they arrive through protobuf Struct values
	v, err := FromNative(map[string]any{"type": "error", "kind": "UnsupportedInput", "msg": "x", "start": 2.0, "end": 9.0})
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 2, End: 9}, v.(Error).Err.Span)

	// older encodings without offsets still decode
	v, err = FromNative(map[string]any{"type": "error", "kind": "CantConvert", "msg": "x"})
	require.NoError(t, err)
	assert.Equal(t, UnknownSpan(), v.(Error).Err.Span)
}

func TestUnmarshalAcceptsNumericInts(t *testing.T) {
	v, err := UnmarshalJSON([]byte(`{"type":"int","val":42}`))
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.(Int).Val)

	_, err = UnmarshalJSON([]byte(`{"type":"int","val":4.5}`))
	assert.Error(t, err)

	_, err = UnmarshalJSON([]byte(`{"type":"duration","val":"1s"}`))
	assert.Error(t, err)
}

func TestParseCellPath(t *testing.T) {
	cp := ParseCellPath("files.0.name", UnknownSpan())
	require.Len(t, cp.Members, 3)
	assert.Equal(t, "files", cp.Members[0].Name)
	assert.True(t, cp.Members[1].IsIdx)
	assert.Equal(t, 0, cp.Members[1].Index)
	assert.Equal(t, "files.0.name", cp.String())
}
