package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valpipe/internal/value"
)

func negate(v value.Value) value.Value {
	return value.NewInt(-v.(value.Int).Val, v.Span())
}

func TestMapSingle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := Map(ctx, FromValue(value.NewInt(3, value.UnknownSpan())), negate)
	s, ok := out.(Single)
	require.True(t, ok)
	assert.Equal(t, int64(-3), s.Val.(value.Int).Val)
}

func TestMapStreamIsLazy(t *testing.T) {
	calls := 0
	out := Map(context.Background(), FromValues(ints(4)...), func(v value.Value) value.Value {
		calls++
		return v
	})
	assert.Zero(t, calls)

	for range Values(out) {
		break
	}
	assert.Equal(t, 1, calls)
}

func TestMapStreamCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := Collect(Map(ctx, FromValues(ints(3)...), negate))
	assert.Empty(t, got.(value.List).Vals)
}

func TestMapStreamCancelMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pulled := 0
	upstream := FromSeq(func(yield func(value.Value) bool) {
		for _, v := range ints(6) {
			pulled++
			if !yield(v) {
				return
			}
		}
	})
	out := Map(ctx, upstream, negate)

	var got []int64
	for v := range Values(out) {
		got = append(got, v.(value.Int).Val)
		if len(got) == 2 {
			cancel()
		}
	}
	assert.Equal(t, []int64{0, -1}, got)
	assert.Equal(t, 2, pulled, "no input is consumed after cancel")
}

func TestCollect(t *testing.T) {
	one := value.NewString("x", value.UnknownSpan())
	assert.Equal(t, one, Collect(FromValue(one)))

	l := Collect(FromValues(ints(2)...)).(value.List)
	assert.Len(t, l.Vals, 2)

	empty := Collect(FromSeq(nil)).(value.List)
	assert.Empty(t, empty.Vals)
}
