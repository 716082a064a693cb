package badgerdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valpipe/internal/value"
)

func stored(t *testing.T, d *Driver) []value.Value {
	t.Helper()
	var out []value.Value
	require.NoError(t, d.Each(func(_ uint64, v value.Value) error {
		out = append(out, v)
		return nil
	}))
	return out
}

func TestDriver_InMemoryKeepsOrder(t *testing.T) {
	d := &Driver{}
	require.NoError(t, d.Configure(Config{InMemory: true}))
	defer d.Close()

	in := []value.Value{
		value.NewBinary([]byte{1, 2, 3}, value.UnknownSpan()),
		value.NewString("in 3 days", value.UnknownSpan()),
		value.NewError(value.UnsupportedInput, "nope", value.UnknownSpan()),
	}
	for _, v := range in {
		require.NoError(t, d.Push(v))
	}

	got := stored(t, d)
	require.Len(t, got, len(in))
	for i := range in {
		assert.True(t, value.Equal(in[i], got[i]), "index %d", i)
	}
}

func TestDriver_ResumesSequence(t *testing.T) {
	dir := t.TempDir()

	d := &Driver{}
	require.NoError(t, d.Configure(Config{Path: dir}))
	require.NoError(t, d.Push(value.NewInt(1, value.UnknownSpan())))
	require.NoError(t, d.Push(value.NewInt(2, value.UnknownSpan())))
	require.NoError(t, d.Close())

	d = &Driver{}
	require.NoError(t, d.Configure(Config{Path: dir}))
	defer d.Close()
	assert.Equal(t, uint64(2), d.seq)
	require.NoError(t, d.Push(value.NewInt(3, value.UnknownSpan())))

	got := stored(t, d)
	require.Len(t, got, 3)
	assert.Equal(t, int64(3), got[2].(value.Int).Val)
}

func TestDriver_RequiresPath(t *testing.T) {
	assert.Error(t, (&Driver{}).Configure(Config{}))
}
