package stdout

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valpipe/internal/value"
	"valpipe/sink"
)

func newSink(t *testing.T, mode string, buf *bytes.Buffer) sink.Adapter {
	t.Helper()
	s, err := sink.NewAdapter("stdout")
	require.NoError(t, err)
	require.NoError(t, s.Configure(Config{Mode: mode, Writer: buf}))
	return s
}

func TestRawConcatenatesBinary(t *testing.T) {
	var buf bytes.Buffer
	s := newSink(t, ModeRaw, &buf)
	require.NoError(t, s.Push(value.NewBinary([]byte{1, 2}, value.UnknownSpan())))
	require.NoError(t, s.Push(value.NewBinary([]byte{3}, value.UnknownSpan())))
	require.NoError(t, s.Close())
	assert.Equal(t, []byte{1, 2, 3}, buf.Bytes())
}

func TestTableFlushesOnClose(t *testing.T) {
	var buf bytes.Buffer
	s := newSink(t, ModeTable, &buf)
	require.NoError(t, s.Push(value.NewString("now", value.UnknownSpan())))
	assert.Zero(t, buf.Len())
	require.NoError(t, s.Close())
	assert.Contains(t, buf.String(), "now")
	require.NoError(t, s.Close())
	assert.Error(t, s.Push(value.NewString("late", value.UnknownSpan())))
}

func TestTextIsDefault(t *testing.T) {
	var buf bytes.Buffer
	s := newSink(t, "", &buf)
	require.NoError(t, s.Push(value.NewInt(5, value.UnknownSpan())))
	assert.Equal(t, "5\n", buf.String())
}

func TestUnknownMode(t *testing.T) {
	d := &driver{}
	assert.Error(t, d.Configure(Config{Mode: "csv"}))
}
