package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valpipe/internal/pipeline"
	"valpipe/internal/value"
)

type fakeCmd struct {
	name string
	sig  Signature
}

func (f fakeCmd) Name() string         { return f.name }
func (f fakeCmd) Usage() string        { return "fake" }
func (f fakeCmd) Signature() Signature { return f.sig }
func (f fakeCmd) Examples() []Example  { return nil }
func (f fakeCmd) Run(_ context.Context, _ *EngineState, _ *Call, in pipeline.Data) (pipeline.Data, error) {
	return in, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(fakeCmd{name: "b"}))
	require.NoError(t, r.Register(fakeCmd{name: "a c"}))
	assert.Error(t, r.Register(fakeCmd{name: "b"}))

	c, ok := r.Lookup("a c")
	require.True(t, ok)
	assert.Equal(t, "a c", c.Name())
	_, ok = r.Lookup("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"a c", "b"}, r.Names())
}

func TestSignatureBuilder(t *testing.T) {
	sig := Build("into binary").
		WithCategory(CategoryConversions).
		WithRest("rest", ShapeCellPath, "paths")
	assert.Equal(t, "into binary", sig.Name)
	assert.Equal(t, CategoryConversions, sig.Category)
	require.NotNil(t, sig.Rest)
	assert.Equal(t, ShapeCellPath, sig.Rest.Shape)
	assert.Nil(t, Build("x").Rest)
}

func TestCheckRest(t *testing.T) {
	call := &Call{Rest: []value.CellPath{value.ParseCellPath("size", value.UnknownSpan())}}

	err := Check(fakeCmd{name: "plain", sig: Build("plain")}, call)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"size"`)

	withRest := fakeCmd{name: "paths", sig: Build("paths").WithRest("rest", ShapeCellPath, "")}
	assert.NoError(t, Check(withRest, call))
	assert.NoError(t, Check(fakeCmd{name: "plain", sig: Build("plain")}, &Call{}))
}

func TestNewEngineState(t *testing.T) {
	e := NewEngineState()
	require.NotNil(t, e.Humanizer)
	assert.Nil(t, e.Encoder.Order)
}
