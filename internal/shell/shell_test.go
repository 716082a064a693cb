package shell

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valpipe/internal/command"
	"valpipe/internal/commands"
	"valpipe/internal/pipeline"
	"valpipe/internal/value"
)

func TestLexSpans(t *testing.T) {
	toks, err := lex(`'a b' | into  binary`)
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, tokString, toks[0].kind)
	assert.Equal(t, "a b", toks[0].text)
	assert.Equal(t, value.Span{Start: 0, End: 5}, toks[0].span)
	assert.Equal(t, tokPipe, toks[1].kind)
	assert.Equal(t, value.Span{Start: 14, End: 20}, toks[3].span)
}

func TestLexEscapes(t *testing.T) {
	toks, err := lex(`"a\"b\n" 'c\d'`)
	require.NoError(t, err)
	assert.Equal(t, "a\"b\n", toks[0].text)
	assert.Equal(t, `c\d`, toks[1].text)

	_, err = lex(`'open`)
	assert.Error(t, err)
}

func TestWordLiterals(t *testing.T) {
	cases := map[string]value.Value{
		"42":       value.NewInt(42, value.UnknownSpan()),
		"-7":       value.NewInt(-7, value.UnknownSpan()),
		"1.234":    value.NewFloat(1.234, value.UnknownSpan()),
		"1kb":      value.NewFilesize(1000, value.UnknownSpan()),
		"4KiB":     value.NewFilesize(4096, value.UnknownSpan()),
		"10b":      value.NewFilesize(10, value.UnknownSpan()),
		"-2mb":     value.NewFilesize(-2_000_000, value.UnknownSpan()),
		"$true":    value.NewBool(true, value.UnknownSpan()),
		"$false":   value.NewBool(false, value.UnknownSpan()),
		"$nothing": value.NewNothing(value.UnknownSpan()),
	}
	for w, want := range cases {
		got, err := wordLiteral(token{kind: tokWord, text: w})
		require.NoError(t, err, w)
		assert.True(t, value.Equal(want, got), "%s: got %#v", w, got)
	}
	for _, w := range []string{"foo", "-", "1xb", "$maybe"} {
		_, err := wordLiteral(token{kind: tokWord, text: w})
		assert.Error(t, err, w)
	}
}

func TestParseLongestPrefix(t *testing.T) {
	reg := commands.Default()
	p, err := Parse(reg, "[1, 'x'] | into binary size name.0")
	require.NoError(t, err)

	list, ok := p.Input.(value.List)
	require.True(t, ok)
	assert.Len(t, list.Vals, 2)
	assert.Equal(t, value.Span{Start: 0, End: 8}, list.Src)

	require.Len(t, p.Stages, 1)
	st := p.Stages[0]
	assert.Equal(t, "into binary", st.Cmd.Name())
	assert.Equal(t, value.Span{Start: 11, End: 22}, st.Call.Head)
	require.Len(t, st.Call.Rest, 2)
	assert.Equal(t, "name.0", st.Call.Rest[1].String())
}

func TestParseErrors(t *testing.T) {
	reg := commands.Default()
	for _, line := range []string{
		"",
		"1 |",
		"1 | frobnicate",
		"date humanize extra",
		"[1, 2",
		"1 2 | into binary",
	} {
		_, err := Parse(reg, line)
		assert.Error(t, err, line)
	}
}

func TestEvalHeadInputIsNothing(t *testing.T) {
	v, err := EvalValue(context.Background(), commands.Default(), command.NewEngineState(), "date humanize")
	require.NoError(t, err)
	assert.Equal(t, "now", v.(value.String).Val)
}

func TestEvalListStreams(t *testing.T) {
	d, err := Eval(context.Background(), commands.Default(), command.NewEngineState(),
		"['ab', $nothing] | into binary")
	require.NoError(t, err)
	_, ok := d.(pipeline.ListStream)
	require.True(t, ok)

	got := pipeline.Collect(d).(value.List).Vals
	require.Len(t, got, 2)
	assert.Equal(t, []byte("ab"), got[0].(value.Binary).Val)
	assert.True(t, value.IsError(got[1]))
}

func TestEvalLiteralOnly(t *testing.T) {
	v, err := EvalValue(context.Background(), commands.Default(), command.NewEngineState(), "'plain'")
	require.NoError(t, err)
	assert.Equal(t, "plain", v.(value.String).Val)
}
