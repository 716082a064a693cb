// Package shell evaluates single pipeline lines such as
// `'2021-10-22' | date humanize` against a command registry.
package shell

import (
	"errors"
	"fmt"
	"strings"

	"valpipe/internal/command"
	"valpipe/internal/value"
)

var ErrEmpty = errors.New("empty pipeline")

// Stage is one resolved command invocation.
type Stage struct {
	Cmd  command.Command
	Call command.Call
}

// Pipeline is a parsed line. Input is nil when the line starts with a
// command.
type Pipeline struct {
	Input  value.Value
	Stages []Stage
}

// Parse resolves line against reg. Command names are matched by the
// longest run of leading words that is registered; the words after it
// become cell-path arguments.
func Parse(reg *command.Registry, line string) (*Pipeline, error) {
	toks, err := lex(line)
	if err != nil {
		return nil, err
	}
	segs := splitPipes(toks)
	if len(segs) == 1 && len(segs[0]) == 0 {
		return nil, ErrEmpty
	}

	p := &Pipeline{}
	for i, seg := range segs {
		if len(seg) == 0 {
			return nil, fmt.Errorf("empty pipeline element %d", i+1)
		}
		st, ok, err := parseStage(reg, seg)
		if err != nil {
			return nil, err
		}
		if ok {
			p.Stages = append(p.Stages, st)
			continue
		}
		if i > 0 {
			return nil, fmt.Errorf("unknown command %q", seg[0].text)
		}
		v, rest, err := parseLiteral(seg)
		if err != nil {
			return nil, err
		}
		if len(rest) > 0 {
			return nil, fmt.Errorf("unexpected %q at %d", rest[0].text, rest[0].span.Start)
		}
		p.Input = v
	}
	return p, nil
}

func splitPipes(toks []token) [][]token {
	segs := [][]token{nil}
	for _, t := range toks {
		if t.kind == tokPipe {
			segs = append(segs, nil)
			continue
		}
		segs[len(segs)-1] = append(segs[len(segs)-1], t)
	}
	return segs
}

func parseStage(reg *command.Registry, seg []token) (Stage, bool, error) {
	n := 0
	for n < len(seg) && seg[n].kind == tokWord {
		n++
	}
	for k := n; k > 0; k-- {
		words := make([]string, k)
		for i := range words {
			words[i] = seg[i].text
		}
		cmd, ok := reg.Lookup(strings.Join(words, " "))
		if !ok {
			continue
		}
		call := command.Call{Head: value.Span{Start: seg[0].span.Start, End: seg[k-1].span.End}}
		for _, t := range seg[k:] {
			if t.kind != tokWord && t.kind != tokString {
				return Stage{}, false, fmt.Errorf("%s: unexpected %q at %d", cmd.Name(), t.text, t.span.Start)
			}
			call.Rest = append(call.Rest, value.ParseCellPath(t.text, t.span))
		}
		if err := command.Check(cmd, &call); err != nil {
			return Stage{}, false, err
		}
		return Stage{Cmd: cmd, Call: call}, true, nil
	}
	return Stage{}, false, nil
}

// parseLiteral reads one value from the front of toks.
func parseLiteral(toks []token) (value.Value, []token, error) {
	t := toks[0]
	switch t.kind {
	case tokString:
		return value.NewString(t.text, t.span), toks[1:], nil
	case tokWord:
		v, err := wordLiteral(t)
		return v, toks[1:], err
	case tokLBracket:
		return parseList(toks)
	}
	return nil, nil, fmt.Errorf("unexpected %q at %d", t.text, t.span.Start)
}

func parseList(toks []token) (value.Value, []token, error) {
	open := toks[0]
	rest := toks[1:]
	vals := []value.Value{}
	for len(rest) > 0 {
		switch rest[0].kind {
		case tokRBracket:
			span := value.Span{Start: open.span.Start, End: rest[0].span.End}
			return value.NewList(vals, span), rest[1:], nil
		case tokComma:
			rest = rest[1:]
			continue
		}
		v, r, err := parseLiteral(rest)
		if err != nil {
			return nil, nil, err
		}
		vals = append(vals, v)
		rest = r
	}
	return nil, nil, fmt.Errorf("unclosed list starting at %d", open.span.Start)
}
