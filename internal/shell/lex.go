package shell

import (
	"fmt"
	"strings"

	"valpipe/internal/value"
)

type tokenKind int

const (
	tokWord tokenKind = iota
	tokString
	tokPipe
	tokLBracket
	tokRBracket
	tokComma
)

type token struct {
	kind tokenKind
	text string
	span value.Span
}

// lex splits line into tokens. Quoted strings keep their unquoted text;
// double quotes understand backslash escapes.
func lex(line string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '|':
			toks = append(toks, token{kind: tokPipe, text: "|", span: value.Span{Start: i, End: i + 1}})
			i++
		case c == '[':
			toks = append(toks, token{kind: tokLBracket, text: "[", span: value.Span{Start: i, End: i + 1}})
			i++
		case c == ']':
			toks = append(toks, token{kind: tokRBracket, text: "]", span: value.Span{Start: i, End: i + 1}})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, text: ",", span: value.Span{Start: i, End: i + 1}})
			i++
		case c == '\'' || c == '"':
			text, end, err := lexQuoted(line, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokString, text: text, span: value.Span{Start: i, End: end}})
			i = end
		default:
			start := i
			for i < len(line) && !isDelim(line[i]) {
				i++
			}
			toks = append(toks, token{kind: tokWord, text: line[start:i], span: value.Span{Start: start, End: i}})
		}
	}
	return toks, nil
}

func isDelim(c byte) bool {
	return strings.IndexByte(" \t\r\n|[],'\"", c) >= 0
}

func lexQuoted(line string, start int) (string, int, error) {
	q := line[start]
	var b strings.Builder
	for i := start + 1; i < len(line); i++ {
		c := line[i]
		if c == q {
			return b.String(), i + 1, nil
		}
		if c == '\\' && q == '"' && i+1 < len(line) {
			i++
			switch line[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(line[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return "", 0, fmt.Errorf("unterminated string starting at offset %d", start)
}
