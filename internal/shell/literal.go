package shell

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"valpipe/internal/value"
)

var sizeSuffixes = []string{
	"kib", "mib", "gib", "tib", "pib",
	"kb", "mb", "gb", "tb", "pb",
	"b",
}

// wordLiteral interprets a bare word as a scalar value.
func wordLiteral(t token) (value.Value, error) {
	w := t.text
	switch w {
	case "$true":
		return value.NewBool(true, t.span), nil
	case "$false":
		return value.NewBool(false, t.span), nil
	case "$nothing":
		return value.NewNothing(t.span), nil
	}
	if !looksNumeric(w) {
		return nil, fmt.Errorf("unrecognised literal %q at %d", w, t.span.Start)
	}
	if n, err := strconv.ParseInt(w, 10, 64); err == nil {
		return value.NewInt(n, t.span), nil
	}
	if f, err := strconv.ParseFloat(w, 64); err == nil {
		return value.NewFloat(f, t.span), nil
	}
	if n, ok, err := filesize(w); ok {
		if err != nil {
			return nil, fmt.Errorf("bad filesize %q: %w", w, err)
		}
		return value.NewFilesize(n, t.span), nil
	}
	return nil, fmt.Errorf("unrecognised literal %q at %d", w, t.span.Start)
}

func looksNumeric(w string) bool {
	if w == "" {
		return false
	}
	c := w[0]
	if c == '-' || c == '+' {
		if len(w) == 1 {
			return false
		}
		c = w[1]
	}
	return (c >= '0' && c <= '9') || c == '.'
}

// filesize parses words like 10kb, 4KiB and -2mb. ok reports whether w has
// a size suffix at all.
func filesize(w string) (n int64, ok bool, err error) {
	lower := strings.ToLower(w)
	for _, suf := range sizeSuffixes {
		if !strings.HasSuffix(lower, suf) {
			continue
		}
		num := strings.TrimSuffix(lower, suf)
		neg := strings.HasPrefix(num, "-")
		num = strings.TrimLeft(num, "+-")
		if num == "" {
			return 0, true, fmt.Errorf("missing number")
		}
		u, err := humanize.ParseBytes(num + suf)
		if err != nil {
			return 0, true, err
		}
		if u > math.MaxInt64 {
			return 0, true, fmt.Errorf("filesize out of range")
		}
		n = int64(u)
		if neg {
			n = -n
		}
		return n, true, nil
	}
	return 0, false, nil
}
