package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"valpipe/internal/value"
)

// DefaultParser accepts the formats dateparse recognises. Text without an
// explicit offset is read in the local zone.
type DefaultParser struct{}

func (DefaultParser) ParseDate(s string, span value.Span) (time.Time, error) {
	t, err := dateparse.ParseLocal(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &value.ShellError{
			Kind: value.DateParse,
			Msg:  fmt.Sprintf("date could not be parsed from %q", s),
			Span: span,
		}
	}
	return t, nil
}
