// Package datetime renders timestamps as relative-time phrases.
package datetime

import (
	"fmt"
	"math"
	"time"

	"valpipe/internal/value"
)

// Parser turns free-form date text into a timestamp. Failures should be a
// *value.ShellError so they can be forwarded unchanged.
type Parser interface {
	ParseDate(s string, span value.Span) (time.Time, error)
}

// Humanizer produces relative-time phrases against its clock.
type Humanizer struct {
	Now    func() time.Time
	Parser Parser
}

// New returns a Humanizer on the local wall clock and the default parser.
func New() *Humanizer {
	return &Humanizer{Now: time.Now, Parser: DefaultParser{}}
}

// Helper maps Nothing, String and Date inputs to a String phrase spanning
// head. String inputs that fail to parse yield the parser's error value.
func (h *Humanizer) Helper(v value.Value, head value.Span) value.Value {
	switch x := v.(type) {
	case value.Nothing:
		now := h.now()
		return value.NewString(Humanize(now, now), head)
	case value.String:
		t, err := h.parser().ParseDate(x.Val, x.Src)
		if err != nil {
			return value.FromError(err, x.Src)
		}
		return value.NewString(Humanize(t, h.now()), head)
	case value.Date:
		return value.NewString(Humanize(x.Val, h.now()), head)
	}
	return value.NewError(value.UnsupportedInput,
		"Date cannot be parsed / date format is not supported", head)
}

func (h *Humanizer) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func (h *Humanizer) parser() Parser {
	if h.Parser == nil {
		return DefaultParser{}
	}
	return h.Parser
}

const (
	minute = 60
	hour   = 60 * minute
	day    = 24 * hour
	month  = 30 * day
	year   = 365 * day
)

// Humanize phrases t relative to now, e.g. "now", "in 3 days" or
// "2 hours ago".
func Humanize(t, now time.Time) string {
	d := t.Sub(now)
	secs := math.Round(math.Abs(d.Seconds()))

	var period string
	switch {
	case secs <= 10:
		return "now"
	case secs < 45:
		period = fmt.Sprintf("%d seconds", int64(secs))
	case secs < 90:
		period = "a minute"
	case secs < 45*minute:
		period = plural(secs, minute, "minutes")
	case secs < 90*minute:
		period = "an hour"
	case secs < 22*hour:
		period = plural(secs, hour, "hours")
	case secs < 36*hour:
		period = "a day"
	case secs < 26*day:
		period = plural(secs, day, "days")
	case secs < 45*day:
		period = "a month"
	case secs < 320*day:
		period = plural(secs, month, "months")
	case secs < 548*day:
		period = "a year"
	default:
		period = plural(secs, year, "years")
	}

	if d > 0 {
		return "in " + period
	}
	return period + " ago"
}

func plural(secs, unit float64, name string) string {
	return fmt.Sprintf("%d %s", int64(math.Round(secs/unit)), name)
}
