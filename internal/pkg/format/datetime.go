package format

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-status-console/internal/pkg/i18n"
)

// naiveLayouts are timestamps without an offset, read in the formatter's location.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// Formatter renders timestamps as a medium date followed by a short time,
// using the layout and meridiem words of a message catalog language.
type Formatter struct {
	lang     string
	layout   string
	am, pm   string
	location *time.Location
}

// New creates a Formatter for the language of messages. A nil location
// means time.Local.
func New(messages i18n.Localizer, location *time.Location) *Formatter {
	if location == nil {
		location = time.Local
	}
	return &Formatter{
		lang:     messages.Language(),
		layout:   messages.Message(i18n.TimeLayout),
		am:       messages.Message(i18n.TimeAM),
		pm:       messages.Message(i18n.TimePM),
		location: location,
	}
}

// Language returns the base language of the catalog ("ko" or "en").
func (f *Formatter) Language() string {
	return f.lang
}

// DateTime formats an API timestamp. Empty input yields "" and input that
// cannot be parsed is returned unchanged.
func (f *Formatter) DateTime(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	t, ok := f.parse(value)
	if !ok {
		return value
	}
	return f.Time(t)
}

// DateTimePtr is DateTime for optional timestamps.
func (f *Formatter) DateTimePtr(value *string) string {
	if value == nil {
		return ""
	}
	return f.DateTime(*value)
}

// Time formats t in the formatter's location.
func (f *Formatter) Time(t time.Time) string {
	t = t.In(f.location)
	meridiem, word := "AM", f.am
	if t.Hour() >= 12 {
		meridiem, word = "PM", f.pm
	}
	return strings.Replace(t.Format(f.layout), meridiem, word, 1)
}

func (f *Formatter) parse(value string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, true
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, f.location); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
