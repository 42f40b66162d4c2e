package format

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-status-console/internal/pkg/i18n"
	"github.com/stretchr/testify/assert"
)

var catalog = i18n.MustLoad()

func seoul(t *testing.T) *time.Location {
	t.Helper()
	return time.FixedZone("KST", 9*60*60)
}

func TestFormatter_DateTime_Korean(t *testing.T) {
	f := New(catalog.For("ko-KR"), seoul(t))

	cases := []struct {
		input string
		want  string
	}{
		{"2024-05-01T09:30:00", "2024. 5. 1. 오전 9:30"},
		{"2024-05-01T09:30:00.123456", "2024. 5. 1. 오전 9:30"},
		{"2024-12-31T23:05:59", "2024. 12. 31. 오후 11:05"},
		{"2024-01-02T00:15:00", "2024. 1. 2. 오전 12:15"},
		{"2024-01-02T12:00:00", "2024. 1. 2. 오후 12:00"},
		{"2024-05-01T00:30:00Z", "2024. 5. 1. 오전 9:30"},
		{"2024-05-01 18:45:00", "2024. 5. 1. 오후 6:45"},
	}
	for _, c := range cases {
		got := f.DateTime(c.input)
		if got != c.want {
			t.Errorf("DateTime(%q) = %q, want %q", c.input, got, c.want)
		}
	}
}

func TestFormatter_DateTime_English(t *testing.T) {
	f := New(catalog.For("en-US"), time.UTC)

	assert.Equal(t, "en", f.Language())
	assert.Equal(t, "May 1, 2024, 9:30 AM", f.DateTime("2024-05-01T09:30:00"))
	assert.Equal(t, "Dec 31, 2024, 11:05 PM", f.DateTime("2024-12-31T23:05:00+00:00"))
}

func TestFormatter_DateTime_EmptyAndInvalid(t *testing.T) {
	f := New(catalog.For("ko-KR"), time.UTC)

	assert.Equal(t, "", f.DateTime(""))
	assert.Equal(t, "", f.DateTime("   "))
	assert.Equal(t, "not a date", f.DateTime("not a date"))
	assert.Equal(t, "", f.DateTimePtr(nil))
}

func TestFormatter_FollowsCatalogLanguage(t *testing.T) {
	for _, locale := range []string{"", "ko-KR", "en", "en-US", "en-GB", "fr", "fr-FR", "xx", "not a locale"} {
		messages := catalog.For(locale)
		assert.Equal(t, messages.Language(), New(messages, nil).Language(), "locale %q", locale)
	}
	// Locales without a bundle use the default language's layout.
	assert.Equal(t, "2024. 5. 1. 오후 1:00", New(catalog.For("fr-FR"), time.UTC).DateTime("2024-05-01T13:00:00Z"))
}

func TestFormatter_Time_MeridiemOnly(t *testing.T) {
	f := New(catalog.For("en"), time.UTC)

	assert.Equal(t, "Mar 3, 2024, 12:00 AM", f.Time(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)), "month names are left alone")
	assert.Equal(t, "May 3, 2024, 12:01 PM", f.Time(time.Date(2024, 5, 3, 12, 1, 0, 0, time.UTC)))
}
