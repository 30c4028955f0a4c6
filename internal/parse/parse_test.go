package parse

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	testCases := []struct {
		name     string
		title    string
		expected string
	}{
		{name: "Plain title", title: "Ocean View", expected: "ocean-view"},
		{name: "Surrounding spaces", title: "  Garden Loft ", expected: "garden-loft"},
		{name: "Punctuation", title: "Suite 1, Deluxe!", expected: "suite-1-deluxe"},
		{name: "Cyrillic", title: "Нева", expected: "neva"},
		{name: "Empty", title: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Slug(tc.title)
			assert.Equal(t, tc.expected, got)
			if got != "" {
				assert.True(t, IsSlug(got))
			}
		})
	}
}

func TestSlug_Truncated(t *testing.T) {
	got := Slug(strings.Repeat("room ", 100))
	assert.LessOrEqual(t, len(got), SlugMaxLength)
	assert.False(t, strings.HasSuffix(got, "-"))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-01")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2025-06-01", FormatDate(d))

	for _, raw := range []string{"", "2025-13-01", "01.06.2025", "tomorrow"} {
		_, err := ParseDate(raw)
		assert.Error(t, err, raw)
	}
}

func TestDateOfAndNights(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	// 01:30 in Moscow is still the previous day in UTC.
	assert.Equal(t, time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), DateOf(time.Date(2025, 6, 1, 1, 30, 0, 0, moscow)))

	in := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 4, Nights(in, in.AddDate(0, 0, 4)))
	assert.Equal(t, 0, Nights(in, in))
	assert.Equal(t, 0, Nights(in, in.AddDate(0, 0, -3)))
}

func TestParsePage(t *testing.T) {
	testCases := []struct {
		raw       string
		expected  int
		expectErr bool
	}{
		{raw: "", expected: 1},
		{raw: "3", expected: 3},
		{raw: " 2 ", expected: 2},
		{raw: "0", expectErr: true},
		{raw: "-1", expectErr: true},
		{raw: "abc", expectErr: true},
	}

	for _, tc := range testCases {
		got, err := ParsePage(tc.raw)
		if tc.expectErr {
			assert.ErrorIs(t, err, ErrInvalidPage)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tc.expected, got)
	}
}
