package guest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPassword(t *testing.T) {
	attrs := []Attribute{
		{Name: "email address", Value: "oceanview@example.com"},
		{Name: "first name", Value: "Ann"},
	}

	tests := []struct {
		name     string
		password string
		want     []string
	}{
		{"strong", strongPassword, nil},
		{"short", "Zq9!x", []string{"This password is too short. It must contain at least 8 characters."}},
		{"common", "PASSWORD", []string{"This password is too common."}},
		{"numeric", "90817263", []string{"This password is entirely numeric."}},
		{"similar to email", "oceanview1", []string{"The password is too similar to the email address."}},
		{"too long", strings.Repeat("Zq9!x", 15), []string{"This password is too long. It must contain at most 72 bytes."}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CheckPassword(tc.password, attrs...))
		})
	}
}

func TestQuickRatio(t *testing.T) {
	assert.Equal(t, 1.0, quickRatio("abc", "cba"))
	assert.Equal(t, 0.0, quickRatio("abc", "xyz"))
	assert.InDelta(t, 0.5, quickRatio("ab", "ac"), 1e-9)
}
