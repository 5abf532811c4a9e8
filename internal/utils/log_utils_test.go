package utils_test

import (
	"strings"
	"testing"

	"github.com/conflab/roomsvc/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeLogString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty", "", ""},
		{"Plain", "room-42", "room-42"},
		{"Newlines", "room\ninjected", "room injected"},
		{"CRLF", "a\r\nb", "a b"},
		{"FormatSpecifier", "100%", "100%%"},
		{"Tabs", "a\tb", "a b"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, utils.SanitizeLogString(tc.input))
		})
	}
}

func TestSanitizeLogStringTruncates(t *testing.T) {
	input := strings.Repeat("a", utils.MaxLogStringLength+50)
	out := utils.SanitizeLogString(input)
	assert.True(t, strings.HasSuffix(out, "... (truncated)"))
	assert.LessOrEqual(t, len(out), utils.MaxLogStringLength+len("... (truncated)"))
}
