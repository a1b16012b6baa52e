package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "simple", input: "ink@example.com", expected: "i***@example.com"},
		{name: "single char local", input: "a@b.co", expected: "a***@b.co"},
		{name: "padded", input: "  ink@example.com ", expected: "i***@example.com"},
		{name: "no at sign", input: "not-an-email", expected: "***"},
		{name: "leading at", input: "@example.com", expected: "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskEmail(tt.input))
		})
	}
}

func TestStripEmails(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "no emails", input: "a koi fish on the forearm", expected: "a koi fish on the forearm"},
		{name: "one email", input: "mail me at ink@example.com please", expected: "mail me at i***@example.com please"},
		{name: "two emails", input: "a@b.co and c@d.io", expected: "a***@b.co and c***@d.io"},
		{name: "bare at sign", input: "meet @ noon", expected: "meet @ noon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripEmails(tt.input))
		})
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "reach x***@y.com", Clean("  reach xyz@y.com \n"))
}
