// FILE: lixenwraith/logsink/sanitizer/sanitizer_test.go
package sanitizer

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizer(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		policy   PolicyPreset
		expected string
	}{
		{
			name:     "raw passes through",
			input:    "hello\x00world\n",
			policy:   PolicyRaw,
			expected: "hello\x00world\n",
		},
		{
			name:     "path replaces null byte",
			input:    "/var/log\x00/app",
			policy:   PolicyPath,
			expected: "/var/log_/app",
		},
		{
			name:     "path replaces control chars",
			input:    "logs\x07\tdir",
			policy:   PolicyPath,
			expected: "logs__dir",
		},
		{
			name:     "path preserves separators and UTF-8",
			input:    "/tmp/日誌/app logs",
			policy:   PolicyPath,
			expected: "/tmp/日誌/app logs",
		},
		{
			name:     "line replaces breaks",
			input:    "first\nsecond\r",
			policy:   PolicyLine,
			expected: "first_second_",
		},
		{
			name:     "line hex encodes other non-printables",
			input:    "bell\x07",
			policy:   PolicyLine,
			expected: "bell<07>",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := New().Policy(tc.policy)
			assert.Equal(t, tc.expected, s.Sanitize(tc.input))
		})
	}
}

func TestSanitizerWindowsReserved(t *testing.T) {
	s := New().Policy(PolicyPath)
	input := `C:\logs\a<b>|c`
	if runtime.GOOS == "windows" {
		assert.Equal(t, `C:\logs\a_b__c`, s.Sanitize(input))
	} else {
		assert.Equal(t, input, s.Sanitize(input))
	}
}

func TestSanitizerCustomRules(t *testing.T) {
	t.Run("first rule wins", func(t *testing.T) {
		s := New().
			Rule(FilterControl, TransformStrip).
			Rule(FilterNonPrintable, TransformHexEncode)
		assert.Equal(t, "ab", s.Sanitize("a\x01b"))
	})

	t.Run("changed detection", func(t *testing.T) {
		s := New().Policy(PolicyPath)
		assert.False(t, s.Changed("/clean/path"))
		assert.True(t, s.Changed("/dirty\x00/path"))
	})

	t.Run("buffer reuse", func(t *testing.T) {
		s := New().Policy(PolicyPath)
		assert.Equal(t, "a_", s.Sanitize("a\x00"))
		assert.Equal(t, "b", s.Sanitize("b"))
	})
}
