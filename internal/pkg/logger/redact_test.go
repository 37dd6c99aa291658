package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"john.doe@example.com", "jo***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"not-an-email", "***@***"},
		{"", "***@***"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, RedactEmail(tt.in))
	}
}

func TestRedactPhone(t *testing.T) {
	assert.Equal(t, "*******567", RedactPhone("5551234567"))
	assert.Equal(t, "***", RedactPhone("12"))
}

func TestRedactPIIValue(t *testing.T) {
	assert.Equal(t, "ja***@x.com", redactPIIValue("email", "jane@x.com"))
	assert.Equal(t, "****567", redactPIIValue("phone", "5551567"))
	// Emails embedded in generic fields are still masked
	assert.Equal(t, "contact ja***@x.com now", redactPIIValue("note", "contact jane@x.com now"))
}
