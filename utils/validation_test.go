package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+15551234567", NormalizePhone("+1 (555) 123-4567"))
	assert.Equal(t, "600123456", NormalizePhone("600 12 34 56"))
	assert.Equal(t, "+34600123456", NormalizePhone("+34600123456"))
	assert.Equal(t, "", NormalizePhone(" - () "))
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"+34600123456", "600123456", "+1 (555) 123-4567"}
	for _, p := range valid {
		assert.True(t, ValidatePhone(p), "expected %q to be valid", p)
	}

	invalid := []string{"", "abc", "+", "0012"}
	for _, p := range invalid {
		assert.False(t, ValidatePhone(p), "expected %q to be invalid", p)
	}
}

func TestIsWhatsAppCapable(t *testing.T) {
	assert.True(t, IsWhatsAppCapable("+34600123456"))
	assert.True(t, IsWhatsAppCapable(" +1 (555) 123-4567"))
	assert.False(t, IsWhatsAppCapable("600123456"))
	assert.False(t, IsWhatsAppCapable(""))
}
