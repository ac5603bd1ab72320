// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// NormalizePhone strips the formatting clients type into phone fields
// (spaces, dashes, parentheses) so the stored number is dialable as-is.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, phone)
}

// ValidatePhone reports whether the number, once normalized, is a plausible
// phone: an optional + followed by up to 15 digits, no leading zero.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}

// IsWhatsAppCapable reports whether the number can be routed over WhatsApp,
// which needs a full international +-prefixed number.
func IsWhatsAppCapable(phone string) bool {
	return strings.HasPrefix(NormalizePhone(phone), "+")
}
