// Package phone normalizes user-entered Indonesian phone numbers into E.164
// form. Normalization is total: any input yields some canonical string, and
// validity is a separate check applied at the call site.
package phone

import (
	"regexp"
	"strings"
)

var (
	nonDigits = regexp.MustCompile(`\D`)
	// Indonesian mobile numbers: +628 then 7 to 12 further digits, first non-zero.
	mobilePattern = regexp.MustCompile(`^\+628[1-9][0-9]{6,11}$`)
)

// Normalize strips all non-digit characters and leading zeros, then prefixes
// the country code: digits already starting with 62 get a bare "+", anything
// else is assumed to be a local number missing its country code and gets "+62".
func Normalize(raw string) string {
	cleaned := nonDigits.ReplaceAllString(raw, "")
	cleaned = strings.TrimLeft(cleaned, "0")

	if strings.HasPrefix(cleaned, "62") {
		return "+" + cleaned
	}
	return "+62" + cleaned
}

// IsValidMobile reports whether canonical is a plausible Indonesian mobile
// number in normalized form.
func IsValidMobile(canonical string) bool {
	return mobilePattern.MatchString(canonical)
}

// FormatForDisplay renders a normalized number with spacing for UI use,
// e.g. +62 812 345 678 901. Numbers that don't match the expected shapes are
// returned normalized but unspaced.
func FormatForDisplay(raw string) string {
	if raw == "" {
		return ""
	}
	normalized := Normalize(raw)

	if m := regexp.MustCompile(`^\+62(8\d{2})(\d{3})(\d{3})(\d{3})$`).FindStringSubmatch(normalized); m != nil {
		return "+62 " + m[1] + " " + m[2] + " " + m[3] + " " + m[4]
	}
	if m := regexp.MustCompile(`^\+62(8\d{2})(\d{3})(\d{4})$`).FindStringSubmatch(normalized); m != nil {
		return "+62 " + m[1] + " " + m[2] + " " + m[3]
	}
	return normalized
}
