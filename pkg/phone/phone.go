// Package phone canonicalizes Indian mobile numbers. Every store keyed by a
// phone number goes through Normalize, so two renderings of the same number
// can never land on different keys.
package phone

import (
	"errors"
	"strings"
)

var ErrInvalidNumber = errors.New("invalid phone number")

const defaultCountryCode = "91"

// Normalize strips formatting and returns the canonical digit string. A bare
// 10-digit subscriber number gets the default country code; anything already
// carrying a plausible country code passes through as digits.
func Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 10:
		return defaultCountryCode + digits, nil
	case len(digits) >= 11 && len(digits) <= 15:
		return digits, nil
	default:
		return "", ErrInvalidNumber
	}
}

// Display renders a canonical number for humans and SMS gateways.
func Display(canonical string) string {
	return "+" + canonical
}
