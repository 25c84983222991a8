package service

import "strings"

// NormalizePhone converts a raw phone number to canonical international
// form: separators removed, "00" prefix rewritten to "+", and a bare local
// number ("0...") prefixed with the default country code.  Users type
// numbers every which way; memberships and logins match on this form.
func NormalizePhone(raw, defaultCountryCode string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, c := range s {
		switch c {
		case ' ', '-', '(', ')':
			continue
		}
		b.WriteRune(c)
	}
	s = b.String()

	switch {
	case strings.HasPrefix(s, "00"):
		s = "+" + s[2:]
	case strings.HasPrefix(s, "+"):
		// already international
	case strings.HasPrefix(s, "0"):
		s = defaultCountryCode + s[1:]
	}

	return s
}
