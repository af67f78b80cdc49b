// internal/app/system/normalize/normalize.go
//
// Package normalize canonicalizes user-supplied identity fields before
// they are stored or compared. Keeping the rules in one place means a
// username typed as "  Alice " and "alice" never end up as two
// different corpus directories.
package normalize

import "strings"

// Username trims surrounding whitespace. Case is preserved: usernames
// name corpus directories and lookups compare them exactly.
func Username(s string) string {
	return strings.TrimSpace(s)
}

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving its case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role uppercases and trims a role string so it can be compared against
// the role constants.
func Role(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Status lowercases and trims a lifecycle status.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a free-form query parameter, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
