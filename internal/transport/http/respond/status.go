// Package respond holds the status-code policy shared by handlers and
// middleware.
package respond

import "net/http"

// StatusMode selects how ownership and lookup failures map to HTTP codes.
// Legacy keeps the codes existing clients were built against.
type StatusMode string

const (
	Legacy       StatusMode = "legacy"
	Conventional StatusMode = "conventional"
)

// ParseStatusMode returns Conventional for "conventional" and Legacy for
// anything else.
func ParseStatusMode(s string) StatusMode {
	if s == string(Conventional) {
		return Conventional
	}
	return Legacy
}

// Forbidden is the status for an authenticated caller touching a note
// they do not own.
func (m StatusMode) Forbidden() int {
	if m == Conventional {
		return http.StatusForbidden
	}
	return http.StatusUnauthorized
}

// NoteNotFound is the status for update/delete of a missing note.
func (m StatusMode) NoteNotFound() int {
	if m == Conventional {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// UnknownUser is the status when a valid token names a user that no
// longer exists.
func (m StatusMode) UnknownUser() int {
	if m == Conventional {
		return http.StatusUnauthorized
	}
	return http.StatusNotFound
}
