// Package domain contains entity without logic, just meta-data
package domain

import (
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxUserIDLen   = 64
	MaxUsernameLen = 64

	defaultNamePrefix = "User "
	defaultNameIDLen  = 8
)

type UserID string

// User is the identity a connection declares on create-room or join.
// Immutable once bound to a connection.
type User struct {
	ID       UserID `json:"userId"`
	Username string `json:"username"`
}

// NewUser builds a User from the optional wire fields, generating a random
// id and a derived display name when they are absent.
func NewUser(id, username string) User {
	if id == "" {
		id = uuid.NewString()
	}
	id = truncate(id, MaxUserIDLen)
	if username == "" {
		short := id
		if len(short) > defaultNameIDLen {
			short = short[:defaultNameIDLen]
		}
		username = defaultNamePrefix + short
	}
	return User{ID: UserID(id), Username: truncate(username, MaxUsernameLen)}
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	s = s[:max]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
