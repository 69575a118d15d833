// Package identity provides anonymous per-visitor session identifiers.
package identity

import (
	"math/rand/v2"
	"regexp"
	"strconv"
)

const (
	// SessionIDPrefix is prepended to every generated session id.
	SessionIDPrefix = "USER_"

	sessionIDMin = 235140
	sessionIDMax = 259140 // exclusive
)

var sessionIDPattern = regexp.MustCompile(`^USER_[0-9]{6}$`)

// NewSessionID returns a token of the form USER_<n> with n drawn uniformly
// from [235140, 259140). A nil r uses the global source.
func NewSessionID(r *rand.Rand) string {
	span := sessionIDMax - sessionIDMin
	var n int
	if r != nil {
		n = r.IntN(span)
	} else {
		n = rand.IntN(span)
	}
	return SessionIDPrefix + strconv.Itoa(sessionIDMin+n)
}

// IsValidSessionID reports whether id was produced by NewSessionID.
func IsValidSessionID(id string) bool {
	if !sessionIDPattern.MatchString(id) {
		return false
	}
	n, err := strconv.Atoi(id[len(SessionIDPrefix):])
	if err != nil {
		return false
	}
	return n >= sessionIDMin && n < sessionIDMax
}
