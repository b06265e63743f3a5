// Package session tracks the hierarchical menu flow: which menu each user is
// looking at, and the selection path their button presses accumulate.
package session

import (
	"strconv"
	"strings"
)

// Delimiter joins the tokens of a selection path.
const Delimiter = ":"

// StartToken is the sentinel that opens every selection path.
const StartToken = "/start"

// Path is a selection path: the user id, the start sentinel, then one token
// per menu selection, joined by Delimiter. A path is append-only; once a
// price token lands the path is closed and a fresh one begins.
//
// Example: "7196436554:/start:food:wheat:outside:custom:10"
type Path string

// NewPath opens a fresh path for the given user.
func NewPath(userID int64) Path {
	return Path(strconv.FormatInt(userID, 10) + Delimiter + StartToken)
}

// Append returns the path extended with one more token.
func (p Path) Append(token string) Path {
	return p + Path(Delimiter+token)
}

// Tokens splits the path into its elements.
func (p Path) Tokens() []string {
	return strings.Split(string(p), Delimiter)
}

// UserPrefix is the filter prefix matching every path of one user.
func UserPrefix(userID int64) string {
	return strconv.FormatInt(userID, 10) + Delimiter
}
