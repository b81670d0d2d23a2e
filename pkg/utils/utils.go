package utils

import (
	"strconv"
	"strings"
)

// HasLetter returns true if s contains at least one ASCII letter (a-zA-Z)
func HasLetter(s string) bool {
	for _, r := range s {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			return true
		}
	}
	return false
}

// HasNumber returns true if s contains at least one ASCII digit (0-9)
func HasNumber(s string) bool {
	for _, r := range s {
		if '0' <= r && r <= '9' {
			return true
		}
	}
	return false
}

// maxPasswordBytes matches the bcrypt input limit.
const maxPasswordBytes = 72

// PasswordProblem describes why password is unacceptable, or returns "".
func PasswordProblem(password string) string {
	if len(password) > maxPasswordBytes {
		return "Password must be at most 72 characters"
	}
	if !HasLetter(password) || !HasNumber(password) {
		return "Password must contain at least one letter and one number"
	}
	return ""
}

// ParseID parses a positive decimal id such as a route parameter.
func ParseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
