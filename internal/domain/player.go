// Package domain holds the lobby server's entities and the validation
// rules for user-supplied values. No transport or lifecycle logic here.
package domain

import (
	"errors"
	"strings"
)

const MaxNameLen = 36

var (
	ErrNameEmpty   = errors.New("name empty")
	ErrNameTooLong = errors.New("name too long")
)

// ValidateName trims surrounding whitespace and rejects names that are
// empty afterwards or over MaxNameLen. Returns the trimmed name.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameEmpty
	}
	if len(name) > MaxNameLen {
		return "", ErrNameTooLong
	}
	return name, nil
}
