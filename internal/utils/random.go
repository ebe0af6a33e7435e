package utils

import (
	"github.com/google/uuid"
)

// NewRandomID returns a new unique id. Used for interview ids, etags and
// scratch-dir namespaces.
func NewRandomID() string {
	return uuid.NewString()
}

// IsValidID reports whether the given string is an id we could have minted.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
