package common

import (
	"strings"

	"github.com/google/uuid"
)

// LocalIDPrefix marks identifiers synthesized on the client. Such records have
// never been acknowledged by the remote store.
const LocalIDPrefix = "local_"

// NewLocalID returns a random opaque identifier for a locally created record.
func NewLocalID() string {
	return LocalIDPrefix + uuid.NewString()
}

// IsLocalID reports whether id was produced by NewLocalID.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}
