package ids

import (
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

// New returns a random UUID string for entity identifiers.
func New() string {
	return uuid.NewString()
}

// Parse validates that s is a well-formed UUID.
func Parse(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// NewRequestID returns a sortable id for request tracing.
func NewRequestID() string {
	return ksuid.New().String()
}
