package util

import (
	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string. ulid.Make uses a cryptographically
// secure entropy source, which is sufficient for record identifiers here.
func NewULID() string {
	return ulid.Make().String()
}
