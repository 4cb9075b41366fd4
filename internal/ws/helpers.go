package ws

import "github.com/google/uuid"

// newConnID mints an opaque per-connection identifier for log and event
// correlation.
func newConnID() string {
	return uuid.NewString()
}
