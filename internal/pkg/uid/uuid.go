package uid

import "github.com/google/uuid"

// UUID mints correlation ids for requests and consumed events that arrive
// without one. v7 ids sort by creation time.
type UUID struct{}

func NewUUID() *UUID { return &UUID{} }

// Generate falls back to a random v4 id if the v7 clock read fails.
func (*UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
