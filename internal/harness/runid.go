package harness

import "github.com/google/uuid"

// RunIDGenerator supplies the id a run is registered under.
type RunIDGenerator interface {
	Generate() string
}

// UUIDRunIDs issues time-ordered UUIDv7 run ids.
type UUIDRunIDs struct{}

// Generate returns "run-" followed by a UUIDv7.
func (UUIDRunIDs) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "run-" + uuid.NewString()
	}
	return "run-" + id.String()
}
