package testutil

// DefaultRunID is returned by a FixedRunID constructed with an empty id.
const DefaultRunID = "run-00000000-0000-0000-0000-000000000000"

// FixedRunID hands out the same run id every time so golden snapshots are
// byte-identical across runs.
type FixedRunID struct {
	id string
}

// NewFixedRunID creates a generator for id, or DefaultRunID when id is empty.
func NewFixedRunID(id string) *FixedRunID {
	if id == "" {
		id = DefaultRunID
	}
	return &FixedRunID{id: id}
}

// Generate returns the fixed id.
func (g *FixedRunID) Generate() string {
	return g.id
}
