package harness

import "fmt"

// State is the runner's position in a plan.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateReported
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateReported:
		return "reported"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var transitions = map[State][]State{
	StateIdle:     {StateRunning, StateDone},
	StateRunning:  {StateReported},
	StateReported: {StateIdle},
	StateDone:     {StateIdle},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
