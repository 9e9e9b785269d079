package harness

import (
	"fmt"

	"go.uber.org/zap"
)

// State is a phase of a run. A run moves through the states strictly in
// order and never goes back.
type State int

const (
	Configuring State = iota
	Running
	Joining
	Reporting
	Done
)

var stateNames = [...]string{
	Configuring: "Configuring",
	Running:     "Running",
	Joining:     "Joining",
	Reporting:   "Reporting",
	Done:        "Done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// machine tracks the current state of one run.
type machine struct {
	state State
	log   *zap.Logger
}

// advance moves to the next state. Skipping or repeating a state is a bug
// in the driver, not a runtime condition.
func (m *machine) advance(to State) {
	if to != m.state+1 {
		panic(fmt.Sprintf("harness: illegal transition %s -> %s", m.state, to))
	}
	m.log.Debug("state", zap.Stringer("from", m.state), zap.Stringer("to", to))
	m.state = to
}

// finish jumps to Done from any state, used when a run aborts.
func (m *machine) finish() {
	if m.state == Done {
		return
	}
	m.log.Debug("state", zap.Stringer("from", m.state), zap.Stringer("to", Done), zap.Bool("aborted", true))
	m.state = Done
}
