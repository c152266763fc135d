package component

import "github.com/milk9111/villagesim/fsm"

// FSMState stores the one task state an agent is in. Replacing State is the
// state-tag swap: there is never more than one.
type FSMState struct {
	State fsm.State
}

// PendingDecision is the decision produced for an agent this tick. The
// transition system consumes it and resets it to Continue.
type PendingDecision struct {
	Decision fsm.Decision
}

var FSMStateComponent = NewComponent[FSMState]()
var PendingDecisionComponent = NewComponent[PendingDecision]()
