package engine

import "github.com/dmitrijs2005/talentscout/internal/models"

// State is the externally visible label of a session phase.
type State string

const (
	StateGreeting           State = "greeting"
	StateCollectingInfo     State = "collecting_info"
	StateTechTransition     State = "tech_transition"
	StateTechnicalQuestions State = "technical_questions"
	StateEnded              State = "ended"
	StateClosed             State = "closed"
)

// phase is the tagged session state. Each variant carries only the data
// that is meaningful while the session is in it.
type phase interface {
	state() State
}

type greeting struct{}

type collecting struct {
	awaiting models.Field
}

type transition struct{}

type questioning struct {
	questions []string
	index     int
}

type ended struct{}

type closed struct{}

func (greeting) state() State    { return StateGreeting }
func (collecting) state() State  { return StateCollectingInfo }
func (transition) state() State  { return StateTechTransition }
func (questioning) state() State { return StateTechnicalQuestions }
func (ended) state() State       { return StateEnded }
func (closed) state() State      { return StateClosed }

func (q questioning) current() string { return q.questions[q.index] }
