package analysis

import (
	"fmt"
	"slices"

	"github.com/killallgit/minewatch-api/internal/models"
)

// transitions lists the legal successor states. Every non-terminal state may
// also move to failed.
var transitions = map[string][]string{
	models.RunStateInit:            {models.RunStateFilenameCheck},
	models.RunStateFilenameCheck:   {models.RunStateFilenameDerived, models.RunStateFrameSampling, models.RunStateClassify},
	models.RunStateFilenameDerived: {models.RunStateRecorded},
	models.RunStateFrameSampling:   {models.RunStateClassify},
	models.RunStateClassify:        {models.RunStateRecorded},
	models.RunStateRecorded:        {models.RunStateDone},
}

func isTerminal(state string) bool {
	return state == models.RunStateDone || state == models.RunStateFailed
}

func canTransition(from, to string) bool {
	if isTerminal(from) {
		return false
	}
	if to == models.RunStateFailed {
		return true
	}
	return slices.Contains(transitions[from], to)
}

// machine tracks the state of one run and the history of visited states
type machine struct {
	state   string
	history []string
}

func newMachine() *machine {
	return &machine{state: models.RunStateInit, history: []string{models.RunStateInit}}
}

func (m *machine) to(next string) error {
	if !canTransition(m.state, next) {
		return fmt.Errorf("illegal run transition %s -> %s", m.state, next)
	}
	m.state = next
	m.history = append(m.history, next)
	return nil
}
