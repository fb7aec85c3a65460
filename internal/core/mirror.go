package core

import (
	"sync"

	"github.com/sceneweave/sceneweave/internal/models"
)

// StateMirror resolves which agent snapshot the display layer should
// see. The agent clears its working state mid-turn, so an empty
// snapshot while it is still running must not blank out a previously
// populated view; the last-known-good snapshot is served instead.
type StateMirror struct {
	mu        sync.Mutex
	lastValid models.AgentState
	hasValid  bool
}

func NewStateMirror() *StateMirror {
	return &StateMirror{}
}

// Resolve computes the display snapshot from the latest agent snapshot
// and the running flag. lastValid is only ever overwritten by non-empty
// snapshots.
func (m *StateMirror) Resolve(latest models.AgentState, running bool) models.AgentState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if latest.HasArtifacts() {
		m.lastValid = latest
		m.hasValid = true
		return latest
	}

	// Stale-read fallback: mid-turn the agent may momentarily report an
	// empty state; keep showing the last populated snapshot until it
	// goes idle or sends real data again.
	if running && m.hasValid && m.lastValid.HasArtifacts() {
		return m.lastValid
	}

	return latest
}

// LastValid returns the remembered snapshot, for diagnostics.
func (m *StateMirror) LastValid() (models.AgentState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastValid, m.hasValid
}
