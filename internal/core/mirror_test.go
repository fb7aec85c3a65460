package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sceneweave/sceneweave/internal/models"
)

func populatedState() models.AgentState {
	return models.AgentState{
		Characters: []models.Character{
			{ID: "c1", Name: "Warrior", Description: "A fierce warrior"},
		},
		Backgrounds: []models.Background{
			{ID: "b1", Name: "Harbor", Description: "A foggy harbor"},
		},
	}
}

func TestResolveNonEmptySnapshotWins(t *testing.T) {
	m := NewStateMirror()
	st := populatedState()

	// Non-empty snapshots pass through regardless of running flag
	assert.Equal(t, st, m.Resolve(st, false))
	assert.Equal(t, st, m.Resolve(st, true))

	last, ok := m.LastValid()
	assert.True(t, ok)
	assert.Equal(t, st, last)
}

func TestResolveEmptyWhileRunningFallsBack(t *testing.T) {
	m := NewStateMirror()
	st := populatedState()
	m.Resolve(st, true)

	// Mid-turn the agent clears its working state; the view must not blank
	got := m.Resolve(models.AgentState{}, true)
	assert.Equal(t, st, got)
}

func TestResolveEmptyWhileIdleRegresses(t *testing.T) {
	m := NewStateMirror()
	m.Resolve(populatedState(), true)

	// Once idle, an empty snapshot is authoritative
	got := m.Resolve(models.AgentState{}, false)
	assert.False(t, got.HasArtifacts())
}

func TestResolveEmptyWithoutHistory(t *testing.T) {
	m := NewStateMirror()

	got := m.Resolve(models.AgentState{}, true)
	assert.False(t, got.HasArtifacts())
}

func TestResolveNewDataReplacesLastValid(t *testing.T) {
	m := NewStateMirror()
	first := populatedState()
	m.Resolve(first, true)

	second := models.AgentState{
		Scenes: []models.Scene{{ID: "s1", Name: "Dawn Patrol"}},
	}
	assert.Equal(t, second, m.Resolve(second, true))

	// Fallback now serves the newer snapshot
	got := m.Resolve(models.AgentState{}, true)
	assert.Equal(t, second, got)
}

func TestResolveAPIKeyOnlyStateCountsAsEmpty(t *testing.T) {
	m := NewStateMirror()
	m.Resolve(populatedState(), true)

	keyOnly := models.AgentState{APIKey: "secret"}
	got := m.Resolve(keyOnly, true)
	assert.True(t, got.HasArtifacts(), "key-only snapshot should fall back to last valid")
}
