package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sceneweave/sceneweave/internal/models"
)

func TestToolNameFor(t *testing.T) {
	assert.Equal(t, ToolCreateCharacter, ToolNameFor(models.ArtifactCharacter))
	assert.Equal(t, ToolCreateBackground, ToolNameFor(models.ArtifactBackground))
	assert.Equal(t, ToolCreateScene, ToolNameFor(models.ArtifactScene))
	// Unknown types default to character creation
	assert.Equal(t, ToolCreateCharacter, ToolNameFor(models.ArtifactType("prop")))
}

func TestRegisterBuildsAction(t *testing.T) {
	tr := NewTracker()
	action := tr.Register(models.ArtifactBackground, "Harbor", "a foggy harbor at dawn")

	assert.NotEmpty(t, action.ID)
	assert.Equal(t, ToolCreateBackground, action.ToolName)
	assert.Equal(t, "Harbor", action.TargetName)
	assert.Equal(t, "a foggy harbor at dawn", action.Description)
	assert.Equal(t, 1, tr.Len())
}

func TestRegisterUpsertsSamePair(t *testing.T) {
	tr := NewTracker()
	first := tr.Register(models.ArtifactCharacter, "Warrior", "first draft")
	second := tr.Register(models.ArtifactCharacter, "Warrior", "second draft")

	actions := tr.Actions()
	require.Len(t, actions, 1)
	assert.Equal(t, "second draft", actions[0].Description)
	assert.NotEqual(t, first.ID, actions[0].ID)
	assert.Equal(t, second.ID, actions[0].ID)
}

func TestRegisterSameNameDifferentToolsCoexist(t *testing.T) {
	tr := NewTracker()
	tr.Register(models.ArtifactCharacter, "Harbor", "a person named Harbor")
	tr.Register(models.ArtifactBackground, "Harbor", "a foggy harbor")

	assert.Equal(t, 2, tr.Len())
}

func TestDescriptionTruncation(t *testing.T) {
	tr := NewTracker()
	long := strings.Repeat("x", 400)
	action := tr.Register(models.ArtifactCharacter, "Warrior", long)

	require.Len(t, []rune(action.Description), 300)
	assert.Equal(t, strings.Repeat("x", 297)+"...", action.Description)
}

func TestDescriptionExactLimitUntouched(t *testing.T) {
	tr := NewTracker()
	exact := strings.Repeat("y", 300)
	action := tr.Register(models.ArtifactCharacter, "Warrior", exact)

	assert.Equal(t, exact, action.Description)
}

func TestDescriptionBlankPromptPlaceholder(t *testing.T) {
	tr := NewTracker()
	action := tr.Register(models.ArtifactScene, "Dawn", "   \n\t ")

	assert.Equal(t, "Awaiting image generation...", action.Description)
}

func TestClearWithTargetName(t *testing.T) {
	tr := NewTracker()
	tr.Register(models.ArtifactCharacter, "Warrior", "p1")
	tr.Register(models.ArtifactCharacter, "Mage", "p2")

	tr.Clear(ToolCreateCharacter, "Warrior")

	actions := tr.Actions()
	require.Len(t, actions, 1)
	assert.Equal(t, "Mage", actions[0].TargetName)
}

func TestClearWholeTool(t *testing.T) {
	tr := NewTracker()
	tr.Register(models.ArtifactCharacter, "Warrior", "p1")
	tr.Register(models.ArtifactCharacter, "Mage", "p2")
	tr.Register(models.ArtifactBackground, "Harbor", "p3")

	tr.Clear(ToolCreateCharacter)

	actions := tr.Actions()
	require.Len(t, actions, 1)
	assert.Equal(t, ToolCreateBackground, actions[0].ToolName)
}

func TestReconcileRemovesConfirmedTargets(t *testing.T) {
	tr := NewTracker()
	tr.Register(models.ArtifactBackground, "Harbor", "a foggy harbor")
	tr.Register(models.ArtifactBackground, "Desert", "a dry desert")
	tr.Register(models.ArtifactCharacter, "Harbor", "someone named Harbor")

	snapshot := models.AgentState{
		Backgrounds: []models.Background{{ID: "b1", Name: "Harbor"}},
	}
	tr.Reconcile(snapshot)

	actions := tr.Actions()
	require.Len(t, actions, 2)
	// Only the background record for Harbor was confirmed; the character
	// with the same name and the other background survive.
	assert.Equal(t, "Desert", actions[0].TargetName)
	assert.Equal(t, ToolCreateCharacter, actions[1].ToolName)
}

func TestReconcileIdempotent(t *testing.T) {
	tr := NewTracker()
	tr.Register(models.ArtifactScene, "Dawn Patrol", "scene prompt")

	snapshot := models.AgentState{
		Scenes: []models.Scene{{ID: "s1", Name: "Dawn Patrol"}},
	}
	tr.Reconcile(snapshot)
	tr.Reconcile(snapshot)
	tr.Reconcile(models.AgentState{})

	assert.Equal(t, 0, tr.Len())
}

func TestReconcileEmptySnapshotKeepsAll(t *testing.T) {
	tr := NewTracker()
	tr.Register(models.ArtifactCharacter, "Warrior", "p1")

	tr.Reconcile(models.AgentState{})
	assert.Equal(t, 1, tr.Len())
}

func TestActionsPreserveRegistrationOrder(t *testing.T) {
	tr := NewTracker()
	tr.Register(models.ArtifactCharacter, "A", "p1")
	tr.Register(models.ArtifactBackground, "B", "p2")
	tr.Register(models.ArtifactScene, "C", "p3")

	actions := tr.Actions()
	require.Len(t, actions, 3)
	assert.Equal(t, "A", actions[0].TargetName)
	assert.Equal(t, "B", actions[1].TargetName)
	assert.Equal(t, "C", actions[2].TargetName)
}
