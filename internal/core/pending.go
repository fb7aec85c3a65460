package core

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sceneweave/sceneweave/internal/models"
)

const (
	ToolCreateCharacter  = "create_character"
	ToolCreateBackground = "create_background"
	ToolCreateScene      = "create_scene"
)

// maxDescriptionLen caps the placeholder description derived from a
// draft prompt, ellipsis included.
const maxDescriptionLen = 300

const placeholderDescription = "Awaiting image generation..."

// ToolNameFor maps an artifact type to the generation tool that
// produces it. Unknown types fall back to character creation.
func ToolNameFor(artifactType models.ArtifactType) string {
	switch artifactType {
	case models.ArtifactBackground:
		return ToolCreateBackground
	case models.ArtifactScene:
		return ToolCreateScene
	default:
		return ToolCreateCharacter
	}
}

// Tracker holds optimistic placeholders for approved generations that
// the agent has not yet confirmed. At most one record exists per
// (toolName, targetName) pair.
type Tracker struct {
	mu      sync.Mutex
	actions []models.PendingAction
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Register upserts a placeholder for the given target. A prior record
// for the same (toolName, targetName) pair is replaced; only the newest
// description survives.
func (t *Tracker) Register(artifactType models.ArtifactType, targetName, draftPrompt string) models.PendingAction {
	toolName := ToolNameFor(artifactType)
	action := models.PendingAction{
		ID:          uuid.New().String(),
		ToolName:    toolName,
		TargetName:  targetName,
		Title:       titleFor(toolName, targetName),
		Icon:        iconFor(toolName),
		Description: describe(draftPrompt),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.actions = removeMatching(t.actions, toolName, targetName)
	t.actions = append(t.actions, action)
	return action
}

// Clear removes records for toolName. With a target name it removes
// only the matching record; without one it removes every record for
// that tool.
func (t *Tracker) Clear(toolName string, targetName ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(targetName) > 0 {
		t.actions = removeMatching(t.actions, toolName, targetName[0])
		return
	}

	kept := t.actions[:0]
	for _, a := range t.actions {
		if a.ToolName != toolName {
			kept = append(kept, a)
		}
	}
	t.actions = kept
}

// Reconcile drops every record whose target name now appears in the
// matching artifact list of the snapshot. Idempotent; safe to run
// redundantly.
func (t *Tracker) Reconcile(snapshot models.AgentState) {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.actions[:0]
	for _, a := range t.actions {
		if !confirmed(snapshot, a) {
			kept = append(kept, a)
		}
	}
	t.actions = kept
}

// Actions returns a copy of the pending list, in registration order.
func (t *Tracker) Actions() []models.PendingAction {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := make([]models.PendingAction, len(t.actions))
	copy(result, t.actions)
	return result
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.actions)
}

func confirmed(snapshot models.AgentState, a models.PendingAction) bool {
	switch a.ToolName {
	case ToolCreateCharacter:
		for _, c := range snapshot.Characters {
			if c.Name == a.TargetName {
				return true
			}
		}
	case ToolCreateBackground:
		for _, b := range snapshot.Backgrounds {
			if b.Name == a.TargetName {
				return true
			}
		}
	case ToolCreateScene:
		for _, s := range snapshot.Scenes {
			if s.Name == a.TargetName {
				return true
			}
		}
	}
	return false
}

func removeMatching(actions []models.PendingAction, toolName, targetName string) []models.PendingAction {
	kept := actions[:0]
	for _, a := range actions {
		if a.ToolName != toolName || a.TargetName != targetName {
			kept = append(kept, a)
		}
	}
	return kept
}

func describe(draftPrompt string) string {
	text := strings.TrimSpace(draftPrompt)
	if text == "" {
		return placeholderDescription
	}
	runes := []rune(text)
	if len(runes) > maxDescriptionLen {
		return string(runes[:maxDescriptionLen-3]) + "..."
	}
	return text
}

func titleFor(toolName, targetName string) string {
	switch toolName {
	case ToolCreateBackground:
		return fmt.Sprintf("Creating background: %s", targetName)
	case ToolCreateScene:
		return fmt.Sprintf("Composing scene: %s", targetName)
	default:
		return fmt.Sprintf("Creating character: %s", targetName)
	}
}

func iconFor(toolName string) string {
	switch toolName {
	case ToolCreateBackground:
		return "🏞"
	case ToolCreateScene:
		return "🎬"
	default:
		return "👤"
	}
}
