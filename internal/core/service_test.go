package core

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sceneweave/sceneweave/internal/agent"
	"github.com/sceneweave/sceneweave/internal/config"
	"github.com/sceneweave/sceneweave/internal/eventbus"
	"github.com/sceneweave/sceneweave/internal/logging"
	"github.com/sceneweave/sceneweave/internal/models"
)

type sentDecision struct {
	id       string
	approved bool
	prompt   string
}

// fakeFeed stands in for the websocket agent client.
type fakeFeed struct {
	events chan agent.Event

	mu        sync.Mutex
	messages  []string
	decisions []sentDecision
	overrides []models.AgentState
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{events: make(chan agent.Event, 16)}
}

func (f *fakeFeed) Events() <-chan agent.Event { return f.events }

func (f *fakeFeed) SendUserMessage(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeFeed) SendApprovalResponse(id string, approved bool, prompt string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions = append(f.decisions, sentDecision{id: id, approved: approved, prompt: prompt})
	return nil
}

func (f *fakeFeed) SendStateOverride(st models.AgentState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides = append(f.overrides, st)
	return nil
}

func (f *fakeFeed) Close() error { return nil }

func (f *fakeFeed) sentDecisions() []sentDecision {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentDecision, len(f.decisions))
	copy(out, f.decisions)
	return out
}

func newTestService(t *testing.T) (*SessionService, *fakeFeed, *eventbus.EventBus) {
	t.Helper()
	t.Setenv("SCENEWEAVE_HOME", t.TempDir())

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	feed := newFakeFeed()
	eb := eventbus.NewEventBus()
	service := NewSessionService(cfg, feed, eb, logging.New(nil, "info"))
	service.Start()
	t.Cleanup(service.Stop)

	return service, feed, eb
}

// waitForState drains core events until a StateUpdateEvent satisfies
// the predicate.
func waitForState(t *testing.T, eb *eventbus.EventBus, pred func(eventbus.StateUpdateEvent) bool) eventbus.StateUpdateEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-eb.CoreToUI():
			if st, ok := event.(eventbus.StateUpdateEvent); ok && pred(st) {
				return st
			}
		case <-deadline:
			t.Fatal("timed out waiting for state update")
		}
	}
}

func waitForApprovalRequest(t *testing.T, eb *eventbus.EventBus) eventbus.ApprovalRequestEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-eb.CoreToUI():
			if req, ok := event.(eventbus.ApprovalRequestEvent); ok {
				return req
			}
		case <-deadline:
			t.Fatal("timed out waiting for approval request")
		}
	}
}

func TestApprovalFlowHarbor(t *testing.T) {
	_, feed, eb := newTestService(t)

	feed.events <- agent.Event{Kind: agent.EventApproval, Approval: agent.ApprovalRequest{
		ID:           "ap1",
		ArtifactType: models.ArtifactBackground,
		Name:         "Harbor",
		Prompt:       "a foggy harbor at dawn",
	}}

	req := waitForApprovalRequest(t, eb)
	assert.Equal(t, "Harbor", req.Name)
	assert.Equal(t, models.ArtifactBackground, req.ArtifactType)

	require.NoError(t, eb.SendToCore(eventbus.ApprovalDecisionEvent{
		ID:       "ap1",
		Approved: true,
		Prompt:   "a foggy harbor at dawn",
	}))

	// The optimistic placeholder shows up before any snapshot confirms it
	st := waitForState(t, eb, func(st eventbus.StateUpdateEvent) bool {
		return len(st.Pending) == 1
	})
	assert.Equal(t, "Harbor", st.Pending[0].TargetName)
	assert.Equal(t, ToolCreateBackground, st.Pending[0].ToolName)

	decisions := feed.sentDecisions()
	require.Len(t, decisions, 1)
	assert.True(t, decisions[0].approved)
	assert.Equal(t, "a foggy harbor at dawn", decisions[0].prompt)

	// The authoritative snapshot arrives; the placeholder reconciles away
	feed.events <- agent.Event{Kind: agent.EventState, State: models.AgentState{
		Backgrounds: []models.Background{{ID: "b1", Name: "Harbor", Description: "A foggy harbor"}},
	}}

	st = waitForState(t, eb, func(st eventbus.StateUpdateEvent) bool {
		return len(st.Pending) == 0 && len(st.Snapshot.Backgrounds) == 1
	})
	count := 0
	for _, b := range st.Snapshot.Backgrounds {
		if b.Name == "Harbor" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCancelledApprovalLeavesNoPending(t *testing.T) {
	_, feed, eb := newTestService(t)

	feed.events <- agent.Event{Kind: agent.EventApproval, Approval: agent.ApprovalRequest{
		ID:           "ap1",
		ArtifactType: models.ArtifactCharacter,
		Name:         "Warrior",
		Prompt:       "a fierce warrior",
	}}
	waitForApprovalRequest(t, eb)

	require.NoError(t, eb.SendToCore(eventbus.ApprovalDecisionEvent{ID: "ap1", Approved: false}))

	st := waitForState(t, eb, func(eventbus.StateUpdateEvent) bool { return true })
	assert.Empty(t, st.Pending)

	decisions := feed.sentDecisions()
	require.Len(t, decisions, 1)
	assert.False(t, decisions[0].approved)
	assert.Empty(t, decisions[0].prompt)
}

func TestDuplicateDecisionNotResent(t *testing.T) {
	_, feed, eb := newTestService(t)

	feed.events <- agent.Event{Kind: agent.EventApproval, Approval: agent.ApprovalRequest{
		ID:           "ap1",
		ArtifactType: models.ArtifactCharacter,
		Name:         "Warrior",
		Prompt:       "a fierce warrior",
	}}
	waitForApprovalRequest(t, eb)

	require.NoError(t, eb.SendToCore(eventbus.ApprovalDecisionEvent{ID: "ap1", Approved: true, Prompt: "p"}))
	require.NoError(t, eb.SendToCore(eventbus.ApprovalDecisionEvent{ID: "ap1", Approved: false}))

	// The loop is sequential; once this marker message lands, both
	// decisions have been processed.
	require.NoError(t, eb.SendToCore(eventbus.SendMessageEvent{Message: "marker"}))
	waitForState(t, eb, func(st eventbus.StateUpdateEvent) bool {
		for _, msg := range st.Messages {
			if msg.Type == models.User && msg.Content == "marker" {
				return true
			}
		}
		return false
	})

	decisions := feed.sentDecisions()
	require.Len(t, decisions, 1)
	assert.True(t, decisions[0].approved)
}

func TestTerminalToolStatusClearsPending(t *testing.T) {
	_, feed, eb := newTestService(t)

	feed.events <- agent.Event{Kind: agent.EventApproval, Approval: agent.ApprovalRequest{
		ID:           "ap1",
		ArtifactType: models.ArtifactScene,
		Name:         "Dawn Patrol",
		Prompt:       "characters on patrol at dawn",
	}}
	waitForApprovalRequest(t, eb)
	require.NoError(t, eb.SendToCore(eventbus.ApprovalDecisionEvent{ID: "ap1", Approved: true, Prompt: "p"}))
	waitForState(t, eb, func(st eventbus.StateUpdateEvent) bool { return len(st.Pending) == 1 })

	// A failed generation never reaches the snapshot; the terminal tool
	// status is what clears the placeholder
	feed.events <- agent.Event{Kind: agent.EventTool, Tool: agent.ToolEvent{
		Name:   ToolCreateScene,
		Status: agent.StatusComplete,
		Args:   map[string]any{"name": "Dawn Patrol"},
		Result: []byte(`{"error": "image generation failed"}`),
	}}

	st := waitForState(t, eb, func(st eventbus.StateUpdateEvent) bool {
		return len(st.Pending) == 0
	})

	// The structured error surfaces verbatim in the transcript
	var found bool
	for _, msg := range st.Messages {
		if msg.Type == models.ToolResult && msg.IsError {
			found = true
			assert.Equal(t, "image generation failed", msg.Content)
		}
	}
	assert.True(t, found, "expected an error tool-result message")
}

func TestEmptySnapshotWhileRunningKeepsDisplay(t *testing.T) {
	_, feed, eb := newTestService(t)

	feed.events <- agent.Event{Kind: agent.EventRun, Running: true}
	feed.events <- agent.Event{Kind: agent.EventState, State: models.AgentState{
		Characters: []models.Character{{ID: "c1", Name: "Warrior"}},
	}}
	waitForState(t, eb, func(st eventbus.StateUpdateEvent) bool {
		return len(st.Snapshot.Characters) == 1
	})

	// Mid-turn the agent momentarily clears its working state
	feed.events <- agent.Event{Kind: agent.EventState, State: models.AgentState{}}
	st := waitForState(t, eb, func(st eventbus.StateUpdateEvent) bool { return st.Running })
	assert.Len(t, st.Snapshot.Characters, 1, "display must not blank out mid-turn")

	// Idle empties are authoritative
	feed.events <- agent.Event{Kind: agent.EventRun, Running: false}
	st = waitForState(t, eb, func(st eventbus.StateUpdateEvent) bool { return !st.Running })
	assert.Empty(t, st.Snapshot.Characters)
}

func TestSetAPIKeySyncsOverride(t *testing.T) {
	service, feed, eb := newTestService(t)

	require.NoError(t, eb.SendToCore(eventbus.SetAPIKeyEvent{Key: "secret-key"}))

	waitForState(t, eb, func(st eventbus.StateUpdateEvent) bool {
		for _, msg := range st.Messages {
			if msg.Content == "API key updated" {
				return true
			}
		}
		return false
	})

	feed.mu.Lock()
	defer feed.mu.Unlock()
	require.Len(t, feed.overrides, 1)
	assert.Equal(t, "secret-key", feed.overrides[0].APIKey)
	assert.Equal(t, "secret-key", service.cfg.GetAPIKey())
}

func TestUserMessageForwarded(t *testing.T) {
	_, feed, eb := newTestService(t)

	require.NoError(t, eb.SendToCore(eventbus.SendMessageEvent{Message: "create a warrior"}))

	waitForState(t, eb, func(st eventbus.StateUpdateEvent) bool {
		for _, msg := range st.Messages {
			if msg.Type == models.User && msg.Content == "create a warrior" {
				return true
			}
		}
		return false
	})

	feed.mu.Lock()
	defer feed.mu.Unlock()
	require.Len(t, feed.messages, 1)
	assert.Equal(t, "create a warrior", feed.messages[0])
}
