package core

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sceneweave/sceneweave/internal/agent"
	"github.com/sceneweave/sceneweave/internal/config"
	"github.com/sceneweave/sceneweave/internal/eventbus"
	"github.com/sceneweave/sceneweave/internal/logging"
	"github.com/sceneweave/sceneweave/internal/models"
)

// SessionService owns the client-side session state: the state mirror,
// the pending action tracker, and the approval gates. All mutation
// happens on its single event loop goroutine; each external event is
// processed to completion before the next one.
type SessionService struct {
	cfg      *config.Config
	feed     agent.Feed // may be nil when the agent is unreachable
	eventBus *eventbus.EventBus
	mirror   *StateMirror
	tracker  *Tracker
	gates    map[string]*ApprovalGate
	log      *logging.Logger

	messages      []models.Message
	latest        models.AgentState
	running       bool
	lastErr       error
	lastSentCount int // how many transcript messages the UI has seen

	ctx    context.Context
	cancel context.CancelFunc
}

// NewSessionService creates a SessionService regardless of feed
// availability, so there is always a service to manage state.
func NewSessionService(cfg *config.Config, feed agent.Feed, eb *eventbus.EventBus, log *logging.Logger) *SessionService {
	ctx, cancel := context.WithCancel(context.Background())

	s := &SessionService{
		cfg:      cfg,
		feed:     feed,
		eventBus: eb,
		mirror:   NewStateMirror(),
		tracker:  NewTracker(),
		gates:    make(map[string]*ApprovalGate),
		log:      log.Sub("session"),
		ctx:      ctx,
		cancel:   cancel,
	}

	s.addWelcomeMessages(cfg, feed != nil)
	return s
}

// Start runs the core logic in a goroutine
func (s *SessionService) Start() {
	// Send initial state to UI immediately
	s.pushStateToUI()
	go s.eventLoop()
}

func (s *SessionService) Stop() {
	s.cancel()
	if s.feed != nil {
		s.feed.Close()
	}
}

func (s *SessionService) IsReady() bool {
	return s.feed != nil
}

func (s *SessionService) eventLoop() {
	var agentEvents <-chan agent.Event
	if s.feed != nil {
		agentEvents = s.feed.Events()
	}

	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-s.eventBus.UIToCore():
			if !ok {
				return
			}
			s.handleUIEvent(event)
		case event, ok := <-agentEvents:
			if !ok {
				agentEvents = nil // feed drained; keep serving UI events
				continue
			}
			s.handleAgentEvent(event)
		}
	}
}

func (s *SessionService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SendMessageEvent:
		s.handleSendMessage(e.Message)
	case eventbus.ApprovalDecisionEvent:
		s.handleApprovalDecision(e)
	case eventbus.SetAPIKeyEvent:
		s.handleSetAPIKey(e.Key)
	}
}

func (s *SessionService) handleAgentEvent(event agent.Event) {
	switch event.Kind {
	case agent.EventState:
		s.latest = event.State
		s.pushStateToUI()
	case agent.EventRun:
		s.running = event.Running
		s.pushStateToUI()
	case agent.EventMessage:
		s.addMessage(models.Message{Content: event.Text, Type: models.Assistant})
		s.pushStateToUI()
	case agent.EventTool:
		s.handleToolEvent(event.Tool)
	case agent.EventApproval:
		s.handleApprovalRequest(event.Approval)
	case agent.EventError:
		s.lastErr = event.Err
		s.pushStateToUI()
	}
}

func (s *SessionService) handleSendMessage(text string) {
	if s.feed == nil {
		s.lastErr = fmt.Errorf("agent session not available")
		s.pushStateToUI()
		return
	}

	s.addMessage(models.Message{Content: text, Type: models.User})
	s.lastErr = nil
	if err := s.feed.SendUserMessage(text); err != nil {
		s.lastErr = fmt.Errorf("failed to reach agent: %w", err)
	}
	s.pushStateToUI()
}

// handleApprovalRequest opens a gate for the proposed prompt and
// surfaces it to the UI.
func (s *SessionService) handleApprovalRequest(req agent.ApprovalRequest) {
	gate := NewApprovalGate(req.ID, req.ArtifactType, req.Name, req.Prompt, s.tracker,
		func(approved bool, finalPrompt string) error {
			return s.feed.SendApprovalResponse(req.ID, approved, finalPrompt)
		})
	s.gates[req.ID] = gate

	s.log.Info().Str("artifact", string(req.ArtifactType)).Str("name", req.Name).Msg("approval requested")

	if err := s.eventBus.SendToUI(eventbus.ApprovalRequestEvent{
		ID:           req.ID,
		ArtifactType: req.ArtifactType,
		Name:         req.Name,
		DraftPrompt:  req.Prompt,
	}); err != nil {
		s.log.Error().Err(err).Msg("failed to surface approval request")
	}
}

func (s *SessionService) handleApprovalDecision(e eventbus.ApprovalDecisionEvent) {
	gate, exists := s.gates[e.ID]
	if !exists {
		s.log.Warn().Str("id", e.ID).Msg("decision for unknown approval")
		return
	}

	var err error
	if e.Approved {
		gate.SetDraft(e.Prompt)
		err = gate.Approve()
	} else {
		err = gate.Cancel()
	}

	switch {
	case err == ErrAlreadyResolved:
		// Defect guard: never re-send a decision.
		s.log.Warn().Str("id", e.ID).Msg("duplicate approval decision ignored")
		return
	case err != nil:
		s.lastErr = fmt.Errorf("failed to send approval decision: %w", err)
	}

	if sendErr := s.eventBus.SendToUI(eventbus.ApprovalResolvedEvent{
		ID:       e.ID,
		Approved: e.Approved,
	}); sendErr != nil {
		s.log.Error().Err(sendErr).Msg("failed to notify approval resolution")
	}

	s.pushStateToUI()
}

// handleToolEvent mirrors remote tool activity into the transcript and
// clears the matching placeholder on terminal status.
func (s *SessionService) handleToolEvent(ev agent.ToolEvent) {
	switch ev.Status {
	case agent.StatusExecuting:
		s.addMessage(models.Message{
			Content:    describeArgs(ev.Args),
			Type:       models.ToolCall,
			ToolName:   ev.Name,
			ToolStatus: ev.Status,
		})
	case agent.StatusComplete:
		content := string(ev.Result)
		errText, failed := ev.ResultError()
		if failed {
			content = errText
		}
		s.addMessage(models.Message{
			Content:  content,
			Type:     models.ToolResult,
			ToolName: ev.Name,
			IsError:  failed,
		})

		// Terminal status clears the placeholder regardless of outcome;
		// reconciliation handles the success path independently.
		if name, ok := ev.TargetName(); ok {
			s.tracker.Clear(ev.Name, name)
			s.completeGates(ev.Name, name)
		} else {
			s.tracker.Clear(ev.Name)
		}
	}

	s.pushStateToUI()
}

func (s *SessionService) completeGates(toolName, targetName string) {
	for _, gate := range s.gates {
		if ToolNameFor(gate.ArtifactType()) == toolName && gate.Name() == targetName {
			gate.Complete()
		}
	}
}

func (s *SessionService) handleSetAPIKey(key string) {
	s.cfg.SetAPIKey(key)
	if err := s.cfg.Save(); err != nil {
		s.lastErr = fmt.Errorf("failed to save config: %w", err)
		s.pushStateToUI()
		return
	}

	if s.feed != nil {
		override := s.latest
		override.APIKey = key
		if err := s.feed.SendStateOverride(override); err != nil {
			s.lastErr = fmt.Errorf("failed to sync credential: %w", err)
		}
	}

	s.addMessage(models.Message{Content: "API key updated", Type: models.Program})
	s.pushStateToUI()
}

// pushStateToUI resolves the display snapshot, reconciles pending
// placeholders against it, and ships the result to the UI. It runs
// after every mutation, which is what makes reconciliation converge.
func (s *SessionService) pushStateToUI() {
	display := s.mirror.Resolve(s.latest, s.running)
	s.tracker.Reconcile(display)

	// Only send new messages to reduce resource usage
	newMessages := s.messages[s.lastSentCount:]
	s.lastSentCount = len(s.messages)

	if err := s.eventBus.SendToUI(eventbus.StateUpdateEvent{
		Messages: newMessages,
		Snapshot: display,
		Pending:  s.tracker.Actions(),
		Running:  s.running,
		Error:    s.lastErr,
	}); err != nil {
		s.log.Error().Err(err).Msg("failed to push state to UI")
	}
}

func (s *SessionService) addMessage(msg models.Message) {
	s.messages = append(s.messages, msg)
}

func describeArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(data)
}

func (s *SessionService) addWelcomeMessages(cfg *config.Config, connected bool) {
	s.addMessage(models.Message{Content: "-- SCENEWEAVE --", Type: models.Program})

	if connected {
		s.addMessage(models.Message{Content: fmt.Sprintf("Active Profile: %s [OK]", cfg.ActiveProfile), Type: models.Program})
		s.addMessage(models.Message{Content: "Describe a character, background, or scene to get started", Type: models.Program})
	} else {
		s.addMessage(models.Message{Content: fmt.Sprintf("Active Profile: %s [AGENT OFFLINE]", cfg.ActiveProfile), Type: models.Program})
		s.addMessage(models.Message{Content: "Start the agent runtime, then restart sceneweave", Type: models.Program})
	}

	s.addMessage(models.Message{Content: "Controls: Ctrl+C to exit, /key <value> to set the API key", Type: models.Program})
	s.addMessage(models.Message{Content: "", Type: models.Program})
}
