package update

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sceneweave/sceneweave/internal/eventbus"
	"github.com/sceneweave/sceneweave/internal/models"
)

// HandleKeyMsgWithEventBus handles keyboard input using event bus.
// Prompt-editing keys never reach here; the app model routes them into
// the textarea while an approval is in editing mode.
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus, sessionReady bool) tea.Cmd {
	if appModel.Approval != nil {
		return handleApprovalKey(appModel, keyMsg, eb)
	}

	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "enter":
		input := strings.TrimSpace(appModel.Input)
		if input == "" {
			return nil
		}
		if !sessionReady {
			appModel.Input = ""
			appModel.Status = "Agent session not available"
			return nil
		}

		if key, found := strings.CutPrefix(input, "/key "); found {
			if err := eb.SendToCore(eventbus.SetAPIKeyEvent{Key: strings.TrimSpace(key)}); err != nil {
				appModel.Status = "Error updating key: " + err.Error()
				return nil
			}
		} else if err := eb.SendToCore(eventbus.SendMessageEvent{Message: input}); err != nil {
			appModel.Status = "Error sending message: " + err.Error()
			return nil
		}

		// Only manage local UI state - clear input
		appModel.Input = ""
		return nil
	case "backspace":
		if len(appModel.Input) > 0 {
			appModel.Input = appModel.Input[:len(appModel.Input)-1]
		}
	default:
		if len(keyMsg.String()) == 1 {
			appModel.Input += keyMsg.String()
		}
	}
	return nil
}

// handleApprovalKey drives the approval modal. The decision is sent at
// most once; a resolved modal only accepts dismissal.
func handleApprovalKey(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	approval := appModel.Approval

	if approval.Resolved {
		switch keyMsg.String() {
		case "ctrl+c":
			return tea.Quit
		case "enter", "esc":
			appModel.Approval = nil
		}
		return nil
	}

	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "a", "enter":
		if err := eb.SendToCore(eventbus.ApprovalDecisionEvent{
			ID:       approval.ID,
			Approved: true,
			Prompt:   approval.Draft,
		}); err != nil {
			appModel.Status = "Error sending approval: " + err.Error()
			return nil
		}
		approval.Resolved = true
		approval.Approved = true
	case "c", "esc":
		if err := eb.SendToCore(eventbus.ApprovalDecisionEvent{
			ID:       approval.ID,
			Approved: false,
		}); err != nil {
			appModel.Status = "Error sending cancellation: " + err.Error()
			return nil
		}
		approval.Resolved = true
		approval.Approved = false
	}
	return nil
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		appModel.Messages = append(appModel.Messages, event.Messages...)
		appModel.Snapshot = event.Snapshot
		appModel.Pending = event.Pending
		appModel.Loading = event.Running

		// Update status based on core state
		if event.Error != nil {
			appModel.Status = "Error: " + event.Error.Error()
		} else if event.Running {
			appModel.Status = "Generating"
		} else {
			appModel.Status = "Ready"
		}
	case eventbus.ApprovalRequestEvent:
		appModel.Approval = &models.ApprovalView{
			ID:           event.ID,
			ArtifactType: event.ArtifactType,
			Name:         event.Name,
			Draft:        event.DraftPrompt,
		}
	case eventbus.ApprovalResolvedEvent:
		if appModel.Approval != nil && appModel.Approval.ID == event.ID {
			appModel.Approval.Resolved = true
			appModel.Approval.Approved = event.Approved
			appModel.Approval.Editing = false
		}
	}

	return nil
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	// Only handle UI animations - loading dots
	if appModel.Loading {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}
