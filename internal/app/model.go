package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sceneweave/sceneweave/internal/dispatcher"
	"github.com/sceneweave/sceneweave/internal/models"
	"github.com/sceneweave/sceneweave/internal/update"
	"github.com/sceneweave/sceneweave/ui/components"
)

type AppModel struct {
	appModel     models.AppModel
	dispatcher   *dispatcher.EventDispatcher
	promptEditor textarea.Model
}

func newAppModel(initial models.AppModel, disp *dispatcher.EventDispatcher) *AppModel {
	editor := textarea.New()
	editor.Placeholder = "Image generation prompt"
	editor.CharLimit = 0
	editor.SetHeight(6)

	return &AppModel{
		appModel:     initial,
		dispatcher:   disp,
		promptEditor: editor,
	}
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		m.dispatcher.ListenForUIEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle core events and continue listening
	if coreEvent, ok := msg.(update.CoreEventMsg); ok {
		cmd := update.HandleCoreEvent(&m.appModel, coreEvent)
		return m, tea.Batch(cmd, m.dispatcher.ListenForUIEvents())
	}

	// Prompt editing owns the keyboard while active
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.appModel.Approval != nil {
		if handled, cmd := m.handlePromptEditing(keyMsg); handled {
			return m, cmd
		}
	}

	if sizeMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.promptEditor.SetWidth(sizeMsg.Width - 8)
	}

	// Handle other events through the event bus
	eventBus := m.dispatcher.GetEventBus()
	sessionReady := m.appModel.SessionReady
	cmd := update.HandleUpdateWithEventBus(&m.appModel, msg, eventBus, sessionReady)

	return m, cmd
}

// handlePromptEditing drives the textarea during the editing phase of
// an approval. Entering edit seeds the editor from the draft; leaving
// edit writes the editor content back into the draft.
func (m *AppModel) handlePromptEditing(keyMsg tea.KeyMsg) (bool, tea.Cmd) {
	approval := m.appModel.Approval
	if approval.Resolved {
		return false, nil
	}

	if !approval.Editing {
		if keyMsg.String() == "e" {
			approval.Editing = true
			m.promptEditor.SetValue(approval.Draft)
			m.promptEditor.Focus()
			return true, textarea.Blink
		}
		return false, nil
	}

	switch keyMsg.String() {
	case "ctrl+c":
		return true, tea.Quit
	case "esc":
		approval.Draft = m.promptEditor.Value()
		approval.Editing = false
		m.promptEditor.Blur()
		return true, nil
	}

	var cmd tea.Cmd
	m.promptEditor, cmd = m.promptEditor.Update(keyMsg)
	return true, cmd
}

func (m *AppModel) View() string {
	var b strings.Builder

	b.WriteString(components.RenderMessages(m.appModel.Messages))
	b.WriteString(components.RenderGallery(m.appModel.Snapshot, m.appModel.Pending, m.appModel.Width))

	if m.appModel.Approval != nil {
		b.WriteString(components.RenderApproval(*m.appModel.Approval, m.promptEditor.View(), m.appModel.Width))
	} else {
		b.WriteString(components.RenderInput(m.appModel.Input, m.appModel.Width))
	}

	b.WriteString("\n")
	b.WriteString(components.RenderStatus(m.appModel.Status, m.appModel.Loading, m.appModel.LoadingDots, m.appModel.Width))

	return b.String()
}
