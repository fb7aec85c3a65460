package dispatcher

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sceneweave/sceneweave/internal/eventbus"
	"github.com/sceneweave/sceneweave/internal/update"
)

// EventDispatcher bridges core events into the Bubble Tea runtime.
type EventDispatcher struct {
	eventBus *eventbus.EventBus
}

func NewEventDispatcher(eventBus *eventbus.EventBus) *EventDispatcher {
	return &EventDispatcher{eventBus: eventBus}
}

// ListenForUIEvents returns a command that blocks for the next core
// event and wraps it as a Bubble Tea message. The caller re-issues it
// after every received event.
func (ed *EventDispatcher) ListenForUIEvents() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ed.eventBus.CoreToUI()
		if !ok {
			return nil
		}
		return update.CoreEventMsg{Event: event}
	}
}

func (ed *EventDispatcher) GetEventBus() *eventbus.EventBus {
	return ed.eventBus
}
