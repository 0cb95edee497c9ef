package console

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/koscakluka/ema-console/core/events"
)

const DefaultEventBuffer = 64

// EventRelay carries orchestrator events into the bubbletea program. Handle
// never blocks; when the buffer is full the event is dropped, which only
// delays a redraw since the view always reads a fresh snapshot.
type EventRelay struct {
	events chan events.Event
}

func NewEventRelay(buffer int) *EventRelay {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	return &EventRelay{events: make(chan events.Event, buffer)}
}

// Handle is meant to be passed to orchestration.WithEventHandler.
func (r *EventRelay) Handle(event events.Event) {
	select {
	case r.events <- event:
	default:
	}
}

type eventMsg struct{ event events.Event }

func (r *EventRelay) wait() tea.Cmd {
	return func() tea.Msg {
		return eventMsg{event: <-r.events}
	}
}
