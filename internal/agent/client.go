package agent

import (
	"context"
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/sceneweave/sceneweave/internal/logging"
	"github.com/sceneweave/sceneweave/internal/models"
)

// ErrClientClosed is returned when sending on a closed connection.
var ErrClientClosed = errors.New("agent client closed")

// EventKind discriminates events produced by the agent feed.
type EventKind int

const (
	EventState EventKind = iota
	EventRun
	EventMessage
	EventTool
	EventApproval
	EventError
)

// Event is one decoded occurrence from the agent runtime. Exactly the
// fields for its Kind are populated.
type Event struct {
	Kind     EventKind
	State    models.AgentState
	Running  bool
	Text     string
	Tool     ToolEvent
	Approval ApprovalRequest
	Err      error
}

// Feed is the core's view of the remote agent collaborator.
type Feed interface {
	Events() <-chan Event
	SendUserMessage(text string) error
	SendApprovalResponse(id string, approved bool, prompt string) error
	SendStateOverride(st models.AgentState) error
	Close() error
}

// Client is a WebSocket connection to the agent runtime. Reads are
// owned by a single goroutine feeding the Events channel; writes are
// serialized with a mutex.
type Client struct {
	conn   *websocket.Conn
	events chan Event
	log    *logging.Logger

	mu     sync.Mutex
	closed bool
}

// Dial connects to the agent runtime and starts the read loop.
func Dial(ctx context.Context, url string, log *logging.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		conn:   conn,
		events: make(chan Event, 64),
		log:    log.Sub("agent"),
	}
	go c.readLoop()

	c.log.Info().Str("url", url).Msg("connected to agent runtime")
	return c, nil
}

func (c *Client) Events() <-chan Event {
	return c.events
}

func (c *Client) readLoop() {
	defer close(c.events)

	for {
		var frame Frame
		if err := c.conn.ReadJSON(&frame); err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if !closed {
				c.log.Error().Err(err).Msg("agent feed terminated")
				c.events <- Event{Kind: EventError, Err: err}
			}
			return
		}

		if ev, ok := decodeFrame(frame); ok {
			c.events <- ev
		} else {
			c.log.Warn().Str("type", frame.Type).Msg("unknown frame type")
		}
	}
}

func decodeFrame(frame Frame) (Event, bool) {
	switch frame.Type {
	case FrameState:
		var st models.AgentState
		if frame.State != nil {
			st = *frame.State
		}
		return Event{Kind: EventState, State: st}, true
	case FrameRun:
		running := frame.Running != nil && *frame.Running
		return Event{Kind: EventRun, Running: running}, true
	case FrameMessage:
		return Event{Kind: EventMessage, Text: frame.Text}, true
	case FrameTool:
		if frame.Tool == nil {
			return Event{}, false
		}
		return Event{Kind: EventTool, Tool: *frame.Tool}, true
	case FrameApproval:
		if frame.Approval == nil {
			return Event{}, false
		}
		return Event{Kind: EventApproval, Approval: *frame.Approval}, true
	}
	return Event{}, false
}

// SendUserMessage forwards a chat message to the agent.
func (c *Client) SendUserMessage(text string) error {
	return c.send(NewUserMessage(text))
}

// SendApprovalResponse reports the user's decision for an approval.
func (c *Client) SendApprovalResponse(id string, approved bool, prompt string) error {
	return c.send(NewApprovalResponse(id, approved, prompt))
}

// SendStateOverride echoes local state back into the agent, carrying a
// credential change.
func (c *Client) SendStateOverride(st models.AgentState) error {
	return c.send(NewStateOverride(st))
}

func (c *Client) send(frame Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	return c.conn.WriteJSON(frame)
}

// Close shuts the connection; the read loop drains out.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
