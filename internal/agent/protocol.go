package agent

import (
	"encoding/json"

	"github.com/sceneweave/sceneweave/internal/models"
)

// Frame types pushed by the agent runtime.
const (
	FrameState    = "state"    // full AgentState snapshot
	FrameRun      = "run"      // running flag transition
	FrameMessage  = "message"  // assistant chat text
	FrameTool     = "tool"     // tool invocation status event
	FrameApproval = "approval" // prompt approval request
)

// Frame types sent by the client.
const (
	FrameUserMessage      = "user_message"
	FrameApprovalResponse = "approval_response"
	FrameStateOverride    = "state_override"
)

// Tool invocation statuses. Complete is the only terminal status.
const (
	StatusExecuting  = "executing"
	StatusInProgress = "inProgress"
	StatusComplete   = "complete"
)

// Frame is the envelope for all messages on the agent socket. The Type
// field discriminates; unrelated fields stay empty.
type Frame struct {
	Type string `json:"type"`

	// Inbound payloads
	State    *models.AgentState `json:"state,omitempty"`
	Running  *bool              `json:"running,omitempty"`
	Text     string             `json:"text,omitempty"`
	Tool     *ToolEvent         `json:"tool,omitempty"`
	Approval *ApprovalRequest   `json:"approval,omitempty"`

	// Outbound payloads
	ID       string             `json:"id,omitempty"`
	Approved *bool              `json:"approved,omitempty"`
	Prompt   string             `json:"prompt,omitempty"`
	Override *models.AgentState `json:"override,omitempty"`
}

// ToolEvent reports the status of one remote tool invocation.
type ToolEvent struct {
	Name   string          `json:"toolName"`
	Status string          `json:"status"`
	Args   map[string]any  `json:"args,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// Terminal reports whether the invocation has finished.
func (e ToolEvent) Terminal() bool {
	return e.Status == StatusComplete
}

// TargetName extracts the artifact name argument, when present.
func (e ToolEvent) TargetName() (string, bool) {
	v, ok := e.Args["name"]
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok && name != ""
}

// ResultError extracts the structured error field from a tool result,
// if the invocation failed.
func (e ToolEvent) ResultError() (string, bool) {
	if len(e.Result) == 0 {
		return "", false
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(e.Result, &payload); err != nil {
		return "", false
	}
	return payload.Error, payload.Error != ""
}

// ApprovalRequest is the agent's proposal for an image-generation
// prompt, awaiting a human decision.
type ApprovalRequest struct {
	ID           string              `json:"id"`
	ArtifactType models.ArtifactType `json:"artifactType"`
	Name         string              `json:"name"`
	Prompt       string              `json:"prompt"`
}

// NewUserMessage builds an outbound chat frame.
func NewUserMessage(text string) Frame {
	return Frame{Type: FrameUserMessage, Text: text}
}

// NewApprovalResponse builds an outbound decision frame. The prompt is
// carried only on approval.
func NewApprovalResponse(id string, approved bool, prompt string) Frame {
	f := Frame{Type: FrameApprovalResponse, ID: id, Approved: &approved}
	if approved {
		f.Prompt = prompt
	}
	return f
}

// NewStateOverride builds an outbound local-state echo, used to forward
// credential changes into agent state.
func NewStateOverride(st models.AgentState) Frame {
	return Frame{Type: FrameStateOverride, Override: &st}
}
