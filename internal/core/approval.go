package core

import (
	"errors"
	"sync"

	"github.com/sceneweave/sceneweave/internal/models"
)

// ErrAlreadyResolved is returned when a second decision is attempted on
// an approval that already reached a terminal disposition. The decision
// must never be sent to the agent twice.
var ErrAlreadyResolved = errors.New("approval already resolved")

// ApprovalPhase is the lifecycle state of one approval request.
type ApprovalPhase int

const (
	PhaseRequested ApprovalPhase = iota
	PhaseEditing
	PhaseApproved
	PhaseCancelled
	PhaseCompleted
)

// DecisionFunc sends the user's decision to the remote agent. It is
// called at most once per gate.
type DecisionFunc func(approved bool, finalPrompt string) error

// ApprovalGate mediates between a proposed generation prompt and the
// decision to execute, edit, or abort it. Approve registers the
// optimistic placeholder before notifying the agent, so the display
// never shows a gap between approval and placeholder.
type ApprovalGate struct {
	mu           sync.Mutex
	id           string
	artifactType models.ArtifactType
	name         string
	draft        string
	phase        ApprovalPhase
	approved     bool
	tracker      *Tracker
	respond      DecisionFunc
}

func NewApprovalGate(id string, artifactType models.ArtifactType, name, draftPrompt string, tracker *Tracker, respond DecisionFunc) *ApprovalGate {
	return &ApprovalGate{
		id:           id,
		artifactType: artifactType,
		name:         name,
		draft:        draftPrompt,
		phase:        PhaseRequested,
		tracker:      tracker,
		respond:      respond,
	}
}

func (g *ApprovalGate) ID() string { return g.id }

func (g *ApprovalGate) ArtifactType() models.ArtifactType { return g.artifactType }

func (g *ApprovalGate) Name() string { return g.name }

func (g *ApprovalGate) Draft() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.draft
}

func (g *ApprovalGate) Phase() ApprovalPhase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// ToggleEdit flips between requested and editing. Purely local; the
// agent is not involved.
func (g *ApprovalGate) ToggleEdit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch g.phase {
	case PhaseRequested:
		g.phase = PhaseEditing
	case PhaseEditing:
		g.phase = PhaseRequested
	}
}

// SetDraft replaces the local prompt text. No-op once decided.
func (g *ApprovalGate) SetDraft(text string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase == PhaseRequested || g.phase == PhaseEditing {
		g.draft = text
	}
}

// Approve resolves the gate with the current draft: the placeholder is
// registered first, then the approval response is sent. Returns
// ErrAlreadyResolved on a second resolution attempt.
func (g *ApprovalGate) Approve() error {
	g.mu.Lock()
	if g.phase != PhaseRequested && g.phase != PhaseEditing {
		g.mu.Unlock()
		return ErrAlreadyResolved
	}
	g.phase = PhaseApproved
	g.approved = true
	finalPrompt := g.draft
	g.mu.Unlock()

	// Register-before-notify: the optimistic record must exist before
	// the agent learns of the approval.
	g.tracker.Register(g.artifactType, g.name, finalPrompt)
	return g.respond(true, finalPrompt)
}

// Cancel resolves the gate without executing. No pending record is
// created.
func (g *ApprovalGate) Cancel() error {
	g.mu.Lock()
	if g.phase != PhaseRequested && g.phase != PhaseEditing {
		g.mu.Unlock()
		return ErrAlreadyResolved
	}
	g.phase = PhaseCancelled
	g.mu.Unlock()

	return g.respond(false, "")
}

// Complete marks the gate terminal once the agent reports a result for
// the approved action. Only a decided gate can complete.
func (g *ApprovalGate) Complete() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase == PhaseApproved || g.phase == PhaseCancelled {
		g.phase = PhaseCompleted
	}
}

// Resolved reports whether a decision has been sent.
func (g *ApprovalGate) Resolved() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase != PhaseRequested && g.phase != PhaseEditing
}

// Approved reports the disposition; meaningful only once resolved.
func (g *ApprovalGate) Approved() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.approved
}
