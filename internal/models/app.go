package models

// ApprovalView is the UI-side render state for one approval request
// (avoiding an import cycle with the core package).
type ApprovalView struct {
	ID           string
	ArtifactType ArtifactType
	Name         string
	Draft        string // mutable copy of the proposed prompt
	Editing      bool   // whether the prompt text is currently editable
	Resolved     bool   // terminal: decision has been sent
	Approved     bool   // disposition once resolved
}

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Messages     []Message       // Chat transcript to display
	Snapshot     AgentState      // Display snapshot from the core
	Pending      []PendingAction // Optimistic placeholders, in order
	Input        string          // User input field
	Status       string          // Status bar text
	Loading      bool            // Agent running state from core
	LoadingDots  int             // Animation counter for loading dots
	Width        int             // Terminal width
	Height       int             // Terminal height
	SessionReady bool            // Whether the agent session is available
	Approval     *ApprovalView   // Current approval request, if any
}
