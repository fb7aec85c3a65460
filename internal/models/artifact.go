package models

// ArtifactType identifies which collection an artifact belongs to.
type ArtifactType string

const (
	ArtifactCharacter  ArtifactType = "character"
	ArtifactBackground ArtifactType = "background"
	ArtifactScene      ArtifactType = "scene"
)

// Character is a generated character portrait.
type Character struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Prompt      string `json:"prompt,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Background is a generated environment image.
type Background struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Prompt      string `json:"prompt,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Scene composes characters with a background. CharacterIDs and
// BackgroundID are weak references; the agent is the source of truth
// for their existence.
type Scene struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Prompt       string   `json:"prompt,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	CharacterIDs []string `json:"characterIds"`
	BackgroundID string   `json:"backgroundId"`
}

// AgentState is the authoritative artifact state pushed by the agent.
// Absent lists decode as nil and are treated as empty everywhere.
type AgentState struct {
	Characters  []Character  `json:"characters"`
	Backgrounds []Background `json:"backgrounds"`
	Scenes      []Scene      `json:"scenes"`
	APIKey      string       `json:"apiKey,omitempty"`
}

// HasArtifacts reports whether any artifact list is non-empty.
func (s AgentState) HasArtifacts() bool {
	return len(s.Characters) > 0 || len(s.Backgrounds) > 0 || len(s.Scenes) > 0
}

// PendingAction is an optimistic placeholder for an approved generation
// that the agent has not yet confirmed via a state snapshot.
type PendingAction struct {
	ID          string
	ToolName    string
	TargetName  string
	Title       string
	Icon        string
	Description string
}
