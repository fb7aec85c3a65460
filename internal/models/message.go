package models

type MessageType int

const (
	User MessageType = iota
	Assistant
	Program
	ToolCall
	ToolResult
)

type Message struct {
	Content string
	Type    MessageType
	// Additional fields for tool activity messages
	ToolName   string // For ToolCall and ToolResult messages
	ToolStatus string // For ToolCall messages (executing, inProgress, complete)
	IsError    bool   // For ToolResult messages carrying a structured error
}
