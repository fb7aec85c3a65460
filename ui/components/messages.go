package components

import (
	"strings"

	"github.com/sceneweave/sceneweave/internal/models"
	"github.com/sceneweave/sceneweave/internal/utils"
	"github.com/sceneweave/sceneweave/ui/styles"
)

func RenderMessages(messages []models.Message) string {
	var b strings.Builder

	userStyle := styles.UserStyle()
	assistantStyle := styles.AssistantStyle()
	programStyle := styles.ProgramStyle()
	toolStyle := styles.ToolStyle()
	toolErrorStyle := styles.ToolErrorStyle()

	for _, msg := range messages {
		switch msg.Type {
		case models.User:
			b.WriteString(userStyle.Render("You: "+msg.Content) + "\n\n")
		case models.Assistant:
			b.WriteString(assistantStyle.Render("Agent: "+utils.RenderMarkdown(msg.Content)) + "\n\n")
		case models.Program:
			b.WriteString(programStyle.Render(msg.Content) + "\n\n")
		case models.ToolCall:
			b.WriteString(toolStyle.Render("⚙ "+msg.ToolName+" "+msg.Content) + "\n\n")
		case models.ToolResult:
			if msg.IsError {
				b.WriteString(toolErrorStyle.Render("✗ "+msg.ToolName+": "+msg.Content) + "\n\n")
			} else {
				b.WriteString(toolStyle.Render("✓ "+msg.ToolName+" finished") + "\n\n")
			}
		}
	}

	return b.String()
}
