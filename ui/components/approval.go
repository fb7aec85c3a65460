package components

import (
	"strings"

	"github.com/sceneweave/sceneweave/internal/models"
	"github.com/sceneweave/sceneweave/ui/styles"
)

// RenderApproval draws the approval modal for a proposed generation
// prompt. While editing, editorView carries the live textarea.
func RenderApproval(approval models.ApprovalView, editorView string, width int) string {
	modalStyle := styles.ApprovalModalStyle(width)
	titleStyle := styles.ApprovalTitleStyle()
	hintStyle := styles.ApprovalHintStyle()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Prompt approval — "+string(approval.ArtifactType)+": "+approval.Name) + "\n\n")

	if approval.Resolved {
		disposition := "cancelled"
		if approval.Approved {
			disposition = "approved"
		}
		b.WriteString("Decision: " + disposition + "\n\n")
		b.WriteString(hintStyle.Render("enter/esc dismiss"))
		return modalStyle.Render(b.String())
	}

	if approval.Editing {
		b.WriteString(editorView + "\n\n")
		b.WriteString(hintStyle.Render("esc done editing"))
	} else {
		b.WriteString(approval.Draft + "\n\n")
		b.WriteString(hintStyle.Render("a approve · e edit · c cancel"))
	}

	return modalStyle.Render(b.String())
}
