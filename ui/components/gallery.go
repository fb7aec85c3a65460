package components

import (
	"strings"

	"github.com/sceneweave/sceneweave/internal/models"
	"github.com/sceneweave/sceneweave/ui/styles"
)

// RenderGallery shows the confirmed artifacts followed by the pending
// placeholders still awaiting agent confirmation.
func RenderGallery(snapshot models.AgentState, pending []models.PendingAction, width int) string {
	if !snapshot.HasArtifacts() && len(pending) == 0 {
		return ""
	}

	var b strings.Builder
	titleStyle := styles.SectionTitleStyle()
	itemStyle := styles.ArtifactStyle()

	if len(snapshot.Characters) > 0 || hasPendingFor(pending, "create_character") {
		b.WriteString(titleStyle.Render("Characters") + "\n")
		for _, c := range snapshot.Characters {
			b.WriteString(itemStyle.Render("👤 "+c.Name+" — "+c.Description) + "\n")
		}
		b.WriteString(renderPendingFor(pending, "create_character"))
	}

	if len(snapshot.Backgrounds) > 0 || hasPendingFor(pending, "create_background") {
		b.WriteString(titleStyle.Render("Backgrounds") + "\n")
		for _, bg := range snapshot.Backgrounds {
			b.WriteString(itemStyle.Render("🏞 "+bg.Name+" — "+bg.Description) + "\n")
		}
		b.WriteString(renderPendingFor(pending, "create_background"))
	}

	if len(snapshot.Scenes) > 0 || hasPendingFor(pending, "create_scene") {
		b.WriteString(titleStyle.Render("Scenes") + "\n")
		for _, sc := range snapshot.Scenes {
			b.WriteString(itemStyle.Render("🎬 "+sc.Name+" — "+sc.Description) + "\n")
		}
		b.WriteString(renderPendingFor(pending, "create_scene"))
	}

	b.WriteString("\n")
	return b.String()
}

func hasPendingFor(pending []models.PendingAction, toolName string) bool {
	for _, p := range pending {
		if p.ToolName == toolName {
			return true
		}
	}
	return false
}

func renderPendingFor(pending []models.PendingAction, toolName string) string {
	var b strings.Builder
	cardStyle := styles.PendingCardStyle()

	for _, p := range pending {
		if p.ToolName != toolName {
			continue
		}
		b.WriteString(cardStyle.Render(p.Icon+" "+p.Title+"\n"+p.Description) + "\n")
	}
	return b.String()
}
