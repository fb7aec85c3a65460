package utils

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Markdown styles
func codeStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Padding(0, 1)
}

func boldStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

func italicStyle() lipgloss.Style {
	return lipgloss.NewStyle().Italic(true)
}

func listStyle() lipgloss.Style {
	return lipgloss.NewStyle().MarginLeft(2)
}

var (
	orderedItemRegex = regexp.MustCompile(`^(\d+)\.\s+(.*)`)
	inlineCodeRegex  = regexp.MustCompile("`[^`]+`")
	boldRegex        = regexp.MustCompile(`\*\*[^*]+\*\*`)
	italicRegex      = regexp.MustCompile(`_[^_]+_`)
)

// RenderMarkdown applies lightweight terminal styling to the subset of
// markdown the agent actually produces: headings, lists, inline code,
// bold and italic.
func RenderMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result strings.Builder

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}

		if title, found := cutHeading(line); found {
			result.WriteString(boldStyle().Render(renderInline(title)))
			continue
		}

		if item, found := strings.CutPrefix(line, "- "); found {
			result.WriteString(listStyle().Render("• " + renderInline(item)))
			continue
		}
		if item, found := strings.CutPrefix(line, "* "); found {
			result.WriteString(listStyle().Render("• " + renderInline(item)))
			continue
		}
		if matches := orderedItemRegex.FindStringSubmatch(line); len(matches) == 3 {
			result.WriteString(listStyle().Render(matches[1] + ". " + renderInline(matches[2])))
			continue
		}

		result.WriteString(renderInline(line))
	}

	return result.String()
}

func cutHeading(line string) (string, bool) {
	for _, prefix := range []string{"### ", "## ", "# "} {
		if title, found := strings.CutPrefix(line, prefix); found {
			return title, true
		}
	}
	return "", false
}

func renderInline(line string) string {
	line = inlineCodeRegex.ReplaceAllStringFunc(line, func(match string) string {
		return codeStyle().Render(strings.Trim(match, "`"))
	})
	line = boldRegex.ReplaceAllStringFunc(line, func(match string) string {
		return boldStyle().Render(strings.Trim(match, "*"))
	})
	line = italicRegex.ReplaceAllStringFunc(line, func(match string) string {
		return italicStyle().Render(strings.Trim(match, "_"))
	})
	return line
}
