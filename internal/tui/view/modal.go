package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModalStyles groups the styles needed to render modal frames and buttons.
type ModalStyles struct {
	HeaderStyle       lipgloss.Style
	TitleStyle        lipgloss.Style
	FooterStyle       lipgloss.Style
	FrameStyle        lipgloss.Style
	ButtonStyle       lipgloss.Style
	ButtonActiveStyle lipgloss.Style
	BodyStyle         lipgloss.Style
}

// RenderModalFrame renders a modal with the provided title, body, and footer.
func RenderModalFrame(title, body, footer string, styles ModalStyles) string {
	var b strings.Builder

	b.WriteString(styles.HeaderStyle.Render(styles.TitleStyle.Render(title)))
	if body != "" {
		b.WriteString("\n\n")
		b.WriteString(body)
	}
	if footer != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.FooterStyle.Render(footer))
	}

	return styles.FrameStyle.Render(b.String())
}

// RenderModalButtons renders a row of modal buttons with the first one active.
func RenderModalButtons(styles ModalStyles, labels ...string) string {
	parts := make([]string, 0, len(labels))
	for i, label := range labels {
		style := styles.ButtonStyle
		if i == 0 {
			style = styles.ButtonActiveStyle
		}
		parts = append(parts, style.Render(label))
	}
	return strings.Join(parts, styles.BodyStyle.Render(" "))
}
