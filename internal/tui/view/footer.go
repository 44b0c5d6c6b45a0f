package view

import "github.com/charmbracelet/lipgloss"

// FooterHeight is the number of lines the footer occupies.
const FooterHeight = 3

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	InnerW     int
	FilterLine string
	StatusLine string
	HelpLine   string
	Bg         lipgloss.Color
}

// RenderFooter renders the filter, status, and help lines.
func RenderFooter(state FooterViewState) string {
	s := state.FilterLine + "\n" + state.StatusLine + "\n" + state.HelpLine
	return PlaceBox(state.InnerW, FooterHeight, lipgloss.Bottom, s, state.Bg)
}
