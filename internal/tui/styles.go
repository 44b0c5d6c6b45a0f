package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/tui/theme"
	"github.com/CenJi03/school-system-sub001/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	colorBg      lipgloss.Color
	colorFg      lipgloss.Color
	colorFgMuted lipgloss.Color
	colorAccent  lipgloss.Color

	TitleStyle lipgloss.Style
	BusyStyle  lipgloss.Style

	// Grid
	DayHeaderStyle      lipgloss.Style
	DayHeaderTodayStyle lipgloss.Style
	TimeColumnStyle     lipgloss.Style
	EmptyCellStyle      lipgloss.Style
	CursorStyle         lipgloss.Style
	SelectedBlockStyle  lipgloss.Style
	BorderStyle         lipgloss.Style

	// Footer
	FilterStyle      lipgloss.Style
	FilterValueStyle lipgloss.Style
	StatusStyle      lipgloss.Style
	StatusErrorStyle lipgloss.Style
	HelpStyle        lipgloss.Style

	// Modal
	ModalBgColor           lipgloss.Color
	ModalStyle             lipgloss.Style
	ModalHeaderStyle       lipgloss.Style
	ModalFooterStyle       lipgloss.Style
	ModalTitleStyle        lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalMetaStyle         lipgloss.Style
	ModalSectionTitleStyle lipgloss.Style
	ModalTagStyle          lipgloss.Style
	ModalLabelStyle        lipgloss.Style
	ModalValueStyle        lipgloss.Style
	ModalFocusStyle        lipgloss.Style
	ModalInputTextStyle    lipgloss.Style
	ModalInputCursorStyle  lipgloss.Style
	ModalPlaceholderStyle  lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style
	ModalHintStyle         lipgloss.Style
	ModalErrorStyle        lipgloss.Style
	ModalWarningStyle      lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	palette := theme.NewPalette(t)
	s := &Styles{
		palette:      palette,
		colorBg:      palette.Bg,
		colorFg:      palette.Fg,
		colorFgMuted: palette.FgMuted,
		colorAccent:  palette.Accent,
	}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.Accent).
		Background(palette.Bg)

	s.BusyStyle = lipgloss.NewStyle().
		Foreground(palette.Warning).
		Background(palette.Bg)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(palette.Fg).
		Background(palette.Bg)

	s.DayHeaderTodayStyle = s.DayHeaderStyle.
		Foreground(palette.Accent).
		Underline(true)

	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(palette.Accent).
		Background(palette.Bg)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Foreground(palette.FgMuted).
		Background(palette.Bg)

	s.CursorStyle = lipgloss.NewStyle().
		Background(palette.BgSelection).
		Foreground(palette.Accent).
		Bold(true)

	s.SelectedBlockStyle = lipgloss.NewStyle().
		Background(palette.Warning).
		Foreground(palette.TextOnWarning).
		Bold(true)

	s.BorderStyle = lipgloss.NewStyle().
		Foreground(palette.Accent).
		Background(palette.Bg)

	s.FilterStyle = lipgloss.NewStyle().
		Foreground(palette.FgMuted).
		Background(palette.Bg)

	s.FilterValueStyle = lipgloss.NewStyle().
		Foreground(palette.Warning).
		Background(palette.Bg).
		Bold(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(palette.Accent).
		Background(palette.Bg).
		Bold(true)

	s.StatusErrorStyle = lipgloss.NewStyle().
		Foreground(palette.Error).
		Background(palette.Bg).
		Bold(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(palette.FgMuted).
		Background(palette.Bg)

	modal := palette.Modal
	s.ModalBgColor = modal.Bg

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.Border).
		Background(modal.Bg).
		Foreground(modal.Text).
		Padding(1, 1).
		Width(modalWidth).
		Align(lipgloss.Left)

	s.ModalHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modal.Bg).
		Padding(0, 1)

	s.ModalFooterStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(modal.Bg)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalBodyStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalMetaStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.ModalSectionTitleStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Bold(true).
		Background(modal.Bg)

	s.ModalTagStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Panel).
		Bold(true).
		Padding(0, 1)

	s.ModalLabelStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Bold(true).
		Background(modal.Bg)

	s.ModalValueStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalFocusStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Panel).
		Bold(true)

	s.ModalInputTextStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Panel)

	s.ModalInputCursorStyle = lipgloss.NewStyle().
		Foreground(modal.ReverseText).
		Background(modal.Highlight)

	s.ModalPlaceholderStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Panel)

	s.ModalButtonStyle = lipgloss.NewStyle().
		Background(modal.Panel).
		Foreground(modal.Text).
		Padding(0, 2)

	s.ModalButtonActiveStyle = lipgloss.NewStyle().
		Background(modal.Highlight).
		Foreground(modal.ReverseText).
		Padding(0, 2).
		Underline(true)

	s.ModalHintStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.ModalErrorStyle = lipgloss.NewStyle().
		Foreground(palette.Error).
		Background(modal.Bg).
		Bold(true)

	s.ModalWarningStyle = lipgloss.NewStyle().
		Foreground(palette.Warning).
		Background(modal.Bg)

	return s
}

// BlockStyle returns the cell style for a class block of the given level.
// Alt selects the alternate shade used for back-to-back classes.
func (s *Styles) BlockStyle(e schedule.Entry, alt bool) lipgloss.Style {
	c := s.palette.Level(e.Course.Level)
	bg := c.Bg
	switch {
	case !e.Recurring:
		bg = c.Muted
	case alt:
		bg = c.BgAlt
	}
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(c.Text)
}

// LevelAccent returns the accent color of a course level.
func (s *Styles) LevelAccent(level schedule.Level) lipgloss.Color {
	return s.palette.Level(level).Accent
}

// ModalStyles returns the styles for modal frames and buttons.
func (s *Styles) ModalStyles() view.ModalStyles {
	return view.ModalStyles{
		HeaderStyle:       s.ModalHeaderStyle,
		TitleStyle:        s.ModalTitleStyle,
		FooterStyle:       s.ModalFooterStyle,
		FrameStyle:        s.ModalStyle,
		ButtonStyle:       s.ModalButtonStyle,
		ButtonActiveStyle: s.ModalButtonActiveStyle,
		BodyStyle:         s.ModalBodyStyle,
	}
}

// FormStyles returns the styles for the class form body.
func (s *Styles) FormStyles() view.FormStyles {
	return view.FormStyles{
		TagStyle:   s.ModalTagStyle,
		BodyStyle:  s.ModalBodyStyle,
		LabelStyle: s.ModalLabelStyle,
		FocusStyle: s.ModalFocusStyle,
		ValueStyle: s.ModalValueStyle,
		HintStyle:  s.ModalHintStyle,
		ErrorStyle: s.ModalErrorStyle,
		LabelWidth: formLabelWidth,
		ValueWidth: modalWidth - formLabelWidth - 6,
	}
}

// SummaryStyles returns the styles for the week summary body.
func (s *Styles) SummaryStyles() view.SummaryStyles {
	return view.SummaryStyles{
		BodyStyle:         s.ModalBodyStyle,
		MetaStyle:         s.ModalMetaStyle,
		SectionTitleStyle: s.ModalSectionTitleStyle,
		WarningStyle:      s.ModalWarningStyle,
	}
}
