package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CenJi03/school-system-sub001/internal/dateutil"
	"github.com/CenJi03/school-system-sub001/internal/schedsync"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/tui/view"
)

const appTitle = "aula · weekly timetable"

// View renders the timetable, footer, and any open modal.
func (m Model) View() string {
	return view.Render(m.viewState())
}

func (m Model) viewState() view.ViewState {
	showModal := m.mode != ModeNormal
	modal := ""
	if showModal {
		modal = m.renderModal()
	}
	return view.ViewState{
		Width:            m.width,
		Height:           m.height,
		BaseContent:      m.renderAppContent(),
		ModalContent:     modal,
		ShowModal:        showModal,
		ModalBg:          m.styles.ModalBgColor,
		EmptyPlaceholder: "Loading...",
	}
}

func (m Model) renderAppContent() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	grid := "Terminal too small"
	if state := m.tableViewState(); state.Render {
		grid = view.RenderTable(state)
	} else {
		grid = view.PlaceBox(m.width, m.layout.GridH, lipgloss.Center, m.styles.HelpStyle.Render(grid), m.styles.colorBg)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		grid,
		view.RenderFooter(m.footerViewState()),
	)
	return view.PadLinesWithBackground(content, m.width, m.height, m.styles.colorBg)
}

func (m Model) renderTitle() string {
	title := m.styles.TitleStyle.Render(appTitle)
	switch {
	case m.submitting:
		title += m.styles.BusyStyle.Render("  saving…")
	case m.loading:
		title += m.styles.BusyStyle.Render("  loading…")
	}
	return view.PlaceBox(m.width, titleHeight, lipgloss.Top, title, m.styles.colorBg)
}

func (m Model) footerViewState() view.FooterViewState {
	return view.FooterViewState{
		InnerW:     m.width,
		FilterLine: m.renderFilterLine(),
		StatusLine: m.renderStatusLine(),
		HelpLine:   m.styles.HelpStyle.Render(view.Fit(m.helpText(), m.width)),
		Bg:         m.styles.colorBg,
	}
}

func (m Model) renderFilterLine() string {
	f := m.sync.Filter()
	teacher := "all"
	if f.TeacherID != "" {
		teacher = refName(f.TeacherID, m.sync.Lookups().Teacher)
	}
	date := "any"
	if f.Date != nil {
		date = f.Date.Format(dateutil.Layout)
	}

	label, value := m.styles.FilterStyle, m.styles.FilterValueStyle
	parts := []string{
		label.Render("Teacher: ") + value.Render(teacher),
		label.Render("Date: ") + value.Render(date),
		label.Render("Classes: ") + value.Render(fmt.Sprint(len(m.sync.Snapshot()))),
	}
	return strings.Join(parts, label.Render("  "))
}

func (m Model) renderStatusLine() string {
	if m.statusMsg == "" {
		return ""
	}
	style := m.styles.StatusStyle
	if m.statusErr {
		style = m.styles.StatusErrorStyle
	}
	return style.Render(view.Fit(m.statusMsg, m.width))
}

func (m Model) helpText() string {
	switch m.mode {
	case ModeForm:
		return "tab/↑↓ field · ←→ choose · space toggle · enter save · ^d delete · esc cancel"
	case ModeConfirmDelete:
		return "y delete · n back"
	case ModeSummary:
		return "y copy · esc close"
	case ModeDatePrompt:
		return "enter apply · esc cancel"
	default:
		return "hjkl move · enter open · n new · t teacher · D date · r reset · R reload · s summary · y copy · q quit"
	}
}

func (m Model) renderModal() string {
	ms := m.styles.ModalStyles()
	switch m.mode {
	case ModeForm:
		buttons := []string{"[Enter] Save", "[Esc] Cancel"}
		if m.form.mode == schedsync.FormEdit {
			buttons = append(buttons, "[^D] Delete")
		}
		body := view.RenderFormBody(view.FormModel{
			Tags:   m.formTags(),
			Fields: m.form.fields(m.sync.Lookups()),
			Err:    m.form.err,
			Busy:   m.submitting,
		}, m.styles.FormStyles())
		return view.RenderModalFrame(m.form.title(), body, view.RenderModalButtons(ms, buttons...), ms)

	case ModeConfirmDelete:
		body := m.styles.ModalBodyStyle.Render("Delete " + m.deleteTarget() + "?")
		return view.RenderModalFrame("Delete class", body, view.RenderModalButtons(ms, "[y] Delete", "[n] Back"), ms)

	case ModeSummary:
		body := view.RenderSummaryBody(m.summaryLines, m.styles.SummaryStyles())
		return view.RenderModalFrame("Week summary", body, "", ms)

	case ModeDatePrompt:
		return view.RenderModalFrame("Filter by date", m.datePrompt.View(), "", ms)
	}
	return ""
}

// formTags labels the form with the course level and whether the class
// repeats weekly.
func (m Model) formTags() []string {
	var tags []string
	if c, ok := m.sync.Lookups().Course(m.form.course); ok && c.Level != "" {
		tags = append(tags, string(c.Level))
	}
	if !m.form.recurring {
		tags = append(tags, "one-off")
	}
	return tags
}

// deleteTarget describes the class the open edit form points at.
func (m Model) deleteTarget() string {
	f, ok := m.sync.Form()
	if ok {
		for _, e := range m.sync.Snapshot() {
			if e.ID == f.EntryID {
				return describeEntry(e)
			}
		}
	}
	return "this class"
}

func describeEntry(e schedule.Entry) string {
	return fmt.Sprintf("%s on %s %s", e.Course.Name, e.Day, e.TimeRange())
}
