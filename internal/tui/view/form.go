package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FormField is one rendered line of the class form.
type FormField struct {
	Label   string
	Value   string
	Focused bool
	// Choice marks fields cycled with left/right.
	Choice  bool
}

// FormModel contains the fields needed to render the class form body.
type FormModel struct {
	Tags   []string
	Fields []FormField
	Err    string
	Busy   bool
}

// FormStyles groups styles for the class form body.
type FormStyles struct {
	TagStyle   lipgloss.Style
	BodyStyle  lipgloss.Style
	LabelStyle lipgloss.Style
	FocusStyle lipgloss.Style
	ValueStyle lipgloss.Style
	HintStyle  lipgloss.Style
	ErrorStyle lipgloss.Style
	LabelWidth int
	ValueWidth int
}

// RenderFormBody renders the modal body for the class form.
func RenderFormBody(model FormModel, styles FormStyles) string {
	var body strings.Builder
	sep := styles.BodyStyle.Render(" ")

	if len(model.Tags) > 0 {
		tags := make([]string, len(model.Tags))
		for i, tag := range model.Tags {
			tags[i] = styles.TagStyle.Render(tag)
		}
		body.WriteString(strings.Join(tags, sep) + "\n\n")
	}

	for _, f := range model.Fields {
		label := styles.LabelStyle.Width(styles.LabelWidth).Render(f.Label)
		value := f.Value
		if f.Choice {
			value = "‹ " + value + " ›"
		}
		valueStyle := styles.ValueStyle
		if f.Focused {
			valueStyle = styles.FocusStyle
		}
		body.WriteString(label + sep + valueStyle.Width(styles.ValueWidth).Render(Fit(value, styles.ValueWidth)) + "\n")
	}

	if model.Busy {
		body.WriteString("\n" + styles.HintStyle.Render("Saving..."))
	} else if model.Err != "" {
		body.WriteString("\n" + styles.ErrorStyle.Width(styles.LabelWidth+1+styles.ValueWidth).Render(model.Err))
	}

	return strings.TrimRight(body.String(), "\n")
}
