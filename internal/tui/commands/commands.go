// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CenJi03/school-system-sub001/internal/schedsync"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/summary"
)

// ScheduleLoadedMsg is sent when a schedule load resolves.
// Stale is set when a newer load already resolved and this result was dropped.
type ScheduleLoadedMsg struct {
	Err   error
	Stale bool
}

// LookupsLoadedMsg is sent when the form options have been fetched.
type LookupsLoadedMsg struct {
	Err error
}

// SubmittedMsg is sent when a form submission completes.
type SubmittedMsg struct {
	Err error
}

// DeletedMsg is sent when a delete from the edit form completes.
type DeletedMsg struct {
	Err error
}

// SummaryMsg is sent when the week summary is ready.
type SummaryMsg struct {
	Report *summary.Report
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadSchedule loads the entries matching f into s.
func LoadSchedule(s *schedsync.Sync, f schedule.Filter) tea.Cmd {
	return func() tea.Msg {
		err := s.Load(context.Background(), f)
		if errors.Is(err, schedsync.ErrStale) {
			return ScheduleLoadedMsg{Stale: true}
		}
		return ScheduleLoadedMsg{Err: err}
	}
}

// ReloadSchedule repeats the last load with its filter.
func ReloadSchedule(s *schedsync.Sync) tea.Cmd {
	return LoadSchedule(s, s.Filter())
}

// LoadLookups fetches teachers, courses and rooms for the form.
func LoadLookups(s *schedsync.Sync) tea.Cmd {
	return func() tea.Msg {
		return LookupsLoadedMsg{Err: s.LoadLookups(context.Background())}
	}
}

// Submit sends the pending form.
func Submit(s *schedsync.Sync) tea.Cmd {
	return func() tea.Msg {
		return SubmittedMsg{Err: s.Submit(context.Background())}
	}
}

// Delete removes the entry of the pending edit form.
func Delete(s *schedsync.Sync) tea.Cmd {
	return func() tea.Msg {
		return DeletedMsg{Err: s.Delete(context.Background())}
	}
}

// Summary builds the week report, optionally with a model review.
func Summary(b schedule.Backend, opts summary.Options) tea.Cmd {
	return func() tea.Msg {
		report, err := summary.Build(context.Background(), b, opts)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return SummaryMsg{Report: report}
	}
}

// Status shows msg for a few seconds.
func Status(msg string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsgCmd{Msg: msg}
	}
}

// ClearStatusAfter sends ClearStatusMsg after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
