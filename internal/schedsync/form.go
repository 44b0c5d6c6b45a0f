package schedsync

import (
	"context"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/timetable"
)

// FormMode says whether the pending form creates or edits an entry.
type FormMode int

const (
	FormCreate FormMode = iota
	FormEdit
)

func (m FormMode) String() string {
	if m == FormEdit {
		return "edit"
	}
	return "create"
}

// Form is the pending create or edit form.
type Form struct {
	Mode    FormMode
	EntryID string // set in FormEdit mode
	Data    schedule.FormData
	Err     error // last submit error, nil after a fresh open
}

// OpenNew opens a create form with the default values.
func (s *Sync) OpenNew() Form {
	return s.openForm(Form{Mode: FormCreate, Data: schedule.DefaultForm()})
}

// OpenCreate opens a create form pre-filled from a grid click.
func (s *Sync) OpenCreate(in timetable.CreateIntent) Form {
	return s.openForm(Form{Mode: FormCreate, Data: in.Form()})
}

// OpenEdit opens an edit form for the clicked entry.
func (s *Sync) OpenEdit(in timetable.EditIntent) Form {
	return s.openForm(Form{Mode: FormEdit, EntryID: in.Entry.ID, Data: in.Form()})
}

// Open routes an intent to OpenCreate or OpenEdit. It returns false for a nil intent.
func (s *Sync) Open(in timetable.Intent) (Form, bool) {
	switch v := in.(type) {
	case timetable.CreateIntent:
		return s.OpenCreate(v), true
	case timetable.EditIntent:
		return s.OpenEdit(v), true
	default:
		return Form{}, false
	}
}

func (s *Sync) openForm(f Form) Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = &f
	return f
}

// Form returns the pending form, if one is open.
func (s *Sync) Form() (Form, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return Form{}, false
	}
	return *s.form, true
}

// SetForm replaces the pending form's field values.
func (s *Sync) SetForm(data schedule.FormData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return ErrNoForm
	}
	s.form.Data = data
	return nil
}

// CloseForm discards the pending form.
func (s *Sync) CloseForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = nil
}

// Submit sends the pending form as a create or update. On success the form
// is closed and the list reloaded. On failure the form stays open with its
// data and the error recorded in Form.Err.
func (s *Sync) Submit(ctx context.Context) error {
	f, ok := s.Form()
	if !ok {
		return ErrNoForm
	}
	var err error
	if f.Mode == FormEdit {
		err = s.Update(ctx, f.EntryID, f.Data)
	} else {
		err = s.Create(ctx, f.Data)
	}
	s.settleForm(err)
	return err
}

// Delete removes the entry of the pending edit form.
func (s *Sync) Delete(ctx context.Context) error {
	f, ok := s.Form()
	if !ok {
		return ErrNoForm
	}
	if f.Mode != FormEdit {
		return ErrNotEditing
	}
	err := s.Remove(ctx, f.EntryID)
	s.settleForm(err)
	return err
}

// settleForm closes the form after a successful mutation or records the
// failure on it. A failed reload after a successful mutation still closes it.
func (s *Sync) settleForm(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return
	}
	if err == nil || !isMutationFailure(err) {
		s.form = nil
		return
	}
	s.form.Err = err
}
