// Package schedsync owns the authoritative list of schedule entries and keeps
// it in step with the backend around loads and mutations.
package schedsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/timetable"
)

// Sync errors.
var (
	ErrFetch      = errors.New("fetch failed")
	ErrMutation   = errors.New("save failed")
	ErrStale      = errors.New("load superseded by a newer result")
	ErrBusy       = errors.New("a submission is already in progress")
	ErrNoForm     = errors.New("no form is open")
	ErrNotEditing = errors.New("form does not edit an existing entry")
)

// User-facing messages.
const (
	MsgCreated       = "Class scheduled successfully"
	MsgUpdated       = "Schedule updated successfully"
	MsgDeleted       = "Schedule deleted successfully"
	MsgLoadFailed    = "Failed to load schedule data"
	MsgLookupsFailed = "Failed to load form options"
	MsgSaveFailed    = "Failed to save schedule"
	MsgDeleteFailed  = "Failed to delete schedule"
)

// MutationState is the submit state of the form.
type MutationState int

const (
	Idle MutationState = iota
	Submitting
)

func (s MutationState) String() string {
	if s == Submitting {
		return "submitting"
	}
	return "idle"
}

// Options configures a Sync.
type Options struct {
	// CheckConflicts rejects submissions that overlap a loaded entry with the
	// same teacher or room before anything is sent.
	CheckConflicts bool
	Notifier       Notifier
	Logger         *zap.Logger
	Now            func() time.Time
}

// Sync is the single writer of the entry list. The list is replaced
// wholesale on every successful load and never modified in place, so a
// slice returned by Snapshot stays valid after later loads.
type Sync struct {
	backend        schedule.Backend
	notifier       Notifier
	log            *zap.Logger
	now            func() time.Time
	checkConflicts bool

	mu      sync.Mutex
	entries []schedule.Entry
	filter  schedule.Filter
	lookups schedule.Lookups
	issued  uint64 // last load token handed out
	applied uint64 // token of the newest resolved load
	state   MutationState
	form    *Form
}

// New creates a Sync over backend.
func New(backend schedule.Backend, opts Options) *Sync {
	s := &Sync{
		backend:        backend,
		notifier:       opts.Notifier,
		log:            opts.Logger,
		now:            opts.Now,
		checkConflicts: opts.CheckConflicts,
	}
	if s.notifier == nil {
		s.notifier = NotifierFunc(func(Notification) {})
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Snapshot returns the current entry list. Callers must not modify it.
func (s *Sync) Snapshot() []schedule.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries
}

// Project projects the current list onto g.
func (s *Sync) Project(g timetable.Grid) *timetable.Projection {
	return timetable.Project(g, s.Snapshot())
}

// Filter returns the filter of the most recent load.
func (s *Sync) Filter() schedule.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Lookups returns the last successfully loaded form options.
func (s *Sync) Lookups() schedule.Lookups {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups
}

// State returns the mutation state.
func (s *Sync) State() MutationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load fetches the entries matching f and replaces the list with them.
// On failure the previous list is kept and an error notification is sent.
// If a load started later has already resolved, the result is discarded
// and ErrStale is returned.
func (s *Sync) Load(ctx context.Context, f schedule.Filter) error {
	s.mu.Lock()
	s.issued++
	token := s.issued
	s.filter = f
	s.mu.Unlock()

	entries, err := s.backend.ListEntries(ctx, f)

	s.mu.Lock()
	if token < s.applied {
		applied := s.applied
		s.mu.Unlock()
		s.log.Debug("discarding stale load", zap.Uint64("token", token), zap.Uint64("applied", applied))
		return ErrStale
	}
	s.applied = token
	if err != nil {
		s.mu.Unlock()
		s.log.Warn("load failed", zap.Uint64("token", token), zap.Error(err))
		s.notifyError(MsgLoadFailed, err)
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	owned := make([]schedule.Entry, len(entries))
	copy(owned, entries)
	s.entries = owned
	s.mu.Unlock()

	s.log.Debug("load applied", zap.Uint64("token", token), zap.Int("entries", len(owned)))
	return nil
}

// Reload repeats the most recent load's filter.
func (s *Sync) Reload(ctx context.Context) error {
	return s.Load(ctx, s.Filter())
}

// LoadLookups fetches teachers, courses and rooms for the form.
// On failure the previous lookups are kept.
func (s *Sync) LoadLookups(ctx context.Context) error {
	l, err := schedule.LoadLookups(ctx, s.backend)
	if err != nil {
		s.log.Warn("lookups failed", zap.Error(err))
		s.notifyError(MsgLookupsFailed, err)
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	s.mu.Lock()
	s.lookups = l
	s.mu.Unlock()
	return nil
}

// Create submits a new entry and reloads on success.
func (s *Sync) Create(ctx context.Context, form schedule.FormData) error {
	return s.mutate(ctx, MsgCreated, MsgSaveFailed, func() error {
		if err := s.precheck(form, ""); err != nil {
			return err
		}
		_, err := s.backend.CreateEntry(ctx, form)
		return err
	})
}

// Update replaces entry id and reloads on success.
func (s *Sync) Update(ctx context.Context, id string, form schedule.FormData) error {
	return s.mutate(ctx, MsgUpdated, MsgSaveFailed, func() error {
		if err := s.precheck(form, id); err != nil {
			return err
		}
		_, err := s.backend.UpdateEntry(ctx, id, form)
		return err
	})
}

// Remove deletes entry id and reloads on success.
func (s *Sync) Remove(ctx context.Context, id string) error {
	return s.mutate(ctx, MsgDeleted, MsgDeleteFailed, func() error {
		return s.backend.DeleteEntry(ctx, id)
	})
}

func (s *Sync) precheck(form schedule.FormData, excludeID string) error {
	if err := form.Validate(); err != nil {
		return err
	}
	if !s.checkConflicts {
		return nil
	}
	return schedule.CheckConflicts(s.Snapshot(), form, excludeID)
}

// mutate runs op under the Idle -> Submitting -> Idle state machine.
// Exactly one notification is sent per call.
func (s *Sync) mutate(ctx context.Context, okMsg, failMsg string, op func() error) error {
	s.mu.Lock()
	if s.state == Submitting {
		s.mu.Unlock()
		return ErrBusy
	}
	s.state = Submitting
	s.mu.Unlock()

	err := op()

	s.mu.Lock()
	s.state = Idle
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("mutation failed", zap.String("op", failMsg), zap.Error(err))
		s.notifyError(failMsg, err)
		return fmt.Errorf("%w: %w", ErrMutation, err)
	}

	s.notifier.Notify(Notification{Severity: SeverityInfo, Message: okMsg, At: s.now()})
	if err := s.Reload(ctx); err != nil && !errors.Is(err, ErrStale) {
		return err
	}
	return nil
}

func (s *Sync) notifyError(msg string, err error) {
	s.notifier.Notify(Notification{Severity: SeverityError, Message: msg, Err: err, At: s.now()})
}

func isMutationFailure(err error) bool {
	return errors.Is(err, ErrMutation) || errors.Is(err, ErrBusy)
}
