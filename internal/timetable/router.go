package timetable

import (
	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

// Intent is a routed click: either CreateIntent or EditIntent.
type Intent interface {
	intent()
}

// CreateIntent asks for a new class pre-filled at the clicked slot.
type CreateIntent struct {
	Day   schedule.Weekday
	Start schedule.Clock
	End   schedule.Clock
}

// EditIntent asks to edit an existing class.
type EditIntent struct {
	Entry schedule.Entry
}

func (CreateIntent) intent() {}
func (EditIntent) intent()   {}

// Form returns the create form pre-filled with the intent's day and hours.
func (i CreateIntent) Form() schedule.FormData {
	f := schedule.DefaultForm()
	f.Day = i.Day
	f.Start = i.Start
	f.End = i.End
	return f
}

// Form returns the edit form pre-filled from the entry.
func (i EditIntent) Form() schedule.FormData {
	return i.Entry.Form()
}

// HandleClick maps a click on (day, slot) to an intent.
// Empty cells yield a one hour CreateIntent capped at the grid's closing bound,
// anchors yield an EditIntent, covered and off-grid cells yield nil.
func HandleClick(p *Projection, day schedule.Weekday, slot schedule.Clock) Intent {
	cell, ok := p.At(day, slot)
	if !ok {
		return nil
	}
	switch cell.State {
	case Empty:
		return CreateIntent{
			Day:   day,
			Start: slot,
			End:   slot.AddHours(1, p.grid.Last()),
		}
	case Anchor:
		return EditIntent{Entry: cell.Entry}
	default:
		return nil
	}
}

// Router dispatches clicks to create and edit handlers. At most one handler
// runs per click.
type Router struct {
	OnCreate func(CreateIntent)
	OnEdit   func(EditIntent)
}

// Click routes a click and returns the intent that was dispatched, if any.
func (r Router) Click(p *Projection, day schedule.Weekday, slot schedule.Clock) Intent {
	in := HandleClick(p, day, slot)
	switch v := in.(type) {
	case CreateIntent:
		if r.OnCreate != nil {
			r.OnCreate(v)
		}
	case EditIntent:
		if r.OnEdit != nil {
			r.OnEdit(v)
		}
	}
	return in
}
