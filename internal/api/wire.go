package api

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

// flexID accepts both JSON numbers and strings.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = flexID(n.String())
	return nil
}

type refJSON struct {
	ID        flexID `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r refJSON) ref() schedule.Ref {
	name := r.Name
	if name == "" {
		name = strings.TrimSpace(r.FirstName + " " + r.LastName)
	}
	return schedule.Ref{ID: string(r.ID), Name: name}
}

type courseJSON struct {
	ID    flexID `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

func (c courseJSON) course() schedule.Course {
	return schedule.Course{ID: string(c.ID), Name: c.Name, Level: schedule.Level(strings.ToLower(c.Level))}
}

type roomJSON struct {
	ID       flexID `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

func (r roomJSON) room() schedule.Room {
	return schedule.Room{ID: string(r.ID), Name: r.Name, Capacity: r.Capacity}
}

type entryJSON struct {
	ID           flexID           `json:"id"`
	Day          schedule.Weekday `json:"day"`
	Start        schedule.Clock   `json:"start_time"`
	End          schedule.Clock   `json:"end_time"`
	Course       courseJSON       `json:"course"`
	Teacher      refJSON          `json:"teacher"`
	Room         roomJSON         `json:"room"`
	StudentCount int              `json:"student_count"`
	Recurring    bool             `json:"recurring"`
}

func (w entryJSON) entry() schedule.Entry {
	return schedule.Entry{
		ID:           string(w.ID),
		Day:          w.Day,
		Start:        w.Start,
		End:          w.End,
		Course:       w.Course.course(),
		Teacher:      w.Teacher.ref(),
		Room:         w.Room.room().Ref(),
		StudentCount: w.StudentCount,
		Recurring:    w.Recurring,
	}
}
