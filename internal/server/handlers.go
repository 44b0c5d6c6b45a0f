package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/CenJi03/school-system-sub001/internal/export"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/timetable"
)

// Store is the persistence the server needs.
type Store interface {
	schedule.Backend
	GetEntry(ctx context.Context, id string) (schedule.Entry, error)
}

type scheduleAPI struct {
	store Store
	grid  timetable.Grid
	loc   *time.Location
}

func registerScheduleAPI(g *echo.Group, api *scheduleAPI) {
	sg := g.Group("/staff/schedule")
	sg.GET("", api.list)
	sg.POST("", api.create)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)

	g.GET("/staff", api.teachers)
	g.GET("/curriculum/courses", api.courses)
	g.GET("/facilities/rooms", api.rooms)

	g.GET("/timetable", api.timetable)
	g.GET("/timetable.xlsx", api.timetableXLSX)
	g.GET("/timetable.ics", api.timetableICS)
}

func (api *scheduleAPI) filter(c echo.Context) (schedule.Filter, error) {
	f := schedule.Filter{TeacherID: c.QueryParam("teacher_id")}
	if raw := c.QueryParam("date"); raw != "" {
		d, err := time.ParseInLocation(time.DateOnly, raw, api.loc)
		if err != nil {
			return f, errBadDate
		}
		f.Date = &d
	}
	return f, nil
}

func (api *scheduleAPI) list(c echo.Context) error {
	f, err := api.filter(c)
	if err != nil {
		return err
	}
	entries, err := api.store.ListEntries(c.Request().Context(), f)
	if err != nil {
		return fmt.Errorf("listing entries: %w", err)
	}
	return c.JSON(http.StatusOK, nonNil(entries))
}

func (api *scheduleAPI) bindForm(c echo.Context) (schedule.FormData, error) {
	var form schedule.FormData
	if err := c.Bind(&form); err != nil {
		return form, err
	}
	if err := c.Validate(form); err != nil {
		return form, err
	}
	return form, nil
}

func (api *scheduleAPI) create(c echo.Context) error {
	form, err := api.bindForm(c)
	if err != nil {
		return err
	}
	e, err := api.store.CreateEntry(c.Request().Context(), form)
	if err != nil {
		return fmt.Errorf("creating entry: %w", err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (api *scheduleAPI) retrieve(c echo.Context) error {
	e, err := api.store.GetEntry(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (api *scheduleAPI) update(c echo.Context) error {
	form, err := api.bindForm(c)
	if err != nil {
		return err
	}
	e, err := api.store.UpdateEntry(c.Request().Context(), c.Param("id"), form)
	if err != nil {
		return fmt.Errorf("updating entry: %w", err)
	}
	return c.JSON(http.StatusOK, e)
}

func (api *scheduleAPI) destroy(c echo.Context) error {
	if err := api.store.DeleteEntry(c.Request().Context(), c.Param("id")); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// teachers serves the staff directory. Only teachers are stored, so any
// other role yields an empty list.
func (api *scheduleAPI) teachers(c echo.Context) error {
	if role := c.QueryParam("role"); role != "" && role != "teacher" {
		return c.JSON(http.StatusOK, []schedule.Ref{})
	}
	out, err := api.store.ListTeachers(c.Request().Context())
	if err != nil {
		return fmt.Errorf("listing teachers: %w", err)
	}
	return c.JSON(http.StatusOK, nonNil(out))
}

func (api *scheduleAPI) courses(c echo.Context) error {
	out, err := api.store.ListCourses(c.Request().Context())
	if err != nil {
		return fmt.Errorf("listing courses: %w", err)
	}
	return c.JSON(http.StatusOK, nonNil(out))
}

func (api *scheduleAPI) rooms(c echo.Context) error {
	out, err := api.store.ListRooms(c.Request().Context())
	if err != nil {
		return fmt.Errorf("listing rooms: %w", err)
	}
	return c.JSON(http.StatusOK, nonNil(out))
}

type cellJSON struct {
	Day         schedule.Weekday `json:"day"`
	Slot        schedule.Clock   `json:"slot"`
	State       string           `json:"state"`
	EntryID     string           `json:"entry_id,omitempty"`
	Span        int              `json:"span,omitempty"`
	VisibleSpan int              `json:"visible_span,omitempty"`
}

type timetableJSON struct {
	Days  []schedule.Weekday `json:"days"`
	Slots []schedule.Clock   `json:"slots"`
	Rows  [][]cellJSON       `json:"rows"`
}

func (api *scheduleAPI) projection(c echo.Context) (*timetable.Projection, []schedule.Entry, error) {
	f, err := api.filter(c)
	if err != nil {
		return nil, nil, err
	}
	entries, err := api.store.ListEntries(c.Request().Context(), f)
	if err != nil {
		return nil, nil, fmt.Errorf("listing entries: %w", err)
	}
	return timetable.Project(api.grid, entries), entries, nil
}

func (api *scheduleAPI) timetable(c echo.Context) error {
	p, _, err := api.projection(c)
	if err != nil {
		return err
	}
	out := timetableJSON{
		Days:  p.Grid().Days(),
		Slots: p.Grid().Slots(),
	}
	for _, row := range p.Rows() {
		cells := make([]cellJSON, len(row))
		for i, cl := range row {
			cells[i] = cellJSON{Day: cl.Day, Slot: cl.Slot, State: cl.State.String()}
			if cl.State != timetable.Empty {
				cells[i].EntryID = cl.Entry.ID
			}
			if cl.State == timetable.Anchor {
				cells[i].Span = cl.Span
				cells[i].VisibleSpan = cl.VisibleSpan
			}
		}
		out.Rows = append(out.Rows, cells)
	}
	return c.JSON(http.StatusOK, out)
}

func (api *scheduleAPI) timetableXLSX(c echo.Context) error {
	p, _, err := api.projection(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, p, "Weekly timetable"); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="timetable.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (api *scheduleAPI) timetableICS(c echo.Context) error {
	_, entries, err := api.projection(c)
	if err != nil {
		return err
	}
	opts := export.CalendarOptions{Location: api.loc}
	if raw := c.QueryParam("week"); raw != "" {
		week, err := time.ParseInLocation(time.DateOnly, raw, api.loc)
		if err != nil {
			return errBadDate
		}
		opts.WeekOf = week
	}
	if raw := c.QueryParam("until"); raw != "" {
		until, err := time.ParseInLocation(time.DateOnly, raw, api.loc)
		if err != nil {
			return errBadDate
		}
		opts.Until = until
	}
	var buf bytes.Buffer
	if err := export.WriteICS(&buf, entries, opts); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="timetable.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
