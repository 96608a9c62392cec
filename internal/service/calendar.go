package service

import (
	"context"
	"fmt"

	"github.com/coursegrid/coursegrid/internal/calendar"
	"github.com/coursegrid/coursegrid/internal/course"
	"github.com/coursegrid/coursegrid/internal/curriculum"
	"github.com/coursegrid/coursegrid/internal/placement"
	"github.com/coursegrid/coursegrid/internal/schedule"
)

// CellView is a placed cell as exposed to clients.
type CellView struct {
	Day       schedule.Weekday `json:"day"`
	SlotStart int              `json:"slotStart"`
	Slot      string           `json:"slot"`
	Rowspan   int              `json:"rowspan"`
	Conflict  bool             `json:"conflict"`
	Sessions  []string         `json:"sessions"`
}

// RejectionView is a session left off the calendar and why.
type RejectionView struct {
	Session schedule.Session `json:"session"`
	Reason  string           `json:"reason"`
}

// NoticeView is a data quality warning for one session.
type NoticeView struct {
	SessionID string `json:"sessionId"`
	Kind      string `json:"kind"`
	Field     string `json:"field"`
	Detail    string `json:"detail"`
}

// CalendarView is one rendered week.
type CalendarView struct {
	Query      curriculum.Query `json:"query"`
	Layout     calendar.Layout  `json:"layout"`
	Blocks     []calendar.Block `json:"blocks"`
	Cells      []CellView       `json:"cells"`
	Rooms      []string         `json:"rooms"`
	Rejections []RejectionView  `json:"rejections"`
	Notices    []NoticeView     `json:"notices"`
	Outside    int              `json:"outside"`

	Frame calendar.Frame  `json:"-"`
	Plan  *placement.Plan `json:"-"`
}

// Conflicts counts the stacked cells.
func (v *CalendarView) Conflicts() int {
	return v.Plan.ConflictCells()
}

// Calendar renders the courses matching q onto a fresh grid.
func (s *Service) Calendar(ctx context.Context, q curriculum.Query) (*CalendarView, error) {
	courses, err := s.ListCourses(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.RenderCourses(q, courses, calendar.NewGrid(s.layout))
}

// RenderCourses runs one render pass of courses onto grid. Every call uses
// its own renderer so concurrent requests never share state.
func (s *Service) RenderCourses(q curriculum.Query, courses []*course.Course, grid *calendar.Grid) (*CalendarView, error) {
	r, err := calendar.NewRenderer(s.engine, s.layout, s.log)
	if err != nil {
		return nil, err
	}
	res, err := r.Render(grid, course.Sessions(courses))
	if err != nil {
		return nil, fmt.Errorf("rendering calendar: %w", err)
	}
	return newCalendarView(q, s.layout, res, grid.Snapshot()), nil
}

func newCalendarView(q curriculum.Query, layout calendar.Layout, res *calendar.Result, frame calendar.Frame) *CalendarView {
	plan := res.Plan
	v := &CalendarView{
		Query:      q,
		Layout:     layout,
		Blocks:     res.Blocks,
		Cells:      make([]CellView, 0, len(plan.Cells)),
		Rooms:      plan.Rooms,
		Rejections: make([]RejectionView, 0, len(plan.Rejections)),
		Notices:    make([]NoticeView, 0, len(plan.Notices)),
		Outside:    len(res.Outside),
		Frame:      frame,
		Plan:       plan,
	}
	if v.Blocks == nil {
		v.Blocks = []calendar.Block{}
	}
	if v.Rooms == nil {
		v.Rooms = []string{}
	}

	for _, c := range plan.Cells {
		ids := make([]string, len(c.Members))
		for i, m := range c.Members {
			ids[i] = m.ID
		}
		v.Cells = append(v.Cells, CellView{
			Day:       c.Day,
			SlotStart: c.SlotStart,
			Slot:      schedule.FormatSlot(c.SlotStart, plan.Granularity),
			Rowspan:   c.Rowspan,
			Conflict:  c.Conflict(),
			Sessions:  ids,
		})
	}
	for _, r := range plan.Rejections {
		v.Rejections = append(v.Rejections, RejectionView{Session: r.Session, Reason: r.Err.Error()})
	}
	for _, n := range plan.Notices {
		v.Notices = append(v.Notices, NoticeView{
			SessionID: n.SessionID,
			Kind:      string(n.Warning.Kind),
			Field:     n.Warning.Field,
			Detail:    n.Warning.Detail,
		})
	}
	return v
}

// Rooms lists the distinct rooms of the placed courses matching q, in
// first-seen order.
func (s *Service) Rooms(ctx context.Context, q curriculum.Query) ([]string, error) {
	courses, err := s.ListCourses(ctx, q)
	if err != nil {
		return nil, err
	}
	rooms := s.engine.Place(course.Sessions(courses)).Rooms
	if rooms == nil {
		rooms = []string{}
	}
	return rooms, nil
}
