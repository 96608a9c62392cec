// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/coursegrid/coursegrid/internal/curriculum"
	"github.com/coursegrid/coursegrid/internal/events"
	"github.com/coursegrid/coursegrid/internal/service"
)

// Source is the part of the course service the calendar reads from.
type Source interface {
	Calendar(ctx context.Context, q curriculum.Query) (*service.CalendarView, error)
	Rooms(ctx context.Context, q curriculum.Query) ([]string, error)
}

// CalendarLoadedMsg is sent when a calendar fetch finishes.
type CalendarLoadedMsg struct {
	Ticket uint64
	Query  curriculum.Query
	View   *service.CalendarView
	Err    error
}

// RoomsLoadedMsg is sent when the room list for a filter is loaded.
type RoomsLoadedMsg struct {
	Query curriculum.Query
	Rooms []string
}

// ChangedMsg is sent when the course store reports a change.
type ChangedMsg struct {
	Event events.Event
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

// LoadCalendar renders the calendar for q. The ticket travels with the
// result so the model can drop answers to superseded fetches.
func LoadCalendar(src Source, q curriculum.Query, ticket uint64) tea.Cmd {
	return func() tea.Msg {
		v, err := src.Calendar(context.Background(), q)
		return CalendarLoadedMsg{Ticket: ticket, Query: q, View: v, Err: err}
	}
}

// LoadRooms lists the rooms used by the program/year/semester of q,
// ignoring any room already selected.
func LoadRooms(src Source, q curriculum.Query) tea.Cmd {
	q.Room = ""
	return func() tea.Msg {
		rooms, err := src.Rooms(context.Background(), q)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading rooms: %w", err)}
		}
		return RoomsLoadedMsg{Query: q, Rooms: rooms}
	}
}

// WaitForChange blocks until the next change event. It returns nil once the
// feed is closed so the watch loop stops.
func WaitForChange(ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return ChangedMsg{Event: e}
	}
}

// CopyToClipboard copies text and reports the outcome in the status line.
func CopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying calendar: %w", err)}
		}
		return StatusMsgCmd{Msg: "Calendar copied to clipboard"}
	}
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
