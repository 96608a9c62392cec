package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coursegrid/coursegrid/internal/curriculum"
	"github.com/coursegrid/coursegrid/internal/events"
	"github.com/coursegrid/coursegrid/internal/service"
)

type fakeSource struct {
	view     *service.CalendarView
	err      error
	rooms    []string
	roomsErr error
	gotQuery curriculum.Query
}

func (f *fakeSource) Calendar(ctx context.Context, q curriculum.Query) (*service.CalendarView, error) {
	f.gotQuery = q
	return f.view, f.err
}

func (f *fakeSource) Rooms(ctx context.Context, q curriculum.Query) ([]string, error) {
	f.gotQuery = q
	return f.rooms, f.roomsErr
}

func TestLoadCalendar_CarriesTicket(t *testing.T) {
	q := curriculum.Query{Program: curriculum.ComputerScience, Year: "freshman", Semester: "fall"}
	src := &fakeSource{view: &service.CalendarView{Query: q}}

	msg := LoadCalendar(src, q, 7)()
	loaded, ok := msg.(CalendarLoadedMsg)
	if !ok {
		t.Fatalf("LoadCalendar returned %T, want CalendarLoadedMsg", msg)
	}
	if loaded.Ticket != 7 || loaded.View != src.view || loaded.Err != nil {
		t.Fatalf("unexpected message: %+v", loaded)
	}
	if loaded.Query != q {
		t.Fatalf("query = %+v, want %+v", loaded.Query, q)
	}
}

func TestLoadCalendar_ErrorKeepsTicket(t *testing.T) {
	boom := errors.New("boom")
	msg := LoadCalendar(&fakeSource{err: boom}, curriculum.Query{}, 3)()
	loaded := msg.(CalendarLoadedMsg)
	if loaded.Ticket != 3 || !errors.Is(loaded.Err, boom) {
		t.Fatalf("unexpected message: %+v", loaded)
	}
}

func TestLoadRooms_DropsSelectedRoom(t *testing.T) {
	src := &fakeSource{rooms: []string{"101", "305"}}
	q := curriculum.Query{Program: curriculum.Cybersecurity, Year: "junior", Semester: "fall", Room: "305"}

	msg := LoadRooms(src, q)()
	loaded, ok := msg.(RoomsLoadedMsg)
	if !ok {
		t.Fatalf("LoadRooms returned %T, want RoomsLoadedMsg", msg)
	}
	if src.gotQuery.Room != "" {
		t.Errorf("rooms were loaded with room %q", src.gotQuery.Room)
	}
	if len(loaded.Rooms) != 2 {
		t.Errorf("rooms = %v", loaded.Rooms)
	}
}

func TestLoadRooms_Error(t *testing.T) {
	msg := LoadRooms(&fakeSource{roomsErr: errors.New("down")}, curriculum.Query{})()
	if _, ok := msg.(ErrMsg); !ok {
		t.Fatalf("LoadRooms returned %T, want ErrMsg", msg)
	}
}

func TestWaitForChange(t *testing.T) {
	if WaitForChange(nil) != nil {
		t.Fatal("WaitForChange(nil) should not start a watch")
	}

	ch := make(chan events.Event, 1)
	ch <- events.Event{Kind: events.Created, CourseID: "4", At: time.Unix(0, 0)}
	msg := WaitForChange(ch)()
	changed, ok := msg.(ChangedMsg)
	if !ok || changed.Event.CourseID != "4" {
		t.Fatalf("unexpected message: %#v", msg)
	}

	close(ch)
	if msg := WaitForChange(ch)(); msg != nil {
		t.Fatalf("closed feed returned %#v, want nil", msg)
	}
}
