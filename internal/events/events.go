// Package events publishes course change notifications so other processes
// (the watch command, other dashboards) can refresh.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Kind names the mutation that produced an event.
type Kind string

const (
	Created  Kind = "created"
	Updated  Kind = "updated"
	Deleted  Kind = "deleted"
	Imported Kind = "imported"
)

// Event is a course change notification. Receivers refetch; the event
// carries no course data.
type Event struct {
	Kind     Kind      `json:"kind"`
	CourseID string    `json:"courseId,omitempty"`
	Term     string    `json:"term,omitempty"`
	Count    int       `json:"count,omitempty"`
	At       time.Time `json:"at"`
}

func (e Event) encode() ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encoding event: %w", err)
	}
	return body, nil
}

func decode(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, fmt.Errorf("decoding event: %w", err)
	}
	if e.Kind == "" {
		return Event{}, fmt.Errorf("decoding event: missing kind")
	}
	return e, nil
}

// Bus publishes and receives events.
type Bus interface {
	Publish(ctx context.Context, e Event) error
	// Subscribe delivers events until ctx is done, then closes the channel.
	Subscribe(ctx context.Context) (<-chan Event, error)
	Close() error
}

// Nop drops every event. Subscribers never receive anything.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

func (Nop) Subscribe(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (Nop) Close() error { return nil }
