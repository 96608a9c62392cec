package events

import (
	"context"
	"testing"
	"time"

	"github.com/coursegrid/coursegrid/internal/config"
)

func TestEventEncoding(t *testing.T) {
	e := Event{Kind: Imported, Term: "24/FA", Count: 12, At: time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC)}
	body, err := e.encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if string(body) != `{"kind":"imported","term":"24/FA","count":12,"at":"2024-08-01T09:00:00Z"}` {
		t.Errorf("encoded = %s", body)
	}

	back, err := decode(body)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if back.Kind != Imported || back.Count != 12 || !back.At.Equal(e.At) {
		t.Errorf("decoded = %+v", back)
	}
}

func TestDecode_Invalid(t *testing.T) {
	for _, body := range []string{"", "not json", `{"courseId":"1"}`} {
		if _, err := decode([]byte(body)); err == nil {
			t.Errorf("decode(%q) should fail", body)
		}
	}
}

func TestNop(t *testing.T) {
	var bus Bus = Nop{}
	if err := bus.Publish(context.Background(), Event{Kind: Created}); err != nil {
		t.Errorf("Publish = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Nop should never deliver an event")
		}
	case <-time.After(time.Second):
		t.Error("subscription was not closed after cancel")
	}
}

func TestOpen_Disabled(t *testing.T) {
	bus, err := Open(config.EventsConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := bus.(Nop); !ok {
		t.Errorf("expected Nop, got %T", bus)
	}
}
