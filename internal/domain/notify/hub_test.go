package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestPublishDeliversToConnectedUser(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	userID := uuid.New()
	conn := &Connection{UserID: userID, Send: make(chan []byte, 8)}
	hub.Register(conn)
	waitFor(t, func() bool { return hub.IsOnline(userID) })

	hub.Publish(context.Background(), userID, "booking.confirmed", map[string]string{"id": "b1"})

	select {
	case data := <-conn.Send:
		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("delivered frame is not valid JSON: %v", err)
		}
		if event.Type != "booking.confirmed" {
			t.Errorf("event type = %q, want booking.confirmed", event.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered")
	}
}

func TestPublishSkipsOtherUsers(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	userID := uuid.New()
	conn := &Connection{UserID: userID, Send: make(chan []byte, 8)}
	hub.Register(conn)
	waitFor(t, func() bool { return hub.IsOnline(userID) })

	hub.Publish(context.Background(), uuid.New(), "booking.created", nil)

	select {
	case <-conn.Send:
		t.Fatal("event delivered to wrong user")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPublishDuringConnectionChurn(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	userID := uuid.New()

	// Publishing must stay safe while the same user connects and
	// disconnects; run with -race to verify.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			conn := &Connection{UserID: userID, Send: make(chan []byte, 1)}
			hub.Register(conn)
			hub.Unregister(conn)
		}
	}()

	for i := 0; i < 200; i++ {
		hub.Publish(context.Background(), userID, "booking.created", nil)
	}
	<-done
}

func TestUnregisterClosesSendAndClearsPresence(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	userID := uuid.New()
	conn := &Connection{UserID: userID, Send: make(chan []byte, 8)}
	hub.Register(conn)
	waitFor(t, func() bool { return hub.IsOnline(userID) })

	hub.Unregister(conn)
	waitFor(t, func() bool { return !hub.IsOnline(userID) })

	if _, open := <-conn.Send; open {
		t.Error("send channel still open after unregister")
	}
	if hub.ConnectionCount() != 0 {
		t.Errorf("connection count = %d, want 0", hub.ConnectionCount())
	}
}
