//go:build linux

package notify

import (
	"os"
	"testing"
)

func sessionNotifier(t *testing.T) Notifier {
	t.Helper()
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" {
		t.Skip("no D-Bus session available")
	}
	n, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return n
}

func TestDBusNotifier_ReplaceAndClose(t *testing.T) {
	n := sessionNotifier(t)
	if _, ok := n.(nopNotifier); ok {
		t.Skip("notification server unavailable")
	}

	id, err := n.Notify(Notification{Title: "tabplayer test", Body: "Lesson", Timeout: 1000})
	if err != nil {
		t.Fatalf("Notify() error: %v", err)
	}
	if id == 0 {
		t.Fatal("Notify() returned id=0")
	}

	again, err := n.Notify(Notification{Title: "tabplayer test", Body: "Lesson 2", Timeout: 1000, ReplacesID: id})
	if err != nil {
		t.Fatalf("replacing Notify() error: %v", err)
	}
	if again != id {
		t.Errorf("replacing notification got id=%d, want %d", again, id)
	}

	if err := n.Close(again); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestNopNotifier(t *testing.T) {
	var n Notifier = nopNotifier{}
	id, err := n.Notify(Notification{Title: "ignored"})
	if id != 0 || err != nil {
		t.Errorf("Notify() = %d, %v", id, err)
	}
	if err := n.Close(1); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}
