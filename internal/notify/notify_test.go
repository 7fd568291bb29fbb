package notify

import (
	"reflect"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestToastExpires(t *testing.T) {
	c := &clock{t: time.Date(2024, 1, 3, 16, 0, 0, 0, time.UTC)}
	n := NewNotifier(WithClock(c.now), WithTTL(2*time.Second))

	if _, ok := n.Current(); ok {
		t.Fatal("fresh notifier has a toast")
	}

	n.Success("Task added")
	toast, ok := n.Current()
	if !ok || toast.Message != "Task added" || toast.Kind != KindSuccess {
		t.Fatalf("Current = %+v, %v", toast, ok)
	}

	c.t = c.t.Add(2 * time.Second)
	if _, ok := n.Current(); ok {
		t.Error("toast still visible after ttl")
	}
}

func TestLatestToastWins(t *testing.T) {
	n := NewNotifier()
	n.Success("first")
	n.Error("second")

	toast, ok := n.Current()
	if !ok || toast.Message != "second" || toast.Kind != KindError {
		t.Fatalf("Current = %+v, %v", toast, ok)
	}

	n.Dismiss()
	if _, ok := n.Current(); ok {
		t.Error("toast survived Dismiss")
	}
}

func TestDesktopForwarding(t *testing.T) {
	var calls [][]string
	run := func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}

	n := NewNotifier(WithRunner(run), WithTTL(time.Second))
	n.Success("quiet")
	if len(calls) != 0 {
		t.Fatalf("desktop disabled but ran %v", calls)
	}

	n = NewNotifier(WithRunner(run), WithTTL(time.Second), WithDesktop(true))
	n.Error("Invalid credentials")

	want := []string{"notify-send", "-u", "critical", "-t", "1000", "-a", "taskboard", "taskboard", "Invalid credentials"}
	if len(calls) != 1 || !reflect.DeepEqual(calls[0], want) {
		t.Fatalf("calls = %v, want [%v]", calls, want)
	}
}
