package events_test

import (
	"testing"

	"github.com/subaquatic-pierre/nebula/foundation/events"
)

func TestEvents(t *testing.T) {
	evts := events.New()

	a := evts.Acquire("a")
	b := evts.Acquire("b")

	if again := evts.Acquire("a"); again != a {
		t.Fatal("expected the same channel for the same id")
	}

	evts.Send("block mined")

	for name, ch := range map[string]<-chan string{"a": a, "b": b} {
		if msg := <-ch; msg != "block mined" {
			t.Fatalf("listener %s: got %q", name, msg)
		}
	}

	if err := evts.Release("a"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, open := <-a; open {
		t.Fatal("expected a released channel to be closed")
	}
	if err := evts.Release("a"); err == nil {
		t.Fatal("expected an error releasing an unknown id")
	}

	evts.Shutdown()
	if _, open := <-b; open {
		t.Fatal("expected shutdown to close all channels")
	}
	if n := evts.Count(); n != 0 {
		t.Fatalf("expected no listeners after shutdown, got %d", n)
	}

	late := evts.Acquire("late")
	if _, open := <-late; open {
		t.Fatal("expected a closed channel after shutdown")
	}
}

func TestSendDoesNotBlock(t *testing.T) {
	evts := events.New()
	evts.Acquire("slow")

	for i := 0; i < 1000; i++ {
		evts.Send("tick")
	}
}
