package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/inkpad/pkg/store"
)

type persistHarness struct {
	clock    *FakeClock
	activity *Activity
	mem      *store.Memory
	persist  *Persist
}

func newPersistHarness() *persistHarness {
	h := &persistHarness{
		clock:    NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		activity: &Activity{},
		mem:      store.NewMemory(),
	}
	h.persist = NewPersist(h.mem, h.activity, h.clock, PersistConfig{
		Throttle: 2 * time.Second,
		Quiet:    500 * time.Millisecond,
	})
	return h
}

func TestPersistReadsContentAtFlushTime(t *testing.T) {
	h := newPersistHarness()
	ctx := context.Background()
	h.clock.Advance(time.Minute)

	text := ""
	save := func(s store.Sink) error { return s.Write("a.txt", text) }
	for _, c := range "hello" {
		h.activity.Touch(h.clock.Now())
		text += string(c)
		h.persist.Request("a.txt", save)
		h.clock.Advance(100 * time.Millisecond)
		if h.persist.Drain(ctx) {
			t.Fatal("flushed while typing")
		}
	}

	h.clock.Advance(time.Second)
	if !h.persist.Drain(ctx) {
		t.Fatal("expected a flush after typing paused")
	}
	got, err := h.mem.Read("a.txt")
	if err != nil || got != "hello" {
		t.Fatalf("Read = %q, %v", got, err)
	}
	if n := h.mem.WriteCount(); n != 1 {
		t.Fatalf("expected 1 write, got %d", n)
	}
	if len(h.persist.Pending()) != 0 {
		t.Fatal("expected nothing pending")
	}
}

func TestPersistThrottles(t *testing.T) {
	h := newPersistHarness()
	ctx := context.Background()
	h.clock.Advance(time.Minute)

	h.persist.Request("a.txt", Content("a.txt", "one"))
	if !h.persist.Drain(ctx) {
		t.Fatal("expected first flush")
	}
	h.persist.Request("a.txt", Content("a.txt", "two"))
	h.clock.Advance(time.Second)
	if h.persist.Drain(ctx) {
		t.Fatal("flush ran inside the throttle interval")
	}
	h.clock.Advance(time.Second)
	if !h.persist.Drain(ctx) {
		t.Fatal("expected flush after the throttle interval")
	}
	if got, _ := h.mem.Read("a.txt"); got != "two" {
		t.Fatalf("expected latest content, got %q", got)
	}
}

func TestPersistFlushIsForced(t *testing.T) {
	h := newPersistHarness()
	h.activity.Touch(h.clock.Now())
	h.persist.Request("a.txt", Content("a.txt", "now"))
	h.persist.Request("b.txt", Content("b.txt", "too"))

	if err := h.persist.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	for name, want := range map[string]string{"a.txt": "now", "b.txt": "too"} {
		if got, _ := h.mem.Read(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestPersistKeepsFailedSaves(t *testing.T) {
	h := newPersistHarness()
	ctx := context.Background()
	h.clock.Advance(time.Minute)
	disk := errors.New("disk full")
	h.mem.FailWrites(disk)

	var reported []string
	h.persist.OnError = func(name string, err error) {
		if !errors.Is(err, disk) {
			t.Errorf("unexpected error %v", err)
		}
		reported = append(reported, name)
	}

	h.persist.Request("a.txt", Content("a.txt", "keep me"))
	if !h.persist.Drain(ctx) {
		t.Fatal("expected flush attempt")
	}
	if len(reported) != 1 || reported[0] != "a.txt" {
		t.Fatalf("expected a.txt reported, got %v", reported)
	}
	if p := h.persist.Pending(); len(p) != 1 {
		t.Fatalf("failed save should stay pending, got %v", p)
	}

	h.mem.FailWrites(nil)
	if err := h.persist.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got, _ := h.mem.Read("a.txt"); got != "keep me" {
		t.Fatalf("expected retried content, got %q", got)
	}
}

func TestPersistForcedFlushReturnsErrors(t *testing.T) {
	h := newPersistHarness()
	disk := errors.New("disk full")
	h.mem.FailWrites(disk)
	h.persist.Request("a.txt", Content("a.txt", "x"))

	err := h.persist.Flush(context.Background())
	if !errors.Is(err, disk) {
		t.Fatalf("expected disk error, got %v", err)
	}
}

func TestPersistNewerRequestWinsOverRetry(t *testing.T) {
	h := newPersistHarness()
	ctx := context.Background()
	fail := true
	h.persist.Request("a.txt", func(s store.Sink) error {
		if fail {
			// A newer save arrives while this one is being written.
			h.persist.Request("a.txt", Content("a.txt", "newer"))
			return errors.New("flaky")
		}
		return nil
	})
	if err := h.persist.Flush(ctx); err == nil {
		t.Fatal("expected error")
	}
	fail = false
	if err := h.persist.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got, _ := h.mem.Read("a.txt"); got != "newer" {
		t.Fatalf("expected newer content, got %q", got)
	}
}

func TestPersistCancel(t *testing.T) {
	h := newPersistHarness()
	h.persist.Request("a.txt", Content("a.txt", "x"))
	h.persist.Cancel("a.txt")
	if err := h.persist.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if _, err := h.mem.Read("a.txt"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cancelled save was written: %v", err)
	}
}

func TestPersistSaveReplacesPending(t *testing.T) {
	h := newPersistHarness()
	h.persist.Request("a.txt", Content("a.txt", "stale"))
	if err := h.persist.Save(context.Background(), "a.txt", Content("a.txt", "fresh")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(h.persist.Pending()) != 0 {
		t.Fatal("pending save should be dropped")
	}
	if err := h.persist.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got, _ := h.mem.Read("a.txt"); got != "fresh" {
		t.Fatalf("expected fresh content, got %q", got)
	}
}
