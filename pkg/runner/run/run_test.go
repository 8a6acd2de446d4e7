package run

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/inkpad/pkg/display"
	"tableflip.dev/inkpad/pkg/key"
	"tableflip.dev/inkpad/pkg/store"
)

func testSettings() *store.Settings {
	return &store.Settings{
		Extension:  ".txt",
		Width:      400,
		Height:     300,
		Quiet:      5 * time.Millisecond,
		MinRefresh: time.Millisecond,
		Flush:      10 * time.Millisecond,
		FnHold:     time.Second,
		Status:     time.Second,
	}
}

func TestAssembledDeviceEditsAndQuits(t *testing.T) {
	mem := store.NewMemory()
	if err := mem.Write("a.txt", ""); err != nil {
		t.Fatal(err)
	}
	rec := &display.Recorder{}
	keys := key.NewChannel(64)

	dev, err := Assemble(testSettings(), mem, rec, keys)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- dev.Run(context.Background()) }()

	keys.Tap(key.Named(key.KindEnter), 0)
	keys.Tap(key.Char('h'), key.ModShift)
	keys.Tap(key.Char('i'), 0)
	keys.Tap(key.Char('o'), key.ModCtrl)
	keys.Tap(key.Named(key.KindEsc), 0)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("device did not power off")
	}

	got, err := mem.Read("a.txt")
	if err != nil || got != "Hi" {
		t.Fatalf("a.txt = %q, %v", got, err)
	}
	shot, ok := rec.Last()
	if !ok || !shot.Frame.Contains("inkpad") {
		t.Fatal("expected the splash on power off")
	}
}

func TestAssembleNeedsStore(t *testing.T) {
	if _, err := Assemble(testSettings(), nil, &display.Recorder{}, key.NewChannel(1)); err == nil {
		t.Fatal("expected an error without persistence")
	}
}

func TestDoNeedsTerminal(t *testing.T) {
	// go test runs with stdout on a pipe.
	r := &Run{Settings: testSettings(), Persistence: store.NewMemory()}
	if err := r.Do(context.Background()); !errors.Is(err, ErrNoTerminal) {
		t.Fatalf("expected ErrNoTerminal, got %v", err)
	}
}
