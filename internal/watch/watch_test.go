package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func collect(t *testing.T, w *Watcher, wait time.Duration) []Event {
	t.Helper()
	var events []Event
	deadline := time.After(wait)
	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-deadline:
			return events
		}
	}
}

func TestWatcher_DebouncesWriteBurst(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{dir}, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("creating watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	path := filepath.Join(dir, "SKILL.md")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	events := collect(t, w, 500*time.Millisecond)

	count := 0
	for _, ev := range events {
		if ev.Path == path {
			count++
		}
	}
	if count == 0 {
		t.Fatal("expected at least one event for the written file")
	}
	if count > 2 {
		t.Errorf("expected write burst coalesced, got %d events", count)
	}
}

func TestWatcher_PicksUpNewDirectories(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{dir}, 30*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	sub := filepath.Join(dir, "skills")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(sub, "SKILL.md")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	events := collect(t, w, 500*time.Millisecond)
	found := false
	for _, ev := range events {
		if ev.Path == path {
			found = true
		}
	}
	if !found {
		t.Errorf("expected event for file in new subdirectory, got %v", events)
	}
}

func TestWatcher_CancelWithPendingTimer(t *testing.T) {
	// A debounce timer armed just before shutdown must not fire into the
	// closed event channel; a stray send here panics the whole process.
	for i := 0; i < 20; i++ {
		dir := t.TempDir()
		w, err := New([]string{dir}, 20*time.Millisecond)
		if err != nil {
			t.Fatal(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			w.Run(ctx)
			close(done)
		}()

		// Arm a timer, then cancel before the debounce elapses.
		if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
		cancel()
		<-done

		// Wait past the debounce window so a leaked timer would fire now.
		time.Sleep(50 * time.Millisecond)

		// The channel must be closed, possibly after buffered events.
		for range w.Events() {
		}
	}
}

func TestWatcher_MissingRootSkipped(t *testing.T) {
	w, err := New([]string{filepath.Join(t.TempDir(), "nope")}, 0)
	if err != nil {
		t.Fatalf("missing root should not error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
