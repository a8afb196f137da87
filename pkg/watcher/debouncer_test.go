package watcher

import (
	"context"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func changeAt(path string) ChangeEvent {
	return ChangeEvent{Path: path, Op: fsnotify.Write, Timestamp: time.Now()}
}

func TestDebouncerCoalescesBurst(t *testing.T) {
	input := make(chan ChangeEvent, 10)
	d := NewDebouncer(input, 50*time.Millisecond, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// Rapid burst of writes, as an editor saving produces
	for i := 0; i < 5; i++ {
		input <- changeAt("edges.csv")
	}

	select {
	case event := <-d.Output():
		if event.Path != "edges.csv" {
			t.Errorf("Expected edges.csv, got %s", event.Path)
		}
		t.Logf("Received debounced event after burst")
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timeout waiting for debounced event")
	}

	// The burst must produce exactly one event
	select {
	case event := <-d.Output():
		t.Errorf("Received unexpected second event for %s", event.Path)
	case <-time.After(150 * time.Millisecond):
		// Good, burst was coalesced
	}
}

func TestDebouncerMaxWait(t *testing.T) {
	input := make(chan ChangeEvent, 10)
	d := NewDebouncer(input, 150*time.Millisecond, 300*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// Keep writing faster than the quiet period so it never goes quiet
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(60 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				input <- changeAt("edges.csv")
			case <-stop:
				return
			}
		}
	}()
	defer close(stop)

	start := time.Now()
	select {
	case <-d.Output():
		elapsed := time.Since(start)
		if elapsed > 600*time.Millisecond {
			t.Errorf("Expected flush near max wait, took %v", elapsed)
		}
		t.Logf("Max wait flushed after %v", elapsed)
	case <-time.After(time.Second):
		t.Fatal("Timeout: max wait never flushed a continuous burst")
	}
}

func TestDebouncerFlushOnInputClose(t *testing.T) {
	input := make(chan ChangeEvent, 10)
	d := NewDebouncer(input, time.Minute, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	input <- changeAt("edges.csv")
	close(input)

	// Pending event flushes immediately, without waiting out the quiet period
	select {
	case event := <-d.Output():
		if event.Path != "edges.csv" {
			t.Errorf("Expected edges.csv, got %s", event.Path)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timeout waiting for flush on input close")
	}

	if _, ok := <-d.Output(); ok {
		t.Error("Expected output channel to close after input closed")
	}
}

func TestDebouncerFlushOnCancel(t *testing.T) {
	input := make(chan ChangeEvent, 10)
	d := NewDebouncer(input, time.Minute, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	input <- changeAt("edges.csv")

	// Give the debouncer a moment to accumulate before cancelling
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case event := <-d.Output():
		if event.Path != "edges.csv" {
			t.Errorf("Expected edges.csv, got %s", event.Path)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timeout waiting for flush on cancel")
	}
}

func TestDebouncerEmptyCancel(t *testing.T) {
	input := make(chan ChangeEvent)
	d := NewDebouncer(input, time.Minute, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	// No events pending, output just closes
	select {
	case _, ok := <-d.Output():
		if ok {
			t.Error("Expected closed output without events, got an event")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timeout waiting for output close")
	}
}
