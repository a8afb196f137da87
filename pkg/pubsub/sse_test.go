package pubsub

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestReplayLastEvent(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	// Publish 3 events before anyone subscribes
	states := []string{"loading", "computing", "ready"}
	for i, state := range states {
		err := pub.Publish("run_status", state, RunStatus{State: state, Step: i + 1, Total: 3})
		if err != nil {
			t.Fatalf("Failed to publish event %d: %v", i+1, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	sub, err := pub.Subscribe(ctx, "run_status")
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	defer sub.Close()

	// Only the most recent event is retained and replayed
	select {
	case event := <-sub.Events():
		if event.Version != 3 {
			t.Errorf("Expected version 3, got %d", event.Version)
		}
		if event.Type != "ready" {
			t.Errorf("Expected type ready, got %s", event.Type)
		}
		t.Logf("Received retained event version %d", event.Version)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for retained event")
	}

	// Verify no more events are replayed
	select {
	case event := <-sub.Events():
		t.Errorf("Received unexpected extra event version %d", event.Version)
	case <-time.After(50 * time.Millisecond):
		// Good, only the last event was retained
	}
}

func TestSubscriberReceivesNewEvents(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	sub, err := pub.Subscribe(ctx, "network")
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	defer sub.Close()

	// Nothing published yet, so nothing is replayed
	select {
	case event := <-sub.Events():
		t.Errorf("Received unexpected replayed event version %d", event.Version)
	case <-time.After(50 * time.Millisecond):
		// Good, no retained event on a fresh topic
	}

	err = pub.Publish("network", "ready", NetworkSummary{Nodes: 12, Edges: 30, Complete: true})
	if err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	select {
	case event := <-sub.Events():
		if event.Version != 1 {
			t.Errorf("Expected version 1, got %d", event.Version)
		}
		t.Logf("Received new event version %d", event.Version)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for new event")
	}
}

func TestMultipleSubscribers(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	sub1, err := pub.Subscribe(ctx, "run_status")
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	defer sub1.Close()

	sub2, err := pub.Subscribe(ctx, "run_status")
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	defer sub2.Close()

	err = pub.Publish("run_status", "computing", RunStatus{State: "computing", Step: 3, Total: 5})
	if err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	for i, sub := range []Subscription{sub1, sub2} {
		select {
		case event := <-sub.Events():
			if event.Type != "computing" {
				t.Errorf("Subscriber %d: expected type computing, got %s", i+1, event.Type)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Subscriber %d: timeout waiting for event", i+1)
		}
	}
}

func TestClosedSubscriberStopsReceiving(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	sub, err := pub.Subscribe(context.Background(), "run_status")
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	sub.Close()

	err = pub.Publish("run_status", "loading", RunStatus{State: "loading", Step: 1, Total: 5})
	if err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	select {
	case event := <-sub.Events():
		t.Errorf("Received event version %d after close", event.Version)
	case <-time.After(50 * time.Millisecond):
		// Good, closed subscription gets nothing
	}
}

func TestPublishAfterClose(t *testing.T) {
	pub := NewSSEPublisher()
	pub.Close()

	if err := pub.Publish("run_status", "loading", RunStatus{}); err == nil {
		t.Error("Expected error publishing to closed publisher")
	}
	if _, err := pub.Subscribe(context.Background(), "run_status"); err == nil {
		t.Error("Expected error subscribing to closed publisher")
	}
}

func TestWriteSSEFormat(t *testing.T) {
	var buf bytes.Buffer

	event := Event{
		Topic:   "run_status",
		Type:    "ready",
		Data:    []byte(`{"state":"ready"}`),
		Version: 7,
	}
	if err := WriteSSE(&buf, event); err != nil {
		t.Fatalf("WriteSSE failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "data: ") {
		t.Errorf("Expected data: prefix, got %q", out)
	}
	if !strings.HasSuffix(out, "\n\n") {
		t.Errorf("Expected double newline terminator, got %q", out)
	}
	if !strings.Contains(out, `"version":7`) {
		t.Errorf("Expected version in payload, got %q", out)
	}
}
