package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	old := logger
	logger = slog.New(NewCompactHandler(&buf, nil))
	defer func() { logger = old }()

	New("watcher").Info("started", "path", "edges.csv")

	line := buf.String()
	if !strings.Contains(line, "component=watcher") {
		t.Errorf("Expected component tag in output, got %q", line)
	}
	if !strings.Contains(line, "path=edges.csv") {
		t.Errorf("Expected call-site attributes after the tag, got %q", line)
	}
}

func TestNewKeepsLevel(t *testing.T) {
	var buf bytes.Buffer
	old := logger
	logger = slog.New(NewCompactHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	defer func() { logger = old }()

	log := New("web")
	log.Info("should be dropped")
	log.Warn("should be kept")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Errorf("Expected component logger to keep the handler level, got %q", out)
	}
	if !strings.Contains(out, "should be kept") {
		t.Errorf("Expected warn line in output, got %q", out)
	}
}
