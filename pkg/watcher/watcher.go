package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/netgraph/pkg/logging"
)

// ChangeEvent represents a change to the watched input file
type ChangeEvent struct {
	Path      string
	Op        fsnotify.Op
	Timestamp time.Time
}

// InputWatcher watches an edge list file for changes. The parent
// directory is watched rather than the file itself, so the watch
// survives editors that save by writing a temp file and renaming it
// over the original.
type InputWatcher struct {
	watcher *fsnotify.Watcher
	input   string // absolute path of the watched file
	events  chan ChangeEvent
	log     *slog.Logger
}

// NewInputWatcher creates a watcher for the given input file
func NewInputWatcher(input string) (*InputWatcher, error) {
	abs, err := filepath.Abs(input)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &InputWatcher{
		watcher: watcher,
		input:   abs,
		events:  make(chan ChangeEvent, 100),
		log:     logging.New("watcher"),
	}, nil
}

// Start begins watching for changes to the input file
func (iw *InputWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(iw.input)
	if err := iw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	iw.log.Info("started watching input file", "path", iw.input)

	go iw.processEvents(ctx)

	return nil
}

// processEvents filters directory events down to the watched file
func (iw *InputWatcher) processEvents(ctx context.Context) {
	defer close(iw.events)

	for {
		select {
		case <-ctx.Done():
			iw.watcher.Close()
			return

		case event, ok := <-iw.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != iw.input {
				continue
			}
			if !event.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove) {
				continue
			}

			iw.log.Debug("input file changed", "op", event.Op.String())
			iw.events <- ChangeEvent{
				Path:      iw.input,
				Op:        event.Op,
				Timestamp: time.Now(),
			}

		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return
			}
			iw.log.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (iw *InputWatcher) Events() <-chan ChangeEvent {
	return iw.events
}

// Stop stops the watcher and closes the events channel
func (iw *InputWatcher) Stop() error {
	return iw.watcher.Close()
}
