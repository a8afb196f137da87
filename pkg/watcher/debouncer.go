package watcher

import (
	"context"
	"time"

	"github.com/ritzau/netgraph/pkg/logging"
)

// Debouncer batches rapid file system events to avoid re-running the
// analysis once per write while a file is being saved. A burst of
// changes produces a single output event after quietPeriod of silence,
// or after maxWait if the burst never goes quiet.
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a new event debouncer
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 10),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins processing events with debouncing
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

// run processes events and applies debouncing logic
func (d *Debouncer) run(ctx context.Context) {
	// Both timers start stopped; they are armed when a burst begins
	quiet := time.NewTimer(time.Hour)
	quiet.Stop()
	maxWait := time.NewTimer(time.Hour)
	maxWait.Stop()
	defer quiet.Stop()
	defer maxWait.Stop()

	var pending *ChangeEvent
	count := 0

	flush := func() {
		if pending == nil {
			return
		}

		logging.Debug("flushing accumulated changes", "count", count)
		d.output <- *pending
		pending = nil
		count = 0

		quiet.Stop()
		maxWait.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			close(d.output)
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				close(d.output)
				return
			}

			// First event of a burst arms the max wait cap
			if pending == nil {
				maxWait.Reset(d.maxWait)
			}

			e := event
			pending = &e
			count++

			quiet.Reset(d.quietPeriod)

		case <-quiet.C:
			flush()

		case <-maxWait.C:
			flush()
		}
	}
}

// Output returns the channel of debounced events
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}
