// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs a list of work items on a worker goroutine and reports
// progress as a stream of events. The caller owns no shared state with the
// worker: it reads events until the channel closes and keeps whatever it
// needs from the last one.
package batch

import (
	"context"
)

// EventKind distinguishes the events a run emits.
type EventKind int

const (
	// EventLog carries one status line for an item.
	EventLog EventKind = iota
	// EventProgress reports a successfully processed item.
	EventProgress
	// EventDone is the final event of a run.
	EventDone
)

// Event is one message from the worker.
type Event struct {
	Kind EventKind

	// Message is the status line for EventLog.
	Message string

	// Processed counts successfully processed items so far. It never
	// decreases over a run.
	Processed int

	// Failed counts items whose function returned an error.
	Failed int

	// Skipped counts items reported as skipped.
	Skipped int

	// Total is the number of items in the run.
	Total int

	// Cancelled is set on EventDone when the run stopped before the last item.
	Cancelled bool
}

// Outcome is what a work function reports for one item.
type Outcome struct {
	// Message is the log line for the item.
	Message string
	// Skipped marks an item that needed no work. It is logged but not
	// counted as processed.
	Skipped bool
}

// Func processes one item. A returned error is logged, using the outcome's
// message when one is set, and the run continues with the next item. The
// context passed to a Func keeps the run's values but is never cancelled, so
// an item in progress always completes.
type Func[T any] func(ctx context.Context, item T) (Outcome, error)

// Run starts a worker that calls fn for each item in order and returns the
// event stream. Cancellation is checked between items, never during one. The
// channel receives a final EventDone and is then closed.
func Run[T any](ctx context.Context, items []T, fn Func[T]) <-chan Event {
	events := make(chan Event, 16)

	go func() {
		defer close(events)

		var processed, failed, skipped int
		total := len(items)
		for _, item := range items {
			if ctx.Err() != nil {
				events <- Event{Kind: EventDone, Processed: processed, Failed: failed, Skipped: skipped, Total: total, Cancelled: true}
				return
			}

			out, err := fn(context.WithoutCancel(ctx), item)
			if err != nil {
				failed++
				msg := out.Message
				if msg == "" {
					msg = err.Error()
				}
				events <- Event{Kind: EventLog, Message: msg, Processed: processed, Failed: failed, Skipped: skipped, Total: total}
				continue
			}
			if out.Skipped {
				skipped++
			} else {
				processed++
			}
			if out.Message != "" {
				events <- Event{Kind: EventLog, Message: out.Message, Processed: processed, Failed: failed, Skipped: skipped, Total: total}
			}
			if !out.Skipped {
				events <- Event{Kind: EventProgress, Processed: processed, Failed: failed, Skipped: skipped, Total: total}
			}
		}
		events <- Event{Kind: EventDone, Processed: processed, Failed: failed, Skipped: skipped, Total: total}
	}()

	return events
}

// Drain reads events until the channel closes, passing each to handle, and
// returns the final event.
func Drain(events <-chan Event, handle func(Event)) Event {
	var last Event
	for ev := range events {
		if handle != nil {
			handle(ev)
		}
		last = ev
	}
	return last
}
