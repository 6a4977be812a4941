// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "time"

// EventKind tags a progress event.
type EventKind string

const (
	// EventStageStarted fires when a pipeline stage begins.
	EventStageStarted EventKind = "stage_started"

	// EventStageCompleted fires when a pipeline stage finishes, with the
	// surviving candidate count.
	EventStageCompleted EventKind = "stage_completed"

	// EventRunCompleted fires once per run, after the result is frozen.
	EventRunCompleted EventKind = "run_completed"
)

// Event is one progress notification. The pipeline stays decoupled from any
// transport: callers subscribe with a channel and forward events wherever
// they like.
type Event struct {
	Kind  EventKind
	Stage string
	Count int
	At    time.Time
}

// emit sends e without blocking; a slow or absent subscriber never stalls
// the pipeline.
func (r *Runner) emit(kind EventKind, stage string, count int) {
	if r.events == nil {
		return
	}
	select {
	case r.events <- Event{Kind: kind, Stage: stage, Count: count, At: time.Now()}:
	default:
	}
}
