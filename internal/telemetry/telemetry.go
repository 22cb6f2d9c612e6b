// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

// package telemetry is the narrow event-recording collaborator. The
// default recorder just writes to the debug log; a real sink can be
// swapped in without touching the callers.
package telemetry

import (
	"time"

	"github.com/google/uuid"

	"github.com/toeirei/bucketpad/internal/logging"
)

// Event is one recorded measurement.
type Event struct {
	ID     string
	Name   string
	Time   time.Time
	Fields map[string]any
}

// NewEvent stamps an event with a unique id and the current time.
func NewEvent(name string, fields map[string]any) Event {
	return Event{
		ID:     uuid.NewString(),
		Name:   name,
		Time:   time.Now().UTC(),
		Fields: fields,
	}
}

// Recorder accepts events. Implementations must be safe for concurrent
// use and must never block the caller on I/O.
type Recorder interface {
	Record(ev Event)
}

// LogRecorder writes events to the diagnostic log.
type LogRecorder struct{}

// Record logs the event at debug level.
func (LogRecorder) Record(ev Event) {
	logging.Debugf("telemetry %s id=%s fields=%v", ev.Name, ev.ID, ev.Fields)
}

// Nop discards all events.
type Nop struct{}

// Record does nothing.
func (Nop) Record(Event) {}
