package model

import (
	"errors"
	"time"
)

// WebSocket message types
const (
	WSMessageTypeJobState = "job_state"
	WSMessageTypePing     = "ping"
	WSMessageTypePong     = "pong"
)

// WSMessage represents a generic WebSocket message
type WSMessage struct {
	Type string `json:"type"`
}

// JobEvent is published on every lifecycle transition. Final marks the
// last event of a job.
type JobEvent struct {
	Type      string    `json:"type"`
	JobID     string    `json:"jobId"`
	State     JobState  `json:"state"`
	Final     bool      `json:"final"`
	Error     *WSError  `json:"error,omitempty"`
	Timestamp time.Time `json:"ts"`
}

// WSError represents error details
type WSError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// NewJobEvent builds a state event. err is attached only when non-nil.
func NewJobEvent(jobID string, state JobState, err error) JobEvent {
	ev := JobEvent{
		Type:      WSMessageTypeJobState,
		JobID:     jobID,
		State:     state,
		Final:     state.IsTerminal(),
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		msg := err.Error()
		var jobErr *JobError
		if errors.As(err, &jobErr) {
			msg = jobErr.Message
		}
		ev.Error = &WSError{Kind: KindOf(err), Message: msg}
	}
	return ev
}
