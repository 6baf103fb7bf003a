package model

import "time"

// SubmitRequest is the form-encoded submission accepted by POST /submit.
// An empty circuit is passed through to the simulator. JobID lets a client
// pick the identifier up front so it can subscribe to the job's events
// before submitting.
type SubmitRequest struct {
	Qasm    string  `form:"qasm"`
	Shots   *uint32 `form:"shots" validate:"required"`
	Backend Backend `form:"backend" validate:"required,oneof=sv dm"`
	JobID   string  `form:"job_id" validate:"omitempty,uuid"`
}

// Job is a single simulation run. It is immutable once created.
type Job struct {
	ID        string
	Circuit   string
	Shots     uint32
	Backend   Backend
	UserID    string // empty when auth is disabled
	CreatedAt time.Time
}

// NewJob builds a job for the given identifier from a validated request
func NewJob(id, userID string, req *SubmitRequest) *Job {
	var shots uint32
	if req.Shots != nil {
		shots = *req.Shots
	}
	return &Job{
		ID:        id,
		Circuit:   req.Qasm,
		Shots:     shots,
		Backend:   req.Backend,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
}

// Sampled reports whether the job asks for shot statistics instead of
// an analytic state
func (j *Job) Sampled() bool {
	return j.Shots > 0
}
