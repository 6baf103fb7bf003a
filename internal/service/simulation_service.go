package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/qppgateway/api/internal/artifact"
	"github.com/qppgateway/api/internal/client"
	"github.com/qppgateway/api/internal/model"
	"github.com/qppgateway/api/internal/parser"
	"github.com/rs/zerolog"
)

// EventPublisher receives every lifecycle transition of a job
type EventPublisher interface {
	PublishJobEvent(ev model.JobEvent)
}

// SimulationService drives a job through its lifecycle:
// intake → written → invoked → parsed → cleaned_up, with errored
// reachable from every step. Artifacts are removed on every exit path.
type SimulationService struct {
	workDir string
	runner  client.SimulatorRunner
	events  EventPublisher
	stats   *StatsService
	log     zerolog.Logger

	inflight sync.WaitGroup
	// IDs of running jobs. A client-chosen ID must not collide with one.
	active sync.Map
}

func NewSimulationService(workDir string, runner client.SimulatorRunner, events EventPublisher, stats *StatsService, log zerolog.Logger) *SimulationService {
	return &SimulationService{
		workDir: workDir,
		runner:  runner,
		events:  events,
		stats:   stats,
		log:     log,
	}
}

// NewJob builds a job from a validated submission, keeping the
// client-chosen identifier when there is one
func (s *SimulationService) NewJob(userID string, req *model.SubmitRequest) *model.Job {
	id := req.JobID
	if id == "" {
		id = artifact.NewJobID()
	}
	return model.NewJob(id, userID, req)
}

// Run executes job synchronously and returns its parsed result. Every
// error is a *model.JobError.
func (s *SimulationService) Run(ctx context.Context, job *model.Job) (res model.SimulationResult, err error) {
	s.inflight.Add(1)
	defer s.inflight.Done()

	// Claimed before anything is published or written so a duplicate never
	// touches the running job's events or artifacts
	if _, running := s.active.LoadOrStore(job.ID, struct{}{}); running {
		return nil, model.NewRequestError(fmt.Sprintf("job %s is already running", job.ID), nil)
	}
	defer s.active.Delete(job.ID)

	set := artifact.PathsFor(s.workDir, job.ID)
	logger := s.log.With().
		Str("job_id", job.ID).
		Str("backend", string(job.Backend)).
		Uint32("shots", job.Shots).
		Str("user_id", job.UserID).
		Logger()

	s.publish(job.ID, model.JobStateIntake, nil)
	start := time.Now()

	defer func() {
		if recordErr := s.stats.Record(context.WithoutCancel(ctx), err); recordErr != nil {
			logger.Warn().Err(recordErr).Msg("job outcome not recorded")
		}
		if err != nil {
			logger.Error().Err(err).Str("kind", string(model.KindOf(err))).Dur("elapsed", time.Since(start)).Msg("job failed")
			s.publish(job.ID, model.JobStateErrored, err)
			return
		}
		logger.Info().Dur("elapsed", time.Since(start)).Msg("job completed")
		s.publish(job.ID, model.JobStateCleanedUp, nil)
	}()

	// Runs before the deferred outcome handling above, whatever happens
	// below. A write that fails half way still leaves a file behind.
	defer s.cleanup(set, logger)

	if err := artifact.WriteCircuit(set.CircuitPath, job.Circuit); err != nil {
		return nil, err
	}
	s.publish(job.ID, model.JobStateWritten, nil)

	outcome, err := s.runner.Run(ctx, &client.Invocation{
		CircuitPath: set.CircuitPath,
		OutputBase:  set.OutputBase,
		Shots:       job.Shots,
		Backend:     job.Backend,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("exit_code", outcome.ExitCode).Dur("duration", outcome.Duration).Msg("simulator finished")
	if err := outcome.Failure(); err != nil {
		return nil, err
	}
	s.publish(job.ID, model.JobStateInvoked, nil)

	res, err = parser.Parse(set, job)
	if err != nil {
		return nil, err
	}
	s.publish(job.ID, model.JobStateParsed, nil)

	return res, nil
}

// Wait blocks until every running job has returned and removed its
// artifacts
func (s *SimulationService) Wait() {
	s.inflight.Wait()
}

func (s *SimulationService) cleanup(set artifact.Set, logger zerolog.Logger) {
	if err := artifact.Remove(set); err != nil {
		logger.Warn().Err(err).Msg("failed to remove job artifacts")
	}
}

func (s *SimulationService) publish(jobID string, state model.JobState, err error) {
	if s.events == nil {
		return
	}
	s.events.PublishJobEvent(model.NewJobEvent(jobID, state, err))
}
