package client

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/qppgateway/api/internal/config"
	"github.com/qppgateway/api/internal/model"
)

// maxStderr is how much of the simulator's stderr is kept. Only the tail
// survives, which is where the error usually is.
const maxStderr = 64 * 1024

// waitDelay bounds how long Wait keeps draining pipes after the process
// has been killed
const waitDelay = 5 * time.Second

// SimulatorRunner defines the interface for running the external simulator
type SimulatorRunner interface {
	Run(ctx context.Context, inv *Invocation) (*ExitOutcome, error)
	Available() bool
}

// Invocation holds the parameters of a single simulator run
type Invocation struct {
	CircuitPath string
	OutputBase  string
	Shots       uint32
	Backend     model.Backend
}

// ExitOutcome is what a finished simulator process reported
type ExitOutcome struct {
	// ExitCode is -1 when the process was terminated by a signal
	ExitCode int
	Stderr   string
	Duration time.Duration
}

// Success reports a zero exit status
func (o *ExitOutcome) Success() bool {
	return o.ExitCode == 0
}

// Failure converts an unsuccessful outcome into a simulator failure, or
// returns nil on success
func (o *ExitOutcome) Failure() error {
	if o.Success() {
		return nil
	}
	stderr := strings.TrimSpace(o.Stderr)
	if o.ExitCode < 0 {
		return model.NewSimulatorFailure(fmt.Sprintf("simulator exited with unknown status: %s", stderr))
	}
	return model.NewSimulatorFailure(fmt.Sprintf("simulator exited with code %d: %s", o.ExitCode, stderr))
}

// backendArgs maps a backend to the tag the simulator expects
var backendArgs = map[model.Backend]string{
	model.BackendStateVector:   "sv",
	model.BackendDensityMatrix: "dm",
}

// SimulatorClient implements SimulatorRunner by spawning the simulator
// binary once per invocation
type SimulatorClient struct {
	binary  string
	timeout time.Duration
}

// NewSimulatorClient creates a new simulator client
func NewSimulatorClient(cfg *config.SimulatorConfig) *SimulatorClient {
	return &SimulatorClient{
		binary:  cfg.Binary,
		timeout: cfg.TimeoutDuration(),
	}
}

// Args builds the command line for inv
func Args(inv *Invocation) ([]string, error) {
	if !inv.Backend.IsValid() {
		return nil, model.NewRequestError(fmt.Sprintf("unsupported backend %q", inv.Backend), nil)
	}
	tag := backendArgs[inv.Backend]
	return []string{
		"-s", strconv.FormatUint(uint64(inv.Shots), 10),
		"-f", inv.CircuitPath,
		"--simulator", tag,
		"-o", inv.OutputBase,
	}, nil
}

// Run starts the simulator and blocks until it exits, the timeout expires
// or ctx is cancelled. A returned error means the process could not be
// started or did not finish; a finished process is always reported
// through the outcome, whatever its exit status.
func (c *SimulatorClient) Run(ctx context.Context, inv *Invocation) (*ExitOutcome, error) {
	args, err := Args(inv)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.binary, args...)
	setProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	stderr := newTailBuffer(maxStderr)
	cmd.Stderr = stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, model.NewIoError("failed to run program", err)
	}

	err = cmd.Wait()
	outcome := &ExitOutcome{
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return nil, model.NewSimulatorFailure(fmt.Sprintf("simulator timed out after %s", c.timeout))
			}
			return nil, model.NewSimulatorFailure("simulator run cancelled")
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, model.NewIoError("failed to run program", err)
		}
		outcome.ExitCode = exitErr.ExitCode()
	}

	return outcome, nil
}

// Available reports whether the simulator binary can be resolved
func (c *SimulatorClient) Available() bool {
	_, err := exec.LookPath(c.binary)
	return err == nil
}
