// Package artifact names and manages the transient files of a job. Every
// file of a job lives under the work directory and is prefixed with the
// job's identifier, so concurrent jobs never share a path.
package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/qppgateway/api/internal/model"
)

const (
	CircuitSuffix = ".qasm"
	StateSuffix   = ".state"
	StatsSuffix   = ".stats"
)

// Set is the deterministic group of paths owned by one job
type Set struct {
	ID          string
	CircuitPath string
	OutputBase  string
}

// NewJobID returns a random 128-bit identifier
func NewJobID() string {
	return uuid.New().String()
}

// PathsFor derives the artifact paths of id inside dir
func PathsFor(dir, id string) Set {
	base := filepath.Join(dir, id)
	return Set{
		ID:          id,
		CircuitPath: base + CircuitSuffix,
		OutputBase:  base,
	}
}

func (s Set) StatePath() string {
	return s.OutputBase + StateSuffix
}

func (s Set) StatsPath() string {
	return s.OutputBase + StatsSuffix
}

// Files lists every path the job may create
func (s Set) Files() []string {
	return []string{s.CircuitPath, s.StatePath(), s.StatsPath()}
}

// WriteCircuit persists the circuit program. The file must not exist yet.
func WriteCircuit(path, text string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return model.NewIoError("failed to save source file", err)
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return model.NewIoError("failed to save source file", err)
	}
	if err := f.Close(); err != nil {
		return model.NewIoError("failed to save source file", err)
	}
	return nil
}

// Remove deletes every artifact of the set. Files that were never
// created are ignored; every other failure is returned joined.
func Remove(s Set) error {
	var errs []error
	for _, path := range s.Files() {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}
