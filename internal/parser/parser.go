// Package parser decodes the simulator's output artifacts into results.
//
// Every artifact is newline-delimited text with whitespace-separated
// numeric tokens. Blank lines are skipped; any other malformed line fails
// the whole artifact with a parse error naming the file and line.
package parser

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/qppgateway/api/internal/artifact"
	"github.com/qppgateway/api/internal/model"
)

// maxLineSize bounds a single line. Density matrix rows grow as 2^(n+1)
// tokens for n qubits.
const maxLineSize = 64 * 1024 * 1024

// Parse reads the artifact the simulator produced for job
func Parse(set artifact.Set, job *model.Job) (model.SimulationResult, error) {
	if job.Sampled() {
		stats, err := ReadStatistics(set.StatsPath())
		if err != nil {
			return nil, err
		}
		return &model.StatisticsResult{Memory: stats}, nil
	}

	switch job.Backend {
	case model.BackendStateVector:
		sv, err := ReadStateVector(set.StatePath())
		if err != nil {
			return nil, err
		}
		return model.NewStateVectorResult(sv), nil
	case model.BackendDensityMatrix:
		dm, err := ReadDensityMatrix(set.StatePath())
		if err != nil {
			return nil, err
		}
		return model.NewDensityMatrixResult(dm), nil
	default:
		return nil, model.NewRequestError("unsupported backend "+strconv.Quote(string(job.Backend)), nil)
	}
}

func ReadStateVector(path string) (model.StateVector, error) {
	var sv model.StateVector
	err := readLines(path, func(name string, line int, fields []string) error {
		if len(fields) != 2 {
			return model.NewParseError(name, line, "expected 2 values, got %d", len(fields))
		}
		c, err := parseComplex(name, line, fields[0], fields[1])
		if err != nil {
			return err
		}
		sv = append(sv, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sv, nil
}

func ReadDensityMatrix(path string) (model.DensityMatrix, error) {
	var (
		dm    model.DensityMatrix
		lines []int
	)
	err := readLines(path, func(name string, line int, fields []string) error {
		if len(fields)%2 != 0 {
			return model.NewParseError(name, line, "expected an even number of values, got %d", len(fields))
		}
		row := make([]model.Complex, 0, len(fields)/2)
		for i := 0; i < len(fields); i += 2 {
			c, err := parseComplex(name, line, fields[i], fields[i+1])
			if err != nil {
				return err
			}
			row = append(row, c)
		}
		dm = append(dm, row)
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	for i, row := range dm {
		if len(row) != len(dm) {
			return nil, model.NewParseError(name, lines[i], "density matrix is not square: row has %d entries, want %d", len(row), len(dm))
		}
	}
	return dm, nil
}

// ReadStatistics decodes "<outcome...> <count>" lines. The outcome
// integers are concatenated as decimal text to form the key.
func ReadStatistics(path string) (model.Statistics, error) {
	stats := make(model.Statistics)
	err := readLines(path, func(name string, line int, fields []string) error {
		if len(fields) < 2 {
			return model.NewParseError(name, line, "expected an outcome and a count, got %d values", len(fields))
		}
		var key strings.Builder
		for _, tok := range fields[:len(fields)-1] {
			v, err := strconv.ParseUint(tok, 10, 64)
			if err != nil {
				return model.NewParseError(name, line, "invalid outcome %q", tok)
			}
			key.WriteString(strconv.FormatUint(v, 10))
		}
		count, err := strconv.ParseUint(fields[len(fields)-1], 10, 64)
		if err != nil {
			return model.NewParseError(name, line, "invalid count %q", fields[len(fields)-1])
		}
		stats[key.String()] = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func parseComplex(name string, line int, re, im string) (model.Complex, error) {
	r, err := strconv.ParseFloat(re, 32)
	if err != nil {
		return 0, model.NewParseError(name, line, "invalid real part %q", re)
	}
	i, err := strconv.ParseFloat(im, 32)
	if err != nil {
		return 0, model.NewParseError(name, line, "invalid imaginary part %q", im)
	}
	return complex(float32(r), float32(i)), nil
}

type lineFunc func(name string, line int, fields []string) error

func readLines(path string, fn lineFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return model.NewIoError("failed to read simulator output", err)
	}
	defer f.Close()
	return scanLines(f, filepath.Base(path), fn)
}

func scanLines(r io.Reader, name string, fn lineFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if err := fn(name, line, fields); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return model.NewIoError("failed to read simulator output "+name, err)
	}
	return nil
}
