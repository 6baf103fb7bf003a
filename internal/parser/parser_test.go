package parser

import (
	"os"
	"testing"

	"github.com/qppgateway/api/internal/artifact"
	"github.com/qppgateway/api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestReadStateVector(t *testing.T) {
	set := artifact.PathsFor(t.TempDir(), "job")
	writeArtifact(t, set.StatePath(), "0.707107 0\n0 -0.707107\n\n0.5   0.5\n")

	sv, err := ReadStateVector(set.StatePath())
	require.NoError(t, err)
	require.Len(t, sv, 3)
	assert.Equal(t, complex(float32(0.707107), float32(0)), sv[0])
	assert.Equal(t, complex(float32(0), float32(-0.707107)), sv[1])
	assert.Equal(t, complex(float32(0.5), float32(0.5)), sv[2])

	probs := sv.Probabilities()
	assert.InDelta(t, 0.5, probs[0], 1e-6)
	assert.InDelta(t, 0.5, probs[1], 1e-6)
	assert.InDelta(t, 0.5, probs[2], 1e-6)
}

func TestReadStateVector_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"single token", "0.5 0.5\n1.0\n", "job.state:2: expected 2 values, got 1"},
		{"three tokens", "0.5 0.5 0.1\n", "job.state:1: expected 2 values, got 3"},
		{"non numeric real", "abc 0\n", `job.state:1: invalid real part "abc"`},
		{"non numeric imaginary", "0 1,5\n", `job.state:1: invalid imaginary part "1,5"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := artifact.PathsFor(t.TempDir(), "job")
			writeArtifact(t, set.StatePath(), tt.content)

			_, err := ReadStateVector(set.StatePath())
			require.Error(t, err)
			assert.Equal(t, model.ErrorKindParse, model.KindOf(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestReadStateVector_Missing(t *testing.T) {
	set := artifact.PathsFor(t.TempDir(), "job")

	_, err := ReadStateVector(set.StatePath())
	require.Error(t, err)
	assert.Equal(t, model.ErrorKindIO, model.KindOf(err))
}

func TestReadDensityMatrix(t *testing.T) {
	set := artifact.PathsFor(t.TempDir(), "job")
	writeArtifact(t, set.StatePath(), "0.5 0 0 0.5\n0 -0.5 0.5 0\n")

	dm, err := ReadDensityMatrix(set.StatePath())
	require.NoError(t, err)
	require.Len(t, dm, 2)
	assert.Equal(t, []model.Complex{complex(0.5, 0), complex(0, 0.5)}, dm[0])
	assert.Equal(t, []model.Complex{complex(0, -0.5), complex(0.5, 0)}, dm[1])
	assert.Equal(t, []float32{0.5, 0.5}, dm.Probabilities())
}

func TestReadDensityMatrix_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"odd token count", "1 0 0\n", "job.state:1: expected an even number of values, got 3"},
		{"non numeric", "1 0\nx 0\n", `job.state:2: invalid real part "x"`},
		{"not square", "1 0 0 0\n0 0 1 0\n0 0 0 0\n", "job.state:1: density matrix is not square: row has 2 entries, want 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := artifact.PathsFor(t.TempDir(), "job")
			writeArtifact(t, set.StatePath(), tt.content)

			_, err := ReadDensityMatrix(set.StatePath())
			require.Error(t, err)
			assert.Equal(t, model.ErrorKindParse, model.KindOf(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestReadStatistics(t *testing.T) {
	set := artifact.PathsFor(t.TempDir(), "job")
	writeArtifact(t, set.StatsPath(), "0 0 512\n1 1 488\n")

	stats, err := ReadStatistics(set.StatsPath())
	require.NoError(t, err)
	assert.Equal(t, model.Statistics{"00": 512, "11": 488}, stats)
}

func TestReadStatistics_KeyIsDecimalText(t *testing.T) {
	set := artifact.PathsFor(t.TempDir(), "job")
	writeArtifact(t, set.StatsPath(), "01 10 3 7\n")

	stats, err := ReadStatistics(set.StatsPath())
	require.NoError(t, err)
	assert.Equal(t, model.Statistics{"1103": 7}, stats)
}

func TestReadStatistics_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"count only", "42\n", "job.stats:1: expected an outcome and a count, got 1 values"},
		{"negative outcome", "-1 4\n", `job.stats:1: invalid outcome "-1"`},
		{"float count", "0 1.5\n", `job.stats:1: invalid count "1.5"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := artifact.PathsFor(t.TempDir(), "job")
			writeArtifact(t, set.StatsPath(), tt.content)

			_, err := ReadStatistics(set.StatsPath())
			require.Error(t, err)
			assert.Equal(t, model.ErrorKindParse, model.KindOf(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestParse_Dispatch(t *testing.T) {
	set := artifact.PathsFor(t.TempDir(), "job")
	writeArtifact(t, set.StatePath(), "1 0\n0 0\n")
	writeArtifact(t, set.StatsPath(), "0 10\n")

	t.Run("state vector", func(t *testing.T) {
		res, err := Parse(set, &model.Job{Backend: model.BackendStateVector})
		require.NoError(t, err)
		sv, ok := res.(*model.StateVectorResult)
		require.True(t, ok)
		assert.Len(t, sv.State, 2)
		assert.Equal(t, []float32{1, 0}, sv.Probabilities)
	})

	t.Run("density matrix", func(t *testing.T) {
		_, err := Parse(set, &model.Job{Backend: model.BackendDensityMatrix})
		require.Error(t, err, "a 2x1 matrix is not square")
		assert.Equal(t, model.ErrorKindParse, model.KindOf(err))
	})

	t.Run("sampled ignores backend", func(t *testing.T) {
		for _, backend := range model.ValidBackends {
			res, err := Parse(set, &model.Job{Backend: backend, Shots: 10})
			require.NoError(t, err)
			stats, ok := res.(*model.StatisticsResult)
			require.True(t, ok)
			assert.Equal(t, model.Statistics{"0": 10}, stats.Memory)
		}
	})
}
