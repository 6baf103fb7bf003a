package serializer

import (
	"encoding/json"
	"testing"

	"github.com/qppgateway/api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_State(t *testing.T) {
	sv := model.StateVector{complex(0.6, 0), complex(0, -0.8)}

	out, ok := Render(model.NewStateVectorResult(sv)).(*model.StateResponse)
	require.True(t, ok)

	assert.Equal(t, map[string]model.AmplitudeEntry{
		"0": {Real: "0.600000", Imaginary: "0.000000", Probability: "0.360000"},
		"1": {Real: "0.000000", Imaginary: "-0.800000", Probability: "0.640000"},
	}, out.State)
}

func TestRender_DensityMatrix(t *testing.T) {
	dm := model.DensityMatrix{
		{complex(0.25, 0), complex(0, 0.5)},
		{complex(0, -0.5), complex(0.75, 0)},
	}

	out, ok := Render(model.NewDensityMatrixResult(dm)).(*model.DensityMatrixResponse)
	require.True(t, ok)

	assert.Equal(t, map[string]model.RowEntry{
		"0": {Row: "[(0.25+0i) (0+0.5i)]", Probability: "0.250000"},
		"1": {Row: "[(0-0.5i) (0.75+0i)]", Probability: "0.750000"},
	}, out.DensityMatrix)
}

func TestRender_Statistics(t *testing.T) {
	res := &model.StatisticsResult{Memory: model.Statistics{"00": 510, "11": 490}}

	data, err := json.Marshal(Render(res))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Memory": {"00": 510, "11": 490}}`, string(data))
}

func TestRender_WireShape(t *testing.T) {
	data, err := json.Marshal(Render(model.NewStateVectorResult(model.StateVector{complex(1, 0)})))
	require.NoError(t, err)
	assert.JSONEq(t, `{"State": {"0": {"Real": "1.000000", "Imaginary": "0.000000", "Probability": "1.000000"}}}`, string(data))

	data, err = json.Marshal(Render(model.NewDensityMatrixResult(model.DensityMatrix{{complex(1, 0)}})))
	require.NoError(t, err)
	assert.JSONEq(t, `{"DensityMatrix": {"0": {"Row": "[(1+0i)]", "Probability": "1.000000"}}}`, string(data))
}

func TestRender_Empty(t *testing.T) {
	data, err := json.Marshal(Render(model.NewStateVectorResult(nil)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"State": {}}`, string(data))
}

func TestFormatFloat_Rounding(t *testing.T) {
	assert.Equal(t, "0.333333", formatFloat(float32(1)/3))
	assert.Equal(t, "-0.000000", formatFloat(float32(-1e-9)))
	assert.Equal(t, "0.500000", formatFloat(0.5))
}
