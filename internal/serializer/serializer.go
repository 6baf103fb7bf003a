// Package serializer renders simulation results into their response shapes.
package serializer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/qppgateway/api/internal/model"
)

// Render maps a result to its wire shape. Unknown results render as an
// empty object.
func Render(res model.SimulationResult) interface{} {
	switch r := res.(type) {
	case *model.StateVectorResult:
		return renderState(r)
	case *model.DensityMatrixResult:
		return renderDensityMatrix(r)
	case *model.StatisticsResult:
		return renderStatistics(r)
	default:
		return struct{}{}
	}
}

func renderState(r *model.StateVectorResult) *model.StateResponse {
	state := make(map[string]model.AmplitudeEntry, len(r.State))
	for i, amp := range r.State {
		state[strconv.Itoa(i)] = model.AmplitudeEntry{
			Real:        formatFloat(real(amp)),
			Imaginary:   formatFloat(imag(amp)),
			Probability: formatFloat(probabilityAt(r.Probabilities, i)),
		}
	}
	return &model.StateResponse{State: state}
}

func renderDensityMatrix(r *model.DensityMatrixResult) *model.DensityMatrixResponse {
	rows := make(map[string]model.RowEntry, len(r.Matrix))
	for i, row := range r.Matrix {
		rows[strconv.Itoa(i)] = model.RowEntry{
			Row:         FormatRow(row),
			Probability: formatFloat(probabilityAt(r.Probabilities, i)),
		}
	}
	return &model.DensityMatrixResponse{DensityMatrix: rows}
}

func renderStatistics(r *model.StatisticsResult) *model.MemoryResponse {
	memory := make(map[string]uint64, len(r.Memory))
	for k, v := range r.Memory {
		memory[k] = v
	}
	return &model.MemoryResponse{Memory: memory}
}

// FormatRow renders a matrix row as debug text, e.g. "[(0.5+0i) (0-0.5i)]"
func FormatRow(row []model.Complex) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, c := range row {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprint(&b, c)
	}
	b.WriteByte(']')
	return b.String()
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', 6, 32)
}

func probabilityAt(probs []float32, i int) float32 {
	if i < len(probs) {
		return probs[i]
	}
	return 0
}
