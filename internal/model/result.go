package model

// Complex is a single-precision amplitude (real, imaginary)
type Complex = complex64

// StateVector holds one amplitude per basis index, in basis order
type StateVector []Complex

// Probabilities returns |amplitude|² for every basis index
func (sv StateVector) Probabilities() []float32 {
	probs := make([]float32, len(sv))
	for i, a := range sv {
		re, im := real(a), imag(a)
		probs[i] = re*re + im*im
	}
	return probs
}

// DensityMatrix holds the matrix rows in order. It is always square.
type DensityMatrix [][]Complex

// Probabilities returns the real part of each diagonal entry
func (dm DensityMatrix) Probabilities() []float32 {
	probs := make([]float32, len(dm))
	for i, row := range dm {
		if i < len(row) {
			probs[i] = real(row[i])
		}
	}
	return probs
}

// Statistics maps a measured outcome key to its occurrence count
type Statistics map[string]uint64

// SimulationResult is one of StateVectorResult, DensityMatrixResult or
// StatisticsResult
type SimulationResult interface {
	isSimulationResult()
}

type StateVectorResult struct {
	State         StateVector
	Probabilities []float32
}

type DensityMatrixResult struct {
	Matrix        DensityMatrix
	Probabilities []float32
}

type StatisticsResult struct {
	Memory Statistics
}

func (*StateVectorResult) isSimulationResult()   {}
func (*DensityMatrixResult) isSimulationResult() {}
func (*StatisticsResult) isSimulationResult()    {}

// NewStateVectorResult derives the probabilities of sv
func NewStateVectorResult(sv StateVector) *StateVectorResult {
	return &StateVectorResult{State: sv, Probabilities: sv.Probabilities()}
}

// NewDensityMatrixResult derives the diagonal probabilities of dm
func NewDensityMatrixResult(dm DensityMatrix) *DensityMatrixResult {
	return &DensityMatrixResult{Matrix: dm, Probabilities: dm.Probabilities()}
}
